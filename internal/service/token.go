package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/safebox-auth/internal/models"
	"github.com/pribylovaa/safebox-auth/internal/pkg/log"
)

// refreshTokenType — тег класса refresh-токена в claims.
// Access-токены тега не несут; тег — единственный дискриминатор классов
// в общей схеме подписи.
const refreshTokenType = "refresh"

// tokenClaims — полезная нагрузка обоих классов токенов.
type tokenClaims struct {
	UserID string `json:"userId"`
	Type   string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// generateAccessToken генерирует access-токен (без тега класса).
func (s *Service) generateAccessToken(ctx context.Context, userID uuid.UUID, now time.Time) (string, error) {
	const op = "service.token.generateAccessToken"

	return s.signToken(ctx, op, tokenClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   userID.String(),
		},
	})
}

// generateRefreshToken генерирует refresh-токен (type="refresh").
func (s *Service) generateRefreshToken(ctx context.Context, userID uuid.UUID, now time.Time) (string, error) {
	const op = "service.token.generateRefreshToken"

	return s.signToken(ctx, op, tokenClaims{
		UserID: userID.String(),
		Type:   refreshTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RefreshTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   userID.String(),
		},
	})
}

// issueTokenPair выпускает новую пару access+refresh токенов.
// Чистая криптография: хранилище здесь не трогаем.
func (s *Service) issueTokenPair(ctx context.Context, userID uuid.UUID, now time.Time) (*models.TokenPair, error) {
	const op = "service.token.issueTokenPair"

	accessToken, err := s.generateAccessToken(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := s.generateRefreshToken(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		AccessExpiresAt: now.Add(s.cfg.AccessTokenTTL),
	}, nil
}

// signToken подписывает claims HS256 общим секретом.
func (s *Service) signToken(ctx context.Context, op string, claims tokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		log.From(ctx).Error("token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// validateToken проверяет подпись и срок токена.
// Просрочка и повреждение подписи наружу неразличимы: в обоих случаях
// ErrInvalidToken, чтобы не давать оракул по причине отказа.
func (s *Service) validateToken(tokenStr string) (*tokenClaims, error) {
	const op = "service.token.validateToken"

	token, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Issuer),
	)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}

// validateRefreshToken проверяет токен и тег класса "refresh".
// Валидный access-токен, предъявленный вместо refresh-токена, отклоняется
// той же ErrInvalidToken.
func (s *Service) validateRefreshToken(tokenStr string) (*tokenClaims, error) {
	const op = "service.token.validateRefreshToken"

	claims, err := s.validateToken(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if claims.Type != refreshTokenType {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}
