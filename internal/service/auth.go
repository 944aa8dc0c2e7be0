package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/safebox-auth/internal/models"
	"github.com/pribylovaa/safebox-auth/internal/pkg/log"
	"github.com/pribylovaa/safebox-auth/internal/pkg/redact"
	"github.com/pribylovaa/safebox-auth/internal/storage"
)

// bcryptCost — стоимость bcrypt. Фиксирована: изменение пересчитывает
// только новые хэши, старые продолжают проверяться.
const bcryptCost = 12

// RegisterUser регистрирует нового пользователя и выдаёт первую пару токенов.
// Email сохраняется как передан (без нормализации регистра); дубликат — ErrUserExists.
func (s *Service) RegisterUser(ctx context.Context, email, password, name string) (*AuthResult, error) {
	const op = "service.auth.RegisterUser"

	_, err := s.storage.UserByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUserExists)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserExists)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := s.issueTokenPair(ctx, user.ID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storeSession(ctx, user.ID, pair.RefreshToken, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("user_registered",
		slog.String("user_id", user.ID.String()),
		slog.String("email", redact.Email(user.Email)),
	)

	return &AuthResult{User: user.Public(), Tokens: *pair}, nil
}

// LoginUser выполняет вход по email+пароль.
//
// Логин — жёсткий сброс сессий: все ранее выданные refresh-токены пользователя
// инвалидируются удалением их строк, после чего сохраняется новая сессия.
// Два конкурентных логина одного пользователя гонятся на
// «удалить все — вставить»; в живых остаётся сессия последнего писателя,
// атомарности каждого delete/insert в БД для целостности достаточно.
func (s *Service) LoginUser(ctx context.Context, email, password string) (*AuthResult, error) {
	const op = "service.auth.LoginUser"

	user, err := s.storage.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	now := time.Now().UTC()
	pair, err := s.issueTokenPair(ctx, user.ID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.storage.DeleteSessionsByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storeSession(ctx, user.ID, pair.RefreshToken, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("user_logged_in",
		slog.String("user_id", user.ID.String()),
		slog.String("email", redact.Email(user.Email)),
	)

	return &AuthResult{User: user.Public(), Tokens: *pair}, nil
}

// RefreshToken выпускает новый access-токен по живому refresh-токену.
//
// Двойная проверка намеренна: сначала криптографическая валидность
// (подпись, exp, тег класса), затем наличие строки сессии с тем же значением
// токена И тем же владельцем. Токен может быть валиден криптографически, но
// уже отозван logout'ом или сброшен новым логином — тогда ErrTokenNotFound.
// Сам refresh-токен не ротируется: в ответе то же значение.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error) {
	const op = "service.auth.RefreshToken"

	claims, err := s.validateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	session, err := s.storage.SessionByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if session.UserID != userID {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenNotFound)
	}

	user, err := s.userByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	accessToken, err := s.generateAccessToken(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &AuthResult{
		User: user.Public(),
		Tokens: models.TokenPair{
			AccessToken:     accessToken,
			RefreshToken:    refreshToken,
			AccessExpiresAt: now.Add(s.cfg.AccessTokenTTL),
		},
	}, nil
}

// Logout отзывает сессию по значению refresh-токена.
//
// Токен перед удалением НЕ верифицируется: выйти можно и с просроченным
// refresh-токеном, пока его значение совпадает со строкой сессии. Срок
// проверяется только при Refresh. Ноль удалённых строк — ErrTokenNotFound.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	const op = "service.auth.Logout"

	deleted, err := s.storage.DeleteSessionByToken(ctx, refreshToken)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if deleted == 0 {
		return fmt.Errorf("%s: %w", op, ErrTokenNotFound)
	}

	return nil
}

// storeSession сохраняет refresh-токен как новую сессию со сроком now+sessionTTL.
func (s *Service) storeSession(ctx context.Context, userID uuid.UUID, refreshToken string, now time.Time) error {
	const op = "service.auth.storeSession"

	session := &models.Session{
		ID:           uuid.New(),
		UserID:       userID,
		RefreshToken: refreshToken,
		CreatedAt:    now,
		ExpiresAt:    now.Add(sessionTTL),
	}

	if err := s.storage.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// userByID возвращает пользователя, по возможности из кэша.
// В кэше лежат только публичные поля; промахи и сбои кэша не фатальны.
func (s *Service) userByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "service.auth.userByID"

	lg := log.From(ctx)

	if s.ucache != nil {
		user, ok, err := s.ucache.Get(ctx, id)
		if err != nil {
			lg.Warn("user_cache_get_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		} else if ok {
			return user, nil
		}
	}

	user, err := s.storage.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.ucache != nil {
		if err := s.ucache.Set(ctx, user, userCacheTTL); err != nil {
			lg.Warn("user_cache_set_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}
	}

	return user, nil
}

// hashPassword хэширует пароль с помощью bcrypt.
func hashPassword(password string) (string, error) {
	const op = "service.auth.hashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем; несовпадение — false, не ошибка.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
