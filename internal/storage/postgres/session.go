package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pribylovaa/safebox-auth/internal/models"
	"github.com/pribylovaa/safebox-auth/internal/storage"
)

// SaveSession сохраняет новую сессию в БД.
func (s *Storage) SaveSession(ctx context.Context, session *models.Session) error {
	const op = "storage.postgres.SaveSession"

	query := `
        INSERT INTO sessions(id, user_id, refresh_token, created_at, expires_at)
        VALUES ($1, $2, $3, $4, $5)
    `

	_, err := s.db.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.RefreshToken,
		session.CreatedAt,
		session.ExpiresAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SessionByToken находит сессию по значению refresh-токена.
func (s *Storage) SessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	const op = "storage.postgres.SessionByToken"

	query := `
        SELECT id, user_id, refresh_token, created_at, expires_at
        FROM sessions
        WHERE refresh_token = $1
    `

	var session models.Session
	err := s.db.QueryRow(ctx, query, refreshToken).Scan(
		&session.ID,
		&session.UserID,
		&session.RefreshToken,
		&session.CreatedAt,
		&session.ExpiresAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &session, nil
}

// DeleteSessionByToken удаляет сессию по значению refresh-токена.
// Возвращает число удалённых строк; ноль — не ошибка.
func (s *Storage) DeleteSessionByToken(ctx context.Context, refreshToken string) (int64, error) {
	const op = "storage.postgres.DeleteSessionByToken"

	query := `
        DELETE FROM sessions
        WHERE refresh_token = $1
    `

	cmdTag, err := s.db.Exec(ctx, query, refreshToken)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return cmdTag.RowsAffected(), nil
}

// DeleteSessionsByUser удаляет все сессии пользователя.
// Возвращает число удалённых строк; ноль — не ошибка.
func (s *Storage) DeleteSessionsByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	const op = "storage.postgres.DeleteSessionsByUser"

	query := `
        DELETE FROM sessions
        WHERE user_id = $1
    `

	cmdTag, err := s.db.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return cmdTag.RowsAffected(), nil
}

// DeleteExpiredSessions удаляет все просроченные сессии.
func (s *Storage) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	const op = "storage.postgres.DeleteExpiredSessions"

	query := `
        DELETE FROM sessions
        WHERE expires_at <= $1
    `

	_, err := s.db.Exec(ctx, query, now)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
