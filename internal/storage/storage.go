package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/safebox-auth/internal/models"
)

var (
	// ErrNotFound — запись не найдена (пользователь/сессия).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email/refresh-token).
	ErrAlreadyExists = errors.New("already exists")
)

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создает нового пользователя в БД.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByEmail находит пользователя по email (точное совпадение).
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// SessionStorage выполняет операции над сессиями (refresh-токенами).
//
// Отсутствие записи — это ErrNotFound, а не сбой хранилища; методы Delete*
// возвращают число удалённых строк, ноль строк ошибкой не считается.
type SessionStorage interface {
	// SaveSession сохраняет новую сессию в БД.
	SaveSession(ctx context.Context, session *models.Session) error
	// SessionByToken находит сессию по значению refresh-токена.
	SessionByToken(ctx context.Context, refreshToken string) (*models.Session, error)
	// DeleteSessionByToken удаляет сессию по значению refresh-токена.
	DeleteSessionByToken(ctx context.Context, refreshToken string) (int64, error)
	// DeleteSessionsByUser удаляет все сессии пользователя.
	DeleteSessionsByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// DeleteExpiredSessions удаляет все просроченные сессии.
	DeleteExpiredSessions(ctx context.Context, now time.Time) error
}

// Storage задает контракт работы с БД.
type Storage interface {
	UserStorage
	SessionStorage
	Close()
}
