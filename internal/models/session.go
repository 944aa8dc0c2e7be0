package models

import (
	"time"

	"github.com/google/uuid"
)

// Session — одна выданная сессия: привязка значения refresh-токена
// к пользователю и сроку жизни записи.
//
// Запись в БД — источник истины об отзыве токена: криптографически валидный
// refresh-токен без живой строки сессии недействителен. ExpiresAt фиксируется
// при создании и не продлевается; это TTL строки в хранилище, независимый от
// exp внутри самого токена.
type Session struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	RefreshToken string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}
