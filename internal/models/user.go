package models

import (
	"time"

	"github.com/google/uuid"
)

// User — учётная запись пользователя.
//
// Email хранится в том виде, в котором был передан при регистрации
// (без нормализации регистра); уникальность обеспечивает БД.
// PasswordHash никогда не сериализуется наружу.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Public возвращает копию пользователя без хэша пароля.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
