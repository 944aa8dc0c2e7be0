package models

import "time"

// TokenPair — пара токенов, выдаваемая при регистрации/входе/обновлении.
//
// Описание:
//   - AccessToken — короткоживущий JWT для доступа к API;
//   - RefreshToken — долгоживущий JWT с тегом класса "refresh", его значение
//     хранится в строке сессии и предъявляется для выпуска нового access-токена;
//   - AccessExpiresAt — момент истечения access-токена (UTC).
type TokenPair struct {
	// AccessToken — JWT для авторизации запросов.
	AccessToken string `json:"accessToken"`
	// RefreshToken — JWT класса "refresh" для обновления пары.
	RefreshToken string `json:"refreshToken"`
	// AccessExpiresAt — время истечения действия access-токена (UTC).
	AccessExpiresAt time.Time `json:"accessExpiresAt"`
}
