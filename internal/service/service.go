// service содержит бизнес-логику safebox-auth:
// регистрацию/аутентификацию пользователей, выпуск/проверку токенов
// и работу с сессиями через интерфейсы из пакета storage.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданное хранилище (storage.Storage) потокобезопасно. Всё
//     межзапросное состояние живёт в строках сессий в БД.
//   - Ошибки возвращаются и далее маппятся
//     транспортом на HTTP-коды (см. комментарии к переменным ошибок ниже).
//   - Refresh-токен при обновлении пары НЕ ротируется: та же строка сессии и
//     то же значение токена остаются валидными до истечения или logout.
//     Утёкший refresh-токен живёт весь свой срок — известный компромисс,
//     зафиксирован как свойство системы.
package service

import (
	"errors"
	"time"

	"github.com/pribylovaa/safebox-auth/internal/cache"
	"github.com/pribylovaa/safebox-auth/internal/config"
	"github.com/pribylovaa/safebox-auth/internal/models"
	"github.com/pribylovaa/safebox-auth/internal/storage"
)

// sessionTTL — срок жизни строки сессии в БД.
// Намеренно зафиксирован здесь и не связан с cfg.RefreshTokenTTL: TTL строки —
// подсказка хранилищу для уборки, exp внутри токена — криптографическое окно
// валидности. При изменении RefreshTokenTTL в конфигурации значения расходятся;
// оба механизма сохранены сознательно.
const sessionTTL = 7 * 24 * time.Hour

// userCacheTTL — срок жизни записи пользователя в кэше.
const userCacheTTL = 15 * time.Minute

var (
	// ErrUserExists — пользователь с таким email уже зарегистрирован.
	// Транспорт: HTTP 409.
	ErrUserExists = errors.New("user already exists with this email")

	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	// Для неизвестного email и неверного пароля ошибка одна и та же —
	// перечисление пользователей по ответам невозможно. Транспорт: HTTP 401.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken — refresh-токен некорректен по формату/подписи, просрочен
	// или не является refresh-токеном (нет тега класса "refresh"). Причина
	// наружу не различается. Транспорт: HTTP 401.
	ErrInvalidToken = errors.New("invalid or expired refresh token")

	// ErrTokenNotFound — токен криптографически валиден (или не проверялся,
	// как в Logout), но строки сессии с таким значением нет: сессия была
	// отозвана logout'ом или сброшена новым логином. Транспорт: HTTP 404.
	ErrTokenNotFound = errors.New("refresh token not found")
)

// AuthResult — результат успешной операции Register/Login/Refresh:
// публичные данные пользователя (без хэша пароля) и пара токенов.
type AuthResult struct {
	User   models.User      `json:"user"`
	Tokens models.TokenPair `json:"tokens"`
}

// Service описывает бизнес-логику safebox-auth.
type Service struct {
	storage storage.Storage
	cfg     config.AuthConfig
	ucache  cache.UserCache // может быть nil, если кэш не сконфигурирован
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, cfg config.AuthConfig) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
	}
}

// SetUserCache устанавливает кэш пользователей (опционально).
func (s *Service) SetUserCache(c cache.UserCache) {
	s.ucache = c
}
