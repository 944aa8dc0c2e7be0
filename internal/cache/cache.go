// cache — опциональный кэш публичных данных пользователей поверх Redis.
//
// Кэшируются только пользователи (их записи после создания не меняются —
// пути обновления у сервиса нет), и только публичные поля: хэш пароля в кэш
// не попадает никогда. Сессии не кэшируются принципиально: строка сессии в БД —
// источник истины об отзыве refresh-токена, и чтение её из кэша ломало бы
// инвариант «logout/login мгновенно инвалидируют токен».
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pribylovaa/safebox-auth/internal/models"
)

// UserCache — минимальный контракт кэша пользователей.
type UserCache interface {
	// Get возвращает пользователя и признак его наличия в кэше.
	Get(ctx context.Context, id uuid.UUID) (*models.User, bool, error)
	// Set сохраняет публичные поля пользователя с TTL.
	Set(ctx context.Context, user *models.User, ttl time.Duration) error
	// Close закрывает клиент Redis.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "auth:user:".
func NewRedisCache(redisURL, prefix string) (UserCache, error) {
	if prefix == "" {
		prefix = "auth:user:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &redisCache{rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) key(id uuid.UUID) string { return c.prefix + id.String() }

// Храним как Redis Hash с полями: email, name, created (unix), updated (unix).
func (c *redisCache) Get(ctx context.Context, id uuid.UUID) (*models.User, bool, error) {
	m, err := c.rdb.HGetAll(ctx, c.key(id)).Result()
	if err != nil {
		return nil, false, err
	}

	if len(m) == 0 {
		return nil, false, nil
	}

	createdUnix, err := strconv.ParseInt(m["created"], 10, 64)
	if err != nil {
		return nil, false, err
	}

	updatedUnix, err := strconv.ParseInt(m["updated"], 10, 64)
	if err != nil {
		return nil, false, err
	}

	return &models.User{
		ID:        id,
		Email:     m["email"],
		Name:      m["name"],
		CreatedAt: time.Unix(createdUnix, 0).UTC(),
		UpdatedAt: time.Unix(updatedUnix, 0).UTC(),
	}, true, nil
}

func (c *redisCache) Set(ctx context.Context, user *models.User, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	key := c.key(user.ID)

	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"email":   user.Email,
		"name":    user.Name,
		"created": strconv.FormatInt(user.CreatedAt.Unix(), 10),
		"updated": strconv.FormatInt(user.UpdatedAt.Unix(), 10),
	})
	pipe.Expire(ctx, key, ttl)

	_, err := pipe.Exec(ctx)
	return err
}

func (c *redisCache) Close() error {
	return c.rdb.Close()
}
