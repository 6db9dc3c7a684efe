package distlock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker интерфейс advisory-блокировки для фоновых/административных операций
// Не участвует в корректности резервирования - его обеспечивают транзакции БД.
// Нужен, чтобы два параллельных запуска материализации или ресинка по одному
// и тому же ключу не работали одновременно
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// RedisLocker реализация Locker поверх Redis SET NX
type RedisLocker struct {
	client *redis.Client
}

// New создает RedisLocker и проверяет соединение
func New(addr string) (*RedisLocker, error) {
	const op = "distlock.New"

	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RedisLocker{client: client}, nil
}

// TryLock пытается захватить блокировку; возвращает false, если ключ уже занят
func (r *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	const op = "distlock.RedisLocker.TryLock"

	ok, err := r.client.SetNX(ctx, lockKey(key), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}

// Unlock снимает блокировку
func (r *RedisLocker) Unlock(ctx context.Context, key string) error {
	const op = "distlock.RedisLocker.Unlock"

	if _, err := r.client.Del(ctx, lockKey(key)).Result(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает соединение с Redis
func (r *RedisLocker) Close() error {
	return r.client.Close()
}

func lockKey(key string) string {
	return fmt.Sprintf("lock:%s", key)
}
