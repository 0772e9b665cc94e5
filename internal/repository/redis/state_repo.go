package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "github.com/yourusername/examify-api/internal/pkg/errors"
)

// StateRepo реализует repository.StateRepository поверх Redis.
// Каждый именованный слот хранится в отдельном ключе с префиксом "state:".
type StateRepo struct {
	client redis.UniversalClient
}

// NewStateRepo создает новый репозиторий состояния и возвращает ошибку при проблемах
func NewStateRepo(client redis.UniversalClient) (*StateRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("Redis client cannot be nil for StateRepo")
	}
	return &StateRepo{client: client}, nil
}

func stateKey(slot string) string {
	return "state:" + slot
}

// Get получает значение слота
func (r *StateRepo) Get(ctx context.Context, slot string) (string, error) {
	val, err := r.client.Get(ctx, stateKey(slot)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.ErrNotFound
		}
		return "", err
	}
	return val, nil
}

// Set сохраняет значение слота; expiration <= 0 означает бессрочное хранение
func (r *StateRepo) Set(ctx context.Context, slot string, value string, expiration time.Duration) error {
	return r.client.Set(ctx, stateKey(slot), value, expiration).Err()
}

// Append добавляет элемент в конец списка слота
func (r *StateRepo) Append(ctx context.Context, slot string, value string) error {
	return r.client.RPush(ctx, stateKey(slot), value).Err()
}

// Delete удаляет слот
func (r *StateRepo) Delete(ctx context.Context, slot string) error {
	return r.client.Del(ctx, stateKey(slot)).Err()
}
