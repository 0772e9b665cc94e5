package repository

import (
	"context"
	"time"
)

// StateRepository определяет явное key-value хранилище именованных слотов
// пользовательского состояния (profileImage, кеш объяснений и т.п.).
// Сервисы получают его через конструктор, а не обращаются к хранилищу напрямую.
type StateRepository interface {
	Get(ctx context.Context, slot string) (string, error)
	Set(ctx context.Context, slot string, value string, expiration time.Duration) error
	Append(ctx context.Context, slot string, value string) error
	Delete(ctx context.Context, slot string) error
}
