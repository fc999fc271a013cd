package repositories

import (
	"context"

	"gotasker/internal/domain/services"
)

// SessionRepository определяет интерфейс для управления списком токенов
// сессий пользователя. Отзыв токена - удаление записи из списка.
type SessionRepository interface {
	Store(ctx context.Context, session *services.Session) error

	Exists(ctx context.Context, userID, token string) (bool, error)

	Revoke(ctx context.Context, userID, token string) error

	RevokeAll(ctx context.Context, userID string) error
}
