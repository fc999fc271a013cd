package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gotasker/internal/domain/services"
	"gotasker/internal/ports/repositories"
	"gotasker/pkg/logger"
)

// SessionRepository реализует интерфейс repositories.SessionRepository.
type SessionRepository struct {
	pool PgxPoolInterface
}

// NewSessionRepository создает новый репозиторий токенов сессий.
func NewSessionRepository(pool PgxPoolInterface) repositories.SessionRepository {
	return &SessionRepository{pool: pool}
}

// Store добавляет токен в список сессий пользователя.
func (r *SessionRepository) Store(ctx context.Context, session *services.Session) error {
	log := logger.Log(ctx).With(zap.String("repository", "session"), zap.String("method", "Store"))

	query := `
        INSERT INTO session_tokens (user_id, token)
        VALUES ($1, $2)
    `

	_, err := r.pool.Exec(ctx, query, session.UserID, session.Token)
	if err != nil {
		log.Error(ctx, "error storing session token", zap.Error(err))
		return fmt.Errorf("error storing session token: %w", err)
	}

	return nil
}

// Exists проверяет, что токен числится в списке сессий пользователя.
func (r *SessionRepository) Exists(ctx context.Context, userID, token string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("repository", "session"), zap.String("method", "Exists"))

	query := `
        SELECT EXISTS (
            SELECT 1 FROM session_tokens
            WHERE user_id = $1 AND token = $2
        )
    `

	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, token).Scan(&exists)
	if err != nil {
		log.Error(ctx, "error checking session token", zap.Error(err))
		return false, fmt.Errorf("error checking session token: %w", err)
	}

	return exists, nil
}

// Revoke удаляет конкретный токен из списка сессий пользователя.
func (r *SessionRepository) Revoke(ctx context.Context, userID, token string) error {
	log := logger.Log(ctx).With(zap.String("repository", "session"), zap.String("method", "Revoke"))

	query := `
        DELETE FROM session_tokens
        WHERE user_id = $1 AND token = $2
    `

	_, err := r.pool.Exec(ctx, query, userID, token)
	if err != nil {
		log.Error(ctx, "error revoking session token", zap.Error(err))
		return fmt.Errorf("error revoking session token: %w", err)
	}

	return nil
}

// RevokeAll очищает список сессий пользователя.
func (r *SessionRepository) RevokeAll(ctx context.Context, userID string) error {
	log := logger.Log(ctx).With(zap.String("repository", "session"), zap.String("method", "RevokeAll"))

	query := `
        DELETE FROM session_tokens
        WHERE user_id = $1
    `

	_, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		log.Error(ctx, "error revoking all session tokens", zap.Error(err))
		return fmt.Errorf("error revoking all session tokens: %w", err)
	}

	return nil
}
