package services

import (
	"context"
	"time"
)

// TokenService определяет интерфейс для операций с токенами сессий.
type TokenService interface {
	GenerateSessionToken(ctx context.Context, userID string) (string, time.Time, error)

	ValidateSessionToken(ctx context.Context, token string) (string, error)
}
