// Package api определяет порты уровня приложения.
package api

import (
	"context"

	"gotasker/internal/domain/entities"
)

// UserUseCase определяет основной порт для пользовательских операций.
type UserUseCase interface {
	Register(ctx context.Context, name, email string, age int, password string) (*entities.User, string, error)

	Login(ctx context.Context, email, password string) (*entities.User, string, error)

	// ResolveSession проверяет подпись токена, загружает пользователя и
	// подтверждает, что токен еще числится в его списке сессий.
	ResolveSession(ctx context.Context, token string) (*entities.User, error)

	Logout(ctx context.Context, userID, token string) error

	LogoutAll(ctx context.Context, userID string) error

	Update(ctx context.Context, userID string, updates map[string]any) (*entities.User, error)

	Delete(ctx context.Context, userID string) (*entities.User, error)

	UploadAvatar(ctx context.Context, userID, filename string, data []byte) error

	DeleteAvatar(ctx context.Context, userID string) error

	GetAvatar(ctx context.Context, userID string) ([]byte, error)
}
