// Package repositories определяет интерфейсы хранилищ доменных сущностей.
package repositories

import (
	"context"

	"gotasker/internal/domain/entities"
)

// UserRepository определяет интерфейс для операций сохранения данных пользователя.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)

	FindByID(ctx context.Context, id string) (*entities.User, error)

	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	Update(ctx context.Context, user *entities.User) (*entities.User, error)

	// Delete удаляет пользователя; задачи и токены сессий удаляются
	// каскадно на уровне схемы.
	Delete(ctx context.Context, id string) error

	UpdateAvatar(ctx context.Context, id string, avatar []byte) error

	GetAvatar(ctx context.Context, id string) ([]byte, error)
}
