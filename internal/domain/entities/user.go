// Package entities определяет доменные сущности сервиса управления задачами.
package entities

import (
	"errors"
	"time"
)

// Ошибки домена пользователя.
var (
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrInvalidEmail     = errors.New("email is invalid")
	ErrNegativeAge      = errors.New("age must be a positive number")
	ErrEmailTaken       = errors.New("user with this email already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrAvatarNotFound   = errors.New("avatar not found")
	ErrInvalidUpdateKey = errors.New("invalid updates")
)

// User представляет основную сущность домена пользователя.
// Avatar хранится как подготовленный PNG 250x250 либо отсутствует.
type User struct {
	ID           string
	Name         string
	Email        string
	Age          int
	PasswordHash string
	Avatar       []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
