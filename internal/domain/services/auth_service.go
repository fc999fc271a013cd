// Package services содержит доменные типы и ошибки учетных данных и сессий.
package services

import (
	"errors"
	"time"
)

// Ошибки домена аутентификации. Текст ошибки входа намеренно не
// различает неизвестный email и неверный пароль.
var (
	ErrUnableToLogin         = errors.New("unable to login")
	ErrTokenRevoked          = errors.New("session token has been revoked")
	ErrTokenGenerationFailed = errors.New("failed to generate session token")
)

// Session представляет выданный токен сессии пользователя.
// У пользователя может быть несколько живых сессий (разные устройства);
// отзыв выполняется удалением записи, а не блок-листом.
type Session struct {
	ID        string
	UserID    string
	Token     string
	CreatedAt time.Time
}
