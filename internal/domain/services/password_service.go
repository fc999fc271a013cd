package services

import (
	"errors"
)

// PasswordErrors содержит ошибки, связанные с паролями.
var (
	ErrHashingFailed       = errors.New("failed to hash password")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrPasswordTooShort    = errors.New("password must contain at least 7 characters")
	ErrPasswordHasPassword = errors.New(`password cannot contain "password"`)
)

// MinPasswordLength - минимальная длина пароля.
const MinPasswordLength = 7
