package entities

import (
	"errors"
	"time"
)

// Ошибки домена задач.
var (
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrTaskNotFound     = errors.New("task not found")
)

// Task представляет задачу пользователя. Каждая задача принадлежит
// ровно одному владельцу и видна только через его сессию.
type Task struct {
	ID          string
	Description string
	Completed   bool
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTask создает новую задачу для владельца.
func NewTask(ownerID, description string) *Task {
	now := time.Now()
	return &Task{
		Description: description,
		Completed:   false,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
