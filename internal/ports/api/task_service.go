package api

import (
	"context"

	"gotasker/internal/domain/entities"
)

// TaskListQuery содержит необработанные параметры запроса списка задач.
// Пустые строки означают отсутствие параметра.
type TaskListQuery struct {
	Completed string
	SortBy    string
	Limit     string
	Skip      string
}

// TaskUseCase определяет основной порт для операций с задачами.
// Все операции неявно ограничены владельцем.
type TaskUseCase interface {
	Create(ctx context.Context, ownerID, description string, completed bool) (*entities.Task, error)

	List(ctx context.Context, ownerID string, query TaskListQuery) ([]*entities.Task, error)

	Get(ctx context.Context, ownerID, taskID string) (*entities.Task, error)

	Update(ctx context.Context, ownerID, taskID string, updates map[string]any) (*entities.Task, error)

	Delete(ctx context.Context, ownerID, taskID string) (*entities.Task, error)
}
