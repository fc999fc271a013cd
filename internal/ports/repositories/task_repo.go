package repositories

import (
	"context"

	"gotasker/internal/domain/entities"
)

// TaskListFilter описывает фильтрацию, сортировку и пагинацию списка задач.
// SortField - уже проверенное имя столбца; пустое значение отключает ORDER BY.
// Limit и Skip меньше либо равные нулю отключают соответствующие выражения.
type TaskListFilter struct {
	Completed *bool
	SortField string
	SortDesc  bool
	Limit     int
	Skip      int
}

// TaskRepository определяет интерфейс хранилища задач.
// Каждый запрос ограничен владельцем: задача другого пользователя
// неотличима от несуществующей.
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) (*entities.Task, error)

	FindByID(ctx context.Context, taskID, ownerID string) (*entities.Task, error)

	ListByOwner(ctx context.Context, ownerID string, filter TaskListFilter) ([]*entities.Task, error)

	Update(ctx context.Context, task *entities.Task) (*entities.Task, error)

	Delete(ctx context.Context, taskID, ownerID string) (*entities.Task, error)
}
