package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"gotasker/internal/domain/entities"
	"gotasker/internal/ports/api"
	"gotasker/internal/ports/repositories"
	"gotasker/pkg/logger"
)

const (
	methodCreateTask = "CreateTask"
	methodListTasks  = "ListTasks"
	methodGetTask    = "GetTask"
	methodUpdateTask = "UpdateTask"
	methodDeleteTask = "DeleteTask"

	msgTaskCreated      = "task created successfully"
	msgTaskUpdated      = "task updated successfully"
	msgTaskDeleted      = "task deleted successfully"
	msgEmptyDescription = "empty task description provided"
	msgRejectedTaskKey  = "update contains a non-whitelisted key"
	msgErrCreatingTask  = "failed to create task"
	msgErrListingTasks  = "failed to list tasks"
	msgErrUpdatingTask  = "failed to update task"
	msgErrDeletingTask  = "failed to delete task"

	errCtxValidatingTask  = "validating task"
	errCtxCreatingTask    = "creating task"
	errCtxListingTasks    = "listing tasks"
	errCtxFindingTask     = "finding task"
	errCtxUpdatingTask    = "updating task"
	errCtxDeletingTask    = "deleting task"
	errCtxValidatingPatch = "validating updates"
)

// Имена полей сортировки, допустимые в параметре sortBy, и соответствующие
// им колонки. Неизвестное поле оставляет порядок по умолчанию.
var taskSortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"description": "description",
	"completed":   "completed",
}

// Поля задачи, разрешенные к изменению через Update.
var allowedTaskUpdates = map[string]struct{}{
	"description": {},
	"completed":   {},
}

// TaskUseCaseImpl реализует интерфейс api.TaskUseCase.
type TaskUseCaseImpl struct {
	taskRepo repositories.TaskRepository
}

// NewTaskUseCase создает новый экземпляр сервиса задач.
func NewTaskUseCase(taskRepo repositories.TaskRepository) api.TaskUseCase {
	return &TaskUseCaseImpl{taskRepo: taskRepo}
}

// Create создает задачу, принадлежащую указанному пользователю.
func (t *TaskUseCaseImpl) Create(ctx context.Context, ownerID, description string, completed bool) (*entities.Task, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreateTask), zap.String("ownerID", ownerID))

	description = strings.TrimSpace(description)
	if description == "" {
		log.Debug(ctx, msgEmptyDescription)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingTask, entities.ErrEmptyDescription)
	}

	task := entities.NewTask(ownerID, description)
	task.Completed = completed

	created, err := t.taskRepo.Create(ctx, task)
	if err != nil {
		log.Error(ctx, msgErrCreatingTask, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingTask, err)
	}

	log.Info(ctx, msgTaskCreated, zap.String("taskID", created.ID))
	return created, nil
}

// List возвращает задачи пользователя с фильтрацией, сортировкой и пагинацией.
func (t *TaskUseCaseImpl) List(ctx context.Context, ownerID string, query api.TaskListQuery) ([]*entities.Task, error) {
	log := logger.Log(ctx).With(zap.String("method", methodListTasks), zap.String("ownerID", ownerID))

	filter := buildListFilter(query)

	tasks, err := t.taskRepo.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		log.Error(ctx, msgErrListingTasks, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingTasks, err)
	}

	return tasks, nil
}

// Get возвращает задачу по ID только если она принадлежит пользователю.
func (t *TaskUseCaseImpl) Get(ctx context.Context, ownerID, taskID string) (*entities.Task, error) {
	task, err := t.taskRepo.FindByID(ctx, taskID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxFindingTask, err)
	}
	return task, nil
}

// Update применяет изменения к задаче пользователя. Любой ключ вне
// разрешенного набора отклоняет запрос целиком до каких-либо изменений.
func (t *TaskUseCaseImpl) Update(ctx context.Context, ownerID, taskID string, updates map[string]any) (*entities.Task, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodUpdateTask),
		zap.String("ownerID", ownerID),
		zap.String("taskID", taskID),
	)

	for key := range updates {
		if _, ok := allowedTaskUpdates[key]; !ok {
			log.Debug(ctx, msgRejectedTaskKey, zap.String("key", key))
			return nil, fmt.Errorf("%s: %w", errCtxValidatingPatch, entities.ErrInvalidUpdateKey)
		}
	}

	task, err := t.taskRepo.FindByID(ctx, taskID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxFindingTask, err)
	}

	if raw, ok := updates["description"]; ok {
		description, ok := raw.(string)
		description = strings.TrimSpace(description)
		if !ok || description == "" {
			return nil, fmt.Errorf("%s: %w", errCtxValidatingTask, entities.ErrEmptyDescription)
		}
		task.Description = description
	}

	if raw, ok := updates["completed"]; ok {
		completed, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("%s: %w", errCtxValidatingPatch, entities.ErrInvalidUpdateKey)
		}
		task.Completed = completed
	}

	updated, err := t.taskRepo.Update(ctx, task)
	if err != nil {
		log.Error(ctx, msgErrUpdatingTask, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingTask, err)
	}

	log.Info(ctx, msgTaskUpdated)
	return updated, nil
}

// Delete удаляет задачу пользователя и возвращает удаленную запись.
func (t *TaskUseCaseImpl) Delete(ctx context.Context, ownerID, taskID string) (*entities.Task, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodDeleteTask),
		zap.String("ownerID", ownerID),
		zap.String("taskID", taskID),
	)

	deleted, err := t.taskRepo.Delete(ctx, taskID, ownerID)
	if err != nil {
		log.Error(ctx, msgErrDeletingTask, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxDeletingTask, err)
	}

	log.Info(ctx, msgTaskDeleted)
	return deleted, nil
}

// buildListFilter разбирает строковые параметры списка задач. Нераспознанные
// значения молча игнорируются, сужая фильтр до поведения по умолчанию.
func buildListFilter(query api.TaskListQuery) repositories.TaskListFilter {
	var filter repositories.TaskListFilter

	if query.Completed != "" {
		completed := query.Completed == "true"
		filter.Completed = &completed
	}

	if query.SortBy != "" {
		parts := strings.Split(query.SortBy, ":")
		if column, ok := taskSortColumns[parts[0]]; ok {
			filter.SortField = column
			filter.SortDesc = len(parts) > 1 && parts[1] == "desc"
		}
	}

	if limit, err := strconv.Atoi(query.Limit); err == nil && limit > 0 {
		filter.Limit = limit
	}

	if skip, err := strconv.Atoi(query.Skip); err == nil && skip > 0 {
		filter.Skip = skip
	}

	return filter
}
