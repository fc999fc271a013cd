package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"gotasker/internal/domain/entities"
	"gotasker/internal/ports/repositories"
	"gotasker/pkg/logger"
)

// TaskRepository реализует интерфейс repositories.TaskRepository для работы с Postgres.
type TaskRepository struct {
	pool PgxPoolInterface
}

// NewTaskRepository создает новый репозиторий задач.
func NewTaskRepository(pool PgxPoolInterface) repositories.TaskRepository {
	return &TaskRepository{pool: pool}
}

const taskColumns = "id, description, completed, owner_id, created_at, updated_at"

func scanTask(row pgx.Row) (*entities.Task, error) {
	var task entities.Task
	err := row.Scan(
		&task.ID,
		&task.Description,
		&task.Completed,
		&task.OwnerID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Create сохраняет новую задачу.
func (r *TaskRepository) Create(ctx context.Context, task *entities.Task) (*entities.Task, error) {
	log := logger.Log(ctx).With(zap.String("repository", "task"), zap.String("method", "Create"))
	log.Debug(ctx, "creating new task", zap.String("ownerID", task.OwnerID))

	query := `
        INSERT INTO tasks (description, completed, owner_id)
        VALUES ($1, $2, $3)
        RETURNING ` + taskColumns

	created, err := scanTask(r.pool.QueryRow(ctx, query, task.Description, task.Completed, task.OwnerID))
	if err != nil {
		log.Error(ctx, "error creating task", zap.Error(err))
		return nil, fmt.Errorf("error creating task: %w", err)
	}

	log.Debug(ctx, "task created", zap.String("taskID", created.ID))
	return created, nil
}

// FindByID находит задачу по ID в рамках владельца.
func (r *TaskRepository) FindByID(ctx context.Context, taskID, ownerID string) (*entities.Task, error) {
	log := logger.Log(ctx).With(zap.String("repository", "task"), zap.String("method", "FindByID"))

	query := `
        SELECT ` + taskColumns + `
        FROM tasks
        WHERE id = $1 AND owner_id = $2
    `

	task, err := scanTask(r.pool.QueryRow(ctx, query, taskID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "task not found", zap.String("taskID", taskID))
			return nil, entities.ErrTaskNotFound
		}
		log.Error(ctx, "error finding task", zap.Error(err))
		return nil, fmt.Errorf("error querying task by id: %w", err)
	}

	return task, nil
}

// ListByOwner возвращает задачи владельца с фильтрацией, сортировкой и пагинацией.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string, filter repositories.TaskListFilter) ([]*entities.Task, error) {
	log := logger.Log(ctx).With(zap.String("repository", "task"), zap.String("method", "ListByOwner"))
	log.Debug(ctx, "listing tasks", zap.String("ownerID", ownerID))

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1`
	args := []interface{}{ownerID}

	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		query += fmt.Sprintf(" AND completed = $%d", len(args))
	}

	if filter.SortField != "" {
		direction := "ASC"
		if filter.SortDesc {
			direction = "DESC"
		}
		// SortField - имя столбца из фиксированного набора, проверенное
		// уровнем приложения, не пользовательский ввод.
		query += " ORDER BY " + filter.SortField + " " + direction
	}

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	if filter.Skip > 0 {
		args = append(args, filter.Skip)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		log.Error(ctx, "error listing tasks", zap.Error(err))
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*entities.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error(ctx, "error scanning task", zap.Error(err))
			return nil, fmt.Errorf("error scanning task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return tasks, nil
}

// Update обновляет задачу в рамках владельца.
func (r *TaskRepository) Update(ctx context.Context, task *entities.Task) (*entities.Task, error) {
	log := logger.Log(ctx).With(zap.String("repository", "task"), zap.String("method", "Update"))
	log.Debug(ctx, "updating task", zap.String("taskID", task.ID))

	query := `
        UPDATE tasks
        SET description = $3, completed = $4, updated_at = now()
        WHERE id = $1 AND owner_id = $2
        RETURNING ` + taskColumns

	updated, err := scanTask(r.pool.QueryRow(ctx, query, task.ID, task.OwnerID, task.Description, task.Completed))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "task not found or not owned by user", zap.String("taskID", task.ID))
			return nil, entities.ErrTaskNotFound
		}
		log.Error(ctx, "error updating task", zap.Error(err))
		return nil, fmt.Errorf("error updating task: %w", err)
	}

	return updated, nil
}

// Delete удаляет задачу в рамках владельца и возвращает удаленную запись.
func (r *TaskRepository) Delete(ctx context.Context, taskID, ownerID string) (*entities.Task, error) {
	log := logger.Log(ctx).With(zap.String("repository", "task"), zap.String("method", "Delete"))
	log.Debug(ctx, "deleting task", zap.String("taskID", taskID))

	query := `
        DELETE FROM tasks
        WHERE id = $1 AND owner_id = $2
        RETURNING ` + taskColumns

	deleted, err := scanTask(r.pool.QueryRow(ctx, query, taskID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "task not found or not owned by user", zap.String("taskID", taskID))
			return nil, entities.ErrTaskNotFound
		}
		log.Error(ctx, "error deleting task", zap.Error(err))
		return nil, fmt.Errorf("error deleting task: %w", err)
	}

	return deleted, nil
}
