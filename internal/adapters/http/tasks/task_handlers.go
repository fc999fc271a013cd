// Package tasks содержит HTTP обработчики для работы с задачами.
package tasks

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gotasker/internal/adapters/http/middleware"
	"gotasker/internal/app/dto"
	"gotasker/internal/domain/entities"
	"gotasker/internal/ports/api"
	"gotasker/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerCreate = "task handler: create"
	LogHandlerList   = "task handler: list"
	LogHandlerGet    = "task handler: get"
	LogHandlerUpdate = "task handler: update"
	LogHandlerDelete = "task handler: delete"

	ErrorInvalidRequest       = "invalid request"
	ErrorInvalidUpdates       = "Invalid updates!"
	ErrorFailedToServeRequest = "failed to serve request"
)

// Вспомогательная функция для обработки ошибок HTTP.
func sendErrorResponse(ctx fiber.Ctx, statusCode int, message string) error {
	if err := ctx.Status(statusCode).JSON(fiber.Map{
		"error": message,
	}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// owner извлекает аутентифицированного пользователя из контекста запроса.
func owner(ctx fiber.Ctx) (*entities.User, bool) {
	user, ok := ctx.Locals(middleware.LocalsUser).(*entities.User)
	return user, ok
}

// Handler содержит HTTP обработчики для задач.
type Handler struct {
	taskService api.TaskUseCase
}

// NewHandler создает новый экземпляр обработчика задач.
func NewHandler(taskService api.TaskUseCase) *Handler {
	return &Handler{
		taskService: taskService,
	}
}

// Create обрабатывает запрос на создание задачи.
func (h *Handler) Create(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerCreate)

	user, ok := owner(ctx)
	if !ok {
		return sendErrorResponse(ctx, http.StatusUnauthorized, middleware.ErrorPleaseAuthenticate)
	}

	var req dto.CreateTaskRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Error(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return sendErrorResponse(ctx, http.StatusBadRequest, ErrorInvalidRequest)
	}

	task, err := h.taskService.Create(requestCtx, user.ID, req.Description, req.Completed)
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendErrorResponse(ctx, http.StatusNotFound, err.Error())
	}

	if err := ctx.Status(http.StatusCreated).JSON(dto.NewTaskResponse(task)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// List возвращает задачи текущего пользователя с учетом параметров запроса.
func (h *Handler) List(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerList)

	user, ok := owner(ctx)
	if !ok {
		return sendErrorResponse(ctx, http.StatusUnauthorized, middleware.ErrorPleaseAuthenticate)
	}

	query := api.TaskListQuery{
		Completed: ctx.Query("completed"),
		SortBy:    ctx.Query("sortBy"),
		Limit:     ctx.Query("limit"),
		Skip:      ctx.Query("skip"),
	}

	tasks, err := h.taskService.List(requestCtx, user.ID, query)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendErrorResponse(ctx, http.StatusInternalServerError, ErrorFailedToServeRequest)
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.NewTaskListResponse(tasks)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Get возвращает задачу по ID, если она принадлежит текущему пользователю.
func (h *Handler) Get(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerGet)

	user, ok := owner(ctx)
	if !ok {
		return sendErrorResponse(ctx, http.StatusUnauthorized, middleware.ErrorPleaseAuthenticate)
	}

	task, err := h.taskService.Get(requestCtx, user.ID, ctx.Params("id"))
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		if errors.Is(err, entities.ErrTaskNotFound) {
			return sendErrorResponse(ctx, http.StatusNotFound, entities.ErrTaskNotFound.Error())
		}
		return sendErrorResponse(ctx, http.StatusInternalServerError, ErrorFailedToServeRequest)
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.NewTaskResponse(task)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Update обрабатывает частичное изменение задачи.
func (h *Handler) Update(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerUpdate)

	user, ok := owner(ctx)
	if !ok {
		return sendErrorResponse(ctx, http.StatusUnauthorized, middleware.ErrorPleaseAuthenticate)
	}

	updates := make(map[string]any)
	if err := ctx.Bind().JSON(&updates); err != nil {
		log.Error(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return sendErrorResponse(ctx, http.StatusBadRequest, ErrorInvalidRequest)
	}

	task, err := h.taskService.Update(requestCtx, user.ID, ctx.Params("id"), updates)
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		switch {
		case errors.Is(err, entities.ErrInvalidUpdateKey):
			return sendErrorResponse(ctx, http.StatusBadRequest, ErrorInvalidUpdates)
		case errors.Is(err, entities.ErrEmptyDescription):
			return sendErrorResponse(ctx, http.StatusBadRequest, entities.ErrEmptyDescription.Error())
		case errors.Is(err, entities.ErrTaskNotFound):
			return sendErrorResponse(ctx, http.StatusNotFound, entities.ErrTaskNotFound.Error())
		default:
			return sendErrorResponse(ctx, http.StatusInternalServerError, ErrorFailedToServeRequest)
		}
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.NewTaskResponse(task)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Delete удаляет задачу и возвращает удаленную запись.
func (h *Handler) Delete(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerDelete)

	user, ok := owner(ctx)
	if !ok {
		return sendErrorResponse(ctx, http.StatusUnauthorized, middleware.ErrorPleaseAuthenticate)
	}

	task, err := h.taskService.Delete(requestCtx, user.ID, ctx.Params("id"))
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		if errors.Is(err, entities.ErrTaskNotFound) {
			return sendErrorResponse(ctx, http.StatusNotFound, entities.ErrTaskNotFound.Error())
		}
		return sendErrorResponse(ctx, http.StatusInternalServerError, ErrorFailedToServeRequest)
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.NewTaskResponse(task)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}
