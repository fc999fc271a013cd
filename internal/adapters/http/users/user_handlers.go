// Package users содержит HTTP обработчики для работы с пользователями.
package users

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gotasker/internal/adapters/http/middleware"
	"gotasker/internal/app/dto"
	"gotasker/internal/domain/entities"
	"gotasker/internal/domain/services"
	"gotasker/internal/ports/api"
	"gotasker/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerRegister     = "user handler: register"
	LogHandlerLogin        = "user handler: login"
	LogHandlerLogout       = "user handler: logout"
	LogHandlerLogoutAll    = "user handler: logout all"
	LogHandlerProfile      = "user handler: profile"
	LogHandlerUpdate       = "user handler: update"
	LogHandlerDelete       = "user handler: delete"
	LogHandlerUploadAvatar = "user handler: upload avatar"
	LogHandlerDeleteAvatar = "user handler: delete avatar"
	LogHandlerGetAvatar    = "user handler: get avatar"

	ErrorInvalidRequest       = "invalid request"
	ErrorInvalidUpdates       = "Invalid updates!"
	ErrorFailedToServeRequest = "failed to serve request"

	avatarFormField = "avatar"
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

// currentUser извлекает аутентифицированного пользователя из контекста запроса.
func currentUser(ctx fiber.Ctx) (*entities.User, bool) {
	user, ok := ctx.Locals(middleware.LocalsUser).(*entities.User)
	return user, ok
}

// currentToken извлекает текущий токен сессии из контекста запроса.
func currentToken(ctx fiber.Ctx) (string, bool) {
	token, ok := ctx.Locals(middleware.LocalsToken).(string)
	return token, ok
}

// Handler содержит HTTP обработчики для пользователей.
type Handler struct {
	userService api.UserUseCase
}

// NewHandler создает новый экземпляр обработчика пользователей.
func NewHandler(userService api.UserUseCase) *Handler {
	return &Handler{
		userService: userService,
	}
}

// Register обрабатывает запрос на регистрацию нового пользователя.
func (h *Handler) Register(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerRegister)

	var req dto.RegisterRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Error(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return sendErrorResponse(ctx, http.StatusBadRequest, ErrorInvalidRequest)
	}

	user, token, err := h.userService.Register(requestCtx, req.Name, req.Email, req.Age, req.Password)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendErrorResponse(ctx, registerErrorStatus(err), err.Error())
	}

	if err := ctx.Status(http.StatusCreated).JSON(dto.AuthResponse{
		User:  dto.NewUserResponse(user),
		Token: token,
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Login обрабатывает запрос на вход пользователя.
func (h *Handler) Login(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogin)

	var req dto.LoginRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Error(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return sendErrorResponse(ctx, http.StatusBadRequest, ErrorInvalidRequest)
	}

	user, token, err := h.userService.Login(requestCtx, req.Email, req.Password)
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		if errors.Is(err, services.ErrUnableToLogin) {
			return sendErrorResponse(ctx, http.StatusBadRequest, services.ErrUnableToLogin.Error())
		}
		return sendErrorResponse(ctx, http.StatusInternalServerError, ErrorFailedToServeRequest)
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.AuthResponse{
		User:  dto.NewUserResponse(user),
		Token: token,
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Logout обрабатывает запрос на выход из текущей сессии.
func (h *Handler) Logout(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogout)

	user, ok := currentUser(ctx)
	token, okToken := currentToken(ctx)
	if !ok || !okToken {
		return sendErrorResponse(ctx, http.StatusUnauthorized, middleware.ErrorPleaseAuthenticate)
	}

	if err := h.userService.Logout(requestCtx, user.ID, token); err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendErrorResponse(ctx, http.StatusInternalServerError, ErrorFailedToServeRequest)
	}

	if err := ctx.Status(http.StatusOK).JSON(fiber.Map{
		"message": "logged out successfully",
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// LogoutAll обрабатывает запрос на выход со всех устройств.
func (h *Handler) LogoutAll(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogoutAll)

	user, ok := currentUser(ctx)
	if !ok {
		return sendErrorResponse(ctx, http.StatusUnauthorized, middleware.ErrorPleaseAuthenticate)
	}

	if err := h.userService.LogoutAll(requestCtx, user.ID); err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendErrorResponse(ctx, http.StatusInternalServerError, ErrorFailedToServeRequest)
	}

	if err := ctx.Status(http.StatusOK).JSON(fiber.Map{
		"message": "all sessions closed",
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Profile возвращает представление текущего пользователя.
func (h *Handler) Profile(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerProfile)

	user, ok := currentUser(ctx)
	if !ok {
		return sendErrorResponse(ctx, http.StatusUnauthorized, middleware.ErrorPleaseAuthenticate)
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.NewUserResponse(user)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Update обрабатывает частичное изменение текущего пользователя.
func (h *Handler) Update(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerUpdate)

	user, ok := currentUser(ctx)
	if !ok {
		return sendErrorResponse(ctx, http.StatusUnauthorized, middleware.ErrorPleaseAuthenticate)
	}

	updates := make(map[string]any)
	if err := ctx.Bind().JSON(&updates); err != nil {
		log.Error(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return sendErrorResponse(ctx, http.StatusBadRequest, ErrorInvalidRequest)
	}

	updated, err := h.userService.Update(requestCtx, user.ID, updates)
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		if errors.Is(err, entities.ErrInvalidUpdateKey) {
			return sendErrorResponse(ctx, http.StatusBadRequest, ErrorInvalidUpdates)
		}
		return sendErrorResponse(ctx, updateErrorStatus(err), err.Error())
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.NewUserResponse(updated)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Delete удаляет текущего пользователя вместе с его задачами.
func (h *Handler) Delete(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerDelete)

	user, ok := currentUser(ctx)
	if !ok {
		return sendErrorResponse(ctx, http.StatusUnauthorized, middleware.ErrorPleaseAuthenticate)
	}

	deleted, err := h.userService.Delete(requestCtx, user.ID)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendErrorResponse(ctx, http.StatusInternalServerError, ErrorFailedToServeRequest)
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.NewUserResponse(deleted)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// UploadAvatar принимает multipart-файл из поля "avatar", нормализует
// изображение и сохраняет его. Ошибки формата и размера уходят в общий
// обработчик ошибок приложения.
func (h *Handler) UploadAvatar(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerUploadAvatar)

	user, ok := currentUser(ctx)
	if !ok {
		return sendErrorResponse(ctx, http.StatusUnauthorized, middleware.ErrorPleaseAuthenticate)
	}

	fileHeader, err := ctx.FormFile(avatarFormField)
	if err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return sendErrorResponse(ctx, http.StatusBadRequest, ErrorInvalidRequest)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("opening uploaded file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Warn(requestCtx, "failed to close uploaded file", zap.Error(closeErr))
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("reading uploaded file: %w", err)
	}

	if err := h.userService.UploadAvatar(requestCtx, user.ID, fileHeader.Filename, data); err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return err
	}

	if err := ctx.Status(http.StatusOK).JSON(fiber.Map{
		"message": "avatar uploaded successfully",
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// DeleteAvatar очищает аватар текущего пользователя.
func (h *Handler) DeleteAvatar(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerDeleteAvatar)

	user, ok := currentUser(ctx)
	if !ok {
		return sendErrorResponse(ctx, http.StatusUnauthorized, middleware.ErrorPleaseAuthenticate)
	}

	if err := h.userService.DeleteAvatar(requestCtx, user.ID); err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendErrorResponse(ctx, http.StatusInternalServerError, ErrorFailedToServeRequest)
	}

	if err := ctx.Status(http.StatusOK).JSON(fiber.Map{
		"message": "avatar deleted successfully",
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// GetAvatar отдает PNG аватара любого пользователя по его ID.
func (h *Handler) GetAvatar(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerGetAvatar)

	userID := ctx.Params("id")

	avatar, err := h.userService.GetAvatar(requestCtx, userID)
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendErrorResponse(ctx, http.StatusNotFound, "avatar not found")
	}

	ctx.Set(fiber.HeaderContentType, "image/png")
	if err := ctx.Status(http.StatusOK).Send(avatar); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// registerErrorStatus отображает ошибку регистрации в HTTP статус.
func registerErrorStatus(err error) int {
	switch {
	case errors.Is(err, entities.ErrEmptyName),
		errors.Is(err, entities.ErrInvalidEmail),
		errors.Is(err, entities.ErrNegativeAge),
		errors.Is(err, entities.ErrEmailTaken),
		errors.Is(err, services.ErrInvalidPassword),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrPasswordHasPassword):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// updateErrorStatus отображает ошибку изменения пользователя в HTTP статус.
func updateErrorStatus(err error) int {
	switch {
	case errors.Is(err, entities.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrEmptyName),
		errors.Is(err, entities.ErrInvalidEmail),
		errors.Is(err, entities.ErrNegativeAge),
		errors.Is(err, entities.ErrEmailTaken),
		errors.Is(err, services.ErrInvalidPassword),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrPasswordHasPassword):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
