// Package http содержит компоненты для HTTP сервера.
package http

import (
	"github.com/gofiber/fiber/v3"

	"gotasker/internal/adapters/http/middleware"
	"gotasker/internal/adapters/http/tasks"
	"gotasker/internal/adapters/http/uploads"
	"gotasker/internal/adapters/http/users"
	"gotasker/internal/ports/api"
)

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, userService api.UserUseCase, taskService api.TaskUseCase, uploadDir string) {
	userHandler := users.NewHandler(userService)
	taskHandler := tasks.NewHandler(taskService)
	uploadHandler := uploads.NewHandler(uploadDir)

	// Middleware для всех запросов.
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	authRequired := middleware.NewAuthMiddleware(userService)

	// Пользовательские маршруты (регистрация и вход публичные).
	userRoutes := app.Group("/users")
	userRoutes.Post("/", userHandler.Register)
	userRoutes.Post("/login", userHandler.Login)
	userRoutes.Post("/logout", userHandler.Logout, authRequired)
	userRoutes.Post("/logoutALL", userHandler.LogoutAll, authRequired)
	userRoutes.Get("/me", userHandler.Profile, authRequired)
	userRoutes.Patch("/me", userHandler.Update, authRequired)
	userRoutes.Delete("/me", userHandler.Delete, authRequired)
	userRoutes.Post("/me/avatar", userHandler.UploadAvatar, authRequired)
	userRoutes.Delete("/me/avatar", userHandler.DeleteAvatar, authRequired)
	userRoutes.Get("/:id/avatar", userHandler.GetAvatar)

	// Маршруты задач (требуют авторизации).
	taskRoutes := app.Group("/tasks")
	taskRoutes.Use(authRequired)
	taskRoutes.Post("/", taskHandler.Create)
	taskRoutes.Get("/", taskHandler.List)
	taskRoutes.Get("/:id", taskHandler.Get)
	taskRoutes.Patch("/:id", taskHandler.Update)
	taskRoutes.Delete("/:id", taskHandler.Delete)

	// Прием документов Word.
	app.Post("/upload", uploadHandler.Upload)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
