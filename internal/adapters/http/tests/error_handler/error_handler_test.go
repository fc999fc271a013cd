package errorhandler_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "gotasker/internal/adapters/http"
	"gotasker/internal/domain/services"
)

// respondWith прогоняет ошибку обработчика через обработчик ошибок приложения.
func respondWith(t *testing.T, handlerErr error) (int, string) {
	t.Helper()

	app := fiber.New(fiber.Config{ErrorHandler: httpserver.NewErrorHandler()})
	app.Get("/fail", func(fiber.Ctx) error {
		return handlerErr
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func TestErrorHandler(t *testing.T) {
	t.Run("Ошибки загрузки дают 400 с текстом причины", func(t *testing.T) {
		cases := []error{
			services.ErrFileTooLarge,
			services.ErrBadAvatarFormat,
			services.ErrBadDocumentType,
			services.ErrBrokenImage,
		}

		for _, uploadErr := range cases {
			status, body := respondWith(t, uploadErr)

			assert.Equal(t, http.StatusBadRequest, status, uploadErr.Error())
			assert.Contains(t, body, uploadErr.Error())
		}
	})

	t.Run("Превышение лимита тела дает 400 как слишком большой файл", func(t *testing.T) {
		status, body := respondWith(t, fiber.ErrRequestEntityTooLarge)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, body, services.ErrFileTooLarge.Error())
	})

	t.Run("Прочие ошибки fiber сохраняют свой статус", func(t *testing.T) {
		status, _ := respondWith(t, fiber.ErrNotFound)

		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("Неизвестная ошибка дает 500 без деталей", func(t *testing.T) {
		status, body := respondWith(t, errors.New("pool exhausted"))

		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Contains(t, body, "Internal Server Error")
		assert.NotContains(t, body, "pool exhausted")
	})
}
