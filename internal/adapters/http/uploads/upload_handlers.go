// Package uploads содержит HTTP обработчик приема документов Word.
package uploads

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gotasker/internal/domain/services"
	"gotasker/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerUpload = "upload handler: upload document"

	ErrorInvalidRequest = "invalid request"

	uploadFormField = "upload"
	uploadDirPerm   = 0o750
)

// Расширения файлов, допустимые для загрузки документов.
var allowedDocumentExtensions = map[string]struct{}{
	".doc":  {},
	".docx": {},
}

// Handler принимает документы Word и складывает их в каталог загрузок.
type Handler struct {
	uploadDir string
}

// NewHandler создает новый экземпляр обработчика загрузок.
func NewHandler(uploadDir string) *Handler {
	return &Handler{
		uploadDir: uploadDir,
	}
}

// Upload принимает multipart-файл из поля "upload". Только .doc и .docx
// не больше разрешенного размера; ошибки уходят в общий обработчик ошибок.
func (h *Handler) Upload(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerUpload)

	fileHeader, err := ctx.FormFile(uploadFormField)
	if err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": ErrorInvalidRequest,
		})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := allowedDocumentExtensions[ext]; !ok {
		return services.ErrBadDocumentType
	}

	if fileHeader.Size > services.MaxUploadSize {
		return services.ErrFileTooLarge
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

	if err := os.MkdirAll(h.uploadDir, uploadDirPerm); err != nil {
		return fmt.Errorf("creating upload directory: %w", err)
	}

	destination := filepath.Join(h.uploadDir, filepath.Base(fileHeader.Filename))
	if err := os.WriteFile(destination, data, 0o600); err != nil {
		return fmt.Errorf("storing uploaded file: %w", err)
	}

	log.Info(requestCtx, "document stored", zap.String("file", destination))

	if err := ctx.Status(http.StatusOK).JSON(fiber.Map{
		"message": "file uploaded successfully",
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}
