package services

import (
	"errors"
)

// Ошибки загрузки файлов. Обрабатываются выделенным этапом обработки
// ошибок загрузки и всегда отображаются в HTTP 400.
var (
	ErrFileTooLarge     = errors.New("file is too large")
	ErrBadAvatarFormat  = errors.New("file format should only be: .jpg or .jpeg or .png")
	ErrBadDocumentType  = errors.New("please upload a Word document")
	ErrBrokenImage      = errors.New("cannot decode image")
	ErrProcessingFailed = errors.New("failed to process image")
)

// Ограничения загрузки.
const (
	// MaxUploadSize - максимальный размер загружаемого файла в байтах.
	MaxUploadSize = 1_000_000
	// AvatarSide - сторона квадратного аватара после нормализации.
	AvatarSide = 250
)
