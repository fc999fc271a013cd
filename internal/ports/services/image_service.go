package services

import "context"

// ImageService определяет интерфейс нормализации изображений аватаров.
type ImageService interface {
	// NormalizeAvatar декодирует изображение и приводит его к PNG 250x250.
	NormalizeAvatar(ctx context.Context, data []byte) ([]byte, error)
}
