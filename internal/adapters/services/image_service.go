package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"gotasker/internal/domain/services"
	svc "gotasker/internal/ports/services"
	"gotasker/pkg/logger"
)

// Константы для работы с изображениями.
const (
	methodNormalizeAvatar = "NormalizeAvatar"
	msgDecodingImage      = "decoding avatar image"
	msgImageNormalized    = "avatar normalized"
	errMsgDecodeImage     = "failed to decode image"
	errMsgEncodePNG       = "failed to encode png"
)

// ServiceImaging реализует интерфейс ImageService поверх библиотеки imaging.
type ServiceImaging struct{}

// NewImaging создает новый сервис обработки изображений.
func NewImaging() svc.ImageService {
	return &ServiceImaging{}
}

// NormalizeAvatar декодирует изображение, приводит его к квадрату 250x250
// и перекодирует в PNG.
func (s *ServiceImaging) NormalizeAvatar(ctx context.Context, data []byte) ([]byte, error) {
	log := logger.Log(ctx).With(zap.String("method", methodNormalizeAvatar))
	log.Debug(ctx, msgDecodingImage, zap.Int("bytes", len(data)))

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		log.Debug(ctx, errMsgDecodeImage, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errMsgDecodeImage, services.ErrBrokenImage)
	}

	resized := imaging.Resize(img, services.AvatarSide, services.AvatarSide, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		log.Error(ctx, errMsgEncodePNG, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errMsgEncodePNG, services.ErrProcessingFailed)
	}

	log.Debug(ctx, msgImageNormalized, zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}
