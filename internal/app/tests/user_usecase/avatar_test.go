package userusecase_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gotasker/internal/app"
	"gotasker/internal/domain/entities"
	"gotasker/internal/domain/services"
)

func TestUploadAvatar(t *testing.T) {
	ctx := context.Background()

	userID := "user-123"
	rawImage := []byte("raw-image-bytes")
	normalized := []byte("normalized-png-bytes")

	t.Run("Успешная загрузка аватара", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		imageSvc := new(mockImageService)
		avatarCache := new(mockCache)

		imageSvc.On("NormalizeAvatar", mock.Anything, rawImage).Return(normalized, nil).Once()
		userRepo.On("UpdateAvatar", mock.Anything, userID, normalized).Return(nil).Once()
		avatarCache.On("Delete", mock.Anything, "avatar:"+userID).Return(nil).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), new(mockPasswordService), new(mockTokenService), imageSvc, avatarCache)
		err := useCase.UploadAvatar(ctx, userID, "photo.jpg", rawImage)

		require.NoError(t, err)
		userRepo.AssertExpectations(t)
		imageSvc.AssertExpectations(t)
		avatarCache.AssertExpectations(t)
	})

	t.Run("Расширения jpg, jpeg и png допустимы", func(t *testing.T) {
		for _, filename := range []string{"a.jpg", "b.JPEG", "c.png"} {
			userRepo := new(mockUserRepository)
			imageSvc := new(mockImageService)
			avatarCache := new(mockCache)

			imageSvc.On("NormalizeAvatar", mock.Anything, rawImage).Return(normalized, nil).Once()
			userRepo.On("UpdateAvatar", mock.Anything, userID, normalized).Return(nil).Once()
			avatarCache.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()

			useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), new(mockPasswordService), new(mockTokenService), imageSvc, avatarCache)
			require.NoError(t, useCase.UploadAvatar(ctx, userID, filename, rawImage))
		}
	})

	t.Run("Ошибка - недопустимое расширение файла", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		imageSvc := new(mockImageService)

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), new(mockPasswordService), new(mockTokenService), imageSvc, new(mockCache))
		err := useCase.UploadAvatar(ctx, userID, "malware.exe", rawImage)

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrBadAvatarFormat)
		imageSvc.AssertNotCalled(t, "NormalizeAvatar", mock.Anything, mock.Anything)
		userRepo.AssertNotCalled(t, "UpdateAvatar", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Ошибка - файл больше лимита", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		imageSvc := new(mockImageService)
		oversized := bytes.Repeat([]byte{0x1}, services.MaxUploadSize+1)

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), new(mockPasswordService), new(mockTokenService), imageSvc, new(mockCache))
		err := useCase.UploadAvatar(ctx, userID, "big.png", oversized)

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrFileTooLarge)
		imageSvc.AssertNotCalled(t, "NormalizeAvatar", mock.Anything, mock.Anything)
		userRepo.AssertNotCalled(t, "UpdateAvatar", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Ошибка - битое изображение", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		imageSvc := new(mockImageService)

		imageSvc.On("NormalizeAvatar", mock.Anything, rawImage).
			Return(nil, services.ErrBrokenImage).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), new(mockPasswordService), new(mockTokenService), imageSvc, new(mockCache))
		err := useCase.UploadAvatar(ctx, userID, "broken.jpg", rawImage)

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrBrokenImage)
		userRepo.AssertNotCalled(t, "UpdateAvatar", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeleteAvatar(t *testing.T) {
	ctx := context.Background()

	userID := "user-123"

	t.Run("Удаление аватара чистит поле и кэш", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		avatarCache := new(mockCache)

		userRepo.On("UpdateAvatar", mock.Anything, userID, []byte(nil)).Return(nil).Once()
		avatarCache.On("Delete", mock.Anything, "avatar:"+userID).Return(nil).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), new(mockPasswordService), new(mockTokenService), new(mockImageService), avatarCache)
		err := useCase.DeleteAvatar(ctx, userID)

		require.NoError(t, err)
		userRepo.AssertExpectations(t)
		avatarCache.AssertExpectations(t)
	})
}

func TestGetAvatar(t *testing.T) {
	ctx := context.Background()

	userID := "user-123"
	avatarPNG := []byte("png-bytes")
	cacheKey := "avatar:" + userID

	t.Run("Попадание в кэш не трогает базу", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		avatarCache := new(mockCache)

		avatarCache.On("Get", mock.Anything, cacheKey).
			Return(base64.StdEncoding.EncodeToString(avatarPNG), nil).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), new(mockPasswordService), new(mockTokenService), new(mockImageService), avatarCache)
		avatar, err := useCase.GetAvatar(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, avatarPNG, avatar)
		userRepo.AssertNotCalled(t, "GetAvatar", mock.Anything, mock.Anything)
	})

	t.Run("Промах кэша читает базу и заполняет кэш", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		avatarCache := new(mockCache)

		avatarCache.On("Get", mock.Anything, cacheKey).Return("", nil).Once()
		userRepo.On("GetAvatar", mock.Anything, userID).Return(avatarPNG, nil).Once()
		avatarCache.On("Set", mock.Anything, cacheKey, base64.StdEncoding.EncodeToString(avatarPNG), mock.Anything).Return(nil).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), new(mockPasswordService), new(mockTokenService), new(mockImageService), avatarCache)
		avatar, err := useCase.GetAvatar(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, avatarPNG, avatar)
		userRepo.AssertExpectations(t)
		avatarCache.AssertExpectations(t)
	})

	t.Run("Недоступный кэш деградирует до базы", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		avatarCache := new(mockCache)

		avatarCache.On("Get", mock.Anything, cacheKey).Return("", assert.AnError).Once()
		userRepo.On("GetAvatar", mock.Anything, userID).Return(avatarPNG, nil).Once()
		avatarCache.On("Set", mock.Anything, cacheKey, mock.Anything, mock.Anything).Return(assert.AnError).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), new(mockPasswordService), new(mockTokenService), new(mockImageService), avatarCache)
		avatar, err := useCase.GetAvatar(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, avatarPNG, avatar)
	})

	t.Run("Ошибка - аватар отсутствует", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		avatarCache := new(mockCache)

		avatarCache.On("Get", mock.Anything, cacheKey).Return("", nil).Once()
		userRepo.On("GetAvatar", mock.Anything, userID).Return(nil, entities.ErrAvatarNotFound).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), new(mockPasswordService), new(mockTokenService), new(mockImageService), avatarCache)
		avatar, err := useCase.GetAvatar(ctx, userID)

		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrAvatarNotFound)
		assert.Nil(t, avatar)
	})
}
