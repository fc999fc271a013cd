package userusecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gotasker/internal/app"
	"gotasker/internal/domain/entities"
)

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()

	userID := "user-123"

	existingUser := func() *entities.User {
		return &entities.User{
			ID:           userID,
			Name:         "Ivan",
			Email:        "ivan@example.com",
			Age:          30,
			PasswordHash: "old_hash",
		}
	}

	t.Run("Неразрешенный ключ отклоняется до обращения к репозиторию", func(t *testing.T) {
		userRepo := new(mockUserRepository)

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), new(mockPasswordService), new(mockTokenService), new(mockImageService), new(mockCache))
		updated, err := useCase.Update(ctx, userID, map[string]any{"role": "admin"})

		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrInvalidUpdateKey)
		assert.Nil(t, updated)
		userRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Смесь разрешенных и неразрешенных ключей тоже отклоняется", func(t *testing.T) {
		userRepo := new(mockUserRepository)

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), new(mockPasswordService), new(mockTokenService), new(mockImageService), new(mockCache))
		_, err := useCase.Update(ctx, userID, map[string]any{"name": "Petr", "tokens": []string{}})

		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrInvalidUpdateKey)
		userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Успешное обновление имени и возраста", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		user := existingUser()

		userRepo.On("FindByID", mock.Anything, userID).Return(user, nil).Once()
		userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
			return u.Name == "Petr" && u.Age == 31
		})).Return(&entities.User{ID: userID, Name: "Petr", Age: 31}, nil).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), new(mockPasswordService), new(mockTokenService), new(mockImageService), new(mockCache))
		// Числа из разобранного JSON приходят как float64.
		updated, err := useCase.Update(ctx, userID, map[string]any{"name": "Petr", "age": float64(31)})

		require.NoError(t, err)
		assert.Equal(t, "Petr", updated.Name)
		assert.Equal(t, 31, updated.Age)
		userRepo.AssertExpectations(t)
	})

	t.Run("Обновление пароля перехэшируется", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		passwordSvc := new(mockPasswordService)
		user := existingUser()

		userRepo.On("FindByID", mock.Anything, userID).Return(user, nil).Once()
		passwordSvc.On("Hash", mock.Anything, "newsecret123").Return("new_hash", nil).Once()
		userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
			return u.PasswordHash == "new_hash"
		})).Return(user, nil).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), passwordSvc, new(mockTokenService), new(mockImageService), new(mockCache))
		_, err := useCase.Update(ctx, userID, map[string]any{"password": "newsecret123"})

		require.NoError(t, err)
		passwordSvc.AssertExpectations(t)
		userRepo.AssertExpectations(t)
	})

	t.Run("Ошибка - некорректный email", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		userRepo.On("FindByID", mock.Anything, userID).Return(existingUser(), nil).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), new(mockPasswordService), new(mockTokenService), new(mockImageService), new(mockCache))
		_, err := useCase.Update(ctx, userID, map[string]any{"email": "broken"})

		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrInvalidEmail)
		userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Ошибка - дробный возраст", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		userRepo.On("FindByID", mock.Anything, userID).Return(existingUser(), nil).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), new(mockPasswordService), new(mockTokenService), new(mockImageService), new(mockCache))
		_, err := useCase.Update(ctx, userID, map[string]any{"age": 30.5})

		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrNegativeAge)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	userID := "user-123"
	testUser := &entities.User{ID: userID, Name: "Ivan", Email: "ivan@example.com"}

	t.Run("Удаление возвращает пользователя и чистит кэш аватара", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		avatarCache := new(mockCache)

		userRepo.On("FindByID", mock.Anything, userID).Return(testUser, nil).Once()
		userRepo.On("Delete", mock.Anything, userID).Return(nil).Once()
		avatarCache.On("Delete", mock.Anything, "avatar:"+userID).Return(nil).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), new(mockPasswordService), new(mockTokenService), new(mockImageService), avatarCache)
		deleted, err := useCase.Delete(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, userID, deleted.ID)
		userRepo.AssertExpectations(t)
		avatarCache.AssertExpectations(t)
	})

	t.Run("Ошибка - пользователь не найден", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		userRepo.On("FindByID", mock.Anything, userID).Return(nil, entities.ErrUserNotFound).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), new(mockPasswordService), new(mockTokenService), new(mockImageService), new(mockCache))
		deleted, err := useCase.Delete(ctx, userID)

		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrUserNotFound)
		assert.Nil(t, deleted)
		userRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
