package userusecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gotasker/internal/app"
	"gotasker/internal/domain/entities"
	"gotasker/internal/domain/services"
)

var errDatabaseConnection = errors.New("database connection error")

func TestLogin(t *testing.T) {
	ctx := context.Background()

	userID := "user-123"
	testEmail := "ivan@example.com"
	testPassword := "qwerty12345"
	hashedPassword := "hashed_password"
	sessionToken := "session-token-123"
	expiresAt := time.Now().Add(720 * time.Hour)

	testUser := &entities.User{
		ID:           userID,
		Name:         "Ivan",
		Email:        testEmail,
		PasswordHash: hashedPassword,
	}

	t.Run("Успешный вход пользователя", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		sessionRepo := new(mockSessionRepository)
		passwordSvc := new(mockPasswordService)
		tokenSvc := new(mockTokenService)

		userRepo.On("FindByEmail", mock.Anything, testEmail).Return(testUser, nil).Once()
		passwordSvc.On("Verify", mock.Anything, testPassword, hashedPassword).Return(true, nil).Once()
		tokenSvc.On("GenerateSessionToken", mock.Anything, userID).Return(sessionToken, expiresAt, nil).Once()
		sessionRepo.On("Store", mock.Anything, mock.MatchedBy(func(s *services.Session) bool {
			return s.UserID == userID && s.Token == sessionToken
		})).Return(nil).Once()

		useCase := app.NewUserUseCase(userRepo, sessionRepo, passwordSvc, tokenSvc, new(mockImageService), new(mockCache))
		user, token, err := useCase.Login(ctx, testEmail, testPassword)

		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, sessionToken, token)

		userRepo.AssertExpectations(t)
		sessionRepo.AssertExpectations(t)
	})

	t.Run("Ошибка - несуществующий email", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		userRepo.On("FindByEmail", mock.Anything, "ghost@example.com").
			Return(nil, entities.ErrUserNotFound).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), new(mockPasswordService), new(mockTokenService), new(mockImageService), new(mockCache))
		user, token, err := useCase.Login(ctx, "ghost@example.com", testPassword)

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrUnableToLogin)
		assert.Nil(t, user)
		assert.Empty(t, token)
	})

	t.Run("Ошибка - неверный пароль", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		passwordSvc := new(mockPasswordService)

		userRepo.On("FindByEmail", mock.Anything, testEmail).Return(testUser, nil).Once()
		passwordSvc.On("Verify", mock.Anything, "wrongpass", hashedPassword).Return(false, nil).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), passwordSvc, new(mockTokenService), new(mockImageService), new(mockCache))
		_, _, err := useCase.Login(ctx, testEmail, "wrongpass")

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrUnableToLogin)
	})

	t.Run("Неизвестный email и неверный пароль неразличимы", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		passwordSvc := new(mockPasswordService)

		userRepo.On("FindByEmail", mock.Anything, "ghost@example.com").
			Return(nil, entities.ErrUserNotFound).Once()
		userRepo.On("FindByEmail", mock.Anything, testEmail).Return(testUser, nil).Once()
		passwordSvc.On("Verify", mock.Anything, "wrongpass", hashedPassword).Return(false, nil).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), passwordSvc, new(mockTokenService), new(mockImageService), new(mockCache))

		_, _, errUnknownEmail := useCase.Login(ctx, "ghost@example.com", testPassword)
		_, _, errWrongPassword := useCase.Login(ctx, testEmail, "wrongpass")

		require.Error(t, errUnknownEmail)
		require.Error(t, errWrongPassword)
		assert.ErrorIs(t, errUnknownEmail, services.ErrUnableToLogin)
		assert.ErrorIs(t, errWrongPassword, services.ErrUnableToLogin)
	})

	t.Run("Пустой пароль дает непрозрачную ошибку входа", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		passwordSvc := new(mockPasswordService)

		userRepo.On("FindByEmail", mock.Anything, testEmail).Return(testUser, nil).Once()
		passwordSvc.On("Verify", mock.Anything, "", hashedPassword).Return(false, nil).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), passwordSvc, new(mockTokenService), new(mockImageService), new(mockCache))
		_, _, err := useCase.Login(ctx, testEmail, "")

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrUnableToLogin)
	})

	t.Run("Ошибка - сбой базы данных", func(t *testing.T) {
		userRepo := new(mockUserRepository)
		userRepo.On("FindByEmail", mock.Anything, testEmail).Return(nil, errDatabaseConnection).Once()

		useCase := app.NewUserUseCase(userRepo, new(mockSessionRepository), new(mockPasswordService), new(mockTokenService), new(mockImageService), new(mockCache))
		_, _, err := useCase.Login(ctx, testEmail, testPassword)

		require.Error(t, err)
		assert.NotErrorIs(t, err, services.ErrUnableToLogin)
		assert.ErrorIs(t, err, errDatabaseConnection)
	})
}
