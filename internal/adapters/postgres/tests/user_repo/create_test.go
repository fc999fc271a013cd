package userrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotasker/internal/adapters/postgres"
	"gotasker/internal/domain/entities"
	"gotasker/pkg/logger"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func TestUserRepository_Create(t *testing.T) {
	ctx := testContext(t)

	inputUser := &entities.User{
		Name:         "Ivan",
		Email:        "ivan@example.com",
		Age:          30,
		PasswordHash: "hashed_password",
	}

	userColumns := []string{"id", "name", "email", "age", "password_hash", "created_at", "updated_at"}
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("Успешное создание пользователя", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO users .+").
			WithArgs(inputUser.Name, inputUser.Email, inputUser.Age, inputUser.PasswordHash).
			WillReturnRows(
				pgxmock.NewRows(userColumns).
					AddRow("generated-uuid", inputUser.Name, inputUser.Email, inputUser.Age, inputUser.PasswordHash, now, now),
			)

		repo := postgres.NewUserRepository(mock)
		createdUser, err := repo.Create(ctx, inputUser)

		require.NoError(t, err)
		assert.Equal(t, "generated-uuid", createdUser.ID)
		assert.Equal(t, inputUser.Email, createdUser.Email)
		assert.Equal(t, inputUser.Age, createdUser.Age)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Дублирующийся email дает ErrEmailTaken", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO users .+").
			WithArgs(inputUser.Name, inputUser.Email, inputUser.Age, inputUser.PasswordHash).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"})

		repo := postgres.NewUserRepository(mock)
		createdUser, err := repo.Create(ctx, inputUser)

		assert.Nil(t, createdUser)
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrEmailTaken)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Общая ошибка БД оборачивается контекстом", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		dbError := errors.New("database connection error")
		mock.ExpectQuery("INSERT INTO users .+").
			WithArgs(inputUser.Name, inputUser.Email, inputUser.Age, inputUser.PasswordHash).
			WillReturnError(dbError)

		repo := postgres.NewUserRepository(mock)
		createdUser, err := repo.Create(ctx, inputUser)

		assert.Nil(t, createdUser)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error creating user")

		require.NoError(t, mock.ExpectationsWereMet())
	})
}
