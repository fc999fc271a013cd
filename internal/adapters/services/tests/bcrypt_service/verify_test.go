package bcryptservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	adapters "gotasker/internal/adapters/services"
)

func TestBcryptService_Verify(t *testing.T) {
	ctx := context.Background()
	svc := adapters.NewBcrypt(bcrypt.MinCost)

	hash, err := svc.Hash(ctx, "qwerty12345")
	require.NoError(t, err)

	t.Run("Совпадающий пароль проходит проверку", func(t *testing.T) {
		valid, err := svc.Verify(ctx, "qwerty12345", hash)

		require.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("Несовпадающий пароль не проходит проверку без ошибки", func(t *testing.T) {
		valid, err := svc.Verify(ctx, "wrongpass99", hash)

		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("Пустой пароль - несовпадение без ошибки", func(t *testing.T) {
		valid, err := svc.Verify(ctx, "", hash)

		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("Ошибка - пустой хэш", func(t *testing.T) {
		valid, err := svc.Verify(ctx, "qwerty12345", "")

		require.Error(t, err)
		assert.False(t, valid)
	})
}
