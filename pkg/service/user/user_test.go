package user_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremi-ah/bankledger/infra/repository/memory"
	"github.com/jeremi-ah/bankledger/pkg/domain"
	usersvc "github.com/jeremi-ah/bankledger/pkg/service/user"
	"github.com/jeremi-ah/bankledger/pkg/utils"
)

func TestRegister(t *testing.T) {
	svc := usersvc.New(memory.NewUserRepository(), slog.Default())

	u, err := svc.Register(context.Background(), "ada", "ada@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "ada", u.Username)
	assert.NotEqual(t, "correct-horse", u.HashedPassword)
	assert.True(t, utils.CheckPasswordHash("correct-horse", u.HashedPassword))

	got, err := svc.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Username, got.Username)
}

func TestRegister_InvalidEmail(t *testing.T) {
	svc := usersvc.New(memory.NewUserRepository(), slog.Default())
	_, err := svc.Register(context.Background(), "ada", "not-an-email", "correct-horse")
	assert.Error(t, err)
}

func TestRegister_Duplicate(t *testing.T) {
	svc := usersvc.New(memory.NewUserRepository(), slog.Default())

	_, err := svc.Register(context.Background(), "ada", "ada@example.com", "correct-horse")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "ada", "other@example.com", "correct-horse")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}
