package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/muzz-matching/internal/db"
	svcErr "github.com/oggyb/muzz-matching/internal/errors"
	"github.com/oggyb/muzz-matching/internal/repository"
)

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	repo := repository.NewUserRepository(database)

	u := &db.User{Username: "alice", Active: true, Gender: db.GenderFemale}
	seedUsers(t, database, u)

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.True(t, got.Active)

	_, err = repo.GetByID(ctx, 12345)
	assert.True(t, svcErr.IsNotFound(err))
}

func TestUserRepository_InactiveIsStored(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	repo := repository.NewUserRepository(database)

	u := &db.User{Username: "ghost", Email: "ghost@example.com", PasswordHash: "x", Active: false}
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, db.GenderOther, got.Gender)
	assert.Zero(t, got.Reputation)
}

func TestUserRepository_LockPair(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	repo := repository.NewUserRepository(database)

	a := &db.User{Username: "a"}
	b := &db.User{Username: "b"}
	seedUsers(t, database, a, b)

	err := database.Transaction(func(tx *gorm.DB) error {
		first, second, err := repo.WithTx(tx).LockPair(ctx, b.ID, a.ID)
		require.NoError(t, err)
		assert.Equal(t, b.ID, first.ID)
		assert.Equal(t, a.ID, second.ID)

		_, _, err = repo.WithTx(tx).LockPair(ctx, a.ID, 999)
		assert.True(t, svcErr.IsNotFound(err))
		return nil
	})
	require.NoError(t, err)
}

func TestUserRepository_Reputation(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	repo := repository.NewUserRepository(database)

	a := &db.User{Username: "a"}
	b := &db.User{Username: "b", Reputation: 4}
	seedUsers(t, database, a, b)

	require.NoError(t, repo.IncrementReputation(ctx, a.ID, b.ID))
	got, _ := repo.GetByID(ctx, b.ID)
	assert.Equal(t, int64(5), got.Reputation)

	assert.Error(t, repo.IncrementReputation(ctx, a.ID, 999))

	// floor at zero for any starting value
	require.NoError(t, repo.AdjustReputation(ctx, b.ID, -100))
	got, _ = repo.GetByID(ctx, b.ID)
	assert.Zero(t, got.Reputation)

	require.NoError(t, repo.AdjustReputation(ctx, b.ID, -1))
	got, _ = repo.GetByID(ctx, b.ID)
	assert.Zero(t, got.Reputation)

	require.NoError(t, repo.AdjustReputation(ctx, b.ID, 3))
	require.NoError(t, repo.AdjustReputation(ctx, b.ID, -2))
	got, _ = repo.GetByID(ctx, b.ID)
	assert.Equal(t, int64(1), got.Reputation)

	assert.True(t, svcErr.IsNotFound(repo.AdjustReputation(ctx, 999, 1)))
}
