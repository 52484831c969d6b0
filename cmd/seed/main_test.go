package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"socialapp/internal/database"
	"socialapp/internal/domain"
	"socialapp/internal/repository"
)

func TestSeedAdmin(t *testing.T) {
	db, err := database.Connect(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	users := repository.NewUserRepository(db)
	ctx := context.Background()

	seed := adminSeed{Email: "boss@example.com", Password: "password123", Name: "Boss"}
	require.NoError(t, seedAdmin(ctx, users, seed))

	u, err := users.GetByEmail(ctx, "boss@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	// second run promotes instead of duplicating
	require.NoError(t, users.Create(ctx, &domain.User{Email: "late@example.com", PasswordHash: "x", Name: "Late", Role: domain.RoleUser}))
	require.NoError(t, seedAdmin(ctx, users, adminSeed{Email: "late@example.com", Password: "password123", Name: "Late"}))
	late, err := users.GetByEmail(ctx, "late@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, late.Role)

	require.NoError(t, seedAdmin(ctx, users, seed))
	var n int64
	require.NoError(t, db.Model(&domain.User{}).Count(&n).Error)
	assert.Equal(t, int64(2), n)
}
