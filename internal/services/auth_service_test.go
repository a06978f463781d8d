package services_test

import (
	"testing"

	"github.com/localnerve/clientsdb/internal/auth"
	"github.com/localnerve/clientsdb/internal/database"
	"github.com/localnerve/clientsdb/internal/logging"
	"github.com/localnerve/clientsdb/internal/models"
	"github.com/localnerve/clientsdb/internal/repository"
	"github.com/localnerve/clientsdb/internal/services"
	"github.com/localnerve/clientsdb/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterAndLogin(t *testing.T) {
	f := setup(t)
	gate := f.svc.Auth

	user, err := gate.Register(f.ctx, services.RegisterInput{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "pw", user.PasswordHash)

	_, err = gate.Register(f.ctx, services.RegisterInput{Username: "alice", Password: "pw2"})
	assert.ErrorIs(t, err, types.ErrDuplicateUsername)
	assert.Equal(t, "Username already exists!", err.Error())

	principal, err := gate.Login(f.ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, &auth.Principal{UserID: user.ID, Username: "alice", Role: models.RoleUser}, principal)

	_, err = gate.Login(f.ctx, "alice", "wrongpw")
	assert.ErrorIs(t, err, types.ErrInvalidCredentials)

	_, err = gate.Login(f.ctx, "mallory", "pw")
	assert.ErrorIs(t, err, types.ErrInvalidCredentials)
}

func TestRegisterRolesAndEmail(t *testing.T) {
	f := setup(t)
	gate := f.svc.Auth

	admin, err := gate.Register(f.ctx, services.RegisterInput{Username: "root", Password: "pw", Role: models.RoleAdmin, Email: "root@example.com"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	_, err = gate.Register(f.ctx, services.RegisterInput{Username: "bad", Password: "pw", Role: "SUPERUSER"})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = gate.Register(f.ctx, services.RegisterInput{Username: "other", Password: "pw", Email: "root@example.com"})
	assert.ErrorIs(t, err, types.ErrConflict)
	_, err = gate.Register(f.ctx, services.RegisterInput{Username: "other", Password: "pw", Email: "Root@Example.com"})
	assert.ErrorIs(t, err, types.ErrConflict)

	_, err = gate.Register(f.ctx, services.RegisterInput{Username: "", Password: "pw"})
	assert.ErrorIs(t, err, types.ErrValidation)

	found, err := gate.FindByEmail(f.ctx, "ROOT@example.com")
	require.NoError(t, err)
	assert.Equal(t, "root", found.Username)

	found, err = gate.FindByUsername(f.ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, found.ID)

	_, err = gate.FindByUsername(f.ctx, "nobody")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestAuthorize(t *testing.T) {
	f := setup(t)
	gate := f.svc.Auth

	admin := &auth.Principal{UserID: 1, Username: "root", Role: models.RoleAdmin}
	user := &auth.Principal{UserID: 2, Username: "alice", Role: models.RoleUser}

	assert.NoError(t, gate.Authorize(admin, services.RequireAuthenticated))
	assert.NoError(t, gate.Authorize(user, services.RequireAuthenticated))
	assert.NoError(t, gate.Authorize(admin, services.RequireRole(models.RoleAdmin)))

	err := gate.Authorize(user, services.RequireRole(models.RoleAdmin))
	assert.ErrorIs(t, err, types.ErrForbidden)
	assert.Equal(t, types.CategoryForbidden, types.KindOf(err).Category())

	err = gate.Authorize(nil, services.RequireAuthenticated)
	assert.ErrorIs(t, err, types.ErrInvalidCredentials)
}

func TestTokens(t *testing.T) {
	f := setup(t)
	gate := f.svc.Auth
	require.True(t, gate.TokensEnabled())

	user, err := gate.Register(f.ctx, services.RegisterInput{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	principal, err := gate.Login(f.ctx, "alice", "pw")
	require.NoError(t, err)

	token, err := gate.IssueToken(principal)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)

	resolved, err := gate.ResolveToken(f.ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, principal, resolved)

	// Role changes apply to tokens issued before the change
	user.Role = models.RoleAdmin
	require.NoError(t, f.store.Users.Save(f.ctx, user))
	resolved, err = gate.ResolveToken(f.ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resolved.Role)

	_, err = gate.ResolveToken(f.ctx, token.AccessToken+"x")
	assert.ErrorIs(t, err, types.ErrInvalidCredentials)
}

func TestTokensDisabled(t *testing.T) {
	db, err := database.OpenSQLiteMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	gate := services.NewAuthGate(repository.NewStore(db), auth.NewBcryptHasher(bcrypt.MinCost), nil, logging.Discard())

	assert.False(t, gate.TokensEnabled())
	_, err = gate.IssueToken(&auth.Principal{UserID: 1})
	assert.ErrorIs(t, err, services.ErrTokensDisabled)
	_, err = gate.ResolveToken(t.Context(), "anything")
	assert.ErrorIs(t, err, types.ErrInvalidCredentials)
}

func TestEnsureAdmin(t *testing.T) {
	f := setup(t)
	gate := f.svc.Auth

	require.NoError(t, gate.EnsureAdmin(f.ctx, "root", "secret"))
	require.NoError(t, gate.EnsureAdmin(f.ctx, "root", "other"))

	principal, err := gate.Login(f.ctx, "root", "secret")
	require.NoError(t, err)
	assert.True(t, principal.IsAdmin())
}
