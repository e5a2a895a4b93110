package service

import (
	"context"
	"errors"
	"testing"

	"waterlife-backoffice/internal/config"
	"waterlife-backoffice/internal/model"
	"waterlife-backoffice/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t, config.PricingManual)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, &RegisterRequest{Name: "Ana", Email: "Ana@Example.com", Password: "secreto1"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, []string{model.RoleClient}, user.Roles)

	_, err = env.auth.Register(ctx, &RegisterRequest{Name: "Ana 2", Email: "ana@example.com", Password: "secreto1"})
	assert.ErrorIs(t, err, ErrConflict)

	resp, err := env.auth.Login(ctx, &LoginRequest{Email: "ANA@example.com", Password: "secreto1"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleClient, resp.Role)
	assert.Equal(t, "Bienvenido, Ana", resp.Message)

	claims, err := env.tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.RoleClient, claims.Role)
}

func TestAuthService_LoginFailures(t *testing.T) {
	env := newTestEnv(t, config.PricingManual)
	ctx := context.Background()

	_, err := env.auth.Login(ctx, &LoginRequest{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, &LoginRequest{Email: "not-an-email", Password: "x"})
	assert.ErrorIs(t, err, ErrValidation)

	resp, err := env.auth.Login(ctx, &LoginRequest{Email: "admin@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, resp.Role)
}

func TestUserService_CreateSendsCredentials(t *testing.T) {
	env := newTestEnv(t, config.PricingManual)
	ctx := context.Background()

	user, err := env.users.CreateUser(ctx, &CreateUserRequest{
		Name: "Luis", Email: "luis@example.com", Password: "temporal1", Role: "client",
	}, env.admin)
	require.NoError(t, err)
	assert.Equal(t, []string{model.RoleClient}, user.Roles)
	assert.Equal(t, []string{"luis@example.com"}, env.notifier.credentials)

	env.notifier.err = errors.New("smtp down")
	_, err = env.users.CreateUser(ctx, &CreateUserRequest{
		Name: "Eva", Email: "eva@example.com", Password: "temporal1", Role: model.RoleAdmin,
	}, env.admin)
	require.NoError(t, err)

	_, err = env.users.CreateUser(ctx, &CreateUserRequest{
		Name: "Otro", Email: "luis@example.com", Password: "temporal1", Role: model.RoleClient,
	}, env.admin)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserService_AssignRole(t *testing.T) {
	env := newTestEnv(t, config.PricingManual)
	ctx := context.Background()
	user := env.client(t, "Ana", "ana@example.com")

	got, err := env.users.AssignRole(ctx, &AssignRoleRequest{UserID: user.ID, Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, []string{model.RoleAdmin}, got.Roles)

	_, err = env.users.AssignRole(ctx, &AssignRoleRequest{UserID: user.ID, Role: "OWNER"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.users.AssignRole(ctx, &AssignRoleRequest{UserID: uuid.New(), Role: model.RoleClient})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_Delete(t *testing.T) {
	env := newTestEnv(t, config.PricingManual)
	ctx := context.Background()
	idle := env.client(t, "Idle", "idle@example.com")
	buyer := env.client(t, "Buyer", "buyer@example.com")
	material := testutil.CreateRawMaterial(t, env.db, "Botella", 5, "1", "0")
	product := testutil.CreateProduct(t, env.db, "Botella 1L", "8", testutil.Component(material, 1))
	_, err := env.sales.Create(ctx, &CreateSaleRequest{ProductID: product.ID, CustomerID: buyer.ID, Quantity: 1}, env.admin)
	require.NoError(t, err)

	assert.ErrorIs(t, env.users.DeleteUser(ctx, env.admin.ID, env.admin.ID), ErrConflict)
	assert.ErrorIs(t, env.users.DeleteUser(ctx, buyer.ID, env.admin.ID), ErrConflict)
	assert.ErrorIs(t, env.users.DeleteUser(ctx, uuid.New(), env.admin.ID), ErrNotFound)

	require.NoError(t, env.users.DeleteUser(ctx, idle.ID, env.admin.ID))
	_, err = env.users.GetUserByID(ctx, idle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_SelfService(t *testing.T) {
	env := newTestEnv(t, config.PricingManual)
	ctx := context.Background()
	ana := env.client(t, "Ana", "ana@example.com")
	env.client(t, "Luis", "luis@example.com")

	got, err := env.users.UpdateName(ctx, ana.ID, &UpdateNameRequest{Name: "Ana María"})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", got.Name)

	_, err = env.users.UpdateEmail(ctx, ana.ID, &UpdateEmailRequest{Email: "luis@example.com"})
	assert.ErrorIs(t, err, ErrConflict)

	got, err = env.users.UpdateEmail(ctx, ana.ID, &UpdateEmailRequest{Email: "ana.maria@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ana.maria@example.com", got.Email)
	assert.Equal(t, "Ana María", got.Name)

	err = env.users.ChangePassword(ctx, ana.ID, &ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "nuevo123"})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, env.users.ChangePassword(ctx, ana.ID, &ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "nuevo123"}))
	_, err = env.auth.Login(ctx, &LoginRequest{Email: "ana.maria@example.com", Password: "nuevo123"})
	require.NoError(t, err)
}
