package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/policy"
)

func newAuthFixture() (*AuthService, *fakeUserRepo, *fakeOrgRepo) {
	users := newFakeUserRepo()
	orgs := newFakeOrgRepo()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 5,
			BcryptCost:            4,
		},
	}
	return NewAuthService(cfg, AuthDependencies{UserRepo: users, OrgRepo: orgs}), users, orgs
}

func TestRegisterCreatesOrganization(t *testing.T) {
	svc, _, orgs := newAuthFixture()

	result, err := svc.Register(context.Background(), RegisterInput{
		Username:         "alice",
		Email:            "alice@example.com",
		Password:         "secret-password",
		OrganizationName: "Acme",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, result.User.Role)
	assert.NotEmpty(t, result.Token)

	require.NotNil(t, result.User.OrganizationID)
	org, err := orgs.GetByID(context.Background(), *result.User.OrganizationID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", org.Name)
	assert.Len(t, org.InviteCode, 32)
}

func TestRegisterJoinsByInviteCode(t *testing.T) {
	svc, _, _ := newAuthFixture()

	first, err := svc.Register(context.Background(), RegisterInput{
		Username:         "alice",
		Email:            "alice@example.com",
		Password:         "secret-password",
		OrganizationName: "Acme",
	})
	require.NoError(t, err)

	org, err := svc.Organization(context.Background(), policy.Actor{
		ID:             first.User.ID,
		OrganizationID: *first.User.OrganizationID,
		Role:           first.User.Role,
	})
	require.NoError(t, err)

	second, err := svc.Register(context.Background(), RegisterInput{
		Username:         "bob",
		Email:            "bob@example.com",
		Password:         "secret-password",
		OrganizationCode: org.InviteCode,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, second.User.Role)
	assert.Equal(t, org.ID, *second.User.OrganizationID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	base := RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret-password"}

	t.Run("name and code are mutually exclusive", func(t *testing.T) {
		input := base
		input.OrganizationName = "Acme"
		input.OrganizationCode = "deadbeef"
		_, err := svc.Register(ctx, input)
		assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
	})

	t.Run("short password rejected", func(t *testing.T) {
		input := base
		input.Password = "short"
		_, err := svc.Register(ctx, input)
		assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
	})

	t.Run("invalid invite code rejected", func(t *testing.T) {
		input := base
		input.OrganizationCode = "nope"
		_, err := svc.Register(ctx, input)
		assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		_, err := svc.Register(ctx, base)
		require.NoError(t, err)
		dup := base
		dup.Email = "alice2@example.com"
		_, err = svc.Register(ctx, dup)
		assert.Equal(t, "CONFLICT", errCode(t, err))
	})

	t.Run("no name and no code creates personal org", func(t *testing.T) {
		input := RegisterInput{Username: "carol", Email: "carol@example.com", Password: "secret-password"}
		result, err := svc.Register(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, result.User.Role)
		org, err := svc.Organization(ctx, policy.Actor{
			ID:             result.User.ID,
			OrganizationID: *result.User.OrganizationID,
			Role:           result.User.Role,
		})
		require.NoError(t, err)
		assert.Equal(t, "carol's Organization", org.Name)
	})
}

func TestLogin(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "secret-password",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		result, err := svc.Login(ctx, "alice", "secret-password")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice", "wrong")
		assert.Equal(t, "UNAUTHORIZED", errCode(t, err))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody", "secret-password")
		assert.Equal(t, "UNAUTHORIZED", errCode(t, err))
	})

	t.Run("inactive account", func(t *testing.T) {
		user, err := users.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		user.IsActive = false
		require.NoError(t, users.Update(ctx, user))

		_, err = svc.Login(ctx, "alice", "secret-password")
		assert.Equal(t, "UNAUTHORIZED", errCode(t, err))
	})
}

func TestRotateInvite(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "secret-password", OrganizationName: "Acme",
	})
	require.NoError(t, err)

	admin := policy.Actor{ID: result.User.ID, OrganizationID: *result.User.OrganizationID, Role: result.User.Role}
	before, err := svc.Organization(ctx, admin)
	require.NoError(t, err)

	after, err := svc.RotateInvite(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, after.InviteCode, 32)
	assert.NotEqual(t, before.InviteCode, after.InviteCode)

	agent := policy.Actor{ID: "x", OrganizationID: admin.OrganizationID, Role: domain.RoleAgent}
	_, err = svc.RotateInvite(ctx, agent)
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}
