package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tech-help/helpdesk-service/internal/config"
	"github.com/tech-help/helpdesk-service/internal/domain"
	apperrors "github.com/tech-help/helpdesk-service/pkg/util"
)

func newTestAuthService(accounts *fakeAccountRepo) *AuthService {
	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 60
	cfg.Auth.BcryptCost = 4
	return NewAuthService(cfg, accounts)
}

func TestRegisterCreatesClientAccount(t *testing.T) {
	accounts := newFakeAccountRepo()
	svc := newTestAuthService(accounts)

	account, token, expiresAt, err := svc.Register(context.Background(), "Pat", "pat@acme.test", "hunter2")
	require.NoError(t, err)

	assert.Equal(t, domain.RoleClient, account.Role, "self-registration never grants elevated roles")
	assert.NotEqual(t, "hunter2", account.PasswordHash)
	assert.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	claim, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claim.SubjectID)
	assert.Equal(t, domain.RoleClient, claim.Role)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	accounts := newFakeAccountRepo(
		&domain.Account{ID: 1, Email: "pat@acme.test", Role: domain.RoleClient},
	)
	svc := newTestAuthService(accounts)

	_, _, _, err := svc.Register(context.Background(), "Pat", "pat@acme.test", "hunter2")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestLogin(t *testing.T) {
	accounts := newFakeAccountRepo()
	svc := newTestAuthService(accounts)

	_, _, _, err := svc.Register(context.Background(), "Pat", "pat@acme.test", "hunter2")
	require.NoError(t, err)

	account, token, _, err := svc.Login(context.Background(), "pat@acme.test", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "pat@acme.test", account.Email)
	assert.NotEmpty(t, token)

	_, _, _, err = svc.Login(context.Background(), "pat@acme.test", "wrong")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)

	_, _, _, err = svc.Login(context.Background(), "nobody@acme.test", "hunter2")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
}
