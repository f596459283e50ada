// internal/services/auth_service_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/elibest/inventory-backend/internal/config"
	"github.com/elibest/inventory-backend/internal/models"
	"github.com/elibest/inventory-backend/internal/utils"
)

type fakeAllowList struct {
	admins map[string]*models.Admin
}

func (f *fakeAllowList) FindActive(ctx context.Context, email string) (*models.Admin, error) {
	admin, ok := f.admins[email]
	if !ok || !admin.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return admin, nil
}

type fakeAccounts struct {
	accounts map[string]*models.Account
	creates  int
}

func (f *fakeAccounts) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	account, ok := f.accounts[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return account, nil
}

func (f *fakeAccounts) Create(ctx context.Context, account *models.Account) error {
	f.creates++
	f.accounts[account.Email] = account
	return nil
}

func (f *fakeAccounts) Save(ctx context.Context, account *models.Account) error {
	f.accounts[account.Email] = account
	return nil
}

type fakeSessions struct {
	revoked map[string]bool
}

func (f *fakeSessions) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl > 0 {
		f.revoked[token] = true
	}
	return nil
}

func (f *fakeSessions) IsRevoked(ctx context.Context, token string) bool {
	return f.revoked[token]
}

const testEmail = "admin@elibest.com"

func newTestAuth(t *testing.T) (*AuthService, *fakeAllowList, *fakeAccounts, *fakeSessions) {
	t.Helper()
	allowList := &fakeAllowList{admins: map[string]*models.Admin{
		testEmail: {Email: testEmail, IsActive: true},
	}}
	accounts := &fakeAccounts{accounts: make(map[string]*models.Account)}
	sessions := &fakeSessions{revoked: make(map[string]bool)}

	cfg := &config.Config{JWT: config.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenTTL: 1,
	}}
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	return NewAuthService(allowList, accounts, sessions, cfg), allowList, accounts, sessions
}

func TestLoginRejectsOutsiderBeforeCredentialCheck(t *testing.T) {
	auth, _, accounts, _ := newTestAuth(t)

	_, err := auth.Login(context.Background(), &LoginRequest{
		Email:    "stranger@example.com",
		Password: "whatever1",
	})

	assert.ErrorIs(t, err, ErrNotAllowListed)
	// The credential path was never reached: no account provisioned.
	assert.Zero(t, accounts.creates)
}

func TestLoginRejectsDeactivatedAdmin(t *testing.T) {
	auth, allowList, _, _ := newTestAuth(t)
	allowList.admins[testEmail].IsActive = false

	_, err := auth.Login(context.Background(), &LoginRequest{
		Email:    testEmail,
		Password: "whatever1",
	})
	assert.ErrorIs(t, err, ErrNotAllowListed)
}

func TestLoginProvisionsAccountOnFirstLogin(t *testing.T) {
	auth, _, accounts, _ := newTestAuth(t)

	resp, err := auth.Login(context.Background(), &LoginRequest{
		Email:    testEmail,
		Password: "first-password",
	})
	require.NoError(t, err)

	assert.Equal(t, testEmail, resp.Email)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.NotEmpty(t, resp.AccessToken)

	// The submitted password became the account's credential.
	require.Equal(t, 1, accounts.creates)
	account := accounts.accounts[testEmail]
	require.NotNil(t, account)
	assert.NoError(t, account.CheckPassword("first-password"))
	assert.NotNil(t, account.LastLoginAt)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	auth, _, _, _ := newTestAuth(t)

	_, err := auth.Login(context.Background(), &LoginRequest{
		Email:    testEmail,
		Password: "first-password",
	})
	require.NoError(t, err)

	_, err = auth.Login(context.Background(), &LoginRequest{
		Email:    testEmail,
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginValidatesRequest(t *testing.T) {
	auth, _, _, _ := newTestAuth(t)

	_, err := auth.Login(context.Background(), &LoginRequest{Email: "not-an-email", Password: "x"})
	assert.Error(t, err)

	_, err = auth.Login(context.Background(), &LoginRequest{Email: testEmail})
	assert.Error(t, err)
}

func TestCheckSessionAcceptsLiveToken(t *testing.T) {
	auth, _, _, _ := newTestAuth(t)

	resp, err := auth.Login(context.Background(), &LoginRequest{
		Email:    testEmail,
		Password: "first-password",
	})
	require.NoError(t, err)

	claims, err := auth.CheckSession(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, testEmail, claims.Email)
}

func TestCheckSessionRejectsRevokedToken(t *testing.T) {
	auth, _, _, sessions := newTestAuth(t)

	resp, err := auth.Login(context.Background(), &LoginRequest{
		Email:    testEmail,
		Password: "first-password",
	})
	require.NoError(t, err)

	sessions.revoked[resp.AccessToken] = true

	_, err = auth.CheckSession(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, ErrSessionRevoked)
}

func TestCheckSessionForcesSignOutForRemovedAdmin(t *testing.T) {
	auth, allowList, _, sessions := newTestAuth(t)

	resp, err := auth.Login(context.Background(), &LoginRequest{
		Email:    testEmail,
		Password: "first-password",
	})
	require.NoError(t, err)

	// Admin is pulled from the allow-list between requests.
	allowList.admins[testEmail].IsActive = false

	_, err = auth.CheckSession(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, ErrNotAllowListed)

	// The token is dead even if the admin is later reinstated.
	assert.True(t, sessions.revoked[resp.AccessToken])
	allowList.admins[testEmail].IsActive = true
	_, err = auth.CheckSession(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, ErrSessionRevoked)
}

func TestCheckSessionRejectsGarbageToken(t *testing.T) {
	auth, _, _, _ := newTestAuth(t)
	_, err := auth.CheckSession(context.Background(), "not.a.token")
	assert.Error(t, err)
}

func TestLogoutRevokesToken(t *testing.T) {
	auth, _, _, sessions := newTestAuth(t)

	resp, err := auth.Login(context.Background(), &LoginRequest{
		Email:    testEmail,
		Password: "first-password",
	})
	require.NoError(t, err)

	require.NoError(t, auth.Logout(context.Background(), resp.AccessToken))
	assert.True(t, sessions.revoked[resp.AccessToken])

	_, err = auth.CheckSession(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, ErrSessionRevoked)
}

func TestLogoutIgnoresInvalidToken(t *testing.T) {
	auth, _, _, sessions := newTestAuth(t)
	assert.NoError(t, auth.Logout(context.Background(), "garbage"))
	assert.Empty(t, sessions.revoked)
}
