// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/elibest/inventory-backend/internal/config"
	"github.com/elibest/inventory-backend/internal/models"
	"github.com/elibest/inventory-backend/internal/utils"
)

var (
	// ErrNotAllowListed is returned before any credential check, so a
	// rejected login never reveals whether an account exists.
	ErrNotAllowListed = errors.New("only authorized administrators can access this system")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionRevoked     = errors.New("session is no longer valid")
)

type AuthService struct {
	allowList AllowListStore
	accounts  AccountStore
	sessions  SessionStore
	cfg       *config.Config
	log       *logrus.Entry
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // in seconds
}

func NewAuthService(allowList AllowListStore, accounts AccountStore, sessions SessionStore, cfg *config.Config) *AuthService {
	return &AuthService{
		allowList: allowList,
		accounts:  accounts,
		sessions:  sessions,
		cfg:       cfg,
		log:       logrus.WithField("component", "auth"),
	}
}

// Login implements the gate's submission flow. The allow-list lookup
// runs first and rejects outsiders before any credential verification.
// For an allow-listed email with no backing account yet, the account is
// provisioned from the submitted password and signed in immediately.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.allowList.FindActive(ctx, req.Email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAllowListed
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	account, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("database error: %w", err)
		}

		// First login for an allow-listed admin: provision the backing
		// account, then sign in with it.
		account, err = s.provisionAccount(ctx, req)
		if err != nil {
			return nil, err
		}
		s.log.WithField("email", req.Email).Info("Provisioned account on first login")
	}

	if err := account.CheckPassword(req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	account.LastLoginAt = &now
	if err := s.accounts.Save(ctx, account); err != nil {
		s.log.WithError(err).Warn("Failed to record last login time")
	}

	accessToken, err := utils.GenerateJWT(account.ID, account.Email, s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		Email:       account.Email,
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   s.cfg.JWT.AccessTokenTTL * 3600,
	}, nil
}

func (s *AuthService) provisionAccount(ctx context.Context, req *LoginRequest) (*models.Account, error) {
	account := &models.Account{Email: req.Email}
	if err := account.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

// CheckSession verifies a presented token against every gate condition:
// signature and expiry, revocation, and current allow-list membership.
// A session whose principal has been removed or deactivated is revoked
// on the spot so it cannot be replayed.
func (s *AuthService) CheckSession(ctx context.Context, token string) (*utils.JWTClaims, error) {
	claims, err := utils.ValidateJWT(token)
	if err != nil {
		return nil, err
	}

	if s.sessions.IsRevoked(ctx, token) {
		return nil, ErrSessionRevoked
	}

	if _, err := s.allowList.FindActive(ctx, claims.Email); err != nil {
		s.forceSignOut(ctx, token, claims)
		return nil, ErrNotAllowListed
	}

	return claims, nil
}

// Logout revokes the presented token for its remaining lifetime.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := utils.ValidateJWT(token)
	if err != nil {
		// An invalid token is already unusable.
		return nil
	}
	return s.sessions.Revoke(ctx, token, time.Until(claims.ExpiresAt.Time))
}

func (s *AuthService) forceSignOut(ctx context.Context, token string, claims *utils.JWTClaims) {
	if err := s.sessions.Revoke(ctx, token, time.Until(claims.ExpiresAt.Time)); err != nil {
		s.log.WithError(err).WithField("email", claims.Email).Error("Failed to revoke session")
		return
	}
	s.log.WithField("email", claims.Email).Warn("Forced sign-out: principal missing or inactive in allow-list")
}
