// internal/services/stores.go
package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/elibest/inventory-backend/internal/models"
)

// Store interfaces let tests substitute fakes for the backend
// collaborators; the production wiring below is gorm and Redis.

// AllowListStore looks up the admin allow-list.
type AllowListStore interface {
	// FindActive returns the allow-list entry for email only when it
	// exists and is active; gorm.ErrRecordNotFound otherwise.
	FindActive(ctx context.Context, email string) (*models.Admin, error)
}

// AccountStore holds the credential rows backing allow-listed admins.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Save(ctx context.Context, account *models.Account) error
}

// SessionStore tracks revoked tokens. Revocation is how the gate forces
// a sign-out: the token stays cryptographically valid until expiry, so
// it must be remembered as dead.
type SessionStore interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) bool
}

type gormAllowList struct {
	db *gorm.DB
}

func NewGormAllowList(db *gorm.DB) AllowListStore {
	return &gormAllowList{db: db}
}

func (s *gormAllowList) FindActive(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.db.WithContext(ctx).
		Where("email = ? AND is_active = ?", email, true).
		First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

type gormAccounts struct {
	db *gorm.DB
}

func NewGormAccounts(db *gorm.DB) AccountStore {
	return &gormAccounts{db: db}
}

func (s *gormAccounts) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *gormAccounts) Create(ctx context.Context, account *models.Account) error {
	return s.db.WithContext(ctx).Create(account).Error
}

func (s *gormAccounts) Save(ctx context.Context, account *models.Account) error {
	return s.db.WithContext(ctx).Save(account).Error
}

const revokedKeyPrefix = "revoked_token:"

type redisSessions struct {
	rdb *redis.Client
}

func NewRedisSessions(rdb *redis.Client) SessionStore {
	return &redisSessions{rdb: rdb}
}

func (s *redisSessions) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already expired; nothing to remember.
		return nil
	}
	return s.rdb.Set(ctx, revokedKeyPrefix+token, "1", ttl).Err()
}

func (s *redisSessions) IsRevoked(ctx context.Context, token string) bool {
	// Fail closed on transport errors: an unverifiable session is
	// treated as revoked.
	n, err := s.rdb.Exists(ctx, revokedKeyPrefix+token).Result()
	if err != nil {
		return true
	}
	return n > 0
}
