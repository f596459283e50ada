// internal/models/admin.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Admin is an allow-list entry. A session is only valid while its email
// is present here with IsActive set; the credential row alone grants
// nothing.
type Admin struct {
	BaseModel
	Email    string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	IsActive bool   `json:"is_active" gorm:"not null;default:true"`
}

// Account is the credential row backing an allow-listed admin. It is
// provisioned on first login when the allow-list entry exists but no
// account does yet.
type Account struct {
	BaseModel
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

func (a *Account) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hashedPassword)
	return nil
}

func (a *Account) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
}
