package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user in the system
type User struct {
	ID                  uuid.UUID  `json:"id"`
	Username            string     `json:"username"`
	Email               string     `json:"email"`
	FullName            string     `json:"full_name"`
	Password            string     `json:"-"`
	IsAdmin             bool       `json:"is_admin"`
	IsActive            bool       `json:"is_active"`
	FailedLoginAttempts int        `json:"-"`
	LastFailedLogin     *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// RegisterRequest represents the request to create a new account
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,nospaces" example:"johndoe"`
	Email    string `json:"email" binding:"required,email" example:"john@example.com"`
	Password string `json:"password" binding:"required,min=8,max=72" example:"mypassword123"`
	FullName string `json:"full_name" binding:"max=100" example:"John Doe"`
}

// LoginRequest represents login credentials. Username may also hold the email address.
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required,max=254" example:"john@example.com"`
	Password string `json:"password" form:"password" binding:"required" example:"mypassword123"`
}

// IsLocked reports whether too many recent failed logins block the account at now
func (u *User) IsLocked(now time.Time, maxAttempts int, window time.Duration) bool {
	if u.FailedLoginAttempts < maxAttempts || u.LastFailedLogin == nil {
		return false
	}
	return now.Sub(*u.LastFailedLogin) < window
}
