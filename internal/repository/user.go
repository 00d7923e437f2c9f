package repository

import (
	"context"
	"pulse/internal/models"
	"time"

	"github.com/google/uuid"
)

// MaxLoginAttempts is the number of failed logins tolerated within LoginLockoutWindow
const MaxLoginAttempts = 5

// LoginLockoutWindow is how long failed attempts count against an account
const LoginLockoutWindow = 15 * time.Minute

// UserRepository defines the interface for user storage operations
type UserRepository interface {
	// Create stores a new user. The first user ever created is made an admin.
	Create(ctx context.Context, user *models.User) error
	// CreateFirst stores user only if no user exists yet, else returns ErrNotFirstUser.
	// The emptiness check and the insert are atomic.
	CreateFirst(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	IncrementFailedAttempts(ctx context.Context, id uuid.UUID, at time.Time) error
	ResetFailedAttempts(ctx context.Context, id uuid.UUID) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	Count(ctx context.Context) (int, error)
}
