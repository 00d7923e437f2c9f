// Package memory provides in-process repository implementations for STORAGE=memory and tests
package memory

import (
	"context"
	"pulse/internal/models"
	"pulse/internal/repository"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type userRepository struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]models.User
	byUsername map[string]uuid.UUID
	byEmail    map[string]uuid.UUID
}

// NewUserRepository creates an empty in-memory user repository
func NewUserRepository() repository.UserRepository {
	return &userRepository{
		users:      make(map[uuid.UUID]models.User),
		byUsername: make(map[string]uuid.UUID),
		byEmail:    make(map[string]uuid.UUID),
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(user)
}

func (r *userRepository) CreateFirst(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.users) > 0 {
		return repository.ErrNotFirstUser
	}
	return r.insert(user)
}

// insert must be called with mu held
func (r *userRepository) insert(user *models.User) error {
	email := strings.ToLower(user.Email)
	if _, exists := r.byUsername[user.Username]; exists {
		return repository.ErrUsernameExists
	}
	if _, exists := r.byEmail[email]; exists {
		return repository.ErrEmailExists
	}

	now := time.Now().UTC()
	user.ID = uuid.New()
	user.Email = email
	user.IsActive = true
	user.IsAdmin = user.IsAdmin || len(r.users) == 0
	user.CreatedAt = now
	user.UpdatedAt = now

	r.users[user.ID] = *user
	r.byUsername[user.Username] = user.ID
	r.byEmail[email] = user.ID
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	id, exists := r.byUsername[username]
	r.mu.RUnlock()

	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	id, exists := r.byEmail[strings.ToLower(email)]
	r.mu.RUnlock()

	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) IncrementFailedAttempts(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.update(id, func(u *models.User) {
		if u.LastFailedLogin == nil || u.LastFailedLogin.Before(at.Add(-repository.LoginLockoutWindow)) {
			u.FailedLoginAttempts = 0
		}
		u.FailedLoginAttempts++
		u.LastFailedLogin = &at
		u.UpdatedAt = at
	})
}

func (r *userRepository) ResetFailedAttempts(ctx context.Context, id uuid.UUID) error {
	return r.update(id, func(u *models.User) {
		u.FailedLoginAttempts = 0
		u.LastFailedLogin = nil
	})
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.update(id, func(u *models.User) {
		u.LastLoginAt = &at
		u.UpdatedAt = at
	})
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

func (r *userRepository) update(id uuid.UUID, fn func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[id]
	if !exists {
		return repository.ErrUserNotFound
	}
	fn(&user)
	r.users[id] = user
	return nil
}
