package postgres

import (
	"context"
	"database/sql"
	"errors"
	"pulse/internal/models"
	"pulse/internal/repository"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// uniqueViolation is the SQLSTATE postgres reports for unique constraint failures
const uniqueViolation = "23505"

const userColumns = `
	id, username, email, full_name, password, is_admin, is_active,
	failed_login_attempts, last_failed_login, last_login_at, created_at, updated_at`

type userRepository struct {
	repository.BaseRepository
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.create(ctx, user, false)
}

func (r *userRepository) CreateFirst(ctx context.Context, user *models.User) error {
	return r.create(ctx, user, true)
}

// create inserts user and fills in its generated fields once the transaction has committed
func (r *userRepository) create(ctx context.Context, user *models.User, firstOnly bool) error {
	now := time.Now().UTC()
	id := uuid.New()
	email := strings.ToLower(user.Email)
	isAdmin := user.IsAdmin

	err := r.Transaction(ctx, func(tx *sql.Tx) error {
		// Serialize concurrent sign-ups so exactly one of them sees an empty table
		if _, err := tx.ExecContext(ctx, "LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE"); err != nil {
			return err
		}

		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
			return err
		}
		if count > 0 && firstOnly {
			return repository.ErrNotFirstUser
		}
		if count == 0 {
			isAdmin = true
		}

		query := `
			INSERT INTO users (
				id, username, email, full_name, password, is_admin, is_active,
				failed_login_attempts, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, TRUE, 0, $7, $7)`

		_, err := tx.ExecContext(ctx, query,
			id,
			user.Username,
			email,
			user.FullName,
			user.Password,
			isAdmin,
			now,
		)
		return mapUniqueViolation(err)
	})
	if err != nil {
		return err
	}

	user.ID = id
	user.Email = email
	user.IsAdmin = isAdmin
	user.IsActive = true
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, "username = $1", username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email = $1", strings.ToLower(email))
}

func (r *userRepository) IncrementFailedAttempts(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE users
		SET failed_login_attempts = CASE
				WHEN last_failed_login IS NULL OR last_failed_login < $2 THEN 1
				ELSE failed_login_attempts + 1
			END,
			last_failed_login = $3,
			updated_at = $3
		WHERE id = $1`

	return r.exec(ctx, query, id, at.Add(-repository.LoginLockoutWindow), at)
}

func (r *userRepository) ResetFailedAttempts(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET failed_login_attempts = 0,
		    last_failed_login = NULL
		WHERE id = $1`

	return r.exec(ctx, query, id)
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE users
		SET last_login_at = $2, updated_at = $2
		WHERE id = $1`

	return r.exec(ctx, query, id, at)
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func (r *userRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	query := "SELECT " + userColumns + " FROM users WHERE " + where

	err := r.DB().QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.Password,
		&user.IsAdmin,
		&user.IsActive,
		&user.FailedLoginAttempts,
		&user.LastFailedLogin,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

// mapUniqueViolation converts unique constraint failures into repository errors
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return err
	}

	switch pqErr.Constraint {
	case "users_username_key":
		return repository.ErrUsernameExists
	case "users_email_key":
		return repository.ErrEmailExists
	default:
		return repository.ErrUserExists
	}
}
