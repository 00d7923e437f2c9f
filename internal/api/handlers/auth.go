package handlers

import (
	"errors"
	"log"
	"net/http"
	"pulse/internal/auth"
	"pulse/internal/config"
	"pulse/internal/models"
	"pulse/internal/repository"
	"time"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles HTTP requests for registration and login
type AuthHandler struct {
	userRepo    repository.UserRepository
	authService *auth.Service
	config      config.AuthConfig
	now         func() time.Time
}

// NewAuthHandler creates a new authentication handler with the given dependencies
func NewAuthHandler(userRepo repository.UserRepository, authService *auth.Service, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		userRepo:    userRepo,
		authService: authService,
		config:      cfg,
		now:         time.Now,
	}
}

// Login godoc
// @Summary User login
// @Description Authenticate with username (or email) and password. Accepts form or JSON bodies.
// @Tags auth
// @Accept x-www-form-urlencoded,mpfd,json
// @Produce json
// @Param username formData string true "Username or email"
// @Param password formData string true "Password"
// @Success 200 {object} models.LoginResponse "Login successful"
// @Failure 400 {object} models.ErrorResponse "Invalid request format"
// @Failure 401 {object} models.ErrorResponse "Invalid credentials or inactive account"
// @Failure 429 {object} models.ErrorResponse "Too many failed login attempts or rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	now := h.now()

	var (
		user *models.User
		err  error
	)
	if auth.LooksLikeEmail(req.Username) {
		user, err = h.userRepo.GetByEmail(ctx, req.Username)
	} else {
		user, err = h.userRepo.GetByUsername(ctx, req.Username)
	}
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			log.Printf("Failed to look up user %q: %v", req.Username, err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to process login"})
			return
		}
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid credentials"})
		return
	}

	// Check if account is active before anything else
	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "account is inactive"})
		return
	}

	if user.IsLocked(now, repository.MaxLoginAttempts, repository.LoginLockoutWindow) {
		c.JSON(http.StatusTooManyRequests, models.ErrorResponse{Error: "too many failed login attempts"})
		return
	}

	if err := h.authService.ComparePasswords(user.Password, req.Password); err != nil {
		if err := h.userRepo.IncrementFailedAttempts(ctx, user.ID, now); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to process login"})
			return
		}
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid credentials"})
		return
	}

	if user.FailedLoginAttempts > 0 {
		if err := h.userRepo.ResetFailedAttempts(ctx, user.ID); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to process login"})
			return
		}
	}

	if err := h.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to update login time"})
		return
	}

	accessToken, err := h.authService.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to generate access token"})
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.authService.TokenLifetime().Seconds()),
	})
}

// Register godoc
// @Summary Register new user
// @Description Register a new user account. The first user becomes an admin and may register even when registration is closed.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "User registration details"
// @Success 201 {object} models.User "User created successfully"
// @Failure 400 {object} models.ErrorResponse "Invalid request format or validation error"
// @Failure 403 {object} models.ErrorResponse "Registration is closed"
// @Failure 409 {object} models.ErrorResponse "Username or email already exists"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Failed to create user"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	hashedPassword, err := h.authService.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to process registration"})
		return
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: hashedPassword,
	}

	// With registration closed only the very first account may be created
	create := h.userRepo.Create
	if !h.config.RegistrationOpen {
		create = h.userRepo.CreateFirst
	}

	if err := create(c.Request.Context(), user); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFirstUser):
			c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "registration is closed"})
		case errors.Is(err, repository.ErrUsernameExists):
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: "username already exists"})
		case errors.Is(err, repository.ErrEmailExists):
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: "email already exists"})
		case errors.Is(err, repository.ErrUserExists):
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: "user already exists"})
		default:
			log.Printf("Failed to create user %q: %v", req.Username, err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create user"})
		}
		return
	}

	log.Printf("Registered user %s (admin=%t)", user.Username, user.IsAdmin)
	c.JSON(http.StatusCreated, user)
}
