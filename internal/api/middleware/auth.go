package middleware

import (
	"net/http"
	"pulse/internal/auth"
	"pulse/internal/models"
	"pulse/internal/repository"
	"strings"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	authService *auth.Service
	userRepo    repository.UserRepository
}

func NewAuthMiddleware(authService *auth.Service, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		userRepo:    userRepo,
	}
}

// AuthRequired rejects requests without a valid bearer token for an active user
func (m *AuthMiddleware) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "no authorization header")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abort(c, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		claims, err := m.authService.ValidateToken(parts[1])
		if err != nil {
			abort(c, http.StatusUnauthorized, err.Error())
			return
		}

		userID, err := auth.UserIDFromClaims(claims)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid token claims")
			return
		}

		// Load the current user so deactivation takes effect before the token expires
		user, err := m.userRepo.GetByID(c.Request.Context(), userID)
		if err != nil {
			abort(c, http.StatusUnauthorized, "user not found")
			return
		}
		if !user.IsActive {
			abort(c, http.StatusUnauthorized, "account is inactive")
			return
		}

		c.Set(auth.ContextUserKey, user)
		c.Next()
	}
}

// AdminRequired must run after AuthRequired
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.GetUserFromContext(c)
		if user == nil || !user.IsAdmin {
			abort(c, http.StatusForbidden, "admin access required")
			return
		}
		c.Next()
	}
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{Error: msg})
}
