package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"pulse/internal/api/middleware"
	"pulse/internal/auth"
	"pulse/internal/config"
	"pulse/internal/models"
	"pulse/internal/repository"
	"pulse/internal/repository/memory"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	repo    repository.UserRepository
	service *auth.Service
	mw      *middleware.AuthMiddleware
	admin   *models.User
	member  *models.User
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := memory.NewUserRepository()
	service := auth.NewService(config.AuthConfig{JWTSecret: "test_secret_key", AccessTokenDuration: time.Hour})

	admin := &models.User{Username: "admin", Email: "admin@example.com"}
	require.NoError(t, repo.Create(context.Background(), admin))
	member := &models.User{Username: "member", Email: "member@example.com"}
	require.NoError(t, repo.Create(context.Background(), member))

	return &authFixture{
		repo:    repo,
		service: service,
		mw:      middleware.NewAuthMiddleware(service, repo),
		admin:   admin,
		member:  member,
	}
}

func (f *authFixture) token(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := f.service.GenerateToken(user)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_AuthRequired(t *testing.T) {
	f := newAuthFixture(t)

	tests := []struct {
		name       string
		header     func(t *testing.T) string
		wantStatus int
		wantErr    string
	}{
		{
			name:       "Valid Token",
			header:     func(t *testing.T) string { return "Bearer " + f.token(t, f.member) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "Lowercase scheme",
			header:     func(t *testing.T) string { return "bearer " + f.token(t, f.member) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "Missing Authorization Header",
			header:     func(t *testing.T) string { return "" },
			wantStatus: http.StatusUnauthorized,
			wantErr:    "no authorization header",
		},
		{
			name:       "Invalid Authorization Header Format",
			header:     func(t *testing.T) string { return "InvalidFormat Token" },
			wantStatus: http.StatusUnauthorized,
			wantErr:    "invalid authorization header",
		},
		{
			name: "Invalid Token",
			header: func(t *testing.T) string {
				// Create a token signed with a different secret
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
					"user_id":  f.member.ID.String(),
					"username": "member",
					"exp":      time.Now().Add(time.Hour).Unix(),
				})
				tokenString, err := token.SignedString([]byte("wrong-secret"))
				require.NoError(t, err)
				return "Bearer " + tokenString
			},
			wantStatus: http.StatusUnauthorized,
			wantErr:    auth.ErrInvalidToken.Error(),
		},
		{
			name: "Unknown User",
			header: func(t *testing.T) string {
				return "Bearer " + f.token(t, &models.User{ID: uuid.New(), Username: "ghost"})
			},
			wantStatus: http.StatusUnauthorized,
			wantErr:    "user not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/protected", f.mw.AuthRequired(), func(c *gin.Context) {
				user := auth.GetUserFromContext(c)
				require.NotNil(t, user)
				c.JSON(http.StatusOK, gin.H{"username": user.Username})
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if h := tt.header(t); h != "" {
				req.Header.Set("Authorization", h)
			}
			router.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantErr != "" {
				var resp models.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				require.Equal(t, tt.wantErr, resp.Error)
			}
		})
	}
}

func TestAuthMiddleware_AdminRequired(t *testing.T) {
	f := newAuthFixture(t)

	tests := []struct {
		name       string
		user       *models.User
		wantStatus int
	}{
		{name: "Admin", user: f.admin, wantStatus: http.StatusOK},
		{name: "Regular user", user: f.member, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.POST("/admin", f.mw.AuthRequired(), f.mw.AdminRequired(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+f.token(t, tt.user))
			router.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthMiddleware_AdminRequiredWithoutUser(t *testing.T) {
	f := newAuthFixture(t)

	router := gin.New()
	router.GET("/admin", f.mw.AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.Equal(t, http.StatusForbidden, w.Code)
}
