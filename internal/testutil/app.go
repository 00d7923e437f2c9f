package testutil

import (
	"context"
	"errors"
	"pulse/internal/api/middleware"
	"pulse/internal/api/routes"
	"pulse/internal/auth"
	"pulse/internal/config"
	"pulse/internal/models"
	"pulse/internal/monitor"
	"pulse/internal/repository"
	"pulse/internal/repository/memory"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// ErrDatabaseDown is returned by a FakePinger marked down
var ErrDatabaseDown = errors.New("database is down")

// FakePinger stands in for *sql.DB in the database checker
type FakePinger struct {
	mu  sync.Mutex
	err error
}

// SetErr makes every following ping return err
func (p *FakePinger) SetErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *FakePinger) PingContext(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// TestConfig returns the configuration test applications are built from
func TestConfig() *config.Config {
	cfg := &config.Config{
		App: config.AppConfig{
			Name:        "pulse",
			Environment: "test",
			Version:     "1.0.0-test",
		},
		API: config.APIConfig{
			Port:        "8080",
			CORSOrigins: []string{"*"},
		},
		Auth: config.AuthConfig{
			JWTSecret:           "test_secret_key",
			AccessTokenDuration: 30 * time.Minute,
			RegistrationOpen:    true,
		},
		Monitor: config.MonitorConfig{
			Schedule: "@every 30s",
			Timeout:  2 * time.Second,
		},
		Storage: config.StorageMemory,
	}
	cfg.RateLimit.Requests = 1000
	cfg.RateLimit.Window = 60
	cfg.RateLimit.Burst = 50
	return cfg
}

// TestApp is one fully wired application instance
type TestApp struct {
	T           *testing.T
	Config      *config.Config
	UserRepo    repository.UserRepository
	AuthService *auth.Service
	Monitor     *monitor.Monitor
	Metrics     *middleware.Metrics
	Database    *FakePinger
	Router      *gin.Engine
	Client      *Client
}

type appOptions struct {
	configure []func(*config.Config)
	userRepo  repository.UserRepository
	checkers  []monitor.Checker
	noDB      bool
	dbErr     error
	skipRun   bool
}

// Option customizes a TestApp
type Option func(*appOptions)

// WithConfig edits the test configuration before the app is built
func WithConfig(fn func(*config.Config)) Option {
	return func(o *appOptions) { o.configure = append(o.configure, fn) }
}

// WithUserRepo replaces the in-memory user repository
func WithUserRepo(repo repository.UserRepository) Option {
	return func(o *appOptions) { o.userRepo = repo }
}

// WithChecker registers an extra dependency checker
func WithChecker(c monitor.Checker) Option {
	return func(o *appOptions) { o.checkers = append(o.checkers, c) }
}

// WithDatabaseDown makes the database checker fail
func WithDatabaseDown() Option {
	return func(o *appOptions) { o.dbErr = ErrDatabaseDown }
}

// WithoutDatabase builds the app without a database checker
func WithoutDatabase() Option {
	return func(o *appOptions) { o.noDB = true }
}

// WithoutInitialCheck leaves the monitor snapshot empty
func WithoutInitialCheck() Option {
	return func(o *appOptions) { o.skipRun = true }
}

// NewTestApp builds a new application instance for one test. Dependencies are in-memory and
// the monitor has run once unless WithoutInitialCheck is given.
func NewTestApp(t *testing.T, opts ...Option) *TestApp {
	t.Helper()

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}

	cfg := TestConfig()
	for _, fn := range o.configure {
		fn(cfg)
	}
	require.NoError(t, cfg.Validate(), "invalid test configuration")

	userRepo := o.userRepo
	if userRepo == nil {
		userRepo = memory.NewUserRepository()
	}

	mon := monitor.New(cfg.Monitor.Timeout)
	pinger := &FakePinger{err: o.dbErr}
	if !o.noDB {
		mon.Register(monitor.NewDatabaseChecker(pinger))
	}
	for _, c := range o.checkers {
		mon.Register(c)
	}
	if !o.skipRun {
		mon.RunChecks(context.Background())
	}

	authService := auth.NewService(cfg.Auth)
	metrics := middleware.NewMetrics(cfg.App.Name)

	router := routes.SetupRoutes(cfg, routes.Dependencies{
		UserRepo:    userRepo,
		Monitor:     mon,
		AuthService: authService,
		Metrics:     metrics,
	})

	return &TestApp{
		T:           t,
		Config:      cfg,
		UserRepo:    userRepo,
		AuthService: authService,
		Monitor:     mon,
		Metrics:     metrics,
		Database:    pinger,
		Router:      router,
		Client:      NewClient(router),
	}
}

// CreateTestUser creates a user with a hashed password. The first user created is an admin.
func (a *TestApp) CreateTestUser(username, email, password string) *models.User {
	a.T.Helper()

	hashedPassword, err := a.AuthService.HashPassword(password)
	require.NoError(a.T, err, "Failed to hash password")

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
	}
	require.NoError(a.T, a.UserRepo.Create(context.Background(), user), "Failed to create test user")
	return user
}

// GetTestJWT generates an access token for user
func (a *TestApp) GetTestJWT(user *models.User) string {
	a.T.Helper()
	token, err := a.AuthService.GenerateToken(user)
	require.NoError(a.T, err, "Failed to generate test JWT")
	return token
}
