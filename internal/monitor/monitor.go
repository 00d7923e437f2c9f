// Package monitor runs dependency health checks on a schedule and keeps the latest results
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"pulse/internal/models"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrCheckerNotFound is returned when a checker cannot be found by name
var ErrCheckerNotFound = errors.New("checker not found")

// Checker probes one external dependency
type Checker interface {
	// Name returns the unique name of the dependency
	Name() string
	// Check returns nil when the dependency is reachable
	Check(ctx context.Context) error
}

// Monitor handles the scheduling and execution of checkers
type Monitor struct {
	checkers []Checker
	timeout  time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	results map[string]models.DependencyStatus
}

// New creates a monitor bounding every check by timeout
func New(timeout time.Duration) *Monitor {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Monitor{
		timeout: timeout,
		now:     time.Now,
		results: make(map[string]models.DependencyStatus),
	}
}

// Register adds a checker to the monitor
func (m *Monitor) Register(c Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, c)
}

// Names returns the registered checker names in sorted order
func (m *Monitor) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.checkers))
	for _, c := range m.checkers {
		names = append(names, c.Name())
	}
	sort.Strings(names)
	return names
}

// Has reports whether a checker with name is registered
func (m *Monitor) Has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.checkers {
		if c.Name() == name {
			return true
		}
	}
	return false
}

// RunChecks executes every checker concurrently and stores the results
func (m *Monitor) RunChecks(ctx context.Context) map[string]models.DependencyStatus {
	m.mu.RLock()
	checkers := append([]Checker(nil), m.checkers...)
	m.mu.RUnlock()

	results := make(map[string]models.DependencyStatus, len(checkers))
	var (
		wg    sync.WaitGroup
		resMu sync.Mutex
	)
	for _, c := range checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			status := m.runOne(ctx, c)
			resMu.Lock()
			results[c.Name()] = status
			resMu.Unlock()
		}(c)
	}
	wg.Wait()

	m.mu.Lock()
	for name, status := range results {
		m.results[name] = status
	}
	m.mu.Unlock()

	return results
}

func (m *Monitor) runOne(ctx context.Context, c Checker) models.DependencyStatus {
	checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := m.now()
	err := c.Check(checkCtx)
	checkedAt := m.now()

	status := models.DependencyStatus{
		Status:    models.StatusHealthy,
		LatencyMs: checkedAt.Sub(start).Milliseconds(),
		CheckedAt: &checkedAt,
	}
	if err != nil {
		status.Status = models.StatusUnhealthy
		status.Message = err.Error()
	}
	return status
}

// Snapshot returns a copy of the latest result for every registered checker.
// Checkers that have not run yet are reported as unknown.
func (m *Monitor) Snapshot() map[string]models.DependencyStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]models.DependencyStatus, len(m.checkers))
	for _, c := range m.checkers {
		if status, ok := m.results[c.Name()]; ok {
			out[c.Name()] = status
			continue
		}
		out[c.Name()] = models.DependencyStatus{Status: models.StatusUnknown}
	}
	return out
}

// Status returns the latest result of a single checker
func (m *Monitor) Status(name string) (models.DependencyStatus, error) {
	if !m.Has(name) {
		return models.DependencyStatus{}, fmt.Errorf("%w: %s", ErrCheckerNotFound, name)
	}
	return m.Snapshot()[name], nil
}

// Healthy reports whether every dependency in results is healthy
func Healthy(results map[string]models.DependencyStatus) bool {
	for _, status := range results {
		if status.Status != models.StatusHealthy {
			return false
		}
	}
	return true
}

// Start runs all checks once, then on the given cron schedule until ctx is cancelled
func (m *Monitor) Start(ctx context.Context, schedule string) error {
	c := cron.New(cron.WithParser(cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)))

	_, err := c.AddFunc(schedule, func() {
		m.logFailures(m.RunChecks(ctx))
	})
	if err != nil {
		return fmt.Errorf("failed to schedule dependency checks %q: %w", schedule, err)
	}

	m.logFailures(m.RunChecks(ctx))

	c.Start()
	log.Printf("Dependency monitor started with schedule %s for %v", schedule, m.Names())

	// Wait for context cancellation
	<-ctx.Done()
	log.Println("Stopping dependency monitor...")
	<-c.Stop().Done()

	return nil
}

func (m *Monitor) logFailures(results map[string]models.DependencyStatus) {
	for name, status := range results {
		if status.Status != models.StatusHealthy {
			log.Printf("Dependency %s is %s: %s", name, status.Status, status.Message)
		}
	}
}
