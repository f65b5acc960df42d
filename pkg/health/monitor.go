package health

import (
	"context"
	"sync"
	"time"

	redisclient "github.com/chroniclecms/chronicle/pkg/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Status represents health check status
type Status int

const (
	StatusUnknown Status = iota
	StatusHealthy
	StatusUnhealthy
	StatusDegraded
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusUnhealthy:
		return "unhealthy"
	case StatusDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// CheckResult represents the result of a health check
type CheckResult struct {
	Name         string
	Status       Status
	Message      string
	Latency      time.Duration
	LastCheck    time.Time
	LastError    error
	CheckCount   int
	FailureCount int
}

// Checker interface for health checks
type Checker interface {
	Check(ctx context.Context) CheckResult
}

// DatabaseChecker checks PostgreSQL connectivity
type DatabaseChecker struct {
	Name string
	DB   *gorm.DB
}

// Check pings the database and reports pool usage
func (c *DatabaseChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{
		Name:      c.Name,
		LastCheck: start,
	}

	if c.DB == nil {
		result.Status = StatusUnhealthy
		result.Message = "database connection not initialized"
		result.Latency = time.Since(start)
		return result
	}

	sqlDB, err := c.DB.DB()
	if err != nil {
		result.Status = StatusUnhealthy
		result.LastError = err
		result.Message = "failed to get database instance"
		result.Latency = time.Since(start)
		return result
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		result.Status = StatusUnhealthy
		result.LastError = err
		result.Message = "database ping failed"
		result.Latency = time.Since(start)
		return result
	}

	stats := sqlDB.Stats()
	result.Status = StatusHealthy
	result.Message = "ok"
	result.Latency = time.Since(start)
	if stats.OpenConnections >= stats.MaxOpenConnections && stats.MaxOpenConnections > 0 {
		result.Status = StatusDegraded
		result.Message = "connection pool exhausted"
	}

	return result
}

// RedisChecker checks Redis connectivity
type RedisChecker struct {
	Name   string
	Client *redisclient.Client
}

// Check pings Redis. A disabled client degrades instead of failing,
// the API serves reads without it.
func (c *RedisChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{
		Name:      c.Name,
		LastCheck: start,
	}

	if !c.Client.IsEnabled() {
		result.Status = StatusDegraded
		result.Message = "redis is disabled"
		result.Latency = time.Since(start)
		return result
	}

	if err := c.Client.Ping(ctx); err != nil {
		result.Status = StatusUnhealthy
		result.LastError = err
		result.Message = "redis ping failed"
		result.Latency = time.Since(start)
		return result
	}

	result.Status = StatusHealthy
	result.Message = "ok"
	result.Latency = time.Since(start)
	return result
}

// Monitor manages recurring health checks for the API's dependencies
type Monitor struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	results  map[string]*CheckResult
	interval time.Duration
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	running  bool
}

// NewMonitor creates a new health monitor
func NewMonitor(interval time.Duration, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Monitor{
		checkers: make(map[string]Checker),
		results:  make(map[string]*CheckResult),
		interval: interval,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Register adds a named checker
func (m *Monitor) Register(name string, checker Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.checkers[name] = checker

	m.logger.Info("Registered health checker",
		zap.String("name", name),
	)
}

// RegisterDatabaseChecker registers a PostgreSQL health checker
func (m *Monitor) RegisterDatabaseChecker(name string, db *gorm.DB) {
	m.Register(name, &DatabaseChecker{Name: name, DB: db})
}

// RegisterRedisChecker registers a Redis health checker
func (m *Monitor) RegisterRedisChecker(name string, client *redisclient.Client) {
	m.Register(name, &RedisChecker{Name: name, Client: client})
}

// Start starts the health monitor
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.mu.Unlock()

	go m.runChecks()
}

// Stop stops the health monitor
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	m.running = false
	m.cancel()
}

// runChecks runs health checks periodically
func (m *Monitor) runChecks() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Run initial checks
	m.CheckAll()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.CheckAll()
		}
	}
}

// CheckAll checks all registered dependencies once
func (m *Monitor) CheckAll() {
	m.mu.RLock()
	checkers := make(map[string]Checker)
	for name, checker := range m.checkers {
		checkers[name] = checker
	}
	m.mu.RUnlock()

	for name, checker := range checkers {
		ctx, cancel := context.WithTimeout(m.ctx, 5*time.Second)
		result := checker.Check(ctx)
		cancel()

		m.mu.Lock()
		if existing, ok := m.results[name]; ok {
			result.CheckCount = existing.CheckCount + 1
			if result.Status == StatusUnhealthy {
				result.FailureCount = existing.FailureCount + 1
			} else {
				result.FailureCount = existing.FailureCount
			}
		} else {
			result.CheckCount = 1
			if result.Status == StatusUnhealthy {
				result.FailureCount = 1
			}
		}
		m.results[name] = &result
		m.mu.Unlock()

		if result.Status != StatusHealthy {
			m.logger.Warn("Health check failed",
				zap.String("name", name),
				zap.String("status", result.Status.String()),
				zap.Duration("latency", result.Latency),
				zap.Error(result.LastError),
			)
		}
	}
}

// IsHealthy checks if a dependency is healthy
func (m *Monitor) IsHealthy(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if result, ok := m.results[name]; ok {
		return result.Status == StatusHealthy
	}
	return true // Assume healthy if not tracked
}

// GetResult gets health check result for a dependency
func (m *Monitor) GetResult(name string) (*CheckResult, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result, exists := m.results[name]
	if !exists {
		return nil, false
	}
	resultCopy := *result
	return &resultCopy, true
}

// GetAllResults returns all health check results
func (m *Monitor) GetAllResults() map[string]*CheckResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make(map[string]*CheckResult)
	for name, result := range m.results {
		resultCopy := *result
		results[name] = &resultCopy
	}
	return results
}
