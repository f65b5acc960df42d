package logger

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// PerformanceConfig tunes the builder-based logger
type PerformanceConfig struct {
	BufferSize      int           `json:"buffer_size"`
	FlushInterval   time.Duration `json:"flush_interval"`
	SamplingRate    float64       `json:"sampling_rate"`
	MinLogLevel     zapcore.Level `json:"min_log_level"`
	EnableSampling  bool          `json:"enable_sampling"`
	MaxLogPerSecond int           `json:"max_log_per_second"`
	EnableRateLimit bool          `json:"enable_rate_limit"`
}

// DefaultPerformanceConfig returns the default configuration
func DefaultPerformanceConfig() PerformanceConfig {
	return PerformanceConfig{
		BufferSize:      1000,
		FlushInterval:   time.Second,
		SamplingRate:    1.0,
		MinLogLevel:     zapcore.InfoLevel,
		EnableSampling:  false,
		MaxLogPerSecond: 1000,
		EnableRateLimit: false,
	}
}

// ProductionConfig returns the production configuration
func ProductionConfig() PerformanceConfig {
	return PerformanceConfig{
		BufferSize:      5000,
		FlushInterval:   5 * time.Second,
		SamplingRate:    0.1,
		MinLogLevel:     zapcore.WarnLevel,
		EnableSampling:  true,
		MaxLogPerSecond: 500,
		EnableRateLimit: true,
	}
}

// DevelopmentConfig returns the development configuration
func DevelopmentConfig() PerformanceConfig {
	return PerformanceConfig{
		BufferSize:      100,
		FlushInterval:   100 * time.Millisecond,
		SamplingRate:    1.0,
		MinLogLevel:     zapcore.DebugLevel,
		EnableSampling:  false,
		MaxLogPerSecond: 10000,
		EnableRateLimit: false,
	}
}

// OptimizedLogger wraps zap with level gating, sampling and rate limiting
type OptimizedLogger struct {
	config      PerformanceConfig
	logger      *zap.Logger
	rateLimiter *RateLimiter
	mu          sync.RWMutex
}

// RateLimiter caps the number of log writes per second
type RateLimiter struct {
	maxLogs   int
	current   int
	lastReset time.Time
	mu        sync.Mutex
}

func NewRateLimiter(maxLogs int) *RateLimiter {
	return &RateLimiter{
		maxLogs:   maxLogs,
		lastReset: time.Now(),
	}
}

func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastReset) >= time.Second {
		rl.current = 0
		rl.lastReset = now
	}

	if rl.current >= rl.maxLogs {
		return false
	}

	rl.current++
	return true
}

// NewOptimizedLogger builds the gated logger
func NewOptimizedLogger(config PerformanceConfig) (*OptimizedLogger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(config.MinLogLevel)
	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	zapConfig.DisableStacktrace = true

	zapLogger, err := zapConfig.Build(
		zap.WithCaller(false),
	)
	if err != nil {
		return nil, err
	}

	if config.EnableSampling {
		zapLogger = zapLogger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewSamplerWithOptions(
				core,
				time.Second,
				int(config.SamplingRate*100),
				0,
			)
		}))
	}

	optimized := &OptimizedLogger{
		config:      config,
		logger:      zapLogger,
		rateLimiter: NewRateLimiter(config.MaxLogPerSecond),
	}

	return optimized, nil
}

// ShouldLog reports whether a write at this level would be emitted
func (ol *OptimizedLogger) ShouldLog(level zapcore.Level) bool {
	if level < ol.config.MinLogLevel {
		return false
	}

	if ol.config.EnableRateLimit && !ol.rateLimiter.Allow() {
		return false
	}

	return true
}

// Global optimized logger instance
var optimizedLogger *OptimizedLogger

// InitOptimizedLogger initializes the process-wide builder logger
func InitOptimizedLogger(config PerformanceConfig) error {
	logger, err := NewOptimizedLogger(config)
	if err != nil {
		return err
	}
	optimizedLogger = logger
	return nil
}

// GetOptimizedLogger returns the builder logger, lazily initialized
func GetOptimizedLogger() *OptimizedLogger {
	if optimizedLogger == nil {
		config := DefaultPerformanceConfig()
		env := os.Getenv("GO_ENV")
		if env == "production" {
			config = ProductionConfig()
		} else if env == "development" {
			config = DevelopmentConfig()
		}

		logger, _ := NewOptimizedLogger(config)
		optimizedLogger = logger
	}
	return optimizedLogger
}
