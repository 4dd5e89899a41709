package resilience

import (
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

// CircuitBreakerConfig describes the breaker guarding one upstream.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
	// OnStateChange runs under the breaker lock and must not call back into it.
	OnStateChange func(from, to CircuitState)
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return cfg
}

// NewCircuitBreakerFromConfig returns nil when the breaker is disabled.
// Execute on a nil breaker runs calls unguarded.
func NewCircuitBreakerFromConfig(cfg CircuitBreakerConfig) *CircuitBreaker {
	cfg = NormalizeCircuitBreakerConfig(cfg)
	if !cfg.Enabled {
		return nil
	}
	b := NewCircuitBreaker(cfg.FailureThreshold, cfg.OpenTimeout, cfg.HalfOpenMaxReq)
	b.onStateChange = cfg.OnStateChange
	return b
}

// LogStateChanges returns an OnStateChange hook that logs transitions of the
// named upstream. Opening is logged at warn level.
func LogStateChanges(logger *logging.Logger, upstream string) func(from, to CircuitState) {
	if logger == nil {
		logger = logging.Default()
	}
	return func(from, to CircuitState) {
		if to == CircuitStateOpen {
			logger.Warn("circuit breaker opened", "upstream", upstream, "from", string(from))
			return
		}
		logger.Info("circuit breaker state changed", "upstream", upstream, "from", string(from), "to", string(to))
	}
}
