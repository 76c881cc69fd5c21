package via

import "golang.org/x/time/rate"

// RateLimitConfig is a token bucket: Rate actions per second with bursts of
// up to Burst. Zero fields take the default of 10/s with a burst of 20,
// which leaves room for quick double clicks on a counter. Rate -1 disables
// limiting.
type RateLimitConfig struct {
	Rate  float64
	Burst int
}

// NoRateLimit turns limiting off where a RateLimitConfig is accepted.
var NoRateLimit = RateLimitConfig{Rate: -1}

var defaultRateLimit = RateLimitConfig{Rate: 10, Burst: 20}

func (cfg RateLimitConfig) disabled() bool {
	return cfg.Rate < 0
}

func (cfg RateLimitConfig) orDefault() RateLimitConfig {
	if cfg.Rate == 0 {
		cfg.Rate = defaultRateLimit.Rate
	}
	if cfg.Burst == 0 {
		cfg.Burst = defaultRateLimit.Burst
	}
	return cfg
}

// limiter returns nil when limiting is disabled.
func (cfg RateLimitConfig) limiter() *rate.Limiter {
	if cfg.disabled() {
		return nil
	}
	cfg = cfg.orDefault()
	return rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst)
}

// allow consumes a token from l. A nil limiter always allows.
func allow(l *rate.Limiter) bool {
	return l == nil || l.Allow()
}

// ActionOption configures a single action registered with Context.Action.
type ActionOption func(*actionEntry)

type actionEntry struct {
	fn      func()
	limiter *rate.Limiter
}

// WithRateLimit gives the action its own bucket, checked after the page
// bucket.
func WithRateLimit(r float64, burst int) ActionOption {
	return func(e *actionEntry) {
		e.limiter = RateLimitConfig{Rate: r, Burst: burst}.limiter()
	}
}
