package via

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ryanhamamura/viahooks/h"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitConfig_Limiter(t *testing.T) {
	cases := []struct {
		name      string
		cfg       RateLimitConfig
		wantRate  float64
		wantBurst int
	}{
		{"zero takes defaults", RateLimitConfig{}, 10, 20},
		{"custom", RateLimitConfig{Rate: 5, Burst: 10}, 5, 10},
		{"only rate", RateLimitConfig{Rate: 2}, 2, 20},
		{"only burst", RateLimitConfig{Burst: 3}, 10, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := tc.cfg.limiter()
			require.NotNil(t, l)
			assert.InDelta(t, tc.wantRate, float64(l.Limit()), 0.001)
			assert.Equal(t, tc.wantBurst, l.Burst())
		})
	}
}

func TestRateLimitConfig_Disabled(t *testing.T) {
	assert.Nil(t, NoRateLimit.limiter())
	assert.True(t, allow(nil))
}

func TestAllow_BurstThenReject(t *testing.T) {
	l := RateLimitConfig{Rate: 1, Burst: 3}.limiter()
	for i := 0; i < 3; i++ {
		assert.True(t, allow(l), "click %d is within the burst", i)
	}
	assert.False(t, allow(l))
}

func TestWithRateLimit_OnlyOnThatAction(t *testing.T) {
	c := newContext("page", "/", newTestApp())
	limited := c.Action(func() {}, WithRateLimit(1, 2))
	free := c.Action(func() {})

	entry, err := c.getAction(limited.ID())
	require.NoError(t, err)
	require.NotNil(t, entry.limiter)
	assert.Equal(t, 2, entry.limiter.Burst())

	entry, err = c.getAction(free.ID())
	require.NoError(t, err)
	assert.Nil(t, entry.limiter)
}

func TestContextLimiter_FromOptions(t *testing.T) {
	v := newTestApp()
	assert.NotNil(t, newContext("a", "/", v).actionLimiter)

	v.Config(Options{ActionRateLimit: RateLimitConfig{Rate: 50, Burst: 100}})
	l := newContext("b", "/", v).actionLimiter
	require.NotNil(t, l)
	assert.Equal(t, 100, l.Burst())

	v.Config(Options{ActionRateLimit: NoRateLimit})
	assert.Nil(t, newContext("c", "/", v).actionLimiter)
}

func TestPageLimiter_RejectsRapidClicks(t *testing.T) {
	var trigger *actionTrigger
	clicks := 0
	v := newTestApp()
	v.Config(Options{ActionRateLimit: RateLimitConfig{Rate: 0.001, Burst: 2}})
	v.Page("/", func(c *Context) {
		trigger = c.Action(func() { clicks++ })
		c.View(func() h.H { return h.Div() })
	})
	v.mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	c := onlyCtx(t, v)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		v.mux.ServeHTTP(w, actionRequest(t, c, trigger.ID(), c.csrfToken, nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 2, clicks)
}
