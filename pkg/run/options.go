package run

import "github.com/rs/zerolog"

// Hooks observe a run loop. All hooks are called on the loop's goroutine.
type Hooks struct {
	// Mounted is called once after the initial build succeeded.
	Mounted func()
	// Cycle is called after every completed cycle.
	Cycle func(CycleSample)
	// Stopped is called when the loop returns, with its error (nil when
	// sync ended the loop).
	Stopped func(error)
}

type config struct {
	logger  zerolog.Logger
	metrics *Metrics
	trace   *TraceBuffer
	hooks   Hooks
}

// Option configures Run and Spawn.
type Option func(*config)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithMetrics records loop activity into m.
func WithMetrics(m *Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithTrace records every cycle into b.
func WithTrace(b *TraceBuffer) Option {
	return func(c *config) {
		c.trace = b
	}
}

// WithHooks installs observation hooks.
func WithHooks(h Hooks) Option {
	return func(c *config) {
		c.hooks = h
	}
}

func newConfig(opts []Option) *config {
	c := &config{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *config) cycle(sample CycleSample) {
	c.metrics.RecordCycle(sample)
	if c.trace != nil {
		c.trace.Add(sample)
	}
	if c.hooks.Cycle != nil {
		c.hooks.Cycle(sample)
	}
}
