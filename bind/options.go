package bind

import "log/slog"

// Option configures a Registry or an Engine.
type Option func(*config)

type config struct {
	log *slog.Logger
}

// WithLogger sets the logger used for debug level traces of strategy
// resolution and failed calls.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.log = l }
}

func newConfig(opts ...Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
