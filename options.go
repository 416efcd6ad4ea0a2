package xlview

import "log/slog"

// Options holds configuration for a ViewportCache.
type Options struct {
	metadata  Metadata
	listeners []DeltaListener
	logger    *slog.Logger
	evaluator QueryEvaluator
}

func defaultOptions() *Options {
	return &Options{
		metadata:  DefaultMetadata(),
		logger:    slog.New(slog.DiscardHandler),
		evaluator: NewQueryEvaluator(),
	}
}

// Option configures a ViewportCache.
type Option func(*Options)

// WithMetadata sets the defaults in effect before the first ApplyMetadata.
func WithMetadata(m Metadata) Option {
	return func(o *Options) { o.metadata = m }
}

// WithListener adds a listener that is notified before/after each delta.
func WithListener(listener DeltaListener) Option {
	return func(o *Options) { o.listeners = append(o.listeners, listener) }
}

// WithLogger sets the logger used for merge summaries (default: discard).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEvaluator replaces the query evaluator used by Find.
func WithEvaluator(ev QueryEvaluator) Option {
	return func(o *Options) {
		if ev != nil {
			o.evaluator = ev
		}
	}
}
