package kom

import "log/slog"

// Option configures an Archive at construction.
type Option func(*Archive)

// WithLogger attaches a logger for debug-level progress events.
// Without it, logging is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Archive) {
		a.logger = logger
	}
}

// WithCompressionLevel sets the zlib level used by AddEntry and for the
// manifest payload (default: the zlib default level). Serialization output
// is only bit-stable across calls made at the same level.
func WithCompressionLevel(level int) Option {
	return func(a *Archive) {
		a.level = level
	}
}

// WithMaxEntrySize limits the decompressed size of a single entry, guarding
// Extract against decompression bombs. Set limit to 0 to disable the limit.
func WithMaxEntrySize(limit uint64) Option {
	return func(a *Archive) {
		a.maxEntrySize = limit
	}
}
