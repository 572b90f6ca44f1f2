package secu

import "log/slog"

const (
	// DefaultWarnEntries is the entry count above which packing logs a warning.
	DefaultWarnEntries = 100_000

	// DefaultBufferSize is the chunk size used to stream file contents.
	DefaultBufferSize = 4096
)

// packConfig holds configuration for archive creation.
type packConfig struct {
	logger      *slog.Logger
	progress    ProgressFunc
	warnEntries uint64
	maxEntries  uint64
	bufferSize  int
}

func newPackConfig(opts []PackOption) packConfig {
	cfg := packConfig{
		warnEntries: DefaultWarnEntries,
		bufferSize:  DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// PackOption configures archive creation.
type PackOption func(*packConfig)

// PackWithLogger sets the logger used for diagnostics.
// By default nothing is logged.
func PackWithLogger(logger *slog.Logger) PackOption {
	return func(cfg *packConfig) {
		cfg.logger = logger
	}
}

// PackWithProgress sets a callback that receives progress updates.
func PackWithProgress(fn ProgressFunc) PackOption {
	return func(cfg *packConfig) {
		cfg.progress = fn
	}
}

// PackWithWarnEntries sets the entry count above which a warning is logged.
// Packing still proceeds. Zero disables the warning.
func PackWithWarnEntries(n uint64) PackOption {
	return func(cfg *packConfig) {
		cfg.warnEntries = n
	}
}

// PackWithMaxEntries fails packing with ErrTooManyEntries when the source
// holds more than n entries. Zero means no limit.
func PackWithMaxEntries(n uint64) PackOption {
	return func(cfg *packConfig) {
		cfg.maxEntries = n
	}
}

// PackWithBufferSize sets the chunk size used to stream file contents.
// Values <= 0 use DefaultBufferSize.
func PackWithBufferSize(n int) PackOption {
	return func(cfg *packConfig) {
		if n <= 0 {
			n = DefaultBufferSize
		}
		cfg.bufferSize = n
	}
}
