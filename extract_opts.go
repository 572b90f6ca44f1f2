package secu

import "log/slog"

// extractConfig holds configuration for extraction.
type extractConfig struct {
	logger     *slog.Logger
	progress   ProgressFunc
	bufferSize int
}

func newExtractConfig(opts []ExtractOption) extractConfig {
	cfg := extractConfig{bufferSize: DefaultBufferSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// ExtractOption configures Extract and Unpack.
type ExtractOption func(*extractConfig)

// ExtractWithLogger sets the logger used for diagnostics.
// By default nothing is logged.
func ExtractWithLogger(logger *slog.Logger) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.logger = logger
	}
}

// ExtractWithProgress sets a callback that receives progress updates.
func ExtractWithProgress(fn ProgressFunc) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.progress = fn
	}
}

// ExtractWithBufferSize sets the chunk size used to copy file contents.
// Values <= 0 use DefaultBufferSize.
func ExtractWithBufferSize(n int) ExtractOption {
	return func(cfg *extractConfig) {
		if n <= 0 {
			n = DefaultBufferSize
		}
		cfg.bufferSize = n
	}
}
