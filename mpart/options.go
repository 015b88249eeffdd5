package mpart

type config struct {
	chunkSize int
}

func defaultConfig() config {
	return config{chunkSize: defaultChunkSize}
}

// Option configures the decoder.
type Option func(*config)

// WithChunkSize sets the initial chunk size used to scan each part's boundary
// line and header block. A header that does not terminate within one chunk is
// rejected with ErrHeaderTooLarge.
func WithChunkSize(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.chunkSize = n
		}
	}
}
