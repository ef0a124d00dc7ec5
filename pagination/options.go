package pagination

const (
	defaultPageSize = 20
	defaultMaxSize  = 100
)

// Options bounds the page size accepted by Request.Normalize.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Option configures Options.
type Option func(*Options)

// WithMaxPageSize caps the page size. Values below 1 are ignored.
func WithMaxPageSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.MaxPageSize = size
		}
	}
}

// WithDefaultPageSize sets the page size used when the request has none.
// Values below 1 are ignored.
func WithDefaultPageSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.DefaultPageSize = size
		}
	}
}

func defaultOptions() Options {
	return Options{DefaultPageSize: defaultPageSize, MaxPageSize: defaultMaxSize}
}
