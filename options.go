package sheetdb

import (
	"github.com/rs/zerolog"
)

// Option configures an Ingestor, Loader or Exporter.
type Option func(*options)

// options holds the settings shared by the engine components
type options struct {
	logger          zerolog.Logger
	dialect         Dialect
	sampleRowAsData bool
}

// newOptions returns the defaults overridden by opts
func newOptions(opts ...Option) options {
	o := options{
		logger:          zerolog.Nop(),
		dialect:         GenericDialect,
		sampleRowAsData: false,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithLogger sets the logger. Components log nothing by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDialect sets the SQL dialect used for DDL, inserts and the table catalog.
// The default is GenericDialect.
func WithDialect(dialect Dialect) Option {
	return func(o *options) {
		o.dialect = dialect
	}
}

// WithSampleRowAsData controls whether the sample row (the row right after the
// header) is also loaded as the first data row. The default is false: the sample
// row only fixes column types and data starts on the row after it.
func WithSampleRowAsData(enabled bool) Option {
	return func(o *options) {
		o.sampleRowAsData = enabled
	}
}
