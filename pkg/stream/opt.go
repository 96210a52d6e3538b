package stream

import (
	"log"

	// Packages
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Logger receives warnings about skipped data lines and failing callbacks.
// A *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

// Opt is a functional option for Open.
type Opt func(*opts)

type opts struct {
	log       Logger
	tracer    trace.Tracer
	chunkSize int
}

type stdLogger struct{}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	defaultChunkSize = 4 * 1024
)

///////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithLogger sets the logger for warnings. A nil logger silences them.
func WithLogger(l Logger) Opt {
	return func(o *opts) {
		o.log = l
	}
}

// WithTracer wraps each stream in an OpenTelemetry span.
func WithTracer(tracer trace.Tracer) Opt {
	return func(o *opts) {
		o.tracer = tracer
	}
}

// WithChunkSize sets the size of each read from the response body.
func WithChunkSize(n int) Opt {
	return func(o *opts) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func applyOpts(opt ...Opt) opts {
	o := opts{
		log:       stdLogger{},
		chunkSize: defaultChunkSize,
	}
	for _, fn := range opt {
		fn(&o)
	}
	return o
}

func (o opts) logf(format string, v ...any) {
	if o.log != nil {
		o.log.Printf(format, v...)
	}
}

func (stdLogger) Printf(format string, v ...any) {
	log.Printf("stream: "+format, v...)
}
