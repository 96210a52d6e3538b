// Package stream reads an agent event stream from a chunked HTTP response
// and delivers each event, in order, to a set of callbacks.
//
// The wire format is line based:
//
//	event: progress
//	data: {"steps":[...]}
//
// An event line sets the kind for all following data lines, and every data
// line holding a JSON object is delivered as soon as it is complete.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	scientist "github.com/mutablelogic/go-scientist"
	schema "github.com/mutablelogic/go-scientist/pkg/schema"
	attribute "go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Stream is the handle to one in-flight event stream.
type Stream struct {
	opts
	callbacks Callbacks
	cancel    context.CancelFunc
	closed    atomic.Bool
	done      chan struct{}
	err       error
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Open sends the request with client and delivers the events of the
// response body to callbacks from a new goroutine. Exactly one request is
// made; it is never retried. A non-2xx status or a transport failure is
// reported once through OnError. Cancelling ctx, or calling Close, stops
// the stream without reporting an error.
//
// After OnComplete or OnError has been called, the stream stops reading
// and no further callbacks are made.
func Open(ctx context.Context, client *http.Client, req *http.Request, callbacks Callbacks, opt ...Opt) *Stream {
	if req == nil {
		panic("stream: nil request")
	}
	if client == nil {
		client = http.DefaultClient
	}

	s := &Stream{
		opts:      applyOpts(opt...),
		callbacks: callbacks,
		done:      make(chan struct{}),
	}
	ctx, s.cancel = context.WithCancel(ctx)
	go s.run(ctx, client, req)
	return s
}

// Close cancels the stream. It never reports an error through the
// callbacks, may be called more than once, and may be called from within
// a callback. It does not wait for the stream goroutine to exit.
func (s *Stream) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		s.cancel()
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Done is closed when the stream goroutine has exited.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the stream goroutine has exited and returns Err.
func (s *Stream) Wait() error {
	<-s.done
	return s.err
}

// Err returns the request or transport failure which ended the stream,
// or nil when it ended cleanly, with a terminal event, or was cancelled.
// It is only meaningful once Done is closed.
func (s *Stream) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (s *Stream) run(ctx context.Context, client *http.Client, req *http.Request) {
	defer close(s.done)
	defer s.cancel()

	// OTEL
	var err error
	spanCtx, endSpan := otel.StartSpan(s.tracer, ctx, "Stream",
		attribute.String("method", req.Method),
		attribute.String("url", req.URL.String()),
		attribute.String("request_id", req.Header.Get("X-Request-Id")),
	)
	defer func() { endSpan(err) }()

	// Read until the body ends, fails, or a terminal event arrives
	err = s.read(ctx, client, req.WithContext(spanCtx))
	if err == nil || ctx.Err() != nil {
		err = nil
		return
	}

	// Report the failure once, unless closed in the meantime
	s.err = err
	s.guard("request failure", func() {
		if !s.stopped(ctx) {
			s.callbacks.fail(err.Error())
		}
	})
}

// read performs the request and pulls chunks through the decoder, line
// reassembler and parser, delivering each frame before reading the next
// chunk. It returns nil on end of body or after a terminal event.
func (s *Stream) read(ctx context.Context, client *http.Client, req *http.Request) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return scientist.ErrUnexpectedStatus.With(resp.Status)
	}

	var lines Lines
	decoder := NewDecoder()
	parser := NewParser(s.log)
	buf := make([]byte, s.chunkSize)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			for _, line := range lines.Write(decoder.Decode(buf[:n], false)) {
				frame, ok := parser.Line(line)
				if !ok {
					continue
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if kind := s.deliver(ctx, frame); kind == schema.EventComplete || kind == schema.EventError {
					return nil
				}
			}
		}
		if errors.Is(err, io.EOF) {
			if rest := lines.Pending() + decoder.Decode(nil, true); rest != "" {
				s.logf("discarding unterminated line at end of stream: %q", rest)
			}
			lines.Reset()
			return nil
		} else if err != nil {
			return fmt.Errorf("reading stream: %w", err)
		}
	}
}

// deliver dispatches one frame and returns the kind it was delivered as.
func (s *Stream) deliver(ctx context.Context, frame Frame) string {
	kind := Classify(frame)
	s.guard(kind, func() {
		if !s.stopped(ctx) {
			s.callbacks.invoke(kind, frame.Event)
		}
	})
	return kind
}

// stopped reports whether Close has been called or ctx is done. It is
// checked immediately before each callback.
func (s *Stream) stopped(ctx context.Context) bool {
	return s.closed.Load() || ctx.Err() != nil
}

// guard runs a callback, so that a panic in caller code cannot take the
// stream goroutine down with it.
func (s *Stream) guard(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logf("%s callback panicked: %v", what, r)
		}
	}()
	fn()
}
