package stream

import (
	// Packages
	schema "github.com/mutablelogic/go-scientist/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Callbacks receive the events of a stream, in arrival order, on the
// stream goroutine. Any of them may be nil.
type Callbacks struct {
	// OnStart receives the run announcement
	OnStart func(schema.Event)

	// OnProgress receives step updates
	OnProgress func(schema.Event)

	// OnComplete receives the final result
	OnComplete func(schema.Event)

	// OnError receives the failure message of an error event, or of a
	// failed request
	OnError func(message string)
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// UnknownError is the message reported for an error event without one
const UnknownError = "unknown error"

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Classify returns the kind a frame is delivered as: its own kind when it
// is one of start, progress, complete or error, otherwise a kind inferred
// from the payload. It returns the empty string for frames to drop.
func Classify(frame Frame) string {
	switch frame.Kind {
	case schema.EventStart, schema.EventProgress, schema.EventComplete, schema.EventError:
		return frame.Kind
	}
	switch event := frame.Event; {
	case event.Truthy("steps"):
		return schema.EventProgress
	case event.Has("success"):
		if event.Truthy("success") {
			return schema.EventComplete
		}
		return schema.EventError
	case event.Truthy("query"):
		return schema.EventStart
	}
	return ""
}

// ErrorMessage returns the message carried by an error payload.
func ErrorMessage(event schema.Event) string {
	if event.Truthy("error") {
		return event.GetString("error")
	}
	return UnknownError
}

// Dispatch classifies the frame and invokes the matching callback,
// returning the kind it was delivered as.
func (c Callbacks) Dispatch(frame Frame) string {
	kind := Classify(frame)
	c.invoke(kind, frame.Event)
	return kind
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (c Callbacks) invoke(kind string, event schema.Event) {
	switch kind {
	case schema.EventStart:
		if c.OnStart != nil {
			c.OnStart(event)
		}
	case schema.EventProgress:
		if c.OnProgress != nil {
			c.OnProgress(event)
		}
	case schema.EventComplete:
		if c.OnComplete != nil {
			c.OnComplete(event)
		}
	case schema.EventError:
		c.fail(ErrorMessage(event))
	}
}

func (c Callbacks) fail(message string) {
	if c.OnError != nil {
		c.OnError(message)
	}
}
