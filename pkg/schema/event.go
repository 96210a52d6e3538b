package schema

import (
	"bytes"
	"encoding/json"
	"errors"
)

///////////////////////////////////////////////////////////////////////////////
// SSE EVENT NAMES

const (
	EventStart    = "start"    // Run accepted, announces the workflow steps
	EventProgress = "progress" // A step changed status
	EventComplete = "complete" // Final result, terminal success
	EventError    = "error"    // Terminal failure
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Event is a decoded data line: always a JSON object, with the payload
// fields kept raw so that callers can decode into the shape they need.
type Event map[string]json.RawMessage

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

var (
	ErrNotObject = errors.New("event data is not a JSON object")
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// ParseEvent decodes a single data payload. Scalars, arrays and null are
// rejected with ErrNotObject.
func ParseEvent(data []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, ErrNotObject
		}
		return nil, err
	} else if event == nil {
		return nil, ErrNotObject
	}
	return event, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Has reports whether the field is present, even when its value is null.
func (e Event) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// Truthy reports whether the field is present and holds a value other
// than null, false, 0 or the empty string.
func (e Event) Truthy(key string) bool {
	raw, ok := e[key]
	if !ok {
		return false
	}
	v := bytes.TrimSpace(raw)
	switch {
	case len(v) == 0:
		return false
	case v[0] == '-' || (v[0] >= '0' && v[0] <= '9'):
		var f float64
		if err := json.Unmarshal(v, &f); err == nil {
			return f != 0
		}
		return true
	default:
		switch string(v) {
		case "null", "false", `""`:
			return false
		}
		return true
	}
}

// GetString returns the field as a string. Non-string values are returned
// as their JSON text, absent or null fields as the empty string.
func (e Event) GetString(key string) string {
	raw, ok := e[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if v := string(bytes.TrimSpace(raw)); v != "null" {
		return v
	}
	return ""
}

// Decode unmarshals the whole event into v.
func (e Event) Decode(v any) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Progress decodes the event as a progress update.
func (e Event) Progress() (ProgressEvent, error) {
	var progress ProgressEvent
	return progress, e.Decode(&progress)
}

// Start decodes the event as a run announcement.
func (e Event) Start() (StartEvent, error) {
	var start StartEvent
	return start, e.Decode(&start)
}

// Complete decodes the event as the final response.
func (e Event) Complete() (RunAgentResponse, error) {
	var complete RunAgentResponse
	return complete, e.Decode(&complete)
}
