package stream

import (
	"strings"

	// Packages
	schema "github.com/mutablelogic/go-scientist/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Frame is a decoded data line together with the event kind in force
// when it was read. An empty kind means none was announced.
type Frame struct {
	Kind  string
	Event schema.Event
}

// Parser turns lines into frames. The kind set by an event line carries
// over to every following data line until another event line appears.
type Parser struct {
	kind string
	log  Logger
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	eventPrefix = "event:"
	dataPrefix  = "data:"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewParser returns a parser which reports malformed data lines to log,
// which may be nil.
func NewParser(log Logger) *Parser {
	return &Parser{log: log}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Kind returns the event kind currently in force.
func (p *Parser) Kind() string {
	return p.kind
}

// Line consumes one line and returns a frame when the line was a data
// line holding a JSON object. Blank lines do not terminate frames: each
// data line is a frame of its own.
func (p *Parser) Line(line string) (Frame, bool) {
	if strings.TrimSpace(line) == "" {
		return Frame{}, false
	}
	if kind, ok := strings.CutPrefix(line, eventPrefix); ok {
		p.kind = strings.TrimSpace(kind)
		return Frame{}, false
	}
	data, ok := strings.CutPrefix(line, dataPrefix)
	if !ok {
		return Frame{}, false
	}
	if data = strings.TrimSpace(data); data == "" {
		return Frame{}, false
	}

	event, err := schema.ParseEvent([]byte(data))
	if err != nil {
		if p.log != nil {
			p.log.Printf("skipping malformed data line (%v): %q", err, data)
		}
		return Frame{}, false
	}
	return Frame{Kind: p.kind, Event: event}, true
}

// Reset forgets the current event kind.
func (p *Parser) Reset() {
	p.kind = ""
}
