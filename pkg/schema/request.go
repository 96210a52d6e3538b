package schema

import (
	"strings"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DefaultTopic       = "agent"
	DefaultMethodology = "LLM, Agent, Tool, Memory"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// RunAgentRequest is the envelope submitted to the agent service, either
// as a single request/response call or as an event stream.
type RunAgentRequest struct {
	OriginalQuery string `json:"original_query" yaml:"original_query" arg:"" optional:"" help:"Research query"`
	Topic         string `json:"topic,omitempty" yaml:"topic,omitempty" help:"Research topic" optional:""`
	Methodology   string `json:"methodology,omitempty" yaml:"methodology,omitempty" help:"Methodology keywords" optional:""`
	Results       string `json:"results,omitempty" yaml:"results,omitempty" help:"Prior results to build on" optional:""`
	Messages      []any  `json:"messages,omitempty" yaml:"messages,omitempty" kong:"-"`
}

// RunAgentResponse is the reply of the non-streaming call, and the payload
// of the complete event.
type RunAgentResponse struct {
	Success   bool    `json:"success"`
	Data      *Result `json:"data,omitempty"`
	Error     string  `json:"error,omitempty"`
	Detail    string  `json:"detail,omitempty"`
	Traceback string  `json:"traceback,omitempty"`
}

// Result is the final state of a research run.
type Result struct {
	LatexRevision string         `json:"latex_revision"`
	Topic         string         `json:"topic"`
	Results       string         `json:"results"`
	Summary       string         `json:"summary"`
	NewIdea       string         `json:"new_idea"`
	Motivation    string         `json:"motivation"`
	FinalState    map[string]any `json:"final_state,omitempty"`
}

// StartEvent announces an accepted run and the steps it will go through.
type StartEvent struct {
	Message string `json:"message,omitempty"`
	Query   string `json:"query"`
	Steps   Steps  `json:"steps,omitempty"`
}

// ProgressEvent reports a step transition along with all step states.
type ProgressEvent struct {
	Step   string         `json:"step,omitempty"`
	Status StepStatus     `json:"status,omitempty"`
	Steps  Steps          `json:"steps"`
	Data   map[string]any `json:"data,omitempty"`
}

// HealthResponse is the reply of the liveness probe.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// StatusResponse is the reply of the service status call.
type StatusResponse struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r RunAgentRequest) String() string {
	return Stringify(r)
}

func (r RunAgentResponse) String() string {
	return Stringify(r)
}

func (r ProgressEvent) String() string {
	return Stringify(r)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// WithDefaults returns a copy of the request with the service defaults
// applied to empty fields.
func (r RunAgentRequest) WithDefaults() RunAgentRequest {
	r.OriginalQuery = strings.TrimSpace(r.OriginalQuery)
	if strings.TrimSpace(r.Topic) == "" {
		r.Topic = DefaultTopic
	}
	if strings.TrimSpace(r.Methodology) == "" {
		r.Methodology = DefaultMethodology
	}
	return r
}

// Valid reports whether the request carries a query.
func (r RunAgentRequest) Valid() bool {
	return strings.TrimSpace(r.OriginalQuery) != ""
}

func (r HealthResponse) String() string {
	return Stringify(r)
}

func (r StatusResponse) String() string {
	return Stringify(r)
}
