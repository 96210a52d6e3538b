package schema

////////////////////////////////////////////////////////////////////////////////
// TYPES

// StepStatus is the state of a single workflow step.
type StepStatus string

// WorkflowStep is one stage of a research run.
type WorkflowStep struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Status StepStatus `json:"status"`
}

// Steps is an ordered list of workflow steps.
type Steps []WorkflowStep

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepCompleted StepStatus = "completed"
	StepError     StepStatus = "error"
)

// Research workflow step identifiers
const (
	StepLiteratureSearch = "literature_search"
	StepLiteratureParser = "literature_parser"
	StepAIScientist      = "AIScientist"
	StepDataAnalyser     = "data_analyser"
	StepCodeExperiment   = "code_experiment"
	StepLatexWriter      = "latex_writer"
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// DefaultSteps returns the research workflow, every step pending.
func DefaultSteps() Steps {
	return Steps{
		{ID: StepLiteratureSearch, Name: "Literature search", Status: StepPending},
		{ID: StepLiteratureParser, Name: "Literature parsing", Status: StepPending},
		{ID: StepAIScientist, Name: "AI scientist analysis", Status: StepPending},
		{ID: StepDataAnalyser, Name: "Data analysis", Status: StepPending},
		{ID: StepCodeExperiment, Name: "Code experiment", Status: StepPending},
		{ID: StepLatexWriter, Name: "LaTeX writing", Status: StepPending},
	}
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (s StepStatus) Valid() bool {
	switch s {
	case StepPending, StepRunning, StepCompleted, StepError:
		return true
	}
	return false
}

// Terminal reports whether the step will not change again.
func (s StepStatus) Terminal() bool {
	return s == StepCompleted || s == StepError
}

// Get returns the step with the given id, or nil.
func (s Steps) Get(id string) *WorkflowStep {
	for i := range s {
		if s[i].ID == id {
			return &s[i]
		}
	}
	return nil
}

// Set updates the status of the step with the given id, and reports
// whether the step exists.
func (s Steps) Set(id string, status StepStatus) bool {
	if step := s.Get(id); step != nil {
		step.Status = status
		return true
	}
	return false
}

// Count returns the number of steps with the given status.
func (s Steps) Count(status StepStatus) int {
	var n int
	for _, step := range s {
		if step.Status == status {
			n++
		}
	}
	return n
}

// Clone returns a copy that can be handed out without sharing state.
func (s Steps) Clone() Steps {
	if s == nil {
		return nil
	}
	return append(Steps(nil), s...)
}
