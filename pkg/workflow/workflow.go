// Package workflow runs a research request through an ordered list of
// steps, reporting each status transition as it happens.
package workflow

import (
	"context"
	"errors"

	// Packages
	scientist "github.com/mutablelogic/go-scientist"
	schema "github.com/mutablelogic/go-scientist/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// StepFunc performs one step of a run. It may update the result in
// state, and returns data to report with the completed step.
type StepFunc func(ctx context.Context, state *State) (map[string]any, error)

// Step is one stage of a workflow.
type Step struct {
	ID   string
	Name string
	Fn   StepFunc
}

// State is passed from step to step during a run.
type State struct {
	Request schema.RunAgentRequest
	Result  schema.Result
}

// ProgressFn receives a progress event for every step transition. It is
// called on the goroutine running the workflow.
type ProgressFn func(schema.ProgressEvent)

// Workflow is an ordered list of steps. Runs are independent and may
// execute concurrently.
type Workflow struct {
	steps []Step
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns a workflow for the given steps, which must have unique
// identifiers.
func New(steps ...Step) (*Workflow, error) {
	seen := make(map[string]bool, len(steps))
	for _, step := range steps {
		if !types.IsIdentifier(step.ID) {
			return nil, scientist.ErrBadParameter.Withf("invalid step id %q", step.ID)
		} else if seen[step.ID] {
			return nil, scientist.ErrConflict.Withf("duplicate step id %q", step.ID)
		} else if step.Fn == nil {
			return nil, scientist.ErrBadParameter.Withf("step %q has no function", step.ID)
		}
		seen[step.ID] = true
	}
	return &Workflow{steps: append([]Step(nil), steps...)}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Steps returns the steps of the workflow, all pending.
func (w *Workflow) Steps() schema.Steps {
	result := make(schema.Steps, 0, len(w.steps))
	for _, step := range w.steps {
		name := step.Name
		if name == "" {
			name = step.ID
		}
		result = append(result, schema.WorkflowStep{ID: step.ID, Name: name, Status: schema.StepPending})
	}
	return result
}

// Run executes the steps in order. Each step is reported as running and
// then as completed or error. The first failing step ends the run with
// ErrAgentFailed; a cancelled context ends it between steps with the
// context error.
func (w *Workflow) Run(ctx context.Context, req schema.RunAgentRequest, fn ProgressFn) (*schema.Result, error) {
	req = req.WithDefaults()
	if !req.Valid() {
		return nil, scientist.ErrBadParameter.With("original_query is required")
	}

	// Initial state
	state := &State{
		Request: req,
		Result: schema.Result{
			Topic:      req.Topic,
			Results:    req.Results,
			FinalState: make(map[string]any, len(w.steps)),
		},
	}
	status := w.Steps()
	report := func(id string, s schema.StepStatus, data map[string]any) {
		status.Set(id, s)
		if fn != nil {
			fn(schema.ProgressEvent{Step: id, Status: s, Steps: status.Clone(), Data: data})
		}
	}

	for _, step := range w.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		report(step.ID, schema.StepRunning, nil)
		data, err := step.Fn(ctx, state)
		if err != nil {
			report(step.ID, schema.StepError, map[string]any{"error": err.Error()})
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			return nil, scientist.ErrAgentFailed.Withf("%s: %v", step.ID, err)
		}
		if data != nil {
			state.Result.FinalState[step.ID] = data
		}
		report(step.ID, schema.StepCompleted, data)
	}

	return types.Ptr(state.Result), nil
}
