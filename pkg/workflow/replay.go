package workflow

import (
	"context"
	"fmt"
	"time"

	// Packages
	schema "github.com/mutablelogic/go-scientist/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Replay returns the research workflow with steps that only wait for delay
// and record placeholder output. It exercises clients without a real agent
// behind the service.
func Replay(delay time.Duration) *Workflow {
	steps := schema.DefaultSteps()
	result := make([]Step, 0, len(steps))
	for _, step := range steps {
		result = append(result, Step{
			ID:   step.ID,
			Name: step.Name,
			Fn:   replayStep(step.ID, delay),
		})
	}

	// Steps are known to be valid
	w, err := New(result...)
	if err != nil {
		panic(err)
	}
	return w
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func replayStep(id string, delay time.Duration) StepFunc {
	return func(ctx context.Context, state *State) (map[string]any, error) {
		if delay > 0 {
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		query := state.Request.OriginalQuery
		switch id {
		case schema.StepLiteratureSearch:
			return map[string]any{"papers": 0, "query": query}, nil
		case schema.StepLiteratureParser:
			return map[string]any{"parsed": 0}, nil
		case schema.StepAIScientist:
			state.Result.NewIdea = fmt.Sprintf("Revisit %q using %s", query, state.Request.Methodology)
			state.Result.Motivation = "Replayed run, no model was consulted"
			return map[string]any{"idea": state.Result.NewIdea}, nil
		case schema.StepDataAnalyser:
			return map[string]any{"datasets": 0}, nil
		case schema.StepCodeExperiment:
			state.Result.Results = "No experiments were executed"
			return map[string]any{"execution_success": true}, nil
		case schema.StepLatexWriter:
			state.Result.LatexRevision = fmt.Sprintf("\\section{%s}\n%s\n", state.Request.Topic, state.Result.NewIdea)
			state.Result.Summary = fmt.Sprintf("# %s\n\n%s\n\n_%s_\n", query, state.Result.NewIdea, state.Result.Motivation)
			return map[string]any{"pages": 1}, nil
		}
		return nil, nil
	}
}
