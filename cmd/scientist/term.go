package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	// Packages
	glamour "github.com/charmbracelet/glamour"
	schema "github.com/mutablelogic/go-scientist/pkg/schema"
	table "github.com/mutablelogic/go-scientist/pkg/ui/table"
	termenv "github.com/muesli/termenv"
	term "golang.org/x/term"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// stepTable tracks step states and timings for display.
type stepTable struct {
	steps   schema.Steps
	started map[string]time.Time
	elapsed map[string]time.Duration
}

var _ table.TableData = (*stepTable)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

var statusColor = map[schema.StepStatus]string{
	schema.StepPending:   "8",
	schema.StepRunning:   "11",
	schema.StepCompleted: "10",
	schema.StepError:     "9",
}

const (
	defaultWrap = 100
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func newStepTable(steps schema.Steps) *stepTable {
	return &stepTable{
		steps:   steps.Clone(),
		started: make(map[string]time.Time),
		elapsed: make(map[string]time.Duration),
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Update merges a progress event, returning the step it reports on.
func (t *stepTable) Update(event schema.ProgressEvent, now time.Time) *schema.WorkflowStep {
	if len(event.Steps) > 0 {
		for _, step := range event.Steps {
			if t.steps.Get(step.ID) == nil {
				t.steps = append(t.steps, step)
			}
		}
		for _, step := range event.Steps {
			t.steps.Set(step.ID, step.Status)
		}
	}
	if event.Step == "" {
		return nil
	}
	if event.Status != "" {
		if !t.steps.Set(event.Step, event.Status) {
			t.steps = append(t.steps, schema.WorkflowStep{ID: event.Step, Name: event.Step, Status: event.Status})
		}
		switch {
		case event.Status == schema.StepRunning:
			t.started[event.Step] = now
		case event.Status.Terminal():
			if start, ok := t.started[event.Step]; ok {
				t.elapsed[event.Step] = now.Sub(start)
			}
		}
	}
	return t.steps.Get(event.Step)
}

func (t *stepTable) Header() []string {
	return []string{"#", "Step", "Status", "Time"}
}

func (t *stepTable) Len() int {
	return len(t.steps)
}

func (t *stepTable) Row(i int) []any {
	step := t.steps[i]
	return []any{
		i + 1,
		table.Bold{Value: step.Name},
		table.Colored{Value: string(step.Status), Color: statusColor[step.Status]},
		t.elapsed[step.ID],
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// writeReport writes the step table and the result summary. With markdown
// set, or when w is not a terminal, plain Markdown is written.
func writeReport(w io.Writer, steps *stepTable, result *schema.Result, markdown bool) error {
	var doc strings.Builder
	if steps != nil && steps.Len() > 0 {
		if markdown || !isTerminal(w) {
			doc.WriteString(table.RenderMarkdown(steps) + "\n\n")
		} else if _, err := fmt.Fprintln(w, table.Render(steps)); err != nil {
			return err
		}
	}
	if result != nil {
		if result.Summary != "" {
			doc.WriteString(result.Summary + "\n\n")
		}
		if result.NewIdea != "" {
			doc.WriteString("## Idea\n\n" + result.NewIdea + "\n\n")
		}
		if result.Motivation != "" {
			doc.WriteString("## Motivation\n\n" + result.Motivation + "\n\n")
		}
		if result.Results != "" {
			doc.WriteString("## Results\n\n" + result.Results + "\n\n")
		}
		if result.LatexRevision != "" {
			doc.WriteString("## LaTeX\n\n```latex\n" + strings.TrimSpace(result.LatexRevision) + "\n```\n")
		}
	}

	text := doc.String()
	if text == "" {
		return nil
	}
	if !markdown && isTerminal(w) {
		if rendered, err := renderMarkdown(text); err == nil {
			text = rendered
		}
	}
	_, err := io.WriteString(w, text)
	return err
}

// renderMarkdown renders text for the terminal with a style matching the
// terminal background.
func renderMarkdown(text string) (string, error) {
	style := "dark"
	if !termenv.HasDarkBackground() {
		style = "light"
	}
	width := defaultWrap
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = min(w, defaultWrap)
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(text)
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
