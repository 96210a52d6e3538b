package main

import (
	"bytes"
	"testing"
	"time"

	// Packages
	schema "github.com/mutablelogic/go-scientist/pkg/schema"
	assert "github.com/stretchr/testify/assert"
)

func TestStepTableUpdate(t *testing.T) {
	assert := assert.New(t)
	steps := newStepTable(schema.DefaultSteps())
	now := time.Now()

	step := steps.Update(schema.ProgressEvent{Step: schema.StepLiteratureSearch, Status: schema.StepRunning}, now)
	if assert.NotNil(step) {
		assert.Equal(schema.StepRunning, step.Status)
	}
	steps.Update(schema.ProgressEvent{Step: schema.StepLiteratureSearch, Status: schema.StepCompleted}, now.Add(2*time.Second))
	assert.Equal(2*time.Second, steps.elapsed[schema.StepLiteratureSearch])

	// A full step list replaces the states
	all := schema.DefaultSteps()
	all.Set(schema.StepLatexWriter, schema.StepError)
	assert.Nil(steps.Update(schema.ProgressEvent{Steps: all}, now))
	assert.Equal(schema.StepError, steps.steps.Get(schema.StepLatexWriter).Status)

	// Unknown steps are appended
	steps.Update(schema.ProgressEvent{Step: "review", Status: schema.StepRunning}, now)
	assert.Equal(7, steps.Len())
}

func TestWriteReportMarkdown(t *testing.T) {
	assert := assert.New(t)
	steps := newStepTable(schema.DefaultSteps())
	steps.Update(schema.ProgressEvent{Step: schema.StepLiteratureSearch, Status: schema.StepCompleted}, time.Now())

	var buf bytes.Buffer
	assert.NoError(writeReport(&buf, steps, &schema.Result{
		Summary:       "# Findings",
		NewIdea:       "an idea",
		LatexRevision: `\section{x}`,
	}, false))
	out := buf.String()
	assert.Contains(out, "| # | Step | Status | Time |")
	assert.Contains(out, "| 1 | **Literature search** | completed | - |")
	assert.Contains(out, "# Findings")
	assert.Contains(out, "## Idea\n\nan idea")
	assert.Contains(out, "```latex\n\\section{x}\n```")
}

func TestWriteReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, writeReport(&buf, nil, nil, true))
	assert.Empty(t, buf.String())
}
