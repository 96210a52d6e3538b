package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	scientist "github.com/mutablelogic/go-scientist"
	httpclient "github.com/mutablelogic/go-scientist/pkg/httpclient"
	schema "github.com/mutablelogic/go-scientist/pkg/schema"
	stream "github.com/mutablelogic/go-scientist/pkg/stream"
	table "github.com/mutablelogic/go-scientist/pkg/ui/table"
	attribute "go.opentelemetry.io/otel/attribute"
	yaml "gopkg.in/yaml.v3"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type RunCommand struct {
	schema.RunAgentRequest `embed:""`
	Request                string `name:"request" type:"existingfile" help:"Read the request from a YAML or JSON file; flags override its fields" optional:""`
	Wait                   bool   `name:"wait" help:"Wait for the final result instead of streaming progress"`
	Markdown               bool   `name:"markdown" help:"Write the report as plain Markdown"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *RunCommand) Run(ctx *Globals) (err error) {
	req, err := cmd.request(ctx.defaults)
	if err != nil {
		return err
	}
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "RunCommand",
		attribute.String("query", req.OriginalQuery),
		attribute.Bool("stream", !cmd.Wait),
	)
	defer func() { endSpan(err) }()

	// Remember topic and methodology for next time
	if err := ctx.defaults.Remember(req); err != nil {
		ctx.logger.Warn("unable to store defaults", "error", err)
	}

	// Plain request and response
	if cmd.Wait {
		response, err := client.Run(parent, req)
		if err != nil {
			return err
		}
		return writeReport(os.Stdout, nil, response.Data, cmd.Markdown)
	}

	// Streamed run
	steps, result, err := cmd.stream(parent, ctx, client, req)
	if errors.Is(err, context.Canceled) {
		ctx.logger.Info("run cancelled")
		return nil
	}
	if werr := writeReport(os.Stdout, steps, result, cmd.Markdown); werr != nil {
		return errors.Join(err, werr)
	}
	return err
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// request builds the request from the file, the flags and the stored
// defaults, in decreasing order of precedence of flags, file, defaults.
func (cmd *RunCommand) request(defaults *Defaults) (schema.RunAgentRequest, error) {
	var req schema.RunAgentRequest
	if cmd.Request != "" {
		data, err := os.ReadFile(cmd.Request)
		if err != nil {
			return req, err
		} else if err := yaml.Unmarshal(data, &req); err != nil {
			return req, scientist.ErrBadParameter.Withf("%s: %v", cmd.Request, err)
		}
	}
	for _, field := range []struct {
		dst *string
		src string
	}{
		{&req.OriginalQuery, cmd.OriginalQuery},
		{&req.Topic, cmd.Topic},
		{&req.Methodology, cmd.Methodology},
		{&req.Results, cmd.Results},
	} {
		if strings.TrimSpace(field.src) != "" {
			*field.dst = field.src
		}
	}
	if !req.Valid() {
		return req, scientist.ErrBadParameter.With("a research query is required")
	}
	return defaults.Apply(req).WithDefaults(), nil
}

// stream runs the request as an event stream, writing step transitions to
// the log as they arrive. It returns the final step states and the result.
func (cmd *RunCommand) stream(parent context.Context, ctx *Globals, client *httpclient.Client, req schema.RunAgentRequest) (*stepTable, *schema.Result, error) {
	var result *schema.Result
	var failure error
	steps := newStepTable(nil)
	callbacks := stream.Callbacks{
		OnStart: func(event schema.Event) {
			start, err := event.Start()
			if err != nil {
				ctx.logger.Warn("start event", "error", err)
				return
			}
			steps = newStepTable(start.Steps)
			ctx.logger.Info("started", "query", start.Query, "steps", len(start.Steps))
		},
		OnProgress: func(event schema.Event) {
			progress, err := event.Progress()
			if err != nil {
				ctx.logger.Warn("progress event", "error", err)
				return
			}
			if step := steps.Update(progress, time.Now()); step != nil {
				done := steps.steps.Count(schema.StepCompleted)
				ctx.logger.Info(fmt.Sprintf("[%d/%d] %s", done, steps.Len(), step.Name), "status", step.Status)
				if len(progress.Data) > 0 {
					ctx.logger.Debug(step.Name, "data", table.Truncate(fmt.Sprint(progress.Data), 120))
				}
			}
		},
		OnComplete: func(event schema.Event) {
			complete, err := event.Complete()
			if err != nil {
				failure = err
				return
			}
			result = complete.Data
		},
		OnError: func(message string) {
			failure = scientist.ErrAgentFailed.With(message)
		},
	}

	s, err := client.RunStream(parent, req, callbacks, ctx.StreamOpts()...)
	if err != nil {
		return nil, nil, err
	}
	defer s.Close()

	// Wait for the stream to end
	if err := s.Wait(); err != nil {
		return steps, nil, err
	} else if parent.Err() != nil {
		return steps, nil, parent.Err()
	} else if failure != nil {
		return steps, result, failure
	} else if result == nil {
		return steps, nil, scientist.ErrAgentFailed.With("stream ended without a result")
	}
	return steps, result, nil
}
