package httphandler

import (
	"fmt"
	"net/http"
	"strings"

	// Packages
	uuid "github.com/google/uuid"
	schema "github.com/mutablelogic/go-scientist/pkg/schema"
	workflow "github.com/mutablelogic/go-scientist/pkg/workflow"
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	jsonschema "github.com/mutablelogic/go-server/pkg/jsonschema"
	openapi "github.com/mutablelogic/go-server/pkg/openapi"
	types "github.com/mutablelogic/go-server/pkg/types"
	errgroup "golang.org/x/sync/errgroup"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	errNoQuery  = "original_query is required"
	errNoRunner = "no workflow configured"
)

///////////////////////////////////////////////////////////////////////////////
// HANDLER FUNCTIONS

// Path: run-agent
func RunHandler(runner *workflow.Workflow) (string, httprequest.PathItem) {
	return "run-agent", httprequest.NewPathItem("Run", "Run the research workflow", tagAgent).Post(
		func(w http.ResponseWriter, r *http.Request) {
			var req schema.RunAgentRequest
			if err := httprequest.Read(r, &req); err != nil {
				_ = httpresponse.Error(w, httpresponse.ErrBadRequest.With(err))
				return
			}

			// A client which accepts an event stream gets one
			switch negotiate(r) {
			case types.ContentTypeTextStream:
				runStream(w, r, runner, req)
			case types.ContentTypeJSON:
				runJSON(w, r, runner, req)
			default:
				_ = httpresponse.Error(w, httpresponse.Err(http.StatusNotAcceptable), r.Header.Get(types.ContentAcceptHeader))
			}
		},
		"Run the workflow and return the final result",
		openapi.WithJSONRequest(jsonschema.MustFor[schema.RunAgentRequest]()),
		openapi.WithJSONResponse(http.StatusOK, jsonschema.MustFor[schema.RunAgentResponse]()),
		openapi.WithTextStreamResponse(http.StatusOK, "Event stream when requested with Accept: text/event-stream"),
		openapi.WithErrorResponse(http.StatusBadRequest, "Missing query"),
		openapi.WithErrorResponse(http.StatusNotAcceptable),
	)
}

// Path: run-agent-stream
func RunStreamHandler(runner *workflow.Workflow) (string, httprequest.PathItem) {
	return "run-agent-stream", httprequest.NewPathItem("Run stream", "Run the research workflow as an event stream", tagAgent).Post(
		func(w http.ResponseWriter, r *http.Request) {
			var req schema.RunAgentRequest
			if err := httprequest.Read(r, &req); err != nil {
				_ = httpresponse.Error(w, httpresponse.ErrBadRequest.With(err))
				return
			}
			runStream(w, r, runner, req)
		},
		"Stream start, progress and complete or error events",
		openapi.WithJSONRequest(jsonschema.MustFor[schema.RunAgentRequest]()),
		openapi.WithTextStreamResponse(http.StatusOK),
	)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// runJSON runs the workflow and replies with a single response object.
func runJSON(w http.ResponseWriter, r *http.Request, runner *workflow.Workflow, req schema.RunAgentRequest) {
	switch {
	case !req.Valid():
		_ = httpresponse.JSON(w, http.StatusBadRequest, httprequest.Indent(r), schema.RunAgentResponse{Error: errNoQuery})
		return
	case runner == nil:
		_ = httpresponse.JSON(w, http.StatusInternalServerError, httprequest.Indent(r), schema.RunAgentResponse{Error: errNoRunner})
		return
	}

	result, err := runner.Run(r.Context(), req, nil)
	if err != nil {
		_ = httpresponse.JSON(w, httpStatus(err), httprequest.Indent(r), schema.RunAgentResponse{Error: err.Error()})
		return
	}
	_ = httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), schema.RunAgentResponse{Success: true, Data: result})
}

// runStream runs the workflow and replies with a text/event-stream: a
// start event, a progress event per step transition, and finally a
// complete or error event.
func runStream(w http.ResponseWriter, r *http.Request, runner *workflow.Workflow, req schema.RunAgentRequest) {
	id := r.Header.Get(headerRequestId)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(headerRequestId, id)

	stream := httpresponse.NewTextStream(w)
	if stream == nil {
		_ = httpresponse.Error(w, httpresponse.ErrInternalError)
		return
	}
	defer stream.Close()

	// A run that cannot start is a single error event
	switch {
	case !req.Valid():
		stream.Write(schema.EventError, schema.RunAgentResponse{Error: errNoQuery})
		return
	case runner == nil:
		stream.Write(schema.EventError, schema.RunAgentResponse{Error: errNoRunner})
		return
	}

	// Announce the run
	stream.Write(schema.EventStart, schema.StartEvent{
		Message: fmt.Sprintf("run %s started", id),
		Query:   strings.TrimSpace(req.OriginalQuery),
		Steps:   runner.Steps(),
	})

	// Run the workflow and relay its progress
	var result *schema.Result
	events := make(chan schema.ProgressEvent)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		defer close(events)
		var err error
		result, err = runner.Run(ctx, req, func(event schema.ProgressEvent) {
			select {
			case events <- event:
			case <-ctx.Done():
			}
		})
		return err
	})
	g.Go(func() error {
		for event := range events {
			stream.Write(schema.EventProgress, event)
		}
		return nil
	})

	// Finish the run
	if err := g.Wait(); err != nil {
		if r.Context().Err() == nil {
			stream.Write(schema.EventError, schema.RunAgentResponse{Error: err.Error()})
		}
		return
	}
	stream.Write(schema.EventComplete, schema.RunAgentResponse{Success: true, Data: result})
}

// negotiate returns the response type for the Accept header: the first of
// an event stream or JSON that it names, JSON when absent, or the empty
// string when neither is acceptable.
func negotiate(r *http.Request) string {
	header := r.Header.Get(types.ContentAcceptHeader)
	if strings.TrimSpace(header) == "" {
		return types.ContentTypeJSON
	}
	for _, accept := range strings.Split(header, ",") {
		mimetype, err := types.ParseContentType(accept)
		if err != nil {
			continue
		}
		switch mimetype {
		case types.ContentTypeTextStream:
			return types.ContentTypeTextStream
		case types.ContentTypeJSON, types.ContentTypeAny, "application/*":
			return types.ContentTypeJSON
		}
	}
	return ""
}
