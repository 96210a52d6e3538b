package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	// Packages
	uuid "github.com/google/uuid"
	client "github.com/mutablelogic/go-client"
	scientist "github.com/mutablelogic/go-scientist"
	schema "github.com/mutablelogic/go-scientist/pkg/schema"
	stream "github.com/mutablelogic/go-scientist/pkg/stream"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// RunStream submits a research query and returns as soon as the request
// has been started. Events are delivered to callbacks as they arrive; a
// failed request is reported through OnError. Close the returned stream,
// or cancel ctx, to abandon the run.
//
// An invalid request is returned as an error without contacting the
// service.
func (c *Client) RunStream(ctx context.Context, req schema.RunAgentRequest, callbacks stream.Callbacks, opts ...stream.Opt) (*stream.Stream, error) {
	if !req.Valid() {
		return nil, scientist.ErrBadParameter.With("original_query is required")
	}

	// Create request
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/"+pathRunStream, bytes.NewReader(data))
	if err != nil {
		return nil, scientist.ErrBadParameter.With(err)
	}
	httpReq.Header.Set("Content-Type", client.ContentTypeJson)
	httpReq.Header.Set("Accept", client.ContentTypeTextStream)
	httpReq.Header.Set(headerRequestId, uuid.NewString())

	// Start the stream
	return stream.Open(ctx, c.streamClient(), httpReq, callbacks, opts...), nil
}
