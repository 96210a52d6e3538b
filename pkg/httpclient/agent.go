package httpclient

import (
	"context"

	// Packages
	uuid "github.com/google/uuid"
	client "github.com/mutablelogic/go-client"
	scientist "github.com/mutablelogic/go-scientist"
	schema "github.com/mutablelogic/go-scientist/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Health probes the service. A reply other than status "ok", or no reply
// at all, is returned as ErrUnavailable.
func (c *Client) Health(ctx context.Context) (*schema.HealthResponse, error) {
	var response schema.HealthResponse
	if err := c.DoWithContext(ctx, client.NewRequest(), &response, client.OptPath(pathHealth)); err != nil {
		return nil, scientist.ErrUnavailable.With(err)
	} else if response.Status != "ok" {
		return &response, scientist.ErrUnavailable.Withf("status %q", response.Status)
	}
	return &response, nil
}

// Status returns the service status.
func (c *Client) Status(ctx context.Context) (*schema.StatusResponse, error) {
	var response schema.StatusResponse
	if err := c.DoWithContext(ctx, client.NewRequest(), &response, client.OptPath(pathStatus)); err != nil {
		return nil, err
	}
	return &response, nil
}

// Run submits a research query and waits for the final result. A run the
// service reports as failed is returned as ErrAgentFailed along with the
// response.
func (c *Client) Run(ctx context.Context, req schema.RunAgentRequest) (*schema.RunAgentResponse, error) {
	if !req.Valid() {
		return nil, scientist.ErrBadParameter.With("original_query is required")
	}

	// Create request
	payload, err := client.NewJSONRequest(req)
	if err != nil {
		return nil, err
	}

	// Perform request
	var response schema.RunAgentResponse
	if err := c.DoWithContext(ctx, payload, &response,
		client.OptPath(pathRun),
		client.OptReqHeader(headerRequestId, uuid.NewString()),
	); err != nil {
		return nil, err
	}

	// Check the outcome
	if !response.Success {
		message := response.Error
		if message == "" {
			message = "no error message"
		}
		return &response, scientist.ErrAgentFailed.With(message)
	}
	return &response, nil
}
