package httpclient

import (
	"net/http"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Client talks to the research agent service. Plain calls go through the
// go-client request machinery; event streams use the underlying
// *http.Client directly so that they are not bound by the request timeout.
type Client struct {
	*client.Client
	endpoint string
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	pathHealth    = "health"
	pathStatus    = "status"
	pathRun       = "run-agent"
	pathRunStream = "run-agent-stream"
)

const (
	headerRequestId = "X-Request-Id"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new agent client with the given base URL and options.
// The url parameter should point to the API prefix of the service, e.g.
// "http://localhost:5000/api".
func New(url string, opts ...client.ClientOpt) (*Client, error) {
	c := new(Client)
	if client, err := client.New(append(opts, client.OptEndpoint(url))...); err != nil {
		return nil, err
	} else {
		c.Client = client
		c.endpoint = strings.TrimSuffix(url, "/")
	}
	return c, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Endpoint returns the base URL of the service.
func (c *Client) Endpoint() string {
	return c.endpoint
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// streamClient returns a copy of the underlying http client with the
// whole-request timeout cleared. Transport and cookie jar are shared.
func (c *Client) streamClient() *http.Client {
	hc := *c.Client.Client
	hc.Timeout = 0
	return &hc
}
