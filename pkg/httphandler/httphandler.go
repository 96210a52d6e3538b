package httphandler

import (
	"errors"
	"net/http"

	// Packages
	scientist "github.com/mutablelogic/go-scientist"
	workflow "github.com/mutablelogic/go-scientist/pkg/workflow"
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httprouter "github.com/mutablelogic/go-server/pkg/httprouter"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// ServiceName is reported by the status endpoint
	ServiceName = "AI Scientist Agent"
)

const (
	headerRequestId = "X-Request-Id"
	tagAgent        = "agent"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// RegisterHandlers registers the agent service endpoints for the runner,
// relative to the router prefix. A nil runner still serves the endpoints,
// reporting itself unhealthy.
func RegisterHandlers(runner *workflow.Workflow, router *httprouter.Router) error {
	var result error

	// Convenience function to register a path item and accumulate any errors
	register := func(path string, item httprequest.PathItem) {
		result = errors.Join(result, router.RegisterPath(path, nil, item))
	}

	// Register handlers
	register(HealthHandler(runner))
	register(StatusHandler(runner))
	register(RunHandler(runner))
	register(RunStreamHandler(runner))

	// Return any errors
	return result
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// httpStatus returns the response status for a scientist.Err. Unknown
// errors map to 500.
func httpStatus(err error) int {
	var code scientist.Err
	if !errors.As(err, &code) {
		return http.StatusInternalServerError
	}
	switch code {
	case scientist.ErrNotFound:
		return http.StatusNotFound
	case scientist.ErrBadParameter:
		return http.StatusBadRequest
	case scientist.ErrConflict:
		return http.StatusConflict
	case scientist.ErrNotImplemented:
		return http.StatusNotImplemented
	case scientist.ErrUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
