package httphandler

import (
	"net/http"

	// Packages
	schema "github.com/mutablelogic/go-scientist/pkg/schema"
	workflow "github.com/mutablelogic/go-scientist/pkg/workflow"
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	jsonschema "github.com/mutablelogic/go-server/pkg/jsonschema"
	openapi "github.com/mutablelogic/go-server/pkg/openapi"
)

///////////////////////////////////////////////////////////////////////////////
// HANDLER FUNCTIONS

// Path: health
func HealthHandler(runner *workflow.Workflow) (string, httprequest.PathItem) {
	return "health", httprequest.NewPathItem("Health", "Liveness probe of the agent service", tagAgent).Get(
		func(w http.ResponseWriter, r *http.Request) {
			if runner == nil {
				_ = httpresponse.JSON(w, http.StatusInternalServerError, httprequest.Indent(r), schema.HealthResponse{
					Status: "error",
					Error:  errNoRunner,
				})
				return
			}
			_ = httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), schema.HealthResponse{
				Status:  "ok",
				Message: ServiceName + " is running",
			})
		},
		"Check the service is alive",
		openapi.WithJSONResponse(http.StatusOK, jsonschema.MustFor[schema.HealthResponse]()),
		openapi.WithErrorResponse(http.StatusInternalServerError, "No workflow configured"),
	)
}

// Path: status
func StatusHandler(runner *workflow.Workflow) (string, httprequest.PathItem) {
	return "status", httprequest.NewPathItem("Status", "Service status", tagAgent).Get(
		func(w http.ResponseWriter, r *http.Request) {
			status := "running"
			if runner == nil {
				status = "error"
			}
			_ = httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), schema.StatusResponse{
				Status:  status,
				Service: ServiceName,
			})
		},
		"Get the service status",
		openapi.WithJSONResponse(http.StatusOK, jsonschema.MustFor[schema.StatusResponse]()),
	)
}
