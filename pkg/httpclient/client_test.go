package httpclient_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	// Packages
	client "github.com/mutablelogic/go-client"
	scientist "github.com/mutablelogic/go-scientist"
	httpclient "github.com/mutablelogic/go-scientist/pkg/httpclient"
	schema "github.com/mutablelogic/go-scientist/pkg/schema"
	stream "github.com/mutablelogic/go-scientist/pkg/stream"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

///////////////////////////////////////////////////////////////////////////////
// HELPERS

// agentServer mimics the agent service. Requests seen are recorded.
type agentServer struct {
	*httptest.Server
	sync.Mutex
	health   string
	delay    time.Duration
	requests []*http.Request
	bodies   []schema.RunAgentRequest
}

func newAgentServer(t *testing.T) *agentServer {
	t.Helper()
	srv := &agentServer{health: "ok"}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		srv.Lock()
		status := srv.health
		srv.Unlock()
		writeJSON(w, http.StatusOK, schema.HealthResponse{Status: status})
	})
	mux.HandleFunc("GET /api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, schema.StatusResponse{Status: "running", Service: "test"})
	})
	mux.HandleFunc("POST /api/run-agent", func(w http.ResponseWriter, r *http.Request) {
		req := srv.record(t, r)
		if req.OriginalQuery == "fail" {
			writeJSON(w, http.StatusOK, schema.RunAgentResponse{Success: false, Error: "agent crashed"})
			return
		}
		writeJSON(w, http.StatusOK, schema.RunAgentResponse{Success: true, Data: &schema.Result{Summary: "summary of " + req.OriginalQuery}})
	})
	mux.HandleFunc("POST /api/run-agent-stream", func(w http.ResponseWriter, r *http.Request) {
		req := srv.record(t, r)
		w.Header().Set("Content-Type", "text/event-stream")
		for _, event := range []string{
			fmt.Sprintf("event: start\ndata: {\"query\":%q}\n\n", req.OriginalQuery),
			"event: progress\ndata: {\"step\":\"literature_search\",\"status\":\"running\",\"steps\":[]}\n\n",
			"event: complete\ndata: {\"success\":true,\"data\":{\"summary\":\"done\"}}\n\n",
		} {
			time.Sleep(srv.delay)
			fmt.Fprint(w, event)
			w.(http.Flusher).Flush()
		}
	})
	srv.Server = httptest.NewServer(mux)
	return srv
}

func (srv *agentServer) record(t *testing.T, r *http.Request) schema.RunAgentRequest {
	var req schema.RunAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.Error(err)
	}
	srv.Lock()
	defer srv.Unlock()
	srv.requests = append(srv.requests, r)
	srv.bodies = append(srv.bodies, req)
	return req
}

func (srv *agentServer) setHealth(status string) {
	srv.Lock()
	defer srv.Unlock()
	srv.health = status
}

func (srv *agentServer) seen() ([]*http.Request, []schema.RunAgentRequest) {
	srv.Lock()
	defer srv.Unlock()
	return srv.requests, srv.bodies
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func newClient(t *testing.T, serverURL string, opts ...client.ClientOpt) *httpclient.Client {
	t.Helper()
	c, err := httpclient.New(serverURL+"/api", opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func TestHealth(t *testing.T) {
	assert := assert.New(t)
	srv := newAgentServer(t)
	defer srv.Close()
	c := newClient(t, srv.URL)

	resp, err := c.Health(context.Background())
	assert.NoError(err)
	assert.Equal("ok", resp.Status)

	srv.setHealth("degraded")
	resp, err = c.Health(context.Background())
	assert.ErrorIs(err, scientist.ErrUnavailable)
	assert.Equal("degraded", resp.Status)
}

func TestHealth_Down(t *testing.T) {
	srv := newAgentServer(t)
	c := newClient(t, srv.URL)
	srv.Close()

	_, err := c.Health(context.Background())
	assert.ErrorIs(t, err, scientist.ErrUnavailable)
}

func TestStatus(t *testing.T) {
	assert := assert.New(t)
	srv := newAgentServer(t)
	defer srv.Close()
	c := newClient(t, srv.URL)

	resp, err := c.Status(context.Background())
	assert.NoError(err)
	assert.Equal("running", resp.Status)
	assert.Equal("test", resp.Service)
}

func TestRun(t *testing.T) {
	assert := assert.New(t)
	srv := newAgentServer(t)
	defer srv.Close()
	c := newClient(t, srv.URL)

	resp, err := c.Run(context.Background(), schema.RunAgentRequest{OriginalQuery: "graphs"})
	assert.NoError(err)
	assert.True(resp.Success)
	if assert.NotNil(resp.Data) {
		assert.Equal("summary of graphs", resp.Data.Summary)
	}
	if requests, _ := srv.seen(); assert.Len(requests, 1) {
		assert.NotEmpty(requests[0].Header.Get("X-Request-Id"))
	}
}

func TestRun_Failed(t *testing.T) {
	assert := assert.New(t)
	srv := newAgentServer(t)
	defer srv.Close()
	c := newClient(t, srv.URL)

	resp, err := c.Run(context.Background(), schema.RunAgentRequest{OriginalQuery: "fail"})
	assert.ErrorIs(err, scientist.ErrAgentFailed)
	assert.ErrorContains(err, "agent crashed")
	if assert.NotNil(resp) {
		assert.False(resp.Success)
	}
}

func TestRun_EmptyQuery(t *testing.T) {
	assert := assert.New(t)
	srv := newAgentServer(t)
	defer srv.Close()
	c := newClient(t, srv.URL)

	_, err := c.Run(context.Background(), schema.RunAgentRequest{OriginalQuery: "   "})
	assert.ErrorIs(err, scientist.ErrBadParameter)
	_, err = c.RunStream(context.Background(), schema.RunAgentRequest{}, stream.Callbacks{})
	assert.ErrorIs(err, scientist.ErrBadParameter)
	requests, _ := srv.seen()
	assert.Empty(requests)
}

func TestRunStream(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	srv := newAgentServer(t)
	defer srv.Close()
	c := newClient(t, srv.URL)

	var events []string
	s, err := c.RunStream(context.Background(), schema.RunAgentRequest{OriginalQuery: "graphs", Topic: "ml"}, stream.Callbacks{
		OnStart:    func(e schema.Event) { events = append(events, "start:"+e.GetString("query")) },
		OnProgress: func(e schema.Event) { events = append(events, "progress:"+e.GetString("step")) },
		OnComplete: func(e schema.Event) {
			resp, err := e.Complete()
			if err != nil {
				events = append(events, "bad complete: "+err.Error())
				return
			}
			events = append(events, "complete:"+resp.Data.Summary)
		},
		OnError: func(message string) { events = append(events, "error:"+message) },
	})
	require.NoError(err)
	require.NoError(s.Wait())
	assert.Equal([]string{"start:graphs", "progress:literature_search", "complete:done"}, events)

	requests, bodies := srv.seen()
	require.Len(requests, 1)
	r := requests[0]
	assert.Equal("application/json", r.Header.Get("Content-Type"))
	assert.Equal("text/event-stream", r.Header.Get("Accept"))
	assert.NotEmpty(r.Header.Get("X-Request-Id"))
	assert.Equal("ml", bodies[0].Topic)
}

func TestRunStream_IgnoresRequestTimeout(t *testing.T) {
	assert := assert.New(t)
	srv := newAgentServer(t)
	srv.delay = 100 * time.Millisecond
	defer srv.Close()
	c := newClient(t, srv.URL, client.OptTimeout(150*time.Millisecond))

	// The whole stream takes longer than the request timeout
	var complete bool
	s, err := c.RunStream(context.Background(), schema.RunAgentRequest{OriginalQuery: "slow"}, stream.Callbacks{
		OnComplete: func(schema.Event) { complete = true },
	})
	assert.NoError(err)
	assert.NoError(s.Wait())
	assert.True(complete)
}

func TestRunStream_Close(t *testing.T) {
	assert := assert.New(t)
	srv := newAgentServer(t)
	srv.delay = 200 * time.Millisecond
	defer srv.Close()
	c := newClient(t, srv.URL)

	var failures []string
	s, err := c.RunStream(context.Background(), schema.RunAgentRequest{OriginalQuery: "slow"}, stream.Callbacks{
		OnError: func(message string) { failures = append(failures, message) },
	})
	assert.NoError(err)
	assert.NoError(s.Close())
	assert.NoError(s.Wait())
	assert.Empty(failures)
}
