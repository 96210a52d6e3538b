package schema_test

import (
	"testing"

	// Packages
	schema "github.com/mutablelogic/go-scientist/pkg/schema"
	assert "github.com/stretchr/testify/assert"
)

func TestParseEvent(t *testing.T) {
	assert := assert.New(t)

	event, err := schema.ParseEvent([]byte(`{"query":"x","steps":[]}`))
	assert.NoError(err)
	assert.True(event.Has("query"))
	assert.True(event.Has("steps"))
	assert.False(event.Has("success"))
}

func TestParseEventNotObject(t *testing.T) {
	assert := assert.New(t)

	for _, data := range []string{`[1]`, `"x"`, `1`, `true`, `null`} {
		_, err := schema.ParseEvent([]byte(data))
		assert.ErrorIs(err, schema.ErrNotObject, data)
	}
}

func TestParseEventMalformed(t *testing.T) {
	assert := assert.New(t)

	for _, data := range []string{``, `{`, `{"a":}`, `not json`} {
		_, err := schema.ParseEvent([]byte(data))
		assert.Error(err, data)
		assert.NotErrorIs(err, schema.ErrNotObject, data)
	}
}

func TestEventTruthy(t *testing.T) {
	assert := assert.New(t)

	event, err := schema.ParseEvent([]byte(`{
		"null": null, "false": false, "empty": "", "zero": 0, "negzero": -0.0,
		"true": true, "text": "0", "number": 1.5, "negative": -1,
		"array": [], "object": {}
	}`))
	assert.NoError(err)
	for _, key := range []string{"null", "false", "empty", "zero", "negzero", "missing"} {
		assert.False(event.Truthy(key), key)
	}
	for _, key := range []string{"true", "text", "number", "negative", "array", "object"} {
		assert.True(event.Truthy(key), key)
	}
}

func TestEventGetString(t *testing.T) {
	assert := assert.New(t)

	event, err := schema.ParseEvent([]byte(`{"error":"boom","code":502,"detail":{"a":1},"none":null}`))
	assert.NoError(err)
	assert.Equal("boom", event.GetString("error"))
	assert.Equal("502", event.GetString("code"))
	assert.Equal(`{"a":1}`, event.GetString("detail"))
	assert.Empty(event.GetString("none"))
	assert.Empty(event.GetString("missing"))
}

func TestEventProgress(t *testing.T) {
	assert := assert.New(t)

	event, err := schema.ParseEvent([]byte(`{"step":"literature_search","status":"completed","steps":[{"id":"literature_search","name":"Literature search","status":"completed"}],"data":{"papers":3}}`))
	assert.NoError(err)
	progress, err := event.Progress()
	assert.NoError(err)
	assert.Equal(schema.StepLiteratureSearch, progress.Step)
	assert.Equal(schema.StepCompleted, progress.Status)
	assert.Len(progress.Steps, 1)
	assert.Equal(float64(3), progress.Data["papers"])
}

func TestEventStartAndComplete(t *testing.T) {
	assert := assert.New(t)

	event, err := schema.ParseEvent([]byte(`{"message":"started","query":"q","steps":[{"id":"a","name":"A","status":"pending"}]}`))
	assert.NoError(err)
	start, err := event.Start()
	assert.NoError(err)
	assert.Equal("q", start.Query)
	assert.Equal("started", start.Message)
	assert.Equal(schema.StepPending, start.Steps.Get("a").Status)

	event, err = schema.ParseEvent([]byte(`{"success":true,"data":{"summary":"done","topic":"agent"}}`))
	assert.NoError(err)
	complete, err := event.Complete()
	assert.NoError(err)
	assert.True(complete.Success)
	if assert.NotNil(complete.Data) {
		assert.Equal("done", complete.Data.Summary)
		assert.Equal("agent", complete.Data.Topic)
	}

	// A payload of the wrong shape fails to decode
	event, err = schema.ParseEvent([]byte(`{"success":"yes"}`))
	assert.NoError(err)
	_, err = event.Complete()
	assert.Error(err)
}
