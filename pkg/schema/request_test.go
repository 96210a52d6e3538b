package schema_test

import (
	"encoding/json"
	"testing"

	// Packages
	schema "github.com/mutablelogic/go-scientist/pkg/schema"
	assert "github.com/stretchr/testify/assert"
)

func TestRequestDefaults(t *testing.T) {
	assert := assert.New(t)

	req := schema.RunAgentRequest{OriginalQuery: "  graph neural networks  "}.WithDefaults()
	assert.Equal("graph neural networks", req.OriginalQuery)
	assert.Equal(schema.DefaultTopic, req.Topic)
	assert.Equal(schema.DefaultMethodology, req.Methodology)
	assert.True(req.Valid())

	req = schema.RunAgentRequest{Topic: "vision", Methodology: "CNN"}.WithDefaults()
	assert.Equal("vision", req.Topic)
	assert.Equal("CNN", req.Methodology)
	assert.False(req.Valid())
}

func TestRequestJSON(t *testing.T) {
	assert := assert.New(t)

	data, err := json.Marshal(schema.RunAgentRequest{OriginalQuery: "q"})
	assert.NoError(err)
	assert.JSONEq(`{"original_query":"q"}`, string(data))
	assert.Contains(schema.RunAgentRequest{OriginalQuery: "q"}.String(), `"original_query": "q"`)
}

func TestResponseJSON(t *testing.T) {
	assert := assert.New(t)

	var resp schema.RunAgentResponse
	assert.NoError(json.Unmarshal([]byte(`{"success":false,"error":"agent crashed","traceback":"..."}`), &resp))
	assert.False(resp.Success)
	assert.Nil(resp.Data)
	assert.Equal("agent crashed", resp.Error)
}
