package main

import (
	"path/filepath"
	"testing"

	// Packages
	schema "github.com/mutablelogic/go-scientist/pkg/schema"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	path := filepath.Join(t.TempDir(), "scientist", "defaults.json")

	d, err := NewDefaults(path)
	require.NoError(err)
	assert.Empty(d.Get(defaultTopic))

	// Remember and reload
	require.NoError(d.Remember(schema.RunAgentRequest{Topic: "vision", Methodology: " CNN "}))
	d, err = NewDefaults(path)
	require.NoError(err)
	assert.Equal("vision", d.Get(defaultTopic))
	assert.Equal("CNN", d.Get(defaultMethodology))

	// Stored values fill empty fields only
	req := d.Apply(schema.RunAgentRequest{OriginalQuery: "q", Topic: "nlp"})
	assert.Equal("nlp", req.Topic)
	assert.Equal("CNN", req.Methodology)

	// Empty values remove keys
	require.NoError(d.Set(map[string]string{defaultTopic: ""}))
	assert.Empty(d.Get(defaultTopic))
}

func TestEmptyDefaults(t *testing.T) {
	d := EmptyDefaults()
	assert.NoError(t, d.Remember(schema.RunAgentRequest{Topic: "x"}))
	assert.Equal(t, "x", d.Get(defaultTopic))
}
