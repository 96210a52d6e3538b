package main

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	// Packages
	schema "github.com/mutablelogic/go-scientist/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Defaults remembers request fields between runs, in a JSON file on disk.
// A store without a path is kept in memory only.
type Defaults struct {
	mu   sync.RWMutex
	path string
	data map[string]string
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	defaultTopic       = "topic"
	defaultMethodology = "methodology"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewDefaults loads the store at path. A missing file is an empty store.
func NewDefaults(path string) (*Defaults, error) {
	d := EmptyDefaults()
	d.path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return d, nil
	} else if err != nil {
		return nil, err
	} else if err := json.Unmarshal(data, &d.data); err != nil {
		return nil, err
	}
	return d, nil
}

// EmptyDefaults returns an in-memory store.
func EmptyDefaults() *Defaults {
	return &Defaults{data: make(map[string]string)}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Get returns the stored value for key, or the empty string.
func (d *Defaults) Get(key string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.data[key]
}

// Set stores a value and persists the store. An empty value removes the key.
func (d *Defaults) Set(values map[string]string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, value := range values {
		if value = strings.TrimSpace(value); value == "" {
			delete(d.data, key)
		} else {
			d.data[key] = value
		}
	}
	return d.save()
}

// Apply fills the empty topic and methodology of req from the store.
func (d *Defaults) Apply(req schema.RunAgentRequest) schema.RunAgentRequest {
	if strings.TrimSpace(req.Topic) == "" {
		req.Topic = d.Get(defaultTopic)
	}
	if strings.TrimSpace(req.Methodology) == "" {
		req.Methodology = d.Get(defaultMethodology)
	}
	return req
}

// Remember stores the topic and methodology of req for the next run.
func (d *Defaults) Remember(req schema.RunAgentRequest) error {
	return d.Set(map[string]string{
		defaultTopic:       req.Topic,
		defaultMethodology: req.Methodology,
	})
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// save writes the store as indented JSON, creating parent directories
// as needed.
func (d *Defaults) save() error {
	if d.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(d.path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(d.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(d.path, data, 0600)
}
