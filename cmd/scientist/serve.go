package main

import (
	"context"
	"net/http"
	"time"

	// Packages
	httphandler "github.com/mutablelogic/go-scientist/pkg/httphandler"
	version "github.com/mutablelogic/go-scientist/pkg/version"
	workflow "github.com/mutablelogic/go-scientist/pkg/workflow"
	httprouter "github.com/mutablelogic/go-server/pkg/httprouter"
	httpserver "github.com/mutablelogic/go-server/pkg/httpserver"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ServeCommand struct {
	Delay time.Duration `name:"delay" help:"Time each replayed step takes" default:"2s"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	serviceTitle = "Research Agent"
)

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ServeCommand) Run(ctx *Globals) error {
	versionTag := version.Version()

	// Create the server, and the router on its mux
	server, err := httpserver.New(ctx.HTTP.Addr, nil)
	if err != nil {
		return err
	}
	router, err := newRouter(ctx.ctx, server.Router(), ctx.HTTP.Prefix, ctx.HTTP.Origin, versionTag, workflow.Replay(cmd.Delay))
	if err != nil {
		return err
	}

	// Run the server until interrupted
	ctx.logger.Info("started", "name", ctx.execName, "version", versionTag, "addr", server.Addr(), "prefix", router.Prefix())
	if err := server.Run(ctx.ctx); err != nil {
		return err
	}
	ctx.logger.Info("stopped", "name", ctx.execName, "version", versionTag)
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// newRouter registers the agent service endpoints for runner on mux, under
// prefix. No middleware is installed: event streams need a response writer
// which can be flushed.
func newRouter(ctx context.Context, mux *http.ServeMux, prefix, origin, versionTag string, runner *workflow.Workflow) (*httprouter.Router, error) {
	router, err := httprouter.NewRouter(ctx, mux, prefix, origin, serviceTitle, versionTag)
	if err != nil {
		return nil, err
	}
	if err := httphandler.RegisterHandlers(runner, router); err != nil {
		return nil, err
	}
	return router, nil
}
