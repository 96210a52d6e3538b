package main

import (
	"fmt"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type HealthCommand struct{}

type StatusCommand struct{}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *HealthCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "HealthCommand")
	defer func() { endSpan(err) }()

	// Probe the service
	response, err := client.Health(parent)
	if response != nil {
		fmt.Println(response)
	}
	return err
}

func (cmd *StatusCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "StatusCommand")
	defer func() { endSpan(err) }()

	// Get the status
	response, err := client.Status(parent)
	if err != nil {
		return err
	}
	fmt.Println(response)
	return nil
}
