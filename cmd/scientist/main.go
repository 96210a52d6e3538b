package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	// Packages
	kong "github.com/alecthomas/kong"
	version "github.com/mutablelogic/go-scientist/pkg/version"
	logger "github.com/mutablelogic/go-server/pkg/logger"
	otelapi "go.opentelemetry.io/otel"
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	// Debugging
	Debug   bool `name:"debug" help:"Enable debug output"`
	Verbose bool `name:"verbose" help:"Enable verbose output"`

	// HTTP client and server options
	HTTP struct {
		Addr    string        `name:"addr" env:"SCIENTIST_ADDR" help:"Agent service address" default:"localhost:5000"`
		Prefix  string        `name:"prefix" help:"Agent service path prefix" default:"/api"`
		Timeout time.Duration `name:"timeout" help:"Request timeout, not applied to streamed runs" default:"5m"`
		Origin  string        `name:"origin" help:"Cross-origin protection (CSRF) origin for the server" default:""`
	} `embed:"" prefix:"http."`

	// Private
	ctx      context.Context
	cancel   context.CancelFunc
	tracer   trace.Tracer
	logger   *slog.Logger
	defaults *Defaults
	execName string
}

type CLI struct {
	Globals

	// Commands
	Health  HealthCommand  `cmd:"" help:"Check the agent service is alive"`
	Status  StatusCommand  `cmd:"" help:"Show the agent service status"`
	Run     RunCommand     `cmd:"" help:"Run a research query, streaming progress"`
	Serve   ServeCommand   `cmd:"" help:"Run a stand-in agent service which replays the workflow"`
	Version VersionCommand `cmd:"" help:"Print version information"`
}

///////////////////////////////////////////////////////////////////////////////
// MAIN

func main() {
	cli := CLI{}
	cli.execName = execName()
	cmd := kong.Parse(&cli,
		kong.Name(cli.execName),
		kong.Description("Research agent command line interface"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	// Create a context which is cancelled on interrupt
	cli.ctx, cli.cancel = signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cli.cancel()

	// Logging and tracing
	var level slog.LevelVar
	if cli.Debug || cli.Verbose {
		level.Set(logger.LevelDebug)
	}
	if isTerminal(os.Stderr) {
		cli.logger = slog.New(logger.NewTermHandler(os.Stderr, &level))
	} else {
		cli.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &level}))
	}
	cli.tracer = otelapi.Tracer(cli.execName)

	// Persistent defaults
	if defaults, err := NewDefaults(defaultsPath(cli.execName)); err != nil {
		cli.logger.Warn("ignoring stored defaults", "error", err)
		cli.defaults = EmptyDefaults()
	} else {
		cli.defaults = defaults
	}

	// Run the selected command
	cmd.FatalIfErrorf(cmd.Run(&cli.Globals))
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func execName() string {
	name, err := os.Executable()
	if err != nil {
		return "scientist"
	}
	return filepath.Base(name)
}

func defaultsPath(execName string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, execName, "defaults.json")
}

///////////////////////////////////////////////////////////////////////////////
// VERSION

type VersionCommand struct{}

func (cmd *VersionCommand) Run(ctx *Globals) error {
	_, err := os.Stdout.Write(append(version.JSON(ctx.execName), '\n'))
	return err
}
