package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	acceptor "github.com/ASRagab/llm-vertex-acceptor"
	"github.com/ASRagab/llm-vertex-acceptor/exitcodes"
	"github.com/ASRagab/llm-vertex-acceptor/flags"
	"github.com/ASRagab/llm-vertex-acceptor/logging"
	"github.com/ASRagab/llm-vertex-acceptor/service"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "llm-vertex-acceptor"
	app.Usage = "Acceptance harness for the llm-gcp-vertex plugin"
	app.ArgsUsage = "<project-id> [region]"
	app.Description = "Installs the llm-gcp-vertex plugin into the llm CLI, drives a prompt suite against the hosted Vertex AI models and reports pass/fail/skip."
	app.Flags = flags.Flags
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			if acceptor.IsRuntimeError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.RuntimeErr))
			} else {
				// Setup failures, test failures and interrupts all exit 1.
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.Failure))
			}
		}
	}

	// Start telemetry
	shutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		logging.S().Fatalw("failed to set up open telemetry", "err", err)
	}
	defer shutdown()

	// An operator interrupt cancels the run context; the runner's
	// deferred teardown still executes before the process exits.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start healthz/metrics server
	svc := service.New()
	svc.Start(ctx)
	defer svc.Shutdown()

	if err := app.RunContext(ctx, os.Args); err != nil {
		logging.S().Fatalw("application failed", "err", err)
	}
}

func run(cliCtx *cli.Context) error {
	if err := logging.Init(cliCtx.String(flags.LogLevel.Name)); err != nil {
		return acceptor.NewRuntimeError(err)
	}
	log := logging.L()

	cfg, err := acceptor.NewConfig(cliCtx, log)
	if err != nil {
		// Usage error: show help, exit 1, no collaborator invocation.
		_ = cli.ShowAppHelp(cliCtx)
		return cli.Exit(fmt.Sprintf("Error: %v", err), exitcodes.Failure)
	}

	a, err := acceptor.New(cfg, Version)
	if err != nil {
		return acceptor.NewRuntimeError(fmt.Errorf("failed to create acceptor: %w", err))
	}

	return a.Run(cliCtx.Context)
}
