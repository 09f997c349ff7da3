// Package llm wraps the external `llm` CLI that the harness drives.
// The CLI is an opaque collaborator: the harness shells out to it,
// captures combined output and interprets nothing beyond exit status
// and response text.
package llm

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/acarl005/stripansi"
	"go.uber.org/zap"
	"golang.org/x/mod/semver"

	"github.com/ASRagab/llm-vertex-acceptor/types"
)

const (
	// ProjectEnvVar and RegionEnvVar carry the session configuration to
	// the plugin for every invocation.
	ProjectEnvVar = "LLM_VERTEX_CLOUD_PROJECT"
	RegionEnvVar  = "LLM_VERTEX_CLOUD_LOCATION"

	// MinVersion is the oldest llm CLI the plugin supports.
	MinVersion = "v0.19.0"
)

var versionRe = regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?)`)

// PromptRequest describes one prompt invocation.
type PromptRequest struct {
	Model    string
	Text     string
	System   string
	Continue bool
	Options  []types.Option
}

// Client is the surface of the external CLI the runner depends on.
// Implementations return the captured combined output even when the
// command fails, so callers can match error text against skip signals.
type Client interface {
	Version(ctx context.Context) (string, error)
	Install(ctx context.Context, source string, editable bool) (string, error)
	Uninstall(ctx context.Context, plugin string) (string, error)
	Models(ctx context.Context) (string, error)
	Prompt(ctx context.Context, req PromptRequest) (string, error)
}

// Config holds configuration for creating a new CLI client.
type Config struct {
	Binary  string // path to the llm binary
	Project string
	Region  string
	Logger  *zap.Logger
}

type cli struct {
	binary  string
	project string
	region  string
	log     *zap.Logger
}

// NewClient creates a Client that shells out to the llm binary.
func NewClient(cfg Config) (Client, error) {
	if cfg.Binary == "" {
		cfg.Binary = "llm"
	}
	if cfg.Project == "" {
		return nil, fmt.Errorf("project is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("region is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &cli{
		binary:  cfg.Binary,
		project: cfg.Project,
		region:  cfg.Region,
		log:     cfg.Logger,
	}, nil
}

// Version runs `llm --version` and verifies the CLI is reachable and
// recent enough.
func (c *cli) Version(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "--version")
	if err != nil {
		return out, fmt.Errorf("llm CLI not reachable: %w", err)
	}
	v := versionRe.FindString(out)
	if v == "" {
		return out, fmt.Errorf("could not parse llm version from %q", strings.TrimSpace(out))
	}
	if semver.Compare("v"+v, MinVersion) < 0 {
		return out, fmt.Errorf("llm CLI version v%s is older than required %s", v, MinVersion)
	}
	return out, nil
}

// Install installs the plugin under test. With editable set, the
// source directory is installed in-place so local changes are tested.
func (c *cli) Install(ctx context.Context, source string, editable bool) (string, error) {
	args := []string{"install"}
	if editable {
		args = append(args, "-e")
	}
	args = append(args, source)
	return c.run(ctx, args...)
}

// Uninstall removes the plugin. Runs with -y so teardown never blocks
// on a confirmation prompt.
func (c *cli) Uninstall(ctx context.Context, plugin string) (string, error) {
	return c.run(ctx, "uninstall", plugin, "-y")
}

// Models returns the CLI's model listing.
func (c *cli) Models(ctx context.Context) (string, error) {
	return c.run(ctx, "models", "list")
}

// Prompt issues one prompt against the given model and returns the
// response text.
func (c *cli) Prompt(ctx context.Context, req PromptRequest) (string, error) {
	args := []string{"prompt", "-m", req.Model, "--no-stream"}
	if req.System != "" {
		args = append(args, "-s", req.System)
	}
	if req.Continue {
		args = append(args, "-c")
	}
	for _, opt := range req.Options {
		args = append(args, "-o", opt.Name, opt.Value)
	}
	args = append(args, req.Text)
	return c.run(ctx, args...)
}

// run executes the llm binary with the session environment and returns
// the ANSI-stripped combined output. No timeout is imposed on the
// invocation; the context only cancels on operator interrupt.
func (c *cli) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Env = append(os.Environ(),
		ProjectEnvVar+"="+c.project,
		RegionEnvVar+"="+c.region,
	)

	c.log.Debug("running llm command", zap.String("command", cmd.String()))

	out, err := cmd.CombinedOutput()
	cleaned := stripansi.Strip(string(out))
	if err != nil {
		return cleaned, fmt.Errorf("llm %s: %w", args[0], err)
	}
	return cleaned, nil
}
