package acceptor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ASRagab/llm-vertex-acceptor/flags"
)

// DefaultRegion is used when no region argument is given.
const DefaultRegion = "us-central1"

// Config holds the application configuration
type Config struct {
	Project         string // GCP project id, read-only after construction
	Region          string // Vertex AI region, read-only after construction
	LLMBinary       string
	PluginSource    string
	Editable        bool
	PluginName      string
	SuiteConfigFile string
	LogDir          string
	RunInterval     time.Duration // Interval between suite runs
	RunOnce         bool          // Exit after one suite run
	Logger          *zap.Logger
}

// NewConfig creates a new Config from cli context. Project and region
// come from positional arguments: `llm-vertex-acceptor <project-id> [region]`.
func NewConfig(ctx *cli.Context, logger *zap.Logger) (*Config, error) {
	project := ctx.Args().Get(0)
	if project == "" {
		return nil, errors.New("project id is required")
	}

	region := ctx.Args().Get(1)
	if region == "" {
		region = DefaultRegion
	}

	runInterval := ctx.Duration(flags.RunInterval.Name)
	runOnce := runInterval == 0

	logDir := ctx.String(flags.LogDir.Name)
	if logDir != "" {
		var err error
		logDir, err = filepath.Abs(logDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for log directory: %w", err)
		}
	}

	// The plugin source may be a local directory or a package spec;
	// only local paths get resolved.
	pluginSource := ctx.String(flags.PluginSource.Name)
	if _, err := os.Stat(pluginSource); err == nil {
		pluginSource, err = filepath.Abs(pluginSource)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for plugin source: %w", err)
		}
	}

	var suiteConfig string
	if s := ctx.String(flags.SuiteConfig.Name); s != "" {
		var err error
		suiteConfig, err = filepath.Abs(s)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for suite config '%s': %w", s, err)
		}
	}

	return &Config{
		Project:         project,
		Region:          region,
		LLMBinary:       ctx.String(flags.LLMBinary.Name),
		PluginSource:    pluginSource,
		Editable:        ctx.Bool(flags.Editable.Name),
		PluginName:      ctx.String(flags.PluginName.Name),
		SuiteConfigFile: suiteConfig,
		LogDir:          logDir,
		RunInterval:     runInterval,
		RunOnce:         runOnce,
		Logger:          logger,
	}, nil
}
