package flags

import (
	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "LLM_ACCEPTOR"

// prefixEnvVars adds the application prefix to the environment variable name.
func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	LLMBinary = &cli.StringFlag{
		Name:    "llm-binary",
		Value:   "llm",
		EnvVars: prefixEnvVars("LLM_BINARY"),
		Usage:   "Path to the llm CLI binary to drive",
	}
	PluginSource = &cli.StringFlag{
		Name:    "plugin-source",
		Value:   ".",
		EnvVars: prefixEnvVars("PLUGIN_SOURCE"),
		Usage:   "Plugin source passed to 'llm install' (directory or package spec)",
	}
	Editable = &cli.BoolFlag{
		Name:    "editable",
		Value:   true,
		EnvVars: prefixEnvVars("EDITABLE"),
		Usage:   "Install the plugin source in editable mode",
	}
	PluginName = &cli.StringFlag{
		Name:    "plugin-name",
		Value:   "llm-gcp-vertex",
		EnvVars: prefixEnvVars("PLUGIN_NAME"),
		Usage:   "Plugin name passed to 'llm uninstall' during teardown",
	}
	SuiteConfig = &cli.StringFlag{
		Name:    "suite",
		Value:   "",
		EnvVars: prefixEnvVars("SUITE"),
		Usage:   "Path to a YAML suite config overriding the builtin suite",
	}
	LogDir = &cli.StringFlag{
		Name:    "logdir",
		Value:   "logs",
		EnvVars: prefixEnvVars("LOGDIR"),
		Usage:   "Directory for per-case transcripts and run summaries",
	}
	RunInterval = &cli.DurationFlag{
		Name:    "run-interval",
		Value:   0,
		EnvVars: prefixEnvVars("RUN_INTERVAL"),
		Usage:   "Interval between suite runs (e.g. '1h', '30m'). Set to 0 or omit for run-once mode.",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "Log level (debug, info, warn, error)",
	}
)

var Flags = []cli.Flag{
	LLMBinary,
	PluginSource,
	Editable,
	PluginName,
	SuiteConfig,
	LogDir,
	RunInterval,
	LogLevel,
}
