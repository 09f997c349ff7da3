// Package registry loads and validates the acceptance suite: the
// ordered provider groups and prompt cases the runner executes.
package registry

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ASRagab/llm-vertex-acceptor/types"
)

// Registry holds the loaded suite configuration.
type Registry struct {
	config Config
	suite  types.SuiteConfig
	mu     sync.RWMutex
}

// Config contains registry configuration.
type Config struct {
	// SuiteConfigFile is an optional YAML file overriding the builtin
	// suite.
	SuiteConfigFile string
	Logger          *zap.Logger
}

// NewRegistry creates a registry. When no suite file is given the
// builtin default suite is used.
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	r := &Registry{config: cfg}

	if err := r.loadSuite(cfg.SuiteConfigFile); err != nil {
		return nil, fmt.Errorf("failed to load suite: %w", err)
	}

	cfg.Logger.Debug("registry loaded",
		zap.String("suite", r.suite.Name),
		zap.Int("groups", len(r.suite.Groups)),
		zap.Int("cases", r.suite.CaseCount()))

	return r, nil
}

func (r *Registry) loadSuite(cfgPath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	suite := DefaultSuite()
	if cfgPath != "" {
		loaded, err := loadConfig(cfgPath)
		if err != nil {
			return err
		}
		suite = *loaded
	}

	if err := suite.Validate(); err != nil {
		return fmt.Errorf("invalid suite config: %w", err)
	}
	for _, g := range suite.Groups {
		if !types.KnownModel(g.Model) {
			return fmt.Errorf("group %q references unknown model %q", g.Name, g.Model)
		}
	}

	r.suite = suite
	return nil
}

// Suite returns the loaded suite configuration.
func (r *Registry) Suite() types.SuiteConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.suite
}

// Models returns the model id of every group, in suite order. The
// runner verifies each appears in the collaborator's model listing
// after install.
func (r *Registry) Models() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	models := make([]string, 0, len(r.suite.Groups))
	for _, g := range r.suite.Groups {
		models = append(models, g.Model)
	}
	return models
}

// GetConfig returns the registry configuration.
func (r *Registry) GetConfig() Config {
	return r.config
}

// loadConfig loads a suite config from a YAML file.
func loadConfig(path string) (*types.SuiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite file: %w", err)
	}

	var suite types.SuiteConfig
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("parsing suite file: %w", err)
	}

	return &suite, nil
}
