package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds deployment settings shared across runs of the pipeline.
type Config struct {
	// AppName is the human-readable application name; it becomes the staged
	// executable name. Empty means "resolve from the version header".
	AppName string `yaml:"app_name"`
	// AppShortName is the compact identifier used in package naming.
	AppShortName string `yaml:"app_short_name"`
	// Company is the publisher stamped into installer metadata.
	Company string `yaml:"company"`
	// ResourceFolders are the folder names copied from the source tree
	// into the installer-data directory.
	ResourceFolders []string `yaml:"resource_folders"`
	// Tools locates the external binaries the pipeline shells out to.
	Tools Tools `yaml:"tools"`
}

// Tools locates the external tool binaries. Bare names are resolved via PATH.
type Tools struct {
	// DeployQt gathers runtime dependencies of the built executable.
	DeployQt string `yaml:"deployqt"`
	// BinaryCreator turns the package tree into an installer binary.
	BinaryCreator string `yaml:"binarycreator"`
	// Repogen creates or updates the online update repository.
	Repogen string `yaml:"repogen"`
}

const (
	// DefaultConfigFilename is the default filename for the settings profile.
	DefaultConfigFilename = "qt-deploy-settings.yaml"

	// DefaultRunLogFilename is where the plain-text run log is written.
	DefaultRunLogFilename = "qt-deploy.log"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// Default returns the built-in settings used when no profile exists.
func Default() *Config {
	return &Config{
		ResourceFolders: []string{"img", "rsrc"},
		Tools: Tools{
			DeployQt:      "windeployqt",
			BinaryCreator: "binarycreator",
			Repogen:       "repogen",
		},
	}
}

// Load reads the settings profile from the provided path and fills defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the settings profile to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate normalizes the settings, filling defaults for empty fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	defaults := Default()

	if len(cfg.ResourceFolders) == 0 {
		cfg.ResourceFolders = defaults.ResourceFolders
	}

	if cfg.Tools.DeployQt == "" {
		cfg.Tools.DeployQt = defaults.Tools.DeployQt
	}

	if cfg.Tools.BinaryCreator == "" {
		cfg.Tools.BinaryCreator = defaults.Tools.BinaryCreator
	}

	if cfg.Tools.Repogen == "" {
		cfg.Tools.Repogen = defaults.Tools.Repogen
	}

	return nil
}
