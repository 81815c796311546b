package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the configuration file searched for in the current
// directory and the XDG config directory.
const ConfigFileName = ".footprintscan"

// duration wraps time.Duration so YAML files can use Go duration strings
// ("15s", "2m"). yaml.v3 only understands integers for time.Duration.
type duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = duration(parsed)
	return nil
}

// File is the YAML configuration file shape. Every field is optional;
// zero values leave the corresponding Config default untouched, except
// sherlock_binary where a present-but-empty value disables the deep
// username probe.
//
// Example:
//
//	listen_addr: ":9090"
//	probe_timeout: 15s
//	deep_probe_timeout: 120s
//	sherlock_binary: /usr/local/bin/sherlock
//	policy:
//	  breach_base: 20
//	  high_linkage_platforms: [github, linkedin]
type File struct {
	ListenAddr       string         `yaml:"listen_addr"`
	ProbeTimeout     duration       `yaml:"probe_timeout"`
	SubCheckTimeout  duration       `yaml:"sub_check_timeout"`
	DeepProbeTimeout duration       `yaml:"deep_probe_timeout"`
	WorkerCount      int            `yaml:"worker_count"`
	QueueSize        int            `yaml:"queue_size"`
	DBDir            string         `yaml:"db_dir"`
	SherlockBinary   *string        `yaml:"sherlock_binary"`
	UserAgent        string         `yaml:"user_agent"`
	Policy           map[string]any `yaml:"policy"`
}

// FindConfigFile locates the configuration file.
// If explicitPath is non-empty it is returned as-is (existence is checked
// by the caller via LoadConfigFile). Otherwise the current directory and
// the XDG config directory are searched; the empty string means no file.
func FindConfigFile(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}
	candidates := []string{
		ConfigFileName,
		filepath.Join(XDGConfigDir(), ConfigFileName),
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LoadConfigFile reads the YAML file at path and applies its non-zero
// values onto cfg. Policy overrides are applied field-by-field so a file
// that sets one penalty does not reset the others.
func LoadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if file.ListenAddr != "" {
		cfg.ListenAddr = file.ListenAddr
	}
	if file.ProbeTimeout > 0 {
		cfg.ProbeTimeout = time.Duration(file.ProbeTimeout)
	}
	if file.SubCheckTimeout > 0 {
		cfg.SubCheckTimeout = time.Duration(file.SubCheckTimeout)
	}
	if file.DeepProbeTimeout > 0 {
		cfg.DeepProbeTimeout = time.Duration(file.DeepProbeTimeout)
	}
	if file.WorkerCount > 0 {
		cfg.WorkerCount = file.WorkerCount
	}
	if file.QueueSize > 0 {
		cfg.QueueSize = file.QueueSize
	}
	if file.DBDir != "" {
		cfg.DBDir = file.DBDir
	}
	if file.SherlockBinary != nil {
		cfg.SherlockBinary = *file.SherlockBinary
	}
	if file.UserAgent != "" {
		cfg.UserAgent = file.UserAgent
	}
	if len(file.Policy) > 0 {
		if err := applyPolicyOverrides(cfg, file.Policy); err != nil {
			return fmt.Errorf("failed to apply policy overrides: %w", err)
		}
	}
	return nil
}

// applyPolicyOverrides re-marshals the policy override map onto the
// current policy so unspecified fields keep their defaults.
func applyPolicyOverrides(cfg *Config, overrides map[string]any) error {
	raw, err := yaml.Marshal(overrides)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, &cfg.Policy)
}
