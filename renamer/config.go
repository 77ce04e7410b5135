// This file implements the CLI's optional YAML configuration file.
// Nothing in original_source/ carries a config file of its own (the
// Python scripts take everything from argv); this is new ambient
// plumbing, in the style of ernie-trinity-tools's yaml.v3-based config
// loading.

package renamer

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/icza/q3demo/rep/repcmd"
)

// Config is the optional file the CLI's rename/batch subcommands accept
// via --config.
type Config struct {
	ConflictsDirName string            `yaml:"conflicts_dir_name"`
	LogFile          string            `yaml:"log_file"`
	Workers          int               `yaml:"workers"`
	CountryCodes     map[string]string `yaml:"country_codes"`
}

// DefaultConfig returns the built-in defaults applied when no config
// file is given, or when a given file leaves a field unset.
func DefaultConfig() Config {
	return Config{
		ConflictsDirName: "_conflicts",
		Workers:          4,
	}
}

// LoadConfig reads and parses a YAML config file, registers any
// country-code overrides it carries, and fills in DefaultConfig's values
// for anything the file leaves unset. An empty path returns
// DefaultConfig unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg = DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	if len(cfg.CountryCodes) > 0 {
		repcmd.AddCountryCodeOverrides(cfg.CountryCodes)
	}

	return cfg, nil
}
