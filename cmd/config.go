package cmd

import (
	"fmt"
	"os"

	"github.com/lehigh-university-libraries/ocrgrid/pkg/structure"
	"github.com/lehigh-university-libraries/ocrgrid/pkg/textblock"
	"github.com/spf13/cobra"
	yaml "go.yaml.in/yaml/v3"
)

// Config is the YAML configuration file. Keys left out keep their defaults.
type Config struct {
	Table  structure.Params `yaml:"table"`
	Blocks textblock.Params `yaml:"blocks"`
}

func DefaultConfig() Config {
	return Config{
		Table:  structure.DefaultParams(),
		Blocks: textblock.DefaultParams(),
	}
}

func loadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return config, nil
}

func configFromFlags(cmd *cobra.Command) (Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return Config{}, err
	}
	return loadConfig(path)
}
