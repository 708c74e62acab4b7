package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/tabkit/internal/config"
)

// configPathEnv overrides the default config location when --config is unset.
const configPathEnv = "TABKIT_CONFIG"

// loadConfigFromFlag loads config from --config if provided, then
// $TABKIT_CONFIG, otherwise from the default path.
func loadConfigFromFlag() (*config.Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	logger.WithField("path", path).Debug("loading config")
	return config.Load(path)
}

func configPath() (string, error) {
	if strings.TrimSpace(configFile) != "" {
		return configFile, nil
	}
	if v := strings.TrimSpace(envGet(configPathEnv)); v != "" {
		return v, nil
	}
	return config.DefaultConfigPath()
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	if cmd.Flags().Changed(name) {
		return true
	}
	return cmd.InheritedFlags().Changed(name)
}

func formatConfigLoadError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load config: %w", err)
}
