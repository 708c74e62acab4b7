package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"

	"github.com/salmonumbrella/tabkit/internal/config"
	"github.com/salmonumbrella/tabkit/internal/input"
	"github.com/salmonumbrella/tabkit/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration stored in ~/.config/tabkit/config.yaml.

Point --config or $TABKIT_CONFIG at a file ending in .toml to keep the
configuration in TOML instead. You can view, set, or unset keys such as
output_format, input_format, default_text, header and max_cell_width.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfigFromFlag()
		if err != nil {
			return formatConfigLoadError(err)
		}
		ctx := cmd.Context()
		if structuredOutputRequested() {
			return printStructured(ctx, configOutput(cfg))
		}

		w := stdoutFromContext(ctx)
		fmt.Fprintln(w, "Config:")
		fmt.Fprintf(w, "  output_format: %s\n", cfg.OutputFormat)
		fmt.Fprintf(w, "  input_format: %s\n", cfg.InputFormat)
		fmt.Fprintf(w, "  default_text: %s\n", cfg.DefaultText)
		fmt.Fprintf(w, "  header: %s\n", cfg.Header)
		fmt.Fprintf(w, "  max_cell_width: %d\n", cfg.MaxCellWidth)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Unset a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List supported configuration keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := supportedConfigKeys()
		sort.Strings(keys)

		ctx := cmd.Context()
		if structuredOutputRequested() {
			return printStructured(ctx, keys)
		}

		w := stdoutFromContext(ctx)
		fmt.Fprintln(w, "Supported keys:")
		for _, key := range keys {
			fmt.Fprintf(w, "  %s\n", key)
		}
		return nil
	},
}

func supportedConfigKeys() []string {
	return []string{
		"output_format",
		"input_format",
		"default_text",
		"header",
		"max_cell_width",
	}
}

func applyConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "output_format":
		format, err := output.ParseFormat(value)
		if err != nil {
			return err
		}
		cfg.OutputFormat = string(format)
	case "input_format":
		format, err := input.ParseFormat(value)
		if err != nil {
			return err
		}
		cfg.InputFormat = string(format)
	case "default_text":
		cfg.DefaultText = value
	case "header":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid header value %q (expected true|false)", value)
		}
		cfg.Header = strconv.FormatBool(enabled)
	case "max_cell_width":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid max_cell_width %q (expected a non-negative integer)", value)
		}
		cfg.MaxCellWidth = n
	default:
		return unknownConfigKeyError(key)
	}
	return nil
}

func clearConfigValue(cfg *config.Config, key string) error {
	switch key {
	case "output_format":
		cfg.OutputFormat = ""
	case "input_format":
		cfg.InputFormat = ""
	case "default_text":
		cfg.DefaultText = ""
	case "header":
		cfg.Header = ""
	case "max_cell_width":
		cfg.MaxCellWidth = 0
	default:
		return unknownConfigKeyError(key)
	}
	return nil
}

// unknownConfigKeyError names the closest supported key when one is a
// likely typo.
func unknownConfigKeyError(key string) error {
	best, bestDist := "", -1
	for _, candidate := range supportedConfigKeys() {
		d := levenshtein.ComputeDistance(key, candidate)
		if bestDist < 0 || d < bestDist {
			best, bestDist = candidate, d
		}
	}
	if bestDist >= 0 && bestDist <= 3 {
		return fmt.Errorf("unknown config key: %s (did you mean %s?)", key, best)
	}
	return fmt.Errorf("unknown config key: %s", key)
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configKeysCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := strings.ToLower(strings.TrimSpace(args[0]))
	value := strings.TrimSpace(args[1])

	cfg, err := loadConfigFromFlag()
	if err != nil {
		return formatConfigLoadError(err)
	}

	if err := applyConfigValue(cfg, key, value); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}
	logger.WithField("path", path).Debug("config saved")

	ctx := cmd.Context()
	if structuredOutputRequested() {
		return printStructured(ctx, map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}

	fmt.Fprintf(stdoutFromContext(ctx), "Updated %s\n", key)
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	key := strings.ToLower(strings.TrimSpace(args[0]))

	cfg, err := loadConfigFromFlag()
	if err != nil {
		return formatConfigLoadError(err)
	}

	if err := clearConfigValue(cfg, key); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	ctx := cmd.Context()
	if structuredOutputRequested() {
		return printStructured(ctx, map[string]string{
			"status": "unset",
			"key":    key,
		})
	}

	fmt.Fprintf(stdoutFromContext(ctx), "Unset %s\n", key)
	return nil
}

func configOutput(cfg *config.Config) map[string]interface{} {
	return map[string]interface{}{
		"output_format":  cfg.OutputFormat,
		"input_format":   cfg.InputFormat,
		"default_text":   cfg.DefaultText,
		"header":         cfg.HeaderEnabled(),
		"max_cell_width": cfg.MaxCellWidth,
	}
}
