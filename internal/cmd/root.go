package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/salmonumbrella/tabkit/internal/config"
	"github.com/salmonumbrella/tabkit/internal/output"
)

var (
	// Version is set at build time
	version = "dev"
	// Commit is set at build time
	commit = "none"
	// Date is set at build time
	date = "unknown"
)

// SetVersionInfo sets the version information from build flags
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = v
	rootCmd.SetVersionTemplate(versionTemplate())
}

// Global flags
var (
	outputFmt   string
	outputType  output.Format
	debug       bool
	configFile  string
	queryExpr   string
	queryFile   string
	errorFmt    string
	resultLimit int
	resultSort  string
	resultDesc  bool
)

// cfg is the configuration loaded for the current command.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "tabkit",
	Short: "Build rectangular tables from rows of any width",
	Long: `tabkit reads rows of text (csv, tsv, json, ndjson or yaml), squares them
into a rectangular table, applies structural edits and prints the result.

Short rows are padded with a default text, empty rows and columns can be
cleaned, and columns can be added, inserted or removed on the way through.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true

		ctx := cmd.Context()
		ctx = withIO(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		configureLogger(stderrFromContext(ctx), debug)

		loadedCfg, err := loadConfigFromFlag()
		if err != nil {
			return formatConfigLoadError(err)
		}
		cfg = loadedCfg

		// Output format selection: --output > config > default
		formatStr := outputFmt
		if !flagChanged(cmd, "output") && !flagChanged(cmd, "format") && strings.TrimSpace(cfg.OutputFormat) != "" {
			formatStr = strings.TrimSpace(cfg.OutputFormat)
		}
		format, err := output.ParseFormat(formatStr)
		if err != nil {
			return err
		}
		outputType = format
		outputFmt = string(format)

		// jq query
		if queryExpr != "" && queryFile != "" {
			return fmt.Errorf("use only one of --query or --query-file")
		}
		if queryFile != "" {
			loaded, err := readInputSource(queryFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			queryExpr = loaded
		}
		if queryExpr != "" && outputType != output.FormatJSON && outputType != output.FormatNDJSON {
			return fmt.Errorf("--query requires --output json or ndjson")
		}

		ctx = output.WithFormat(ctx, outputType)
		ctx = output.WithQuery(ctx, queryExpr)
		ctx = output.WithLimit(ctx, resultLimit)
		ctx = output.WithSort(ctx, resultSort, resultDesc)
		ctx = WithErrorFormat(ctx, errorFmt)
		cmd.SetContext(ctx)

		if err := validateErrorFormat(errorFmt); err != nil {
			return err
		}
		if effectiveErrorFormat(ctx) != "text" {
			cmd.SilenceUsage = true
		}

		logger.WithField("format", outputType).Debug("output configured")
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	executed, err := rootCmd.ExecuteC()
	if err != nil {
		ctx := rootCmd.Context()
		if executed != nil && executed.Context() != nil {
			ctx = executed.Context()
		}
		printCommandError(ctx, err)
		return err
	}
	return nil
}

// GetOutputFormat returns the configured output format
func GetOutputFormat() output.Format {
	if outputType != "" {
		return outputType
	}
	parsed, err := output.ParseFormat(outputFmt)
	if err != nil {
		return output.FormatText
	}
	return parsed
}

func versionTemplate() string {
	return fmt.Sprintf("tabkit version %s (commit: %s, built: %s)\n", version, commit, date)
}

func init() {
	rootCmd.SetVersionTemplate(versionTemplate())

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "Output format (text|table|csv|json|ndjson|yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "format", "text", "Alias for --output")
	rootCmd.PersistentFlags().StringVar(&queryExpr, "query", "", "jq expression to filter JSON output")
	rootCmd.PersistentFlags().StringVar(&queryFile, "query-file", "", "Read jq expression from file (use - for stdin)")
	rootCmd.PersistentFlags().StringVar(&errorFmt, "error-format", "auto", "Error output format (auto|text|json|yaml)")
	rootCmd.PersistentFlags().IntVar(&resultLimit, "result-limit", 0, "Limit number of records in output (0 = unlimited)")
	rootCmd.PersistentFlags().StringVar(&resultSort, "result-sort-by", "", "Sort output records by column (header name or position)")
	rootCmd.PersistentFlags().BoolVar(&resultDesc, "result-desc", false, "Sort output records in descending order")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ~/.config/tabkit/config.yaml)")
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
