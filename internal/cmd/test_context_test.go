package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

// runCLI executes the root command with args and stdin, isolated from the
// user's config. It returns stdout, stderr and the command error.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	restore := snapshotCLIState()
	defer restore()

	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	in := strings.NewReader(stdin)

	rootCmd.SetOut(out)
	rootCmd.SetErr(errBuf)
	rootCmd.SetIn(in)
	rootCmd.SetContext(withIO(context.Background(), in, out, errBuf))

	if !hasFlag(args, "--config") {
		cfgPath := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(cfgPath, []byte(""), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		args = append([]string{"--config", cfgPath}, args...)
	}
	rootCmd.SetArgs(args)

	executed, err := rootCmd.ExecuteC()
	if err != nil {
		ctx := rootCmd.Context()
		if executed != nil && executed.Context() != nil {
			ctx = executed.Context()
		}
		printCommandError(ctx, err)
	}
	return out.String(), errBuf.String(), err
}

func hasFlag(args []string, name string) bool {
	for _, arg := range args {
		if arg == name || strings.HasPrefix(arg, name+"=") {
			return true
		}
	}
	return false
}

func snapshotCLIState() func() {
	prevOutputFmt := outputFmt
	prevOutputType := outputType
	prevDebug := debug
	prevConfig := configFile
	prevQueryExpr := queryExpr
	prevQueryFile := queryFile
	prevErrorFmt := errorFmt
	prevResultLimit := resultLimit
	prevResultSort := resultSort
	prevResultDesc := resultDesc
	prevCfg := cfg
	prevBuildOpts := buildOpts
	prevEnvGet := envGet

	prevOut := rootCmd.OutOrStdout()
	prevErr := rootCmd.ErrOrStderr()
	prevIn := rootCmd.InOrStdin()
	prevCtx := rootCmd.Context()

	envGet = func(string) string { return "" }

	return func() {
		outputFmt = prevOutputFmt
		outputType = prevOutputType
		debug = prevDebug
		configFile = prevConfig
		queryExpr = prevQueryExpr
		queryFile = prevQueryFile
		errorFmt = prevErrorFmt
		resultLimit = prevResultLimit
		resultSort = prevResultSort
		resultDesc = prevResultDesc
		cfg = prevCfg
		buildOpts = prevBuildOpts
		envGet = prevEnvGet

		rootCmd.SetOut(prevOut)
		rootCmd.SetErr(prevErr)
		rootCmd.SetIn(prevIn)
		rootCmd.SetContext(prevCtx)
		rootCmd.SetArgs(nil)
		resetFlagChanges(rootCmd)
		for _, sub := range rootCmd.Commands() {
			resetFlagChanges(sub)
			sub.SetContext(nil)
			for _, leaf := range sub.Commands() {
				resetFlagChanges(leaf)
				leaf.SetContext(nil)
			}
		}
	}
}

func resetFlagChanges(cmdFlagSet interface {
	Flags() *pflag.FlagSet
	PersistentFlags() *pflag.FlagSet
	InheritedFlags() *pflag.FlagSet
},
) {
	if cmdFlagSet == nil {
		return
	}
	reset := func(f *pflag.Flag) {
		f.Changed = false
	}
	cmdFlagSet.Flags().VisitAll(reset)
	cmdFlagSet.PersistentFlags().VisitAll(reset)
	cmdFlagSet.InheritedFlags().VisitAll(reset)
}
