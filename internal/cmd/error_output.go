package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/tabkit/internal/builder"
	"github.com/salmonumbrella/tabkit/internal/input"
	"github.com/salmonumbrella/tabkit/internal/output"
	"github.com/salmonumbrella/tabkit/internal/record"
)

func validateErrorFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "auto", "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("invalid --error-format %q (expected auto|text|json|yaml)", format)
	}
}

func effectiveErrorFormat(ctx context.Context) string {
	format := strings.ToLower(strings.TrimSpace(ErrorFormatFromContext(ctx)))
	if format == "" || format == "auto" {
		switch output.FormatFromContext(ctx) {
		case output.FormatJSON, output.FormatNDJSON:
			return "json"
		case output.FormatYAML:
			return "yaml"
		default:
			return "text"
		}
	}
	return format
}

func printCommandError(ctx context.Context, err error) {
	if err == nil {
		return
	}

	switch effectiveErrorFormat(ctx) {
	case "json":
		enc := json.NewEncoder(stderrFromContext(ctx))
		enc.SetEscapeHTML(false)
		_ = enc.Encode(buildErrorEnvelope(err))
		return
	case "yaml":
		enc := yaml.NewEncoder(stderrFromContext(ctx))
		enc.SetIndent(2)
		_ = enc.Encode(buildErrorEnvelope(err))
		_ = enc.Close()
		return
	}

	_, _ = fmt.Fprintln(stderrFromContext(ctx), err)
}

func buildErrorEnvelope(err error) map[string]interface{} {
	errMap := map[string]interface{}{
		"message":  err.Error(),
		"category": "system",
		"type":     "error",
	}

	var rangeErr builder.OutOfRangeError
	if errors.As(err, &rangeErr) {
		errMap["type"] = "out_of_range"
		errMap["category"] = "user"
		errMap["index"] = rangeErr.Index
		if rangeErr.Max >= 0 {
			errMap["max"] = rangeErr.Max
		}
	}

	if errors.Is(err, record.ErrShapeMismatch) {
		errMap["type"] = "shape_mismatch"
		errMap["category"] = "user"
	}

	var parseErr input.ParseError
	if errors.As(err, &parseErr) {
		errMap["type"] = "parse"
		errMap["category"] = "user"
		errMap["format"] = string(parseErr.Format)
		if parseErr.Line > 0 {
			errMap["line"] = parseErr.Line
		}
	}

	return map[string]interface{}{"error": errMap}
}
