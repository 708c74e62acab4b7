package cmd

import (
	"context"

	"github.com/salmonumbrella/tabkit/internal/builder"
	"github.com/salmonumbrella/tabkit/internal/output"
)

func structuredOutputRequested() bool {
	return output.IsStructured(GetOutputFormat())
}

// newPrinter builds a printer for the current output format. A positive
// maxCellWidth wins over the configured max_cell_width.
func newPrinter(ctx context.Context, maxCellWidth int) *output.Printer {
	if maxCellWidth <= 0 && cfg != nil {
		maxCellWidth = cfg.MaxCellWidth
	}
	var opts []output.PrinterOption
	if maxCellWidth > 0 {
		opts = append(opts, output.WithMaxCellWidth(maxCellWidth))
	}
	return output.NewPrinter(stdoutFromContext(ctx), GetOutputFormat(), opts...)
}

func printStructured(ctx context.Context, data interface{}) error {
	return newPrinter(ctx, 0).Print(ctx, data)
}

// printBuilder renders the finished table held by b.
func printBuilder(ctx context.Context, b *builder.Builder, maxCellWidth int) error {
	table := output.FromGrid(b.Build(), b.HasHeader())
	return newPrinter(ctx, maxCellWidth).PrintTable(ctx, table)
}
