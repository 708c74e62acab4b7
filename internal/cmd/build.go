package cmd

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/salmonumbrella/tabkit/internal/builder"
	"github.com/salmonumbrella/tabkit/internal/input"
	"github.com/salmonumbrella/tabkit/internal/transform"
)

type buildOptions struct {
	inputFormat   string
	header        bool
	setHeader     string
	removeHeader  bool
	defaultText   string
	clean         bool
	unique        bool
	hintColumns   int
	maxCellWidth  int
	removeColumns []int
	removeRecords []int
	dropColumns   string
	selectColumns string
	pushColumns   []string
	insertColumns []string
	insertRecords []string
}

var buildOpts buildOptions

var buildCmd = &cobra.Command{
	Use:   "build [file|-]",
	Short: "Square rows into a table and print it",
	Long: `Read rows from a file or stdin and print them as a rectangular table.

Rows shorter than the widest row are padded with --default-text. Edits run
in this order: records are inserted, then removed, then columns are removed,
filtered, pushed and inserted. --unique and --clean run last.

Indexes are zero-based. Cell lists for --set-header, --push-column and
--insert-column are split like a shell command line, so quote cells that
contain spaces.`,
	Example: `  tabkit build data.csv
  tabkit build --header --clean -o table data.csv
  cat rows.ndjson | tabkit build --input-format ndjson -o csv
  tabkit build --push-column "total 10 20" --insert-column 0="id 1 2" data.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.StringVar(&buildOpts.inputFormat, "input-format", "", "Input format (csv|tsv|json|ndjson|yaml)")
	f.BoolVar(&buildOpts.header, "header", false, "Treat the first input row as the header")
	f.StringVar(&buildOpts.setHeader, "set-header", "", "Header cells, shell-quoted (replaces any input header)")
	f.BoolVar(&buildOpts.removeHeader, "remove-header", false, "Drop the header before printing")
	f.StringVar(&buildOpts.defaultText, "default-text", "", "Text used to fill missing cells")
	f.BoolVar(&buildOpts.clean, "clean", false, "Remove empty columns, then empty records")
	f.BoolVar(&buildOpts.unique, "unique", false, "Remove duplicate records, keeping the first")
	f.IntVar(&buildOpts.hintColumns, "hint-columns", 0, "Declare the column count up front and skip padding")
	f.IntVar(&buildOpts.maxCellWidth, "max-cell-width", 0, "Truncate cells wider than N display columns (0 = no limit)")
	f.IntSliceVar(&buildOpts.removeColumns, "remove-column", nil, "Remove column at index (repeatable)")
	f.IntSliceVar(&buildOpts.removeRecords, "remove-record", nil, "Remove record at index (repeatable)")
	f.StringVar(&buildOpts.dropColumns, "drop-columns", "", "Remove columns whose name matches a glob")
	f.StringVar(&buildOpts.selectColumns, "select-columns", "", "Keep only columns whose name matches a glob")
	f.StringArrayVar(&buildOpts.pushColumns, "push-column", nil, "Append a column: \"header cell cell...\" (repeatable)")
	f.StringArrayVar(&buildOpts.insertColumns, "insert-column", nil, "Insert a column: N=\"header cell...\" (repeatable)")
	f.StringArrayVar(&buildOpts.insertRecords, "insert-record", nil, "Insert a record: N=\"cell cell...\" (repeatable)")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	opts := buildOpts

	source := "-"
	if len(args) > 0 {
		source = args[0]
	}
	stdin := stdinFromContext(ctx)
	if source == "-" && !inputHasData(stdin) {
		return fmt.Errorf("no input: pass a file or pipe rows on stdin")
	}

	format, err := resolveInputFormat(cmd, source, opts.inputFormat)
	if err != nil {
		return err
	}

	r, err := openInputSource(source, stdin)
	if err != nil {
		return err
	}
	data, err := input.Read(r, format)
	_ = r.Close()
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"source": source,
		"format": format,
		"rows":   len(data.Rows),
	}).Debug("input read")

	b, err := newBuilder(cmd, opts, data)
	if err != nil {
		return err
	}
	if err := applyEdits(b, opts); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"records": b.CountRecords(),
		"columns": b.CountColumns(),
		"header":  b.HasHeader(),
	}).Debug("table built")

	return printBuilder(ctx, b, opts.maxCellWidth)
}

// resolveInputFormat picks the input format: --input-format > file
// extension > config > csv.
func resolveInputFormat(cmd *cobra.Command, source, flagValue string) (input.Format, error) {
	if flagChanged(cmd, "input-format") {
		return input.ParseFormat(flagValue)
	}
	if f, ok := input.FormatFromPath(source); ok {
		return f, nil
	}
	if cfg != nil && strings.TrimSpace(cfg.InputFormat) != "" {
		return input.ParseFormat(cfg.InputFormat)
	}
	return input.FormatCSV, nil
}

func newBuilder(cmd *cobra.Command, opts buildOptions, data input.Data) (*builder.Builder, error) {
	rows := data.Rows
	b := builder.WithCapacity(len(rows))

	defaultText := opts.defaultText
	if !flagChanged(cmd, "default-text") && cfg != nil {
		defaultText = cfg.DefaultText
	}
	b.SetDefaultText(defaultText)

	useHeader := opts.header
	if !flagChanged(cmd, "header") && cfg != nil {
		useHeader = cfg.HeaderEnabled()
	}

	switch {
	case data.Header != nil:
		b.SetHeader(data.Header...)
	case useHeader && len(rows) > 0:
		b.SetHeader(rows[0]...)
		rows = rows[1:]
	}

	if flagChanged(cmd, "set-header") {
		cells, err := splitCells(opts.setHeader)
		if err != nil {
			return nil, fmt.Errorf("--set-header: %w", err)
		}
		b.SetHeader(cells...)
	}

	if opts.hintColumns > 0 {
		b.HintColumnSize(opts.hintColumns)
	}
	for _, row := range rows {
		b.PushRecord(row...)
	}
	return b, nil
}

func applyEdits(b *builder.Builder, opts buildOptions) error {
	for _, arg := range opts.insertRecords {
		index, cells, err := parseIndexedCells(arg)
		if err != nil {
			return fmt.Errorf("--insert-record: %w", err)
		}
		if err := b.InsertRecord(index, cells...); err != nil {
			return err
		}
	}

	indexes, err := removalOrder(opts.removeRecords, b.CountRecords(), "remove record")
	if err != nil {
		return err
	}
	for _, i := range indexes {
		b.RemoveRecord(i)
	}

	indexes, err = removalOrder(opts.removeColumns, b.CountColumns(), "remove column")
	if err != nil {
		return err
	}
	for _, i := range indexes {
		b.RemoveColumn(i)
	}

	if opts.dropColumns != "" {
		n, err := transform.DropColumns(b, opts.dropColumns)
		if err != nil {
			return err
		}
		logger.WithField("removed", n).Debug("columns dropped")
	}
	if opts.selectColumns != "" {
		n, err := transform.SelectColumns(b, opts.selectColumns)
		if err != nil {
			return err
		}
		logger.WithField("removed", n).Debug("columns selected")
	}

	for _, arg := range opts.pushColumns {
		cells, err := splitCells(arg)
		if err != nil {
			return fmt.Errorf("--push-column: %w", err)
		}
		b.PushColumn(cells...)
	}
	for _, arg := range opts.insertColumns {
		index, cells, err := parseIndexedCells(arg)
		if err != nil {
			return fmt.Errorf("--insert-column: %w", err)
		}
		if err := b.InsertColumn(index, cells...); err != nil {
			return err
		}
	}

	if opts.unique {
		n := transform.Unique(b)
		logger.WithField("removed", n).Debug("duplicate records removed")
	}
	if opts.clean {
		b.Clean()
	}
	if opts.removeHeader {
		b.RemoveHeader()
	}
	return nil
}

// removalOrder validates indexes against count and returns them unique and
// descending so each removal leaves the remaining indexes valid.
func removalOrder(indexes []int, count int, op string) ([]int, error) {
	for _, i := range indexes {
		if i < 0 || i >= count {
			return nil, builder.OutOfRangeError{Op: op, Index: i, Max: count - 1}
		}
	}
	out := slices.Clone(indexes)
	slices.Sort(out)
	out = slices.Compact(out)
	slices.Reverse(out)
	return out, nil
}

// parseIndexedCells parses N="cell cell...".
func parseIndexedCells(arg string) (int, []string, error) {
	rawIndex, rest, ok := strings.Cut(arg, "=")
	if !ok {
		return 0, nil, fmt.Errorf("expected N=\"cells\", got %q", arg)
	}
	index, err := strconv.Atoi(strings.TrimSpace(rawIndex))
	if err != nil {
		return 0, nil, fmt.Errorf("invalid index %q", rawIndex)
	}
	cells, err := splitCells(rest)
	if err != nil {
		return 0, nil, err
	}
	return index, cells, nil
}

func splitCells(s string) ([]string, error) {
	cells, err := shellquote.Split(s)
	if err != nil {
		return nil, fmt.Errorf("split %q: %w", s, err)
	}
	return cells, nil
}
