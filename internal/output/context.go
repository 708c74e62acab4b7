package output

import "context"

type optionsKey struct{}

// options are the rendering choices a command carries in its context.
type options struct {
	format Format
	query  string
	limit  int
	sortBy string
	desc   bool
}

func optionsFrom(ctx context.Context) options {
	if ctx != nil {
		if o, ok := ctx.Value(optionsKey{}).(options); ok {
			return o
		}
	}
	return options{format: FormatText}
}

func withOptions(ctx context.Context, edit func(*options)) context.Context {
	o := optionsFrom(ctx)
	edit(&o)
	return context.WithValue(ctx, optionsKey{}, o)
}

// WithFormat returns a new context with the output format attached.
func WithFormat(ctx context.Context, format Format) context.Context {
	return withOptions(ctx, func(o *options) { o.format = format })
}

// FormatFromContext retrieves the output format, FormatText when unset.
func FormatFromContext(ctx context.Context) Format {
	return optionsFrom(ctx).format
}

// WithQuery attaches a jq expression applied to JSON output.
func WithQuery(ctx context.Context, query string) context.Context {
	return withOptions(ctx, func(o *options) { o.query = query })
}

func QueryFromContext(ctx context.Context) string {
	return optionsFrom(ctx).query
}

// WithLimit caps the number of records printed. 0 means unlimited.
func WithLimit(ctx context.Context, limit int) context.Context {
	return withOptions(ctx, func(o *options) { o.limit = limit })
}

func LimitFromContext(ctx context.Context) int {
	return optionsFrom(ctx).limit
}

// WithSort orders printed records by column, a header name or a
// zero-based position.
func WithSort(ctx context.Context, column string, desc bool) context.Context {
	return withOptions(ctx, func(o *options) {
		o.sortBy = column
		o.desc = desc
	})
}

func SortFromContext(ctx context.Context) (column string, desc bool) {
	o := optionsFrom(ctx)
	return o.sortBy, o.desc
}
