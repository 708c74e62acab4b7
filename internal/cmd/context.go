package cmd

import (
	"context"
	"io"
	"os"
)

type (
	errorFormatKey struct{}
	streamsKey     struct{}
)

// streams are the command's standard streams. Nil members fall back to the
// process streams.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func withIO(ctx context.Context, in io.Reader, out, err io.Writer) context.Context {
	return context.WithValue(ctx, streamsKey{}, streams{in: in, out: out, err: err})
}

func streamsFromContext(ctx context.Context) streams {
	if ctx != nil {
		if s, ok := ctx.Value(streamsKey{}).(streams); ok {
			return s
		}
	}
	return streams{}
}

func stdinFromContext(ctx context.Context) io.Reader {
	if in := streamsFromContext(ctx).in; in != nil {
		return in
	}
	return os.Stdin
}

func stdoutFromContext(ctx context.Context) io.Writer {
	if out := streamsFromContext(ctx).out; out != nil {
		return out
	}
	return os.Stdout
}

func stderrFromContext(ctx context.Context) io.Writer {
	if err := streamsFromContext(ctx).err; err != nil {
		return err
	}
	return os.Stderr
}

// WithErrorFormat stores the error format in the context.
func WithErrorFormat(ctx context.Context, format string) context.Context {
	return context.WithValue(ctx, errorFormatKey{}, format)
}

// ErrorFormatFromContext retrieves the error format from context.
func ErrorFormatFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(errorFormatKey{}).(string); ok {
		return v
	}
	return ""
}
