package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadInputSource_Empty(t *testing.T) {
	for _, source := range []string{"", "   "} {
		_, err := readInputSource(source, nil)
		if err == nil {
			t.Fatalf("expected error for source %q", source)
		}
		if !strings.Contains(err.Error(), "empty input source") {
			t.Errorf("expected 'empty input source' error, got %v", err)
		}
	}
}

func TestReadInputSource_File(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "query.jq")
	if err := os.WriteFile(filePath, []byte("  .[0]\n"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	got, err := readInputSource("  "+filePath+"  ", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ".[0]" {
		t.Errorf("got %q, want %q", got, ".[0]")
	}
}

func TestReadInputSource_FileNotFound(t *testing.T) {
	_, err := readInputSource("/nonexistent/path/to/rows.csv", nil)
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("expected 'failed to read' error, got %v", err)
	}
}

func TestReadInputSource_Stdin(t *testing.T) {
	got, err := readInputSource(" - ", strings.NewReader("content from stdin\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "content from stdin" {
		t.Errorf("got %q, want %q", got, "content from stdin")
	}
}

func TestOpenInputSourceKeepsContent(t *testing.T) {
	content := "a,b\n\n c ,d\n"
	r, err := openInputSource("-", strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != content {
		t.Errorf("got %q, want untrimmed %q", data, content)
	}
}

func TestOpenInputSourceUsesOpenFile(t *testing.T) {
	prev := openFile
	defer func() { openFile = prev }()

	var opened string
	openFile = func(path string) (*os.File, error) {
		opened = path
		return nil, os.ErrNotExist
	}

	_, err := openInputSource("rows.csv", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if opened != "rows.csv" {
		t.Errorf("opened %q, want rows.csv", opened)
	}
}

func TestInputHasData(t *testing.T) {
	if !inputHasData(strings.NewReader("data")) {
		t.Error("expected true for strings.Reader")
	}
	if !inputHasData(&bytes.Buffer{}) {
		t.Error("expected true for non-file reader regardless of content")
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	defer pr.Close()
	defer pw.Close()

	if !inputHasData(pr) {
		t.Error("expected true for pipe (not a char device)")
	}
}
