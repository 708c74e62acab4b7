package cmd

import "os"

var (
	envGet   = os.Getenv
	openFile = func(path string) (*os.File, error) { return os.Open(path) }
)
