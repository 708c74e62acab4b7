package cmd

import (
	"io"

	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

// configureLogger points the CLI logger at w. Only warnings are shown
// unless --debug is set.
func configureLogger(w io.Writer, debug bool) {
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    !isTerminal(w),
	})
	if debug {
		logger.SetLevel(logrus.DebugLevel)
		return
	}
	logger.SetLevel(logrus.WarnLevel)
}
