package logging

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New builds the run logger. Warnings and errors go to stderr so they never
// mix with the report on stdout; verbose raises the level to debug.
func New(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

// NewWriter builds a logger that writes to an arbitrary sink. Used by tests.
func NewWriter(out io.Writer, verbose bool) *logrus.Logger {
	log := New(verbose)
	log.SetOutput(out)
	return log
}
