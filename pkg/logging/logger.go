// Package logging holds the process-wide structured logger used by the
// dictionary package and cmd/jasegment (ingest reports through an optional
// standard-library *log.Logger instead; db and document do not log). The
// segmentation core (lattice, category, segmenter) intentionally does not
// depend on this package: it is a hot-path library and stays silent.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// SetLogger replaces the package-level logger, e.g. to change the output
// sink or level in cmd/jasegment's main.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Get returns the current package-level logger.
func Get() zerolog.Logger {
	return logger
}
