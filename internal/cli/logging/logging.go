// Package logging builds the structured logger shared by the tag and
// watch commands, plus the per-invocation run ID attached to every entry.
package logging

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// New returns a no-op logger unless verbose is set; with verbose it builds
// a development-mode zap logger, falling back to a no-op logger if
// construction fails (e.g. no usable stderr).
func New(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// NewRunID returns a fresh identifier for one command invocation, attached
// to every log entry that invocation produces so a user can correlate
// lines from a multi-document tag run.
func NewRunID() string {
	return uuid.NewString()
}
