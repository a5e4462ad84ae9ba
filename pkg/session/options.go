package session

import (
	"log/slog"

	"github.com/patrick-brian-mooney/IF-utils/pkg/ports"
)

// Option configures a Session.
type Option func(*Session)

// WithLogger configures structured logging. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReporter configures where problem reports go. The default discards
// them.
func WithReporter(r ports.Reporter) Option {
	return func(s *Session) {
		if r != nil {
			s.reporter = r
		}
	}
}

// WithWorkDir sets the directory transcript files are created in. Defaults
// to the current directory.
func WithWorkDir(dir string) Option {
	return func(s *Session) {
		s.workDir = dir
	}
}

// WithCheckpointDir sets the directory save files are captured in. Defaults
// to the working directory.
func WithCheckpointDir(dir string) Option {
	return func(s *Session) {
		s.saveDir = dir
	}
}
