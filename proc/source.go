package proc

import (
	"errors"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var (
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrIncomplete reports a table that could only be read in part.
	ErrIncomplete = errors.New("incomplete read")
)

// Source reads the interrupts table. Every call opens the file again since the
// kernel regenerates its content on each read.
type Source struct {
	fs     afero.Fs
	file   string
	limit  int
	logger *zap.Logger
}

type Option func(*Source)

func WithFs(fs afero.Fs) Option {
	return func(s *Source) {
		s.fs = fs
	}
}

func WithFile(file string) Option {
	return func(s *Source) {
		if file != "" {
			s.file = file
		}
	}
}

// WithLimit sets the maximum number of columns and rows. Values lower than one
// are ignored.
func WithLimit(limit int) Option {
	return func(s *Source) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewSource(options ...Option) *Source {
	s := Source{
		fs:     afero.NewOsFs(),
		file:   InterruptsFile,
		limit:  MaxLabels,
		logger: zap.NewNop(),
	}
	for _, o := range options {
		o(&s)
	}
	return &s
}
