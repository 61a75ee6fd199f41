package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// openOutput replaces file with a new empty file. Only a failure to truncate
// is tolerated.
func openOutput(fs afero.Fs, file string, logger *zap.Logger) (afero.File, error) {
	if err := fs.Remove(file); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("cannot unlink %s: %w", file, err)
	}
	f, err := fs.OpenFile(file, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("could not redirect to %s: %w", file, err)
	}
	if err := f.Truncate(0); err != nil {
		logger.Warn("ignoring truncate failure", zap.String("file", file), zap.Error(err))
	}
	return f, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newLogger(w io.Writer, debug level) *zap.Logger {
	lvl := zap.InfoLevel
	if debug > 0 {
		lvl = zap.DebugLevel
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w), lvl)
	return zap.New(core).Named("irqtop")
}
