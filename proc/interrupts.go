package proc

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode"

	"github.com/midbel/slices"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const maxLineSize = 1 << 20

// Discover reads the header and the labels of the interrupts table. Only a
// failure to open the file or to read its header line is an error.
func (s *Source) Discover() (Shape, error) {
	var shape Shape

	r, err := s.fs.Open(s.file)
	if err != nil {
		return shape, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	scan := newScanner(r)
	if !scan.Scan() {
		r.Close()
		return shape, fmt.Errorf("%w: read %s: %w", ErrSourceUnavailable, s.file, scanError(scan))
	}
	shape.Columns = truncate(strings.Fields(scan.Text()), s.limit)
	for len(shape.Rows) < s.limit && scan.Scan() {
		label := rowLabel(scan.Text())
		if label == "" {
			continue
		}
		shape.Rows = append(shape.Rows, label)
	}
	if err := scan.Err(); err != nil {
		s.logger.Warn("incomplete read of interrupts table", zap.String("path", s.file), zap.Error(err))
	}
	if err := r.Close(); err != nil {
		s.logger.Warn("cannot close interrupts table", zap.String("path", s.file), zap.Error(err))
	}
	s.logger.Debug("interrupts table discovered",
		zap.String("path", s.file),
		zap.Strings("cpus", shape.Columns),
		zap.Strings("irqs", shape.Rows),
	)
	return shape, nil
}

// Sample reads the current counters of the interrupts table. The returned
// sample always has the dimensions of shape; cells that cannot be read are
// left to zero. An error wrapping ErrSourceUnavailable or ErrIncomplete means
// the counters can not be trusted; a failure to close the file keeps them.
func (s *Source) Sample(shape Shape) (Sample, error) {
	sample := NewSample(shape)

	r, err := s.fs.Open(s.file)
	if err != nil {
		return sample, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	scan := newScanner(r)
	if !scan.Scan() {
		r.Close()
		return sample, fmt.Errorf("%w: read header of %s: %w", ErrSourceUnavailable, s.file, scanError(scan))
	}
	var row int
	for scan.Scan() {
		line := scan.Text()
		if rowLabel(line) == "" {
			continue
		}
		if row < sample.Rows() {
			parseCounters(line, sample.Row(row))
		}
		row++
	}
	var errs error
	if err := scan.Err(); err != nil {
		errs = fmt.Errorf("%w: read %s: %w", ErrIncomplete, s.file, err)
	}
	return sample, multierr.Append(errs, closeFile(r, s.file))
}

func closeFile(c io.Closer, file string) error {
	if err := c.Close(); err != nil {
		return fmt.Errorf("close %s: %w", file, err)
	}
	return nil
}

// parseCounters fills values with the counters found after the first colon of
// line. A field that is not a number gives zero and is not consumed.
func parseCounters(line string, values []uint64) {
	_, rest, _ := strings.Cut(line, ":")
	for i := range values {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		values[i], rest = parseUint(rest)
	}
}

// parseUint parses the longest decimal prefix of str. It saturates at
// math.MaxUint64.
func parseUint(str string) (uint64, string) {
	var (
		val uint64
		pos int
	)
	for pos < len(str) && str[pos] >= '0' && str[pos] <= '9' {
		digit := uint64(str[pos] - '0')
		if val > (math.MaxUint64-digit)/10 {
			val = math.MaxUint64
		} else {
			val = val*10 + digit
		}
		pos++
	}
	return val, str[pos:]
}

func rowLabel(line string) string {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ':' || unicode.IsSpace(r)
	})
	return slices.Fst(fields)
}

func truncate(list []string, limit int) []string {
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

func newScanner(r io.Reader) *bufio.Scanner {
	scan := bufio.NewScanner(r)
	scan.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
	return scan
}

func scanError(scan *bufio.Scanner) error {
	if err := scan.Err(); err != nil {
		return err
	}
	return io.ErrUnexpectedEOF
}
