//go:build linux

package top

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

type monotonicTimer struct {
	file *os.File
}

// NewTimer arms a repeating timerfd on CLOCK_MONOTONIC so that wall clock
// adjustments do not change its period.
func NewTimer(every time.Duration) (Timer, error) {
	if every <= 0 {
		return nil, fmt.Errorf("invalid timer period: %s", every)
	}
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_CLOEXEC|unix.TFD_NONBLOCK)
	if err != nil {
		return nil, fmt.Errorf("cannot create timer: %w", err)
	}
	period := unix.NsecToTimespec(every.Nanoseconds())
	spec := unix.ItimerSpec{
		Interval: period,
		Value:    period,
	}
	if err := unix.TimerfdSettime(fd, 0, &spec, nil); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("could not establish timer interval: %w", err)
	}
	return &monotonicTimer{
		file: os.NewFile(uintptr(fd), "timerfd"),
	}, nil
}

func (t *monotonicTimer) Wait(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	stop := context.AfterFunc(ctx, func() {
		// timerfd is pollable so the deadline can always be set; it wakes
		// up the pending Read below.
		_ = t.file.SetReadDeadline(time.Now())
	})
	defer stop()

	var buf [8]byte
	n, err := t.file.Read(buf[:])
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("cannot read timer: %w", err)
	}
	if n != len(buf) {
		return 0, fmt.Errorf("%w: %d bytes", ErrShortRead, n)
	}
	return binary.NativeEndian.Uint64(buf[:]), nil
}

func (t *monotonicTimer) Close() error {
	return t.file.Close()
}
