package top

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/midbel/irqtop/proc"
	"go.uber.org/zap"
)

// DefaultPeriod is the interval between two tables.
const DefaultPeriod = 5 * time.Second

type State byte

const (
	StateUninitialized State = iota
	StateDiscovering
	StateBaseline
	StateTicking
	StateStopped
	StateFailed
)

func (s State) String() string {
	switch s {
	default:
		return ""
	case StateUninitialized:
		return "uninitialized"
	case StateDiscovering:
		return "discovering"
	case StateBaseline:
		return "baseline"
	case StateTicking:
		return "ticking"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	}
}

type Source interface {
	Discover() (proc.Shape, error)
	Sample(proc.Shape) (proc.Sample, error)
}

// Observer is notified by the loop after each tick. Its methods are called
// from the goroutine running the loop.
type Observer interface {
	Observe(shape proc.Shape, delta proc.Delta, when time.Time)
	Overrun(expirations uint64)
	Degraded(err error)
}

type Config struct {
	Every    time.Duration
	Count    int
	Renderer Renderer
	Observer Observer
	Logger   *zap.Logger
}

type Loop struct {
	source   Source
	out      io.Writer
	every    time.Duration
	count    int
	renderer Renderer
	observer Observer
	logger   *zap.Logger

	timer func(time.Duration) (Timer, error)
	now   func() time.Time

	state State
}

func NewLoop(src Source, out io.Writer, cfg Config) *Loop {
	l := Loop{
		source:   src,
		out:      out,
		every:    cfg.Every,
		count:    cfg.Count,
		renderer: cfg.Renderer,
		observer: cfg.Observer,
		logger:   cfg.Logger,
		timer:    NewTimer,
		now:      time.Now,
	}
	if l.every <= 0 {
		l.every = DefaultPeriod
	}
	if l.observer == nil {
		l.observer = nopObserver{}
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	return &l
}

func (l *Loop) State() State {
	return l.state
}

// Run discovers the table, takes a baseline sample and then renders the
// difference between two consecutive samples each time the timer expires.
// It returns nil when ctx is done or after Count tables have been rendered.
func (l *Loop) Run(ctx context.Context) error {
	l.state = StateDiscovering
	shape, err := l.source.Discover()
	if err != nil {
		return l.fail(fmt.Errorf("discovery failed: %w", err))
	}
	rows, cols := shape.Dim()
	l.logger.Info("sampling started", zap.Duration("every", l.every), zap.Int("irqs", rows), zap.Int("cpus", cols))

	l.state = StateBaseline
	prev, _ := l.sample(shape)

	timer, err := l.timer(l.every)
	if err != nil {
		return l.fail(err)
	}
	defer timer.Close()

	l.state = StateTicking
	for ticks := 0; l.count <= 0 || ticks < l.count; ticks++ {
		count, err := timer.Wait(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return l.fail(err)
		}
		if count > 1 {
			l.logger.Warn("timer interval overrun", zap.Uint64("expirations", count))
			l.observer.Overrun(count)
		}
		curr, ok := l.sample(shape)
		if !ok {
			// keep the previous baseline: the next readable sample covers
			// the missed interval.
			curr = prev
		}
		var (
			delta = proc.Diff(prev, curr)
			when  = l.now()
		)
		if err := l.renderer.Render(l.out, shape, delta, when); err != nil {
			return l.fail(fmt.Errorf("cannot write table: %w", err))
		}
		l.observer.Observe(shape, delta, when)
		prev = curr
	}
	l.state = StateStopped
	return nil
}

// sample reports false when the table could not be read entirely.
func (l *Loop) sample(shape proc.Shape) (proc.Sample, bool) {
	sample, err := l.source.Sample(shape)
	if err != nil {
		l.logger.Warn("sampling degraded", zap.Error(err))
		l.observer.Degraded(err)
	}
	ok := !errors.Is(err, proc.ErrSourceUnavailable) && !errors.Is(err, proc.ErrIncomplete)
	return sample, ok
}

func (l *Loop) fail(err error) error {
	l.logger.Error("loop failed", zap.Stringer("state", l.state), zap.Error(err))
	l.state = StateFailed
	return err
}

type nopObserver struct{}

func (nopObserver) Observe(proc.Shape, proc.Delta, time.Time) {}
func (nopObserver) Overrun(uint64) {}
func (nopObserver) Degraded(error) {}
