package main

import (
	"sync"
	"time"

	"github.com/midbel/irqtop/proc"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ticksDesc = prometheus.NewDesc(
		"irqtop_ticks_total",
		"Number of tables rendered.",
		nil, nil,
	)
	overrunsDesc = prometheus.NewDesc(
		"irqtop_timer_overruns_total",
		"Number of timer periods missed by the sampling loop.",
		nil, nil,
	)
	degradedDesc = prometheus.NewDesc(
		"irqtop_degraded_samples_total",
		"Number of samples taken while the interrupts table was not fully readable.",
		nil, nil,
	)
	deltaDesc = prometheus.NewDesc(
		"irqtop_interrupts_delta",
		"Interrupts handled during the last sampling interval.",
		[]string{"irq", "cpu"}, nil,
	)
)

// Collector keeps a copy of the last table rendered by the loop for the
// status server.
type Collector struct {
	mu       sync.RWMutex
	lastmod  time.Time
	shape    proc.Shape
	delta    proc.Delta
	ticks    uint64
	overruns uint64
	degraded uint64
}

func Monitor() *Collector {
	return &Collector{
		lastmod: time.Now(),
	}
}

func (c *Collector) Observe(shape proc.Shape, delta proc.Delta, when time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shape = shape
	c.delta = delta
	c.lastmod = when
	c.ticks++
}

func (c *Collector) Overrun(expirations uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overruns += expirations - 1
}

func (c *Collector) Degraded(_ error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.degraded++
}

func (c *Collector) About() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rows, cols := c.shape.Dim()
	return map[string]interface{}{
		"lastmod":  c.lastmod,
		"ticks":    c.ticks,
		"overruns": c.overruns,
		"degraded": c.degraded,
		"cpus":     cols,
		"irqs":     rows,
	}
}

// Last returns the most recent table. The delta is empty until the first
// tick.
func (c *Collector) Last() (proc.Shape, proc.Delta, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.shape, c.delta, c.lastmod
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- ticksDesc
	ch <- overrunsDesc
	ch <- degradedDesc
	ch <- deltaDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ch <- prometheus.MustNewConstMetric(ticksDesc, prometheus.CounterValue, float64(c.ticks))
	ch <- prometheus.MustNewConstMetric(overrunsDesc, prometheus.CounterValue, float64(c.overruns))
	ch <- prometheus.MustNewConstMetric(degradedDesc, prometheus.CounterValue, float64(c.degraded))
	if c.delta.Rows() != len(c.shape.Rows) {
		return
	}
	for i, irq := range c.shape.Rows {
		for j, cpu := range c.shape.Columns {
			ch <- prometheus.MustNewConstMetric(deltaDesc, prometheus.GaugeValue, float64(c.delta.At(i, j)), irq, cpu)
		}
	}
}
