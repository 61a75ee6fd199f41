package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/midbel/irqtop/proc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var testShape = proc.Shape{
	Columns: []string{"CPU0", "CPU1"},
	Rows:    []string{"0", "LOC"},
}

func testDelta() proc.Delta {
	var (
		prev = proc.NewSample(testShape)
		curr = proc.NewSample(testShape)
	)
	copy(curr.Row(0), []uint64{5, 0})
	copy(curr.Row(1), []uint64{100, 250})
	return proc.Diff(prev, curr)
}

func observed() *Collector {
	mon := Monitor()
	mon.Observe(testShape, testDelta(), time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC))
	mon.Overrun(3)
	mon.Degraded(errors.New("transient"))
	return mon
}

func TestCollectorMetrics(t *testing.T) {
	mon := observed()

	want := `
# HELP irqtop_ticks_total Number of tables rendered.
# TYPE irqtop_ticks_total counter
irqtop_ticks_total 1
# HELP irqtop_timer_overruns_total Number of timer periods missed by the sampling loop.
# TYPE irqtop_timer_overruns_total counter
irqtop_timer_overruns_total 2
# HELP irqtop_interrupts_delta Interrupts handled during the last sampling interval.
# TYPE irqtop_interrupts_delta gauge
irqtop_interrupts_delta{cpu="CPU0",irq="0"} 5
irqtop_interrupts_delta{cpu="CPU0",irq="LOC"} 100
irqtop_interrupts_delta{cpu="CPU1",irq="0"} 0
irqtop_interrupts_delta{cpu="CPU1",irq="LOC"} 250
`
	err := testutil.CollectAndCompare(mon, strings.NewReader(want),
		"irqtop_ticks_total",
		"irqtop_timer_overruns_total",
		"irqtop_interrupts_delta",
	)
	if err != nil {
		t.Errorf("metrics mismatched: %s", err)
	}
	if n := testutil.CollectAndCount(mon, "irqtop_degraded_samples_total"); n != 1 {
		t.Errorf("expected 1 degraded metric, got %d", n)
	}
}

func TestCollectorEmpty(t *testing.T) {
	mon := Monitor()
	if n := testutil.CollectAndCount(mon, "irqtop_interrupts_delta"); n != 0 {
		t.Errorf("expected no delta before first tick, got %d", n)
	}
	about := mon.About()
	if about["ticks"] != uint64(0) {
		t.Errorf("expected no ticks, got %v", about["ticks"])
	}
}

func TestHandleInterrupts(t *testing.T) {
	var (
		reg = prometheus.NewRegistry()
		mon = observed()
	)
	reg.MustRegister(mon)
	h := routes(mon, reg)

	tests := []struct {
		target string
		want   []Interrupt
	}{
		{
			target: "/interrupts",
			want: []Interrupt{
				{Irq: "0", Cpu: "CPU0", Delta: 5},
				{Irq: "0", Cpu: "CPU1", Delta: 0},
				{Irq: "LOC", Cpu: "CPU0", Delta: 100},
				{Irq: "LOC", Cpu: "CPU1", Delta: 250},
			},
		},
		{
			target: "/interrupts?irq=LOC",
			want: []Interrupt{
				{Irq: "LOC", Cpu: "CPU0", Delta: 100},
				{Irq: "LOC", Cpu: "CPU1", Delta: 250},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("unexpected status %d", rec.Code)
			}
			var res Table
			if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
				t.Fatalf("decode: %s", err)
			}
			if len(res.Interrupts) != len(tt.want) {
				t.Fatalf("want %d interrupts, got %d", len(tt.want), len(res.Interrupts))
			}
			for i := range tt.want {
				if res.Interrupts[i] != tt.want[i] {
					t.Errorf("%d: want %+v, got %+v", i, tt.want[i], res.Interrupts[i])
				}
			}
		})
	}
}

func TestHandleStatus(t *testing.T) {
	var (
		mon = observed()
		rec = httptest.NewRecorder()
	)
	routes(mon, prometheus.NewRegistry()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var about struct {
		Ticks    int `json:"ticks"`
		Overruns int `json:"overruns"`
		Degraded int `json:"degraded"`
		Cpus     int `json:"cpus"`
		Irqs     int `json:"irqs"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&about); err != nil {
		t.Fatalf("decode: %s", err)
	}
	if about.Ticks != 1 || about.Overruns != 2 || about.Degraded != 1 || about.Cpus != 2 || about.Irqs != 2 {
		t.Errorf("unexpected status: %+v", about)
	}
}

func TestHandleMetrics(t *testing.T) {
	var (
		reg = prometheus.NewRegistry()
		mon = observed()
		rec = httptest.NewRecorder()
	)
	reg.MustRegister(mon)
	routes(mon, reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `irqtop_interrupts_delta{cpu="CPU1",irq="LOC"} 250`) {
		t.Errorf("delta not exposed:\n%s", rec.Body.String())
	}
}
