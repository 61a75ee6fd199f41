package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/midbel/irqtop/proc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func routes(mon *Collector, reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", handleStatus(mon))
	mux.Handle("/interrupts", handleInterrupts(mon))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}

func handleStatus(mon *Collector) http.Handler {
	fn := func(r *http.Request) (interface{}, error) {
		return mon.About(), nil
	}
	return handle(fn)
}

type Interrupt struct {
	Irq   string `json:"irq"`
	Cpu   string `json:"cpu"`
	Delta int64  `json:"delta"`
}

type Table struct {
	When       time.Time   `json:"time"`
	Interrupts []Interrupt `json:"interrupts"`
}

func convertDelta(shape proc.Shape, delta proc.Delta, irq string) []Interrupt {
	var list []Interrupt
	if delta.Rows() != len(shape.Rows) {
		return list
	}
	for i, name := range shape.Rows {
		if irq != "" && irq != name {
			continue
		}
		for j, cpu := range shape.Columns {
			list = append(list, Interrupt{
				Irq:   name,
				Cpu:   cpu,
				Delta: delta.At(i, j),
			})
		}
	}
	return list
}

func handleInterrupts(mon *Collector) http.Handler {
	fn := func(r *http.Request) (interface{}, error) {
		var (
			shape, delta, when = mon.Last()
			query              = r.URL.Query()
		)
		res := Table{
			When:       when,
			Interrupts: convertDelta(shape, delta, query.Get("irq")),
		}
		return res, nil
	}
	return handle(fn)
}

type handler func(r *http.Request) (interface{}, error)

func handle(h handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		data, err := h(r)

		w.Header().Set("content-type", "application/json")
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(data)
	}
	return http.HandlerFunc(fn)
}
