package proc

import (
	"fmt"
)

// Shape holds the labels of the interrupts table as found at discovery. Columns
// are the CPUs, rows the interrupt sources.
type Shape struct {
	Columns []string
	Rows    []string
}

func (s Shape) Dim() (int, int) {
	return len(s.Rows), len(s.Columns)
}

// Sample is a row major matrix of cumulative interrupt counters.
type Sample struct {
	rows   int
	cols   int
	values []uint64
}

func NewSample(shape Shape) Sample {
	rows, cols := shape.Dim()
	return Sample{
		rows:   rows,
		cols:   cols,
		values: make([]uint64, rows*cols),
	}
}

func (s Sample) Rows() int {
	return s.rows
}

func (s Sample) Cols() int {
	return s.cols
}

func (s Sample) At(row, col int) uint64 {
	return s.values[row*s.cols+col]
}

// Row gives access to the cells of the given row. The returned slice shares
// its memory with the sample.
func (s Sample) Row(row int) []uint64 {
	return s.values[row*s.cols : (row+1)*s.cols]
}

// Delta is the element wise difference of two samples.
type Delta struct {
	rows   int
	cols   int
	values []int64
}

func (d Delta) Rows() int {
	return d.rows
}

func (d Delta) Cols() int {
	return d.cols
}

func (d Delta) At(row, col int) int64 {
	return d.values[row*d.cols+col]
}

func (d Delta) Row(row int) []int64 {
	return d.values[row*d.cols : (row+1)*d.cols]
}

// Diff computes curr - prev for every cell. A counter that went backward
// gives a negative value.
func Diff(prev, curr Sample) Delta {
	if prev.rows != curr.rows || prev.cols != curr.cols {
		panic(fmt.Sprintf("diff: shape mismatch (%dx%d != %dx%d)", prev.rows, prev.cols, curr.rows, curr.cols))
	}
	d := Delta{
		rows:   curr.rows,
		cols:   curr.cols,
		values: make([]int64, len(curr.values)),
	}
	for i := range curr.values {
		d.values[i] = int64(curr.values[i] - prev.values[i])
	}
	return d
}
