package proc

import (
	"math"
	"reflect"
	"testing"
)

func makeSample(values [][]uint64) Sample {
	var s Sample
	if len(values) == 0 {
		return s
	}
	s.rows, s.cols = len(values), len(values[0])
	for _, row := range values {
		s.values = append(s.values, row...)
	}
	return s
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		prev [][]uint64
		curr [][]uint64
		want [][]int64
	}{
		{
			name: "unchanged",
			prev: [][]uint64{{10, 20}, {5, 5}},
			curr: [][]uint64{{10, 20}, {5, 5}},
			want: [][]int64{{0, 0}, {0, 0}},
		},
		{
			name: "increments",
			prev: [][]uint64{{10, 20}, {5, 5}},
			curr: [][]uint64{{15, 20}, {5, 9}},
			want: [][]int64{{5, 0}, {0, 4}},
		},
		{
			name: "reset",
			prev: [][]uint64{{100, 1}},
			curr: [][]uint64{{40, 1}},
			want: [][]int64{{-60, 0}},
		},
		{
			name: "wraparound",
			prev: [][]uint64{{math.MaxUint64 - 1}},
			curr: [][]uint64{{2}},
			want: [][]int64{{4}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(makeSample(tt.prev), makeSample(tt.curr))
			if got.Rows() != len(tt.want) {
				t.Fatalf("rows mismatched! want %d, got %d", len(tt.want), got.Rows())
			}
			for i := range tt.want {
				if !reflect.DeepEqual(got.Row(i), tt.want[i]) {
					t.Errorf("row %d mismatched! want %v, got %v", i, tt.want[i], got.Row(i))
				}
			}
		})
	}
}

func TestDiffSelf(t *testing.T) {
	a := makeSample([][]uint64{{1, 2, 3}, {math.MaxUint64, 0, 42}})
	d := Diff(a, a)
	for i := 0; i < d.Rows(); i++ {
		for j := 0; j < d.Cols(); j++ {
			if v := d.At(i, j); v != 0 {
				t.Errorf("cell (%d, %d): expected 0, got %d", i, j, v)
			}
		}
	}
}

func TestDiffAdditive(t *testing.T) {
	var (
		a = makeSample([][]uint64{{1, 200}, {30, 7}})
		b = makeSample([][]uint64{{9, 150}, {31, 7}})
		c = makeSample([][]uint64{{12, 400}, {29, 1000}})
	)
	var (
		ac = Diff(a, c)
		ab = Diff(a, b)
		bc = Diff(b, c)
	)
	for i := 0; i < ac.Rows(); i++ {
		for j := 0; j < ac.Cols(); j++ {
			if sum := ab.At(i, j) + bc.At(i, j); sum != ac.At(i, j) {
				t.Errorf("cell (%d, %d): %d + %d != %d", i, j, ab.At(i, j), bc.At(i, j), ac.At(i, j))
			}
		}
	}
}

func TestDiffShapeMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on shape mismatch")
		}
	}()
	Diff(makeSample([][]uint64{{1, 2}}), makeSample([][]uint64{{1}, {2}}))
}

func TestNewSample(t *testing.T) {
	shape := Shape{
		Columns: []string{"CPU0", "CPU1", "CPU2"},
		Rows:    []string{"0", "1"},
	}
	s := NewSample(shape)
	if s.Rows() != 2 || s.Cols() != 3 {
		t.Fatalf("dimension mismatched! want 2x3, got %dx%d", s.Rows(), s.Cols())
	}
	s.Row(1)[2] = 9
	if s.At(1, 2) != 9 {
		t.Errorf("row is not a view of the sample")
	}
}
