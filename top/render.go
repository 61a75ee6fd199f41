package top

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/midbel/irqtop/proc"
)

const (
	// FieldWidth is the width of every column. Larger values overflow.
	FieldWidth = 15
	TimeFormat = "2006-01-02 15:04:05"

	clearScreen = "\033[H\033[2J"
)

type Renderer struct {
	// Location of the timestamp printed in the header, time.Local if nil.
	Location *time.Location
	// Clear the terminal before each table.
	Clear bool
}

// Render writes the table of delta to w in one write.
func (r Renderer) Render(w io.Writer, shape proc.Shape, delta proc.Delta, when time.Time) error {
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	var buf bytes.Buffer
	if r.Clear {
		buf.WriteString(clearScreen)
	}
	fmt.Fprintf(&buf, "--- %s\n", when.In(loc).Format(TimeFormat))

	buf.WriteString("    ")
	for _, c := range shape.Columns {
		fmt.Fprintf(&buf, "%*s", FieldWidth, c)
	}
	buf.WriteByte('\n')

	for i, irq := range shape.Rows {
		fmt.Fprintf(&buf, "%3s:", irq)
		for _, v := range delta.Row(i) {
			fmt.Fprintf(&buf, "%*d", FieldWidth, v)
		}
		buf.WriteByte('\n')
	}
	_, err := w.Write(buf.Bytes())
	return err
}
