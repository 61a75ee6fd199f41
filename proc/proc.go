package proc

import (
	"path/filepath"
)

const proc = "/proc"

// MaxLabels is the default ceiling on the number of CPU columns and IRQ rows
// kept from the interrupts table.
const MaxLabels = 256

var InterruptsFile = filepath.Join(proc, "interrupts")
