package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/midbel/irqtop/proc"
	"github.com/midbel/irqtop/top"
	"github.com/midbel/shlex"
	"github.com/midbel/slices"
)

const optsEnv = "IRQTOP_OPTS"

type options struct {
	output string
	debug  level
	file   string
	every  time.Duration
	limit  int
	count  int
	addr   string
}

// level counts the occurrences of a boolean flag.
type level int

func (v *level) String() string {
	return strconv.Itoa(int(*v))
}

func (v *level) Set(_ string) error {
	*v++
	return nil
}

func (v *level) IsBoolFlag() bool {
	return true
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	opts := options{
		file:  proc.InterruptsFile,
		every: top.DefaultPeriod,
		limit: proc.MaxLabels,
	}
	set := flag.NewFlagSet("irqtop", flag.ContinueOnError)
	set.SetOutput(stderr)
	set.StringVar(&opts.output, "o", "", "write tables to file instead of stdout")
	set.Var(&opts.debug, "D", "increase debug level")
	set.StringVar(&opts.file, "f", opts.file, "interrupts table")
	set.DurationVar(&opts.every, "i", opts.every, "sampling interval")
	set.IntVar(&opts.limit, "n", opts.limit, "maximum number of cpus and irqs")
	set.IntVar(&opts.count, "c", 0, "exit after count tables")
	set.StringVar(&opts.addr, "a", "", "status and metrics listening address")
	if err := set.Parse(args); err != nil {
		return opts, err
	}

	var err error
	switch {
	case set.NArg() > 0:
		err = fmt.Errorf("unexpected argument %q", slices.Fst(set.Args()))
	case opts.every <= 0:
		err = fmt.Errorf("invalid interval %s", opts.every)
	case opts.limit <= 0:
		err = fmt.Errorf("invalid limit %d", opts.limit)
	case opts.count < 0:
		err = fmt.Errorf("invalid count %d", opts.count)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		set.Usage()
	}
	return opts, err
}

// defaultArgs splits the value of IRQTOP_OPTS like a shell would.
func defaultArgs(str string) ([]string, error) {
	if strings.TrimSpace(str) == "" {
		return nil, nil
	}
	return shlex.Split(strings.NewReader(str))
}
