package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/midbel/irqtop/proc"
	"github.com/midbel/irqtop/top"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func main() {
	args, err := defaultArgs(os.Getenv(optsEnv))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", optsEnv, err)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := run(ctx, afero.NewOsFs(), append(args, os.Args[1:]...), os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, fs afero.Fs, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return 2
	}
	logger := newLogger(stderr, opts.debug)
	defer logger.Sync()

	var (
		out  = stdout
		live = isTerminal(stdout)
	)
	if opts.output != "" {
		f, err := openOutput(fs, opts.output, logger)
		if err != nil {
			logger.Error("cannot open output", zap.Error(err))
			return 1
		}
		defer f.Close()
		out, live = f, false
	}

	mon := Monitor()
	if opts.addr != "" {
		srv := serve(opts.addr, mon, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	src := proc.NewSource(
		proc.WithFs(fs),
		proc.WithFile(opts.file),
		proc.WithLimit(opts.limit),
		proc.WithLogger(logger.Named("proc")),
	)
	loop := top.NewLoop(src, out, top.Config{
		Every:    opts.every,
		Count:    opts.count,
		Renderer: top.Renderer{Clear: live},
		Observer: mon,
		Logger:   logger.Named("top"),
	})
	if err := loop.Run(ctx); err != nil {
		return 1
	}
	return 0
}

func serve(addr string, mon *Collector, logger *zap.Logger) *http.Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(mon)

	srv := &http.Server{
		Addr:    addr,
		Handler: routes(mon, reg),
	}
	go func() {
		logger.Info("status server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("status server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()
	return srv
}
