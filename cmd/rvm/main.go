package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/hexaflex/rvm/cpu"
	"github.com/hexaflex/rvm/duet"
	"github.com/hexaflex/rvm/host"
)

func main() {
	config := parseArgs()

	log, err := newLogger(config.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cpu.SetLogger(log)
	host.SetLogger(log)
	duet.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	if config.Watch {
		err = watch(ctx, config, log, os.Stdout, os.Stderr)
	} else {
		err = run(ctx, config, log, os.Stdout, os.Stderr)
	}

	stop()
	log.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger creates the process logger. Debug mode logs every machine
// transition in a human-readable format.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	return cfg.Build()
}
