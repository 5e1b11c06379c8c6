// Package main provides a CLI for seeding a local development database
// with administrative event fixtures from a YAML scenario.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/tessera-net/tessera/internal/cmd/seedadmin"
	platformcmd "github.com/tessera-net/tessera/internal/platform/cmd"
	"github.com/tessera-net/tessera/internal/platform/config"
)

func main() {
	fs := flag.NewFlagSet(platformcmd.ServiceSeed, flag.ExitOnError)
	cfg, err := seedadmin.ParseConfig(fs, os.Args[1:])
	if err != nil {
		config.Exitf("parse config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	err = platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceSeed, func(ctx context.Context) error {
		return seedadmin.Run(ctx, cfg, os.Stdout)
	})
	if err != nil {
		config.Exitf("%v", err)
	}
}
