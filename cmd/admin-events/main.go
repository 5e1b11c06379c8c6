// Package main provides a CLI for reading reconstructed administrative
// events from a tessera event store as JSON.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/tessera-net/tessera/internal/cmd/adminevents"
	platformcmd "github.com/tessera-net/tessera/internal/platform/cmd"
	"github.com/tessera-net/tessera/internal/platform/config"
)

func main() {
	fs := flag.NewFlagSet(platformcmd.ServiceAdminEvents, flag.ExitOnError)
	cfg, err := adminevents.ParseConfig(fs, os.Args[1:])
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

	err = platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceAdminEvents, func(ctx context.Context) error {
		return adminevents.Run(ctx, cfg, os.Stdout)
	})
	if err != nil {
		config.Exitf("%v", err)
	}
}
