// Swatch - one command to re-theme the whole desktop
//
// Applies a color theme to terminals, editors, menu bar tools and the
// wallpaper, then records the switch so it can be inspected and repeated.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/asteroid-belt/swatch/internal/cli"
	"github.com/asteroid-belt/swatch/internal/config"
	"github.com/asteroid-belt/swatch/internal/db"
	"github.com/asteroid-belt/swatch/internal/telemetry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "swatch: %v\n", err)
		os.Exit(1)
	}

	// The database holds the persistent tracking ID.
	paths := config.GetPaths(cfg)
	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "swatch: %v\n", err)
		os.Exit(1)
	}

	telemetryClient := telemetry.New(database)

	err = cli.Execute(ctx, telemetryClient)
	telemetryClient.Close()
	_ = database.Close()
	if err != nil {
		os.Exit(1)
	}
}
