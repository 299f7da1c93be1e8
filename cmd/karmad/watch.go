package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"karmad/internal/errorlog"
	"karmad/internal/reload"
	"karmad/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Serve the registry and reload it when the ranges file changes",
	Long: `Watch loads the ranges file, then polls it for content changes and
rebuilds the registry on every edit. A rebuild that fails validation is
logged and rejected; the previous registry stays in effect until a valid
rewrite appears. Stops on SIGINT/SIGTERM.

The initial load must succeed: a broken ranges file refuses to start.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	if !cfg.Watch.Enabled {
		return fmt.Errorf("watching is disabled (watch.enabled=false in %s/.karmad/config.json)", configDir)
	}

	logger, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	path := resolveRangesPath(cfg)

	// Diagnostics go to the on-disk store so rejected rebuilds can be
	// inspected after the daemon exits (karmad errors).
	store, err := errorlog.OpenStore(errorlog.StorePath(configDir))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	mgr := reload.NewManager(path, logger, store)

	// Fail-closed startup: no watching without one valid registry.
	if err := mgr.Load(); err != nil {
		return err
	}

	w := watcher.New(watcher.Config{
		Enabled:    true,
		PollMs:     cfg.Watch.PollMs,
		DebounceMs: cfg.Watch.DebounceMs,
	}, path, logger, func(string) {
		_ = mgr.Load()
	})

	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watching ranges file", "path", path)
	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}
