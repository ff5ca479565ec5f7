package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corey/nglint/internal/adapters/fsnotify"
	"github.com/corey/nglint/internal/app"
	"github.com/corey/nglint/internal/ports"
)

var watchVerbose bool

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-lint files as they change",
	Long:  "Watches the project tree and prints fresh findings for each changed file. Runs until interrupted.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "Log every relint event")
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	if len(args) == 1 {
		root = args[0]
	}

	cfg, err := app.LoadConfig(root)
	if err != nil {
		return err
	}

	runner, store, err := newRunner(root, cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	level := slog.LevelWarn
	if watchVerbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	useColor := resolveColor(colorFlag, noColorFlag)
	session := app.NewWatchSession(runner, watcher, log)
	session.OnResult = func(fr *ports.FileResult) {
		fmt.Print(formatFileFindings(fr, useColor))
	}

	if err := session.Start(); err != nil {
		return fmt.Errorf("start watch: %w", err)
	}
	fmt.Println("⚡ Watching for changes (Ctrl-C to stop)...")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	return session.Stop()
}
