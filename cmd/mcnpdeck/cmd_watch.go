package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/mcnpdeck/workspace"
)

func newWatchCmd() *cobra.Command {
	var flags deckFlags
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-check decks under a directory whenever they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			cfg, err := flags.loadConfig(cmd, dir)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ws := workspace.New(dir, cfg)
			if err := ws.ScanAll(ctx); err != nil {
				return fmt.Errorf("scan %s: %w", dir, err)
			}
			for _, f := range ws.Files() {
				printDiagnostics(f.Deck.Diagnostics)
			}

			w, err := workspace.NewWatcher(ws,
				workspace.WithDebounce(debounce),
				workspace.OnChange(func(f *workspace.File) {
					fmt.Printf("%s: %d records, %d diagnostics\n", f.Path, len(f.Deck.Records), len(f.Deck.Diagnostics))
					printDiagnostics(f.Deck.Diagnostics)
				}),
				workspace.OnRemove(func(path string) {
					fmt.Printf("%s: removed\n", path)
				}),
			)
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			if err := w.Start(ctx); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			defer w.Stop()

			fmt.Printf("watching %s, press Ctrl-C to stop\n", dir)
			<-ctx.Done()
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "wait this long for a file to settle")

	return cmd
}
