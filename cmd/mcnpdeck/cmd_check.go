package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/mcnpdeck/deck"
	"github.com/dhamidi/mcnpdeck/workspace"
)

func newCheckCmd() *cobra.Command {
	var flags deckFlags

	cmd := &cobra.Command{
		Use:   "check <file|dir>...",
		Short: "Report diagnostics for decks, failing if any has errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var results []*deck.Result
			for _, path := range args {
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("stat %s: %w", path, err)
				}
				if !info.IsDir() {
					file, err := flags.loadDeck(cmd, path)
					if err != nil {
						return err
					}
					results = append(results, file.Deck)
					continue
				}

				cfg, err := flags.loadConfig(cmd, path)
				if err != nil {
					return err
				}
				ws := workspace.New(path, cfg)
				if err := ws.ScanAll(cmd.Context()); err != nil {
					return fmt.Errorf("scan %s: %w", path, err)
				}
				for _, f := range ws.Files() {
					results = append(results, f.Deck)
				}
			}
			return report(results)
		},
	}

	flags.register(cmd.Flags())

	return cmd
}

func report(results []*deck.Result) error {
	var errs, warnings, failed int
	for _, res := range results {
		printDiagnostics(res.Diagnostics)
		for _, d := range res.Diagnostics {
			if d.Severity == deck.SeverityError {
				errs++
			} else {
				warnings++
			}
		}
		if res.HasErrors() {
			failed++
		}
	}
	fmt.Printf("%d decks checked: %d errors, %d warnings\n", len(results), errs, warnings)
	if failed > 0 {
		return fmt.Errorf("%d of %d decks have errors", failed, len(results))
	}
	return nil
}
