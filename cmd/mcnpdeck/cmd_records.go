package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/mcnpdeck/format"
)

func newRecordsCmd() *cobra.Command {
	var flags deckFlags
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "records <file>",
		Short: "Dump the logical records and diagnostics of a deck, with READ files included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encoder, err := format.NewEncoder(outputFormat, os.Stdout)
			if err != nil {
				return err
			}

			file, err := flags.loadDeck(cmd, args[0])
			if err != nil {
				return err
			}

			if err := encoder.Encode(file.Deck); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "line", "output format (json, yaml, line)")

	return cmd
}
