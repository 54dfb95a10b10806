package main

import (
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/dhamidi/mcnpdeck/deck"
	"github.com/dhamidi/mcnpdeck/format"
)

func newClassifyCmd() *cobra.Command {
	var flags deckFlags

	cmd := &cobra.Command{
		Use:   "classify <file>",
		Short: "Show how each physical line of a deck is classified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, opts, err := flags.readDeck(cmd, args[0])
			if err != nil {
				return err
			}
			classes := slices.Collect(deck.ClassifyAll(content, opts...))
			return format.WriteClasses(os.Stdout, classes)
		},
	}

	flags.register(cmd.Flags())

	return cmd
}
