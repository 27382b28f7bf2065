package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nathoo/typequest/loader"
)

var validateCmd = &cobra.Command{
	Use:   "validate [game_directory]",
	Short: "Load and validate a game catalog without playing",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loader.Load(gameDir(args))
		if err != nil {
			var ve *loader.ValidationError
			if errors.As(err, &ve) {
				for _, msg := range ve.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", msg)
				}
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d chapters, %d lessons, %d endings. OK.\n",
			catalog.Game.Title, len(catalog.Chapters), len(catalog.Lessons), len(catalog.Endings))
		return nil
	},
}
