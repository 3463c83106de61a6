package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render <id>",
		Short: "Render a post body to HTML",
		Long:  `Render the markdown body named by a sidecar's archivo field and print the HTML.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	store, _, err := openStore(cmd)
	if err != nil {
		return err
	}

	html, err := store.RenderPost(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("render %s: %w", args[0], err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), html)
	return err
}
