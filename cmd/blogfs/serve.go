package main

import (
	"github.com/spf13/cobra"

	"github.com/eringen/blogfs"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the blog over HTTP",
		Long:  `Start the web server. Posts are read from disk on every request, so edits show up without a restart.`,
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (overrides config and BLOG_ADDR)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}

	app, err := blogfs.New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Run(cmd.Context())
}
