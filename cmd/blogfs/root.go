package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/eringen/blogfs"
	"github.com/eringen/blogfs/content"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "blogfs",
		Short:         "Serve a blog from a directory of posts",
		Long:          `Read post sidecars and markdown bodies straight from disk and serve them as a website.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)
	rootCmd.AddCommand(
		NewServeCmd(),
		NewPostsCmd(),
		NewRenderCmd(),
		NewCheckCmd(),
	)
	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "Path to a YAML site config")
	cmd.PersistentFlags().String("posts", "", "Posts directory (overrides config and BLOG_POSTS_DIR)")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
}

// loadConfig merges the config file, BLOG_* variables and flags, in that order.
func loadConfig(cmd *cobra.Command) (blogfs.SiteConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := blogfs.LoadSiteConfig(path)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv()
	if dir, _ := cmd.Flags().GetString("posts"); dir != "" {
		cfg.PostsDir = dir
	}
	return cfg, nil
}

func cliLogger(cmd *cobra.Command) *slog.Logger {
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func openStore(cmd *cobra.Command) (*content.Store, blogfs.SiteConfig, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}
	store, err := blogfs.OpenStore(cfg, cliLogger(cmd))
	if err != nil {
		return nil, cfg, fmt.Errorf("open posts: %w", err)
	}
	return store, cfg, nil
}
