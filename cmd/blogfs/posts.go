package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eringen/blogfs"
	"github.com/eringen/blogfs/content"
)

func NewPostsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "posts",
		Aliases: []string{"ls"},
		Short:   "List post metadata",
		Long:    `List every post sidecar found under the posts directory, in discovery order.`,
		Args:    cobra.NoArgs,
		RunE:    runPosts,
	}

	cmd.Flags().Bool("newest", false, "List newest posts first")
	return cmd
}

func runPosts(cmd *cobra.Command, _ []string) error {
	store, _, err := openStore(cmd)
	if err != nil {
		return err
	}

	posts, err := store.ListPosts(cmd.Context())
	if err != nil {
		return fmt.Errorf("list posts: %w", err)
	}
	if newest, _ := cmd.Flags().GetBool("newest"); newest {
		posts = blogfs.NewestFirst(posts)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return outputPostsJSON(cmd, posts)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, p := range posts {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Slug, p.PublishedDate, p.Title)
	}
	return w.Flush()
}

func outputPostsJSON(cmd *cobra.Command, posts []content.PostMetadata) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(posts)
}
