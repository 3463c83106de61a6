package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/eringen/blogfs/content"
)

var errProblems = errors.New("posts directory has problems")

func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the posts directory",
		Long: `Scan every post directory and report sidecars that do not parse, bodies that
are missing and slugs that are declared twice.`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}

	cmd.Flags().Bool("watch", false, "Re-run the check whenever the posts directory changes")
	cmd.Flags().Duration("debounce", 300*time.Millisecond, "Debounce window for batching changes")
	return cmd
}

func runCheck(cmd *cobra.Command, _ []string) error {
	store, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		debounce, _ := cmd.Flags().GetDuration("debounce")
		return watchCheck(cmd, store, cfg.PostsDir, debounce)
	}
	return checkOnce(cmd, store)
}

func checkOnce(cmd *cobra.Command, store *content.Store) error {
	report, err := content.Check(cmd.Context(), store)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		for _, p := range report.Problems {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d posts, %d problems\n", report.Posts, len(report.Problems))
	}

	if !report.OK() {
		return errProblems
	}
	return nil
}

func watchCheck(cmd *cobra.Command, store *content.Store, root string, debounce time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root); err != nil {
		return fmt.Errorf("add watch dirs: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes...\n", root)
	report := func() {
		if err := checkOnce(cmd, store); err != nil && !errors.Is(err, errProblems) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
		}
	}
	report()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if shouldIgnoreEvent(event) {
				continue
			}
			// New post directories need their own watch.
			if event.Op&fsnotify.Create != 0 {
				_ = addWatchDirs(watcher, event.Name)
			}
			if !pending {
				timer.Reset(debounce)
				pending = true
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
		case <-timer.C:
			pending = false
			report()
		}
	}
}

// addWatchDirs watches root and the directories under it, skipping hidden ones.
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func shouldIgnoreEvent(event fsnotify.Event) bool {
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return true
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0
}
