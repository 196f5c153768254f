package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/filelockd/filelockd/internal/filelock"
)

// watchDebounce coalesces bursts of filesystem events into a single
// re-check, matching the debounce pattern used for the ingestion watcher
// this CLI's fsnotify usage is grounded on.
const watchDebounce = 150 * time.Millisecond

type statusOutput struct {
	Target string `json:"target"`
	Locked bool   `json:"locked"`
}

func newStatusCmd() *cobra.Command {
	var (
		sentinel string
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "status <target>",
		Short: "Report whether target currently appears locked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			opts := filelock.Options{SentinelPath: sentinel}

			locked, err := filelock.Check(target, opts)
			if err != nil {
				return err
			}
			printStatus(cmd, target, locked)
			if !watch {
				return nil
			}
			return watchStatus(cmd, target, opts)
		},
	}

	cmd.Flags().StringVar(&sentinel, "sentinel-path", "", "override the sentinel directory path")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep watching and print status transitions")

	return cmd
}

func printStatus(cmd *cobra.Command, target string, locked bool) {
	if flagJSON {
		data, _ := json.Marshal(statusOutput{Target: target, Locked: locked})
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return
	}
	state := "unlocked"
	if locked {
		state = "locked"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", target, state)
}

// watchStatus watches the sentinel's parent directory for changes and
// re-checks status on every debounced burst, printing only transitions.
func watchStatus(cmd *cobra.Command, target string, opts filelock.Options) error {
	dir := filepath.Dir(target)
	if opts.SentinelPath != "" {
		dir = filepath.Dir(opts.SentinelPath)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch dir: %w", err)
	}

	last, err := filelock.Check(target, opts)
	if err != nil {
		return err
	}

	var debounce *time.Timer
	recheck := func() {
		cur, err := filelock.Check(target, opts)
		if err != nil {
			log.Error().Err(err).Str("target", target).Msg("status watch: check failed")
			return
		}
		if cur != last {
			last = cur
			printStatus(cmd, target, cur)
		}
	}

	for {
		select {
		case _, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, recheck)

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(werr).Msg("status watch: watcher error")
		}
	}
}
