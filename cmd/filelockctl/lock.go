package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/filelockd/filelockd/internal/audit"
	"github.com/filelockd/filelockd/internal/filelock"
)

func newLockCmd() *cobra.Command {
	var (
		stale      time.Duration
		update     time.Duration
		retries    uint
		noStale    bool
		noUpdate   bool
		sentinel   string
		auditDir   string
		foreground bool
	)

	cmd := &cobra.Command{
		Use:   "lock <target>",
		Short: "Acquire a lock on target",
		Long: `Acquire a lock on target, printing the sentinel path on success.

With --foreground, the process holds the lock and blocks until it receives
SIGINT/SIGTERM, releasing cleanly on signal. Without it, the process exits
as soon as acquisition succeeds, and releases before it does: there is no
refresher left running once the process is gone, so a one-shot "lock" only
proves the target was free to acquire. Use --foreground to actually hold
the lock for any length of time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			defaults := loadDefaults()

			opts := filelock.Options{
				Stale:          orDefault(stale, defaults.Stale),
				StaleDisabled:  noStale,
				Update:         orDefault(update, defaults.Update),
				UpdateDisabled: noUpdate,
				Retries:        retries,
				SentinelPath:   firstNonEmpty(sentinel, defaults.SentinelPath),
			}
			if auditPath := firstNonEmpty(auditDir, defaults.AuditLogDir); auditPath != "" {
				opts.Auditor = audit.NewWriter(auditPath)
			}
			opts.OnCompromised = func(ce *filelock.CompromiseError) {
				log.Error().Str("target", target).Str("kind", ce.Kind.String()).Msg("lock compromised")
			}

			handle, err := filelock.Lock(cmd.Context(), target, opts)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "locked:", target)

			if !foreground {
				return handle.Release()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			fmt.Fprintln(cmd.OutOrStdout(), "releasing:", target)
			return handle.Release()
		},
	}

	cmd.Flags().DurationVar(&stale, "stale", 0, "staleness threshold (0 = use default/config)")
	cmd.Flags().DurationVar(&update, "update", 0, "refresh interval (0 = use config, else derive from stale)")
	cmd.Flags().UintVar(&retries, "retries", 0, "number of retries on collision")
	cmd.Flags().BoolVar(&noStale, "no-stale", false, "disable staleness reclaim")
	cmd.Flags().BoolVar(&noUpdate, "no-update", false, "disable the background refresher")
	cmd.Flags().StringVar(&sentinel, "sentinel-path", "", "override the sentinel directory path")
	cmd.Flags().StringVar(&auditDir, "audit-dir", "", "directory to append audit.log into")
	cmd.Flags().BoolVar(&foreground, "foreground", false, "hold the lock until interrupted, then release")

	return cmd
}

func orDefault(v, fallback time.Duration) time.Duration {
	if v != 0 {
		return v
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
