package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/filelockd/filelockd/internal/audit"
	"github.com/filelockd/filelockd/internal/filelock"
)

func newUnlockCmd() *cobra.Command {
	var (
		sentinel string
		auditDir string
	)

	cmd := &cobra.Command{
		Use:   "unlock <target>",
		Short: "Release the lock this process holds on target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			defaults := loadDefaults()

			opts := filelock.Options{
				SentinelPath: firstNonEmpty(sentinel, defaults.SentinelPath),
			}
			if auditPath := firstNonEmpty(auditDir, defaults.AuditLogDir); auditPath != "" {
				opts.Auditor = audit.NewWriter(auditPath)
			}

			if err := filelock.Unlock(target, opts); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "unlocked:", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&sentinel, "sentinel-path", "", "override the sentinel directory path")
	cmd.Flags().StringVar(&auditDir, "audit-dir", "", "directory to append audit.log into")

	return cmd
}
