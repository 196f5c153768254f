package main

import (
	"errors"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/filelockd/filelockd/internal/config"
)

// errUsage is the error exitCodeFor maps to ExitUsage instead of the
// generic ExitError. No command returns it: cobra's own argument-count and
// flag errors are not wrapped in it and exit with ExitError.
var errUsage = errors.New("usage error")

var (
	flagVerbose bool
	flagJSON    bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "filelockctl",
		Short:         "Cross-process advisory file locking",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.WarnLevel
			if flagVerbose {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
		},
	}

	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit machine-readable JSON output")

	root.AddCommand(newLockCmd())
	root.AddCommand(newUnlockCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newDemoCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// loadDefaults reads the optional YAML config file for CLI-only defaults,
// treating a missing or unreadable file as "use built-in defaults".
func loadDefaults() *config.Settings {
	path, err := config.Find()
	if err != nil {
		return &config.Settings{}
	}
	settings, err := config.LoadSettings(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("ignoring unreadable config file")
		return &config.Settings{}
	}
	return settings
}
