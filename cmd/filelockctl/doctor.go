package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/filelockd/filelockd/internal/doctor"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor [dir]",
		Short: "Validate that dir is a suitable place to hold lock sentinels",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			results := []doctor.CheckResult{
				doctor.CheckWritable(dir),
				doctor.CheckClock(),
				doctor.CheckPrecision(dir),
				doctor.CheckNetworkFS(dir),
			}
			overall := doctor.Overall(results)

			if flagJSON {
				data, _ := json.MarshalIndent(struct {
					Overall doctor.Status        `json:"overall"`
					Checks  []doctor.CheckResult `json:"checks"`
				}{overall, results}, "", "  ")
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			} else {
				for _, r := range results {
					line := fmt.Sprintf("[%s] %s", r.Status, r.Name)
					if r.Message != "" {
						line += ": " + r.Message
					}
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "overall:", overall)
			}

			if overall == doctor.StatusFail {
				return fmt.Errorf("one or more checks failed")
			}
			return nil
		},
	}
	return cmd
}
