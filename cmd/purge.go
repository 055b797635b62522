package main

import (
	"fmt"

	"orgdrive/jobs"

	"github.com/spf13/cobra"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Run one trash purge sweep and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		report := jobs.NewTrashCleaner(a.container.Trash, a.cfg.PurgeInterval).RunOnce(cmd.Context())
		if report == nil {
			return fmt.Errorf("purge failed, see logs")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "scanned %d, purged %d, failed %d\n", report.Scanned, report.Purged, report.Failed)
		if report.Failed > 0 {
			return fmt.Errorf("%d files could not be purged", report.Failed)
		}
		return nil
	},
}
