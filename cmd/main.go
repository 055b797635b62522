package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "orgdrive",
	Short: "orgdrive: multi-tenant file sharing backend",
	Long: `orgdrive serves the file sharing API for organizations and runs the
trash purge.

  orgdrive serve    Start the HTTP API and the background trash cleaner
  orgdrive purge    Permanently delete every file in the trash once`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, purgeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
