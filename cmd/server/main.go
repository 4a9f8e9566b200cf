package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "assessments",
		Short:         "Paid assessment booking backend: checkout, scheduling, admin",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServerCmd())
	root.AddCommand(newJobsCmd())
	root.AddCommand(newHashKeyCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "assessments %s (commit=%s, built=%s)\n", Version, CommitSHA, BuildDate)
		},
	}
}
