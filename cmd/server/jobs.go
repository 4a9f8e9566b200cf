package main

import (
	"fmt"

	"assessments/internal/service"
	"github.com/spf13/cobra"
)

func newJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Run a background job once",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "repair-locks",
		Short: "Recreate missing session locks for upcoming bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd, func(js *service.JobService) (int, error) {
				return js.RepairSessionLocks(cmd.Context())
			}, "repaired %d session locks\n")
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "digest",
		Short: "Email the operator today's bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd, func(js *service.JobService) (int, error) {
				return js.SendDailyDigest(cmd.Context())
			}, "digest covered %d bookings\n")
		},
	})
	return cmd
}

func runJob(cmd *cobra.Command, run func(*service.JobService) (int, error), format string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	n, err := run(a.jobService())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), format, n)
	return nil
}

func newHashKeyCmd() *cobra.Command {
	var key string
	c := &cobra.Command{
		Use:   "hash-key",
		Short: "Print a bcrypt hash of an admin key for ADMIN_VIEW_KEY_HASH",
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := service.HashAdminKey(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "export ADMIN_VIEW_KEY_HASH='%s'\n", hash)
			return nil
		},
	}
	c.Flags().StringVar(&key, "key", "", "admin key to hash")
	_ = c.MarkFlagRequired("key")
	return c
}
