package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// report-kit: tell the counterparty an emergency kit was exported.
func reportKitCmd() *cobra.Command {
	var (
		date     string
		code     string
		verified bool
	)
	cmd := &cobra.Command{
		Use:   "report-kit",
		Short: "Report an emergency kit export",
		RunE: func(cmd *cobra.Command, args []string) error {
			exportedAt := time.Now()
			if date != "" {
				t, err := time.Parse(time.RFC3339, date)
				if err != nil {
					return fmt.Errorf("--date: %w", err)
				}
				exportedAt = t
			}

			ctx, cancel := signalContext(cmd)
			defer cancel()

			h, err := wire.EmergencyKit.Run(ctx, exportedAt, code, verified)
			if err != nil {
				return err
			}
			if _, err := h.Wait(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !verified {
				fmt.Fprintln(out, "Export reported (unverified, not recorded locally).")
				return nil
			}
			at, _, err := wire.Backup.EmergencyKitExportedAt()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Export reported. Last verified export: %s\n", at.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "export time, RFC3339 (default now)")
	cmd.Flags().StringVar(&code, "code", "", "verification code shown on the kit")
	cmd.Flags().BoolVar(&verified, "verified", false, "the user verified the kit")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}
