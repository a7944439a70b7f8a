package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func backupStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup-status",
		Short: "Show security backup progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := wire.Progress.Progress()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range p.Steps {
				mark, when := "[ ]", ""
				if s.Done {
					mark, when = "[x]", " "+s.CompletedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(out, "%s %s%s\n", mark, s.Step, when)
			}
			switch {
			case p.Complete:
				fmt.Fprintln(out, "Backup complete.")
			default:
				fmt.Fprintf(out, "Progress: %.0f%%. Next step: %s\n", p.Fraction()*100, p.NextStep)
			}
			return nil
		},
	}
}
