package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"walletcore/internal/domain"
)

// Version reported to the counterparty in session requests.
const clientVersion = 1

func loginCmd() *cobra.Command {
	var email, gcmToken string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open a session and record the account's setup dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			h, err := wire.Session.Run(ctx, domain.CreateLoginSession{
				Client:   domain.Client{Type: "cli", BuildType: "release", Version: clientVersion},
				Email:    email,
				GcmToken: gcmToken,
			})
			if err != nil {
				return err
			}
			ok, err := h.Wait(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Existing user: %t\nCan use recovery code: %t\n", ok.IsExistingUser, ok.CanUseRecoveryCode)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&gcmToken, "gcm-token", "", "push notification token")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
