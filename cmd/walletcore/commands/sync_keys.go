package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// sync-keys: present the base key and cache the counterparty's swap key.
func syncKeysCmd() *cobra.Command {
	var show bool
	cmd := &cobra.Command{
		Use:   "sync-keys",
		Short: "Exchange keys with the counterparty and store its swap-server key",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if show {
				key, ok, err := wire.Keys.SwapServerKey()
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "No swap-server key stored.")
					return nil
				}
				fmt.Fprintf(out, "Swap-server key: %s\nPath: %s\n", key.Key, key.Path)
				return nil
			}

			ctx, cancel := signalContext(cmd)
			defer cancel()

			key, err := wire.SwapKey.Run(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Swap-server key stored.\nKey: %s\nPath: %s\n", key.Key, key.Path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, "print the stored key instead of syncing")
	return cmd
}
