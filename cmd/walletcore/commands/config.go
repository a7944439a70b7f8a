package commands

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"walletcore/internal/app"
)

func configCmd() *cobra.Command {
	var write bool
	var path string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration, or write it to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if write {
				p, err := app.WriteConfigFile(wire.Config, path)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Config written to %s\n", p)
				return nil
			}
			b, err := yaml.Marshal(wire.Config)
			if err != nil {
				return err
			}
			_, err = out.Write(b)
			return err
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "write the config instead of printing it")
	cmd.Flags().StringVar(&path, "path", "", "target file for --write (default user config dir)")
	return cmd
}
