package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"walletcore/internal/app"
	"walletcore/internal/domain"
)

// Process exit codes.
const (
	exitOK                = 0
	exitFailure           = 1
	exitProtocolViolation = 3
)

var (
	configFile string
	passphrase string
	wire       *app.Wire
)

// Execute runs the CLI with os.Args. A failure is printed to stderr before
// it is returned.
func Execute() error {
	return execute(NewRootCommand())
}

func execute(root *cobra.Command) error {
	err := errors.Join(root.Execute(), closeWire())
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "walletcore:", err)
	}
	return err
}

// closeWire releases the handles opened by the last command.
func closeWire() error {
	if wire == nil {
		return nil
	}
	err := wire.Close()
	wire = nil
	return err
}

// ExitCode maps an Execute error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, domain.ErrProtocolViolation):
		return exitProtocolViolation
	default:
		return exitFailure
	}
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	configFile, passphrase, wire = "", "", nil

	root := &cobra.Command{
		Use:           "walletcore",
		Short:         "Wallet key exchange and security backup CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(cmd, configFile)
			if err != nil {
				return err
			}
			w, err := app.NewWire(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			wire = w
			return nil
		},
	}

	defaults := app.Defaults()
	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default searches walletcore.yaml)")
	pf.StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the base private key")
	pf.String("home", "", fmt.Sprintf("data dir (default %s)", defaults["home"]))
	pf.String("remote-url", "", fmt.Sprintf("counterparty base URL (default %s)", defaults["remote_url"]))
	pf.Duration("request-timeout", 0, "per-request timeout (default 15s)")
	pf.String("network", "", "bitcoin network: mainnet, testnet3, regtest, signet")
	pf.String("backup-store", "", "backup state backend: file, sqlite, postgres, mysql")
	pf.String("backup-dsn", "", "DSN for SQL backup stores")
	pf.String("log-level", "", "debug, info, warn or error")

	root.AddCommand(
		initCmd(),
		fingerprintCmd(),
		syncKeysCmd(),
		reportKitCmd(),
		loginCmd(),
		backupStatusCmd(),
		configCmd(),
	)
	return root
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
