package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"walletcore/internal/logging"
	"walletcore/internal/remote/devserver"
)

func main() {
	var (
		addr        string
		omitSwapKey bool
		logLevel    string
	)

	cmd := &cobra.Command{
		Use:          "houston-dev",
		Short:        "In-memory wallet counterparty for local testing",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New(os.Stderr, logLevel)
			dev, err := devserver.New(devserver.Options{OmitSwapKey: omitSwapKey, Logger: log})
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           dev.Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			log.Info("houston-dev listening", "addr", addr, "omit_swap_key", omitSwapKey)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&omitSwapKey, "omit-swap-key", false, "leave baseSwapServerPublicKey out of key-set answers")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	if err := cmd.Execute(); err != nil {
		logging.New(os.Stderr, "error").Error("houston-dev failed", "err", err)
		os.Exit(1)
	}
}
