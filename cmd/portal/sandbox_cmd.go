package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/samandr77/healthportal/internal/sandbox"
)

const (
	ReadTimeout     = 20 * time.Second
	WriteTimeout    = 20 * time.Second
	shutdownTimeout = time.Second
)

func sandboxCmd(a *app) *cobra.Command {
	var addr, otp string

	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Serve an in-memory portal backend for local use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serveSandbox(cmd.Context(), addr, otp)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", a.cfg.SandboxAddr, "listen address")
	cmd.Flags().StringVar(&otp, "otp", sandbox.DefaultOTPCode, "one-time code accepted for OTP users")

	return cmd
}

func serveSandbox(ctx context.Context, addr, otp string) error {
	s := sandbox.New(sandbox.Options{OTPCode: otp})
	s.Seed()

	server := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.InfoContext(ctx, "sandbox started", "addr", addr, "password", sandbox.DefaultPassword)

		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("sandbox stopping")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		slog.ErrorContext(shutdownCtx, "server shutdown", "error", err)
	}

	return nil
}
