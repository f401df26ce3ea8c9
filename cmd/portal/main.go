package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/samandr77/healthportal/internal/notify"
	"github.com/samandr77/healthportal/pkg/config"
	"github.com/samandr77/healthportal/pkg/logger"
)

// annotation keys on commands that work with the saved session
const (
	annotationSession = "session"
	sessionRestore    = "restore" // restore the saved token first, persist it after success
	sessionCreate     = "create"  // persist the token after success only
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer cancel()

	cfg, err := config.New(".env")
	panicOnErr("load config", err)

	l := logger.New(os.Stderr, logger.ParseLevel(cfg.LogLevel))
	slog.SetDefault(l)

	a, err := newApp(cfg, l, os.Stdin, os.Stdout)
	panicOnErr("init", err)
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(os.Args[1:])
	root.SetErr(os.Stderr)

	cmd, err := root.ExecuteContextC(ctx)

	if cmd != nil && cmd.Runnable() {
		a.metrics.Operation(operationName(cmd), err)
	}

	a.pushMetrics(ctx)

	switch {
	case err == nil:
		return 0
	case cmd == nil || !cmd.SilenceErrors:
		// usage errors, already reported by cobra
		return 2
	default:
		fmt.Fprintln(a.out, notify.FromError(err))
		slog.DebugContext(ctx, "command failed", "command", operationName(cmd), "error", err)

		return 1
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:               "portal",
		Short:             "Healthcare portal client",
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// flags parsed fine, from here on errors are reported as notifications
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			ctx := logger.SetOperation(cmd.Context(), operationName(cmd))
			cmd.SetContext(ctx)

			if sessionMode(cmd) == sessionRestore {
				a.restoreSession(ctx)
			}

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if sessionMode(cmd) == "" {
				return nil
			}

			return a.saveSession()
		},
	}

	root.SetOut(a.out)

	root.AddCommand(
		loginCmd(a),
		logoutCmd(a),
		whoamiCmd(a),
		switchRoleCmd(a),
		menuCmd(a),
		registerCmd(a),
		forgotPasswordCmd(a),
		resetPasswordCmd(a),
		docsCmd(a),
		sandboxCmd(a),
	)

	return root
}

// sessionMode looks the annotation up on the command and its parents.
func sessionMode(cmd *cobra.Command) string {
	for c := cmd; c != nil; c = c.Parent() {
		if mode, ok := c.Annotations[annotationSession]; ok {
			return mode
		}
	}

	return ""
}

func withSession(mode string) map[string]string {
	return map[string]string{annotationSession: mode}
}

// operationName is the command path without the binary name, e.g. "docs list".
func operationName(cmd *cobra.Command) string {
	path := cmd.CommandPath()

	if i := strings.IndexByte(path, ' '); i >= 0 {
		return path[i+1:]
	}

	return path
}

const pushTimeout = 5 * time.Second

func (a *app) pushMetrics(ctx context.Context) {
	if a.cfg.Metrics.PushgatewayURL == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
	defer cancel()

	err := a.metrics.Push(ctx, a.cfg.Metrics.PushgatewayURL, a.cfg.Metrics.Job)
	if err != nil {
		slog.WarnContext(ctx, "push metrics", "error", err)
	}
}

func panicOnErr(msg string, err error) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}
