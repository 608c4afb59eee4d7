package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/bugtracker/internal/app"
	"github.com/heartmarshall/bugtracker/internal/client/api"
	"github.com/heartmarshall/bugtracker/internal/client/collection"
	"github.com/heartmarshall/bugtracker/internal/client/tui"
	"github.com/heartmarshall/bugtracker/internal/faults"
)

func newTUICmd(flags *globalFlags) *cobra.Command {
	var (
		baseURL string
		logPath string
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal client against a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if baseURL != "" {
				cfg.Client.BaseURL = baseURL
			}

			// The screen owns stdout and stderr while the client runs.
			logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer logFile.Close()
			logger := app.NewLoggerTo(logFile, cfg.Log)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			reporter := faults.NewReporter(logger, faults.WithFallback(logFile))
			client := api.New(cfg.Client.BaseURL, logger, api.WithTimeout(cfg.Client.Timeout))
			bugs := collection.New(logger, client, reporter)

			return tui.Run(ctx, bugs, reporter, cfg.App.Diagnostic())
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "", "server base URL (overrides client.base_url)")
	cmd.Flags().StringVar(&logPath, "log-file", "bugtracker-tui.log", "file receiving client logs")
	return cmd
}
