package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"holidaycal/internal/config"
	appLog "holidaycal/internal/log"
	"holidaycal/internal/scheduler"
	"holidaycal/internal/store"
	"holidaycal/internal/web"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	Listen string
	Once   bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the refresh scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Listen, "listen", "", "HTTP listen address (overrides config if set)")
	cmd.Flags().BoolVar(&opts.Once, "once", false, "run one refresh cycle, print stats and exit")

	return cmd
}

// loadConfig loads and validates the config file and applies its log level.
func loadConfig(rootOpts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(rootOpts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !rootOpts.Verbose {
		appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))
	}
	return cfg, nil
}

// loadConfigIfPresent is loadConfig for the offline commands: a missing file
// means defaults and is not written.
func loadConfigIfPresent(rootOpts *RootOptions) (*config.Config, error) {
	if _, err := os.Stat(rootOpts.ConfigPath); errors.Is(err, fs.ErrNotExist) {
		appLog.Debug("config file not found, using defaults", "config_path", rootOpts.ConfigPath)
		return config.DefaultConfig(), nil
	}
	return loadConfig(rootOpts)
}

func runServe(ctx context.Context, rootOpts *RootOptions, opts *ServeOptions) error {
	cfg, err := loadConfig(rootOpts)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", rootOpts.ConfigPath)
		return err
	}
	if opts.Listen != "" {
		cfg.Listen = opts.Listen
	}

	appLog.Info("effective config",
		"listen", cfg.Listen,
		"timezone", cfg.Timezone,
		"refresh", cfg.RefreshCron,
		"holidays", cfg.Holidays.Enabled,
		"observances", cfg.Holidays.IncludeObservances,
		"years_back", cfg.Holidays.YearsBack,
		"years_ahead", cfg.Holidays.YearsAhead,
		"ics_count", len(cfg.ICS),
	)

	st := store.New()
	refresher := scheduler.NewRefresher(cfg, st, nil)

	if err := refresher.RefreshAll(ctx); err != nil {
		// Subscriptions may recover on the next scheduled refresh.
		appLog.Warn("initial refresh incomplete", "error", err.Error())
	}

	if opts.Once {
		stats := st.Stats()
		appLog.Info("refresh complete",
			"holidays", stats.Holidays,
			"subscriptions", stats.Subscriptions,
			"subscription_events", stats.SubscriptionEvents,
		)
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done, err := scheduler.Start(ctx, cfg.RefreshCron, cfg.Location(), refresher)
	if err != nil {
		return err
	}

	srv := web.NewServer(cfg, st, refresher)
	serveErr := srv.ListenAndServe(ctx)
	if serveErr != nil {
		appLog.Error("http server failed", serveErr)
		serveErr = fmt.Errorf("serve: %w", serveErr)
	}

	// Stop the scheduler and wait for an in-flight refresh.
	cancel()
	<-done
	appLog.Info("holidaycal exiting")
	return serveErr
}
