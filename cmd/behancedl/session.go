package main

import (
	"context"
	"fmt"
	"time"

	"behancedl/pkg/config"
	"behancedl/pkg/logger"
	"behancedl/pkg/moodboard"
	"behancedl/pkg/render"
	"behancedl/pkg/scroll"

	"github.com/spf13/cobra"
)

// crawlFlags are shared by every command that drives the browser
type crawlFlags struct {
	moodboardTimeout time.Duration
	onError          string
	headless         bool
	browserBin       string
	controlURL       string
}

func (f *crawlFlags) register(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&f.moodboardTimeout, "moodboard-timeout", 10*time.Second, "how long a moodboard must stay unchanged while scrolling")
	cmd.Flags().StringVar(&f.onError, "on-error", "", "what a failed project or moodboard does to the run: abort or skip")
	cmd.Flags().BoolVar(&f.headless, "headless", true, "run the browser without a window")
	cmd.Flags().StringVar(&f.browserBin, "browser-bin", "", "path to a Chromium binary (downloaded automatically if empty)")
	cmd.Flags().StringVar(&f.controlURL, "control-url", "", "DevTools websocket of an already running browser")
}

// collect adds the flags the user actually set to the config flag map
func (f *crawlFlags) collect(cmd *cobra.Command, flags map[string]interface{}) {
	changed := cmd.Flags().Changed
	if changed("moodboard-timeout") {
		flags["in-moodboard-timeout"] = f.moodboardTimeout
	}
	if changed("on-error") {
		flags["on-error"] = f.onError
	}
	if changed("headless") {
		flags["headless"] = f.headless
	}
	if changed("browser-bin") {
		flags["browser-bin"] = f.browserBin
	}
	if changed("control-url") {
		flags["control-url"] = f.controlURL
	}
}

// globalFlags adds the persistent flags to the config flag map
func globalFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	return flags
}

// runLogging is the logging setup for this run. Progress bars and console
// log lines do not mix, so without --verbose only errors are logged unless
// a config file, the environment or --log-level picked a level.
func runLogging(cfg *config.Config, verbose bool) config.LoggingConfig {
	logging := cfg.Logging
	if !verbose && !cfg.LogLevelSet() {
		logging.Level = "error"
	}
	return logging
}

// loadConfig builds the run configuration and the global logger
func loadConfig(flags map[string]interface{}) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, nil, err
	}
	logging := runLogging(cfg, verbose)
	if err := logger.Initialize(&logging); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("behancedl starting")
	return cfg, log, nil
}

// session is one browser tab plus the components that drive it
type session struct {
	browser  *render.Browser
	page     *render.Controller
	expander *moodboard.Expander
	logger   logger.Logger
}

func openSession(ctx context.Context, cfg *config.Config, log logger.Logger) (*session, error) {
	browser, err := render.Launch(ctx, cfg.Browser, log)
	if err != nil {
		return nil, err
	}

	page, err := browser.NewPage()
	if err != nil {
		browser.Close()
		return nil, err
	}

	if cfg.Browser.BlockImages {
		if err := page.BlockImages(ctx); err != nil {
			log.WithError(err).Warn("Could not disable image loading")
		}
	}

	return &session{
		browser:  browser,
		page:     page,
		expander: moodboard.NewExpander(page, scroll.New(log), cfg, log),
		logger:   log,
	}, nil
}

func (s *session) Close() {
	if err := s.page.AllowImages(context.Background()); err != nil {
		s.logger.WithError(err).Warn("Failed to re-enable image loading")
	}
	if err := s.page.Close(); err != nil {
		s.logger.WithError(err).Warn("Failed to close page")
	}
	if err := s.browser.Close(); err != nil {
		s.logger.WithError(err).Warn("Failed to close browser")
	}
}
