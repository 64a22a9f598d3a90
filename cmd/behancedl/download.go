package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"behancedl/internal/downloader"
	"behancedl/pkg/logger"
	"behancedl/pkg/project"
	"behancedl/pkg/scraper"
	"behancedl/pkg/storage"
	"behancedl/pkg/ui"

	"github.com/spf13/cobra"
)

var (
	// Download command flags
	downloadInput    string
	downloadOutput   string
	projectDelay     time.Duration
	imageDelay       time.Duration
	downloadTimeout  time.Duration
	downloadRetries  int
	downloadCrawling crawlFlags
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download [urls...]",
	Short: "Download every image of the given projects and moodboards",
	Long: `Download every image of the given projects and moodboards at source resolution.

Moodboards are expanded first. Projects are then processed one at a time in
seed order. A failing project stops the run unless --on-error=skip is given;
images written before the failure are kept.`,
	Example: `  # Download a single project
  behancedl download https://www.behance.net/gallery/12345/My-Project

  # Download everything in a moodboard, waiting 2s between images
  behancedl download https://www.behance.net/collection/123/x --download-delay 2s

  # Read seeds from a file and keep going past broken projects
  behancedl download --input seeds.txt --on-error skip

  # URLs without a subcommand are downloaded too
  behancedl https://www.behance.net/gallery/12345/My-Project -o ./images`,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	for _, cmd := range []*cobra.Command{downloadCmd, rootCmd} {
		cmd.Flags().StringVarP(&downloadInput, "input", "i", "", "file with one seed URL per line (- for stdin)")
		cmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "output directory (default ./downloads)")
		cmd.Flags().DurationVar(&projectDelay, "project-delay", time.Second, "pause after each project")
		cmd.Flags().DurationVar(&imageDelay, "download-delay", time.Second, "pause after each image")
		cmd.Flags().DurationVar(&downloadTimeout, "download-timeout", 2*time.Minute, "time limit for a single image, 0 for none")
		cmd.Flags().IntVar(&downloadRetries, "retries", 0, "extra attempts for images that fail with a network error, 429 or 5xx")
		downloadCrawling.register(cmd)
	}
}

func runDownload(cmd *cobra.Command, args []string) error {
	seeds, err := collectSeeds(args, downloadInput)
	if err != nil {
		return err
	}

	flags := globalFlags(cmd)
	flags["seed-urls"] = seeds
	changed := cmd.Flags().Changed
	if changed("output") {
		flags["output"] = downloadOutput
	}
	if changed("project-delay") {
		flags["between-projects-delay"] = projectDelay
	}
	if changed("download-delay") {
		flags["between-downloads-delay"] = imageDelay
	}
	if changed("download-timeout") {
		flags["download-timeout"] = downloadTimeout
	}
	if changed("retries") {
		flags["retry-attempts"] = downloadRetries
	}
	downloadCrawling.collect(cmd, flags)

	cfg, log, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if len(cfg.Behance.SeedURLs) == 0 {
		return fmt.Errorf("no seed URLs given: pass project or moodboard URLs, --input, or behance.seed_urls in the config file")
	}

	ui.PrintInfo("Seeds", fmt.Sprintf("%d", len(cfg.Behance.SeedURLs)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.LogComponentStart("download", map[string]interface{}{
		"seeds":            len(cfg.Behance.SeedURLs),
		"output_dir":       cfg.Output.Directory,
		"project_delay":    cfg.Timing.BetweenProjectsDelay.String(),
		"download_delay":   cfg.Timing.BetweenDownloadsDelay.String(),
		"retry_attempts":   cfg.Download.RetryAttempts,
		"on_project_error": cfg.Policy.OnProjectError,
	})

	sess, err := openSession(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer sess.Close()

	ui.PrintHighlight("[EXPANDING SEEDS]")
	projects, err := sess.expander.Expand(ctx, cfg.Behance.SeedURLs)
	if err != nil {
		return err
	}
	ui.PrintInfo("Projects", fmt.Sprintf("%d", len(projects)))

	store, err := storage.NewManager(cfg.Output.Directory)
	if err != nil {
		return err
	}
	ui.PrintInfo("Saving to", store.GetOutputDir())
	fetcher := downloader.NewFetcher(cfg.Download, store, log)

	var observer scraper.Observer = scraper.NopObserver{}
	var bars *ui.ProgressObserver
	if !ui.IsQuietMode() && !verbose {
		bars = ui.NewProgressObserver(os.Stdout)
		observer = bars
	}

	s := scraper.New(cfg, project.NewExtractor(sess.page, log), fetcher,
		scraper.WithObserver(observer),
		scraper.WithStore(store),
		scraper.WithLogger(log),
	)

	ui.PrintHighlight("[DOWNLOADING]")
	summary, runErr := s.Run(ctx, projects)
	if bars != nil {
		bars.Wait()
	}

	logger.LogMetrics("download", summary.Metrics())
	reportSummary(summary, runErr)
	return runErr
}

func reportSummary(summary *scraper.Summary, runErr error) {
	notifier := ui.NewNotifier(notify)
	msg := fmt.Sprintf("%d images in %d files (%s) from %d/%d projects in %s",
		summary.Images,
		summary.Files,
		ui.FormatBytes(summary.FileBytes),
		summary.ProjectsDone,
		summary.Projects,
		ui.FormatDuration(summary.Duration),
	)

	for _, f := range summary.Failures {
		ui.PrintWarning("Failed "+f.URL, f.Err)
	}

	if runErr != nil {
		notifier.SendError("Download failed", msg)
		return
	}
	notifier.SendSuccess("Download complete", msg)
}
