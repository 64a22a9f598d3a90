package scraper

import (
	"context"
	"fmt"
	"time"

	"behancedl/internal/downloader"
	"behancedl/pkg/config"
	"behancedl/pkg/logger"
	"behancedl/pkg/naming"
	"behancedl/pkg/pacing"
	"behancedl/pkg/project"
)

// Failure records a project the run gave up on
type Failure struct {
	URL string
	Err error
}

// Summary describes a finished (or aborted) run. Files and FileBytes count
// distinct paths on disk; a project listed twice overwrites its own files,
// so Files can trail Images.
type Summary struct {
	Projects       int
	ProjectsDone   int
	ProjectsFailed int
	Images         int
	Bytes          int64
	Files          int
	FileBytes      int64
	Failures       []Failure
	Duration       time.Duration
}

// Metrics flattens the summary for structured logging
func (s *Summary) Metrics() map[string]interface{} {
	return map[string]interface{}{
		"projects":        s.Projects,
		"projects_done":   s.ProjectsDone,
		"projects_failed": s.ProjectsFailed,
		"images":          s.Images,
		"bytes":           s.Bytes,
		"files":           s.Files,
		"file_bytes":      s.FileBytes,
		"duration_ms":     s.Duration.Milliseconds(),
	}
}

// Scraper downloads every image of every project, one at a time
type Scraper struct {
	source     ProjectSource
	downloader ImageDownloader
	pacer      pacing.Pacer
	observer   Observer
	store      StoreStats
	config     *config.Config
	logger     logger.Logger
}

// Option customizes a Scraper
type Option func(*Scraper)

// WithPacer replaces the timer based pacer
func WithPacer(p pacing.Pacer) Option {
	return func(s *Scraper) { s.pacer = p }
}

// WithObserver registers a progress observer
func WithObserver(o Observer) Option {
	return func(s *Scraper) { s.observer = o }
}

// WithStore reports the store's write counters in the run summary
func WithStore(st StoreStats) Option {
	return func(s *Scraper) { s.store = st }
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(s *Scraper) { s.logger = l }
}

// New creates a new Scraper instance
func New(cfg *config.Config, source ProjectSource, dl ImageDownloader, opts ...Option) *Scraper {
	s := &Scraper{
		source:     source,
		downloader: dl,
		pacer:      pacing.NewDelay(),
		observer:   NopObserver{},
		config:     cfg,
		logger:     logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithField("component", "scraper")
	return s
}

// Run processes projects in order. Site-relative URLs are resolved against
// the configured base URL first. With the abort policy the first failing
// project ends the run; with skip it is recorded and the run moves on.
// The summary is valid even when an error is returned.
func (s *Scraper) Run(ctx context.Context, projects []string) (*Summary, error) {
	start := time.Now()
	summary := &Summary{Projects: len(projects)}
	defer func() {
		summary.Duration = time.Since(start)
		s.countFiles(summary)
	}()

	s.logger.InfoWithFields("Starting download run", map[string]interface{}{
		"projects":   len(projects),
		"output_dir": s.config.Output.Directory,
	})

	for i, raw := range projects {
		url := project.ResolveURL(s.config.Behance.BaseURL, raw)
		s.observer.ProjectStarted(url, i+1, len(projects))

		images, bytes, err := s.DownloadProject(ctx, url)
		summary.Images += images
		summary.Bytes += bytes
		s.observer.ProjectFinished(url, err)

		if err != nil {
			summary.ProjectsFailed++
			summary.Failures = append(summary.Failures, Failure{URL: url, Err: err})

			if ctx.Err() != nil || s.config.Policy.OnProjectError != config.PolicySkip {
				s.logger.WithError(err).ErrorWithFields("Project failed, aborting run", map[string]interface{}{
					"url": url,
				})
				return summary, fmt.Errorf("project %s: %w", url, err)
			}
			s.logger.WithError(err).WarnWithFields("Project failed, skipping", map[string]interface{}{
				"url": url,
			})
		} else {
			summary.ProjectsDone++
		}

		if err := s.pacer.Wait(ctx, s.config.Timing.BetweenProjectsDelay); err != nil {
			return summary, err
		}
	}

	return summary, nil
}

func (s *Scraper) countFiles(summary *Summary) {
	if s.store == nil {
		return
	}
	summary.Files = s.store.GetSavedCount()
	summary.FileBytes = s.store.GetSavedBytes()
	if summary.Files < summary.Images {
		s.logger.InfoWithFields("Some images overwrote files from earlier in the run", map[string]interface{}{
			"images": summary.Images,
			"files":  summary.Files,
		})
	}
}

// DownloadProject fetches one project and saves all of its images.
// It returns how many images and bytes were written before any failure.
func (s *Scraper) DownloadProject(ctx context.Context, url string) (int, int64, error) {
	data, err := s.source.Fetch(ctx, url)
	if err != nil {
		return 0, 0, err
	}
	s.observer.ProjectResolved(data)

	s.logger.InfoWithFields("Downloading project", map[string]interface{}{
		"id":     data.ID,
		"title":  data.Title,
		"images": len(data.Images),
	})

	targets := naming.Targets(s.config.Output.Directory, s.config.Output.FilePrefix, data.Naming(), data.Images)

	var (
		saved int
		bytes int64
	)
	for i, target := range targets {
		result := s.downloader.Download(ctx, downloader.Job{
			URL:       target.SourceURL,
			Path:      target.Path,
			ProjectID: data.ID,
			Index:     i + 1,
		})
		s.observer.ImageDownloaded(result)
		if result.Err != nil {
			return saved, bytes, result.Err
		}
		saved++
		bytes += result.Size

		if err := s.pacer.Wait(ctx, s.config.Timing.BetweenDownloadsDelay); err != nil {
			return saved, bytes, err
		}
	}

	return saved, bytes, nil
}
