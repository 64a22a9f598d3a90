// Package scraper runs the download pipeline.
//
// For every project URL, in order, the Scraper asks a ProjectSource for the
// project's metadata and image list, builds the output file names and hands
// each image to an ImageDownloader. It pauses for the configured delay after
// every image and after every project. Nothing runs concurrently: one page,
// one request at a time.
//
// Failure handling follows config.Policy.OnProjectError. "abort" stops the
// run at the first failing project; "skip" records it in the Summary and
// continues. A cancelled context always stops the run. Files written before a
// failure stay on disk.
//
// Usage:
//
//	extractor := project.NewExtractor(page, log)
//	store, _ := storage.NewManager(cfg.Output.Directory)
//	fetcher := downloader.NewFetcher(cfg.Download, store, log)
//
//	s := scraper.New(cfg, extractor, fetcher, scraper.WithObserver(bars))
//	summary, err := s.Run(ctx, projects)
package scraper
