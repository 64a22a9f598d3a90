package scraper

import (
	"context"

	"behancedl/internal/downloader"
	"behancedl/pkg/project"
)

// ProjectSource loads a project page and returns its normalized data
type ProjectSource interface {
	Fetch(ctx context.Context, url string) (*project.Data, error)
}

// ImageDownloader saves one image to disk
type ImageDownloader interface {
	Download(ctx context.Context, job downloader.Job) downloader.Result
}

// StoreStats exposes what the image store has written so far
type StoreStats interface {
	GetSavedCount() int
	GetSavedBytes() int64
}

// Observer follows the pipeline's progress. Calls arrive from the pipeline's
// own goroutine, in order.
type Observer interface {
	ProjectStarted(url string, index, total int)
	ProjectResolved(data *project.Data)
	ImageDownloaded(result downloader.Result)
	ProjectFinished(url string, err error)
}

// NopObserver ignores every event
type NopObserver struct{}

func (NopObserver) ProjectStarted(string, int, int)   {}
func (NopObserver) ProjectResolved(*project.Data)     {}
func (NopObserver) ImageDownloaded(downloader.Result) {}
func (NopObserver) ProjectFinished(string, error)     {}
