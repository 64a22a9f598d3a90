package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"time"

	"behancedl/pkg/config"
	errs "behancedl/pkg/errors"
	"behancedl/pkg/logger"
	"behancedl/pkg/retry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

// Job is a single image to download
type Job struct {
	URL       string
	Path      string
	ProjectID string
	Index     int
}

// Result is the outcome of a Job
type Result struct {
	Job      Job
	Size     int64
	Duration time.Duration
	Err      error
}

// ImageStore persists a downloaded stream
type ImageStore interface {
	Save(r io.Reader, path string) (int64, error)
}

// Fetcher streams images from the CDN to disk
type Fetcher struct {
	client *resty.Client
	store  ImageStore
	retry  *retry.Config
	logger logger.Logger
}

// NewFetcher creates a Fetcher writing into store
func NewFetcher(cfg config.DownloadConfig, store ImageStore, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.GetLogger()
	}
	log = log.WithField("component", "fetcher")

	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	client.SetHeader("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
	client.SetTimeout(cfg.Timeout)

	return &Fetcher{
		client: client,
		store:  store,
		retry:  retry.ForDownloads(cfg, log),
		logger: log,
	}
}

// Download fetches job.URL into job.Path, retrying transient failures as
// configured. The returned Result always carries the job.
func (f *Fetcher) Download(ctx context.Context, job Job) Result {
	start := time.Now()

	f.logger.DebugWithFields("Downloading image", map[string]interface{}{
		"project_id": job.ProjectID,
		"index":      job.Index,
		"url":        job.URL,
	})

	size, err := retry.DoWithResult(ctx, func(ctx context.Context) (int64, error) {
		return f.fetch(ctx, job)
	}, f.retry)

	result := Result{Job: job, Size: size, Duration: time.Since(start), Err: err}
	logger.LogDownload(job.ProjectID, job.Index, job.Path, result.Size, result.Duration, err)
	return result
}

func (f *Fetcher) fetch(ctx context.Context, job Job) (int64, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(job.URL)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, classify(job.URL, err)
	}

	body := resp.RawBody()
	defer body.Close()

	if code := resp.StatusCode(); code < 200 || code > 299 {
		return 0, errs.DownloadFailure(job.URL, code, nil)
	}

	n, err := f.store.Save(body, job.Path)
	if err != nil {
		if ctx.Err() != nil {
			return n, ctx.Err()
		}
		return n, errs.DownloadFailure(job.URL, 0, fmt.Errorf("write %s: %w", job.Path, err))
	}
	return n, nil
}

// classify turns transport errors into typed download failures. Only
// failures of the connection itself count as network errors; the http
// client wraps everything in *url.Error, so that layer is looked through.
func classify(rawURL string, err error) error {
	cause := err
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		cause = urlErr.Err
	}

	var netErr net.Error
	if errors.As(cause, &netErr) {
		return &errs.Error{Type: errs.ErrorTypeNetwork, Message: "request failed", URL: rawURL, Err: err}
	}
	return errs.DownloadFailure(rawURL, 0, err)
}
