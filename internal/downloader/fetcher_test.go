package downloader

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"behancedl/pkg/config"
	errs "behancedl/pkg/errors"
	"behancedl/pkg/logger"
	"behancedl/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	saves int32
}

func (s *failingStore) Save(r io.Reader, path string) (int64, error) {
	atomic.AddInt32(&s.saves, 1)
	return 0, errors.New("disk full")
}

func newTestFetcher(t *testing.T, cfg config.DownloadConfig) (*Fetcher, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewManager(dir)
	require.NoError(t, err)
	return NewFetcher(cfg, store, logger.NewNopLogger()), dir
}

func testDownloadConfig() config.DownloadConfig {
	cfg := config.DefaultConfig().Download
	cfg.RetryDelay = time.Millisecond
	return cfg
}

func TestDownloadWritesFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png bytes"))
	}))
	defer server.Close()

	f, dir := newTestFetcher(t, testDownloadConfig())
	job := Job{URL: server.URL + "/project_modules/source/a.png", Path: filepath.Join(dir, "a.png"), ProjectID: "1", Index: 1}

	result := f.Download(context.Background(), job)
	require.NoError(t, result.Err)

	assert.Equal(t, int64(len("png bytes")), result.Size)
	assert.Equal(t, job, result.Job)
	content, err := os.ReadFile(job.Path)
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(content))
}

func TestDownloadNotFound(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	cfg := testDownloadConfig()
	cfg.RetryAttempts = 3
	f, dir := newTestFetcher(t, cfg)
	job := Job{URL: server.URL + "/missing.jpg", Path: filepath.Join(dir, "missing.jpg")}

	result := f.Download(context.Background(), job)

	require.Error(t, result.Err)
	var e *errs.Error
	require.True(t, errors.As(result.Err, &e))
	assert.Equal(t, errs.ErrorTypeDownloadFailure, e.Type)
	assert.Equal(t, http.StatusNotFound, e.Code)
	assert.Equal(t, job.URL, e.URL)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "404 must not be retried")
	assert.NoFileExists(t, job.Path)
}

func TestDownloadRetriesServerErrors(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	cfg := testDownloadConfig()
	cfg.RetryAttempts = 2
	f, dir := newTestFetcher(t, cfg)
	job := Job{URL: server.URL + "/a.jpg", Path: filepath.Join(dir, "a.jpg")}

	result := f.Download(context.Background(), job)

	require.NoError(t, result.Err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	assert.FileExists(t, job.Path)
}

func TestDownloadWithoutRetriesFailsFast(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	f, dir := newTestFetcher(t, testDownloadConfig())
	result := f.Download(context.Background(), Job{URL: server.URL + "/a.jpg", Path: filepath.Join(dir, "a.jpg")})

	require.Error(t, result.Err)
	assert.True(t, errs.Is(result.Err, errs.ErrorTypeDownloadFailure))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestDownloadTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	cfg := testDownloadConfig()
	cfg.Timeout = 50 * time.Millisecond
	f, dir := newTestFetcher(t, cfg)

	start := time.Now()
	result := f.Download(context.Background(), Job{URL: server.URL + "/slow.jpg", Path: filepath.Join(dir, "slow.jpg")})

	require.Error(t, result.Err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestDownloadCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))
	defer server.Close()

	f, dir := newTestFetcher(t, testDownloadConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := f.Download(ctx, Job{URL: server.URL + "/a.jpg", Path: filepath.Join(dir, "a.jpg")})

	require.Error(t, result.Err)
	assert.ErrorIs(t, result.Err, context.Canceled)
}

func TestDownloadStoreFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))
	defer server.Close()

	f := NewFetcher(testDownloadConfig(), &failingStore{}, logger.NewNopLogger())
	result := f.Download(context.Background(), Job{URL: server.URL + "/a.jpg", Path: "/nowhere/a.jpg"})

	require.Error(t, result.Err)
	assert.True(t, errs.Is(result.Err, errs.ErrorTypeDownloadFailure))
	assert.Contains(t, result.Err.Error(), "disk full")
}

func TestDownloadStoreFailureIsNotRetried(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("x"))
	}))
	defer server.Close()

	cfg := testDownloadConfig()
	cfg.RetryAttempts = 3
	store := &failingStore{}
	f := NewFetcher(cfg, store, logger.NewNopLogger())

	result := f.Download(context.Background(), Job{URL: server.URL + "/a.jpg", Path: "/nowhere/a.jpg"})

	require.Error(t, result.Err)
	assert.True(t, errs.Is(result.Err, errs.ErrorTypeDownloadFailure))
	assert.False(t, errs.IsRetryable(result.Err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&store.saves), "a failed write must not be repeated")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestDownloadBadSchemeIsNotRetried(t *testing.T) {
	cfg := testDownloadConfig()
	cfg.RetryAttempts = 3
	store := &failingStore{}
	f := NewFetcher(cfg, store, logger.NewNopLogger())

	result := f.Download(context.Background(), Job{URL: "ftp://example.invalid/a.jpg", Path: "/nowhere/a.jpg"})

	require.Error(t, result.Err)
	assert.NotContains(t, result.Err.Error(), "giving up after")
	assert.Equal(t, int32(0), atomic.LoadInt32(&store.saves))
}

func TestClassify(t *testing.T) {
	refused := &url.Error{Op: "Get", URL: "u", Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}}
	scheme := &url.Error{Op: "Get", URL: "u", Err: errors.New(`unsupported protocol scheme "ftp"`)}

	assert.True(t, errs.Is(classify("u", refused), errs.ErrorTypeNetwork))
	assert.True(t, errs.IsRetryable(classify("u", refused)))

	assert.True(t, errs.Is(classify("u", scheme), errs.ErrorTypeDownloadFailure))
	assert.False(t, errs.IsRetryable(classify("u", scheme)))
}
