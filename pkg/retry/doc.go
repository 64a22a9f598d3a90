// Package retry re-runs operations that failed for transient reasons.
//
// Retries are opt-in: the default Config runs an operation once. Only
// failures classified as retryable by the errors package are repeated
// (network errors, 429 and 5xx responses); missing pages, bad metadata and
// cancelled contexts fail straight away.
//
// Basic usage:
//
//	cfg := retry.ForDownloads(appConfig.Download, log)
//	err := retry.Do(ctx, func(ctx context.Context) error {
//		return fetcher.Fetch(ctx, url, path)
//	}, cfg)
//
// Backoff strategies:
//   - ExponentialBackoff with jitter
//   - ConstantBackoff, mostly for tests
//   - StatusAwareBackoff, which waits longer after a 429
package retry
