// Package logger provides a structured logging interface for the Behance downloader.
//
// It wraps the zerolog library and exposes:
//   - Leveled logging (Debug, Info, Warn, Error)
//   - Structured fields via WithField/WithFields/WithError
//   - Colored console output on stderr, optional append-only file output
//   - A global logger for the CLI, plus NewNopLogger and TestLogger for tests
//
// Components receive a Logger through their constructors; nothing below the
// CLI reaches for the global instance on its own.
//
// Usage:
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	log := logger.GetLogger().WithField("component", "moodboard")
//	log.InfoWithFields("Moodboard expanded", map[string]interface{}{
//	    "url":      url,
//	    "projects": len(links),
//	})
package logger
