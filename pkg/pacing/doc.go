// Package pacing spaces out requests to the portfolio site.
//
// The download pipeline pauses after every image and after every project.
// Pauses go through a Pacer so that they honor context cancellation and so
// that tests can record them instead of sleeping:
//
//	p := pacing.NewDelay()
//	if err := p.Wait(ctx, cfg.Timing.BetweenDownloadsDelay); err != nil {
//	    return err // ctx was cancelled mid-pause
//	}
//
//	rec := pacing.NewRecorder()
//	// ... run the pipeline with rec ...
//	rec.Waits() // every requested pause, in order
package pacing
