package ui

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"behancedl/internal/downloader"
	"behancedl/pkg/project"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// ProgressObserver draws one bar per project while the pipeline runs.
// It satisfies scraper.Observer.
type ProgressObserver struct {
	p       *mpb.Progress
	current *projectBar

	images atomic.Int64
	bytes  atomic.Int64
	failed atomic.Int64
}

type projectBar struct {
	bar   *mpb.Bar
	name  string
	bytes atomic.Int64
	start time.Time
}

// NewProgressObserver renders bars to out
func NewProgressObserver(out io.Writer) *ProgressObserver {
	p := mpb.New(
		mpb.WithWidth(40),
		mpb.WithOutput(out),
		mpb.WithRefreshRate(120*time.Millisecond),
	)
	return &ProgressObserver{p: p}
}

func (o *ProgressObserver) ProjectStarted(url string, index, total int) {
	o.current = &projectBar{
		name:  fmt.Sprintf("[%d/%d]", index, total),
		start: time.Now(),
	}
}

func (o *ProgressObserver) ProjectResolved(data *project.Data) {
	pb := o.current
	if pb == nil {
		return
	}
	pb.name = fmt.Sprintf("%s %s", pb.name, truncate(data.NormalizedTitle, 28))

	pb.bar = o.p.New(
		int64(len(data.Images)),
		mpb.BarStyle().Rbound("]"),
		mpb.PrependDecorators(
			decor.Name(pb.name+"  ", decor.WCSyncSpaceR),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("%d/%d images", decor.WCSyncWidth),
			decor.Any(func(_ decor.Statistics) string {
				return " | " + FormatBytes(pb.bytes.Load())
			}),
			decor.Any(func(_ decor.Statistics) string {
				return " | " + FormatDuration(time.Since(pb.start))
			}),
		),
		mpb.BarRemoveOnComplete(),
	)
	if len(data.Images) == 0 {
		pb.bar.SetTotal(0, true)
	}
}

func (o *ProgressObserver) ImageDownloaded(result downloader.Result) {
	if result.Err != nil {
		return
	}
	o.images.Add(1)
	o.bytes.Add(result.Size)
	if pb := o.current; pb != nil && pb.bar != nil {
		pb.bytes.Add(result.Size)
		pb.bar.Increment()
	}
}

func (o *ProgressObserver) ProjectFinished(url string, err error) {
	pb := o.current
	o.current = nil
	if err != nil {
		o.failed.Add(1)
	}
	if pb == nil || pb.bar == nil {
		return
	}
	if err != nil {
		pb.bar.Abort(false)
		return
	}
	pb.bar.SetTotal(-1, true)
}

// Wait flushes the bars. Call it once the pipeline has returned.
func (o *ProgressObserver) Wait() {
	if pb := o.current; pb != nil && pb.bar != nil {
		pb.bar.Abort(false)
	}
	o.p.Wait()
}

// Totals returns images and bytes seen so far, and how many projects failed
func (o *ProgressObserver) Totals() (images, bytes, failed int64) {
	return o.images.Load(), o.bytes.Load(), o.failed.Load()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
