// Package moodboard turns seed URLs into a flat list of project URLs,
// expanding collection pages in place.
package moodboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"behancedl/pkg/config"
	"behancedl/pkg/logger"
	"behancedl/pkg/render"
	"behancedl/pkg/scroll"

	"github.com/PuerkitoBio/goquery"
)

const (
	// CollectionMarker is the container a collection page renders its covers into.
	CollectionMarker = ".Collection-wrapper-LHa"
	// CoverLinkSelector matches the project links inside a collection.
	CoverLinkSelector = ".js-project-cover-title-link"

	collectionPath = "behance.net/collection/"
)

// IsMoodboard reports whether url points at a collection page.
func IsMoodboard(url string) bool {
	return strings.Contains(url, collectionPath)
}

// Links returns the href of every project cover link in html, in document order.
func Links(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse collection page: %w", err)
	}

	var links []string
	doc.Find(CoverLinkSelector).Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			links = append(links, href)
		}
	})
	return links, nil
}

// Scroller loads a lazily populated page completely.
type Scroller interface {
	ScrollToEnd(ctx context.Context, page scroll.Scrollable, budget time.Duration) error
}

// Expander resolves seeds into project URLs.
type Expander struct {
	page     render.Page
	scroller Scroller
	timeout  time.Duration
	onError  string
	logger   logger.Logger
}

// NewExpander creates an Expander that drives page with the scroll budget and
// failure policy from cfg.
func NewExpander(page render.Page, scroller Scroller, cfg *config.Config, log logger.Logger) *Expander {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Expander{
		page:     page,
		scroller: scroller,
		timeout:  cfg.Timing.InMoodboardTimeout,
		onError:  cfg.Policy.OnMoodboardError,
		logger:   log.WithField("component", "expander"),
	}
}

// Expand returns the project list for seeds. Direct project URLs pass through
// unchanged; each moodboard is replaced by its project links at its position.
// Hrefs are returned as found on the page and may be site-relative.
func (e *Expander) Expand(ctx context.Context, seeds []string) ([]string, error) {
	projects := make([]string, 0, len(seeds))

	for _, seed := range seeds {
		if !IsMoodboard(seed) {
			projects = append(projects, seed)
			continue
		}

		links, err := e.expandOne(ctx, seed)
		if err != nil {
			if ctx.Err() != nil || e.onError != config.PolicySkip {
				return projects, fmt.Errorf("failed to expand moodboard %s: %w", seed, err)
			}
			e.logger.WithError(err).WarnWithFields("Skipping moodboard", map[string]interface{}{
				"url": seed,
			})
			continue
		}
		projects = append(projects, links...)
	}

	e.logger.InfoWithFields("Seeds expanded", map[string]interface{}{
		"seeds":    len(seeds),
		"projects": len(projects),
	})
	return projects, nil
}

func (e *Expander) expandOne(ctx context.Context, url string) ([]string, error) {
	e.logger.InfoWithFields("Expanding moodboard", map[string]interface{}{"url": url})

	if err := e.page.Navigate(ctx, url); err != nil {
		return nil, err
	}
	if err := e.page.WaitFor(ctx, CollectionMarker); err != nil {
		return nil, err
	}
	if err := e.scroller.ScrollToEnd(ctx, e.page, e.timeout); err != nil {
		return nil, fmt.Errorf("scroll: %w", err)
	}

	html, err := e.page.HTML(ctx)
	if err != nil {
		return nil, err
	}

	links, err := Links(html)
	if err != nil {
		return nil, err
	}

	e.logger.DebugWithFields("Moodboard expanded", map[string]interface{}{
		"url":      url,
		"projects": len(links),
	})
	return links, nil
}
