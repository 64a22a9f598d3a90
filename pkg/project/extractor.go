package project

import (
	"context"
	"fmt"
	"strings"

	errs "behancedl/pkg/errors"
	"behancedl/pkg/logger"
	"behancedl/pkg/naming"
	"behancedl/pkg/render"

	"github.com/PuerkitoBio/goquery"
)

const (
	// ContentMarker appears once a project page has rendered its modules.
	ContentMarker = ".project-content-wrap"

	imageFilter = "project_modules"
	idSegment   = 4
)

// RawData is what a project page yields before normalization.
type RawData struct {
	Title  string
	Owners string
	URL    string
	ID     string
	Images []string
}

// Data is a project ready for download.
type Data struct {
	ID               string
	URL              string
	Title            string
	Owners           string
	NormalizedTitle  string
	NormalizedOwners string
	Images           []string
}

// Naming returns the pieces file names are built from.
func (d *Data) Naming() naming.Project {
	return naming.Project{
		ID:               d.ID,
		NormalizedOwners: d.NormalizedOwners,
		NormalizedTitle:  d.NormalizedTitle,
	}
}

// ParseRawData reads project metadata out of a rendered project page.
// pageURL is only used to annotate errors.
func ParseRawData(pageURL, html string) (*RawData, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &errs.Error{Type: errs.ErrorTypeExtractionMismatch, Message: "unparseable document", URL: pageURL, Err: err}
	}

	meta := func(property string) (string, error) {
		sel := doc.Find(fmt.Sprintf(`meta[property="%s"]`, property)).First()
		content, ok := sel.Attr("content")
		if !ok {
			return "", errs.ExtractionMismatch(pageURL, fmt.Sprintf("missing meta property %s", property))
		}
		return content, nil
	}

	raw := &RawData{}
	if raw.Title, err = meta("og:title"); err != nil {
		return nil, err
	}
	if raw.Owners, err = meta("og:owners"); err != nil {
		return nil, err
	}
	if raw.URL, err = meta("og:url"); err != nil {
		return nil, err
	}

	raw.ID, err = IDFromCanonicalURL(raw.URL)
	if err != nil {
		return nil, errs.ExtractionMismatch(pageURL, err.Error())
	}

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if ok && strings.Contains(src, imageFilter) {
			raw.Images = append(raw.Images, src)
		}
	})

	return raw, nil
}

// IDFromCanonicalURL returns the fifth slash-separated segment of a
// canonical project URL, e.g. 12345 in https://www.behance.net/gallery/12345/x.
func IDFromCanonicalURL(canonical string) (string, error) {
	parts := strings.Split(canonical, "/")
	if len(parts) <= idSegment || parts[idSegment] == "" {
		return "", fmt.Errorf("canonical url %q has no project id", canonical)
	}
	return parts[idSegment], nil
}

// Correct normalizes names and upgrades every image to its source asset.
func Correct(raw *RawData) *Data {
	images := make([]string, 0, len(raw.Images))
	for _, img := range raw.Images {
		images = append(images, HighestResolution(img))
	}

	return &Data{
		ID:               raw.ID,
		URL:              raw.URL,
		Title:            raw.Title,
		Owners:           raw.Owners,
		NormalizedTitle:  naming.Normalize(raw.Title),
		NormalizedOwners: naming.Normalize(raw.Owners),
		Images:           images,
	}
}

// Extractor loads project pages and turns them into Data.
type Extractor struct {
	page   render.Page
	logger logger.Logger
}

// NewExtractor creates an Extractor driving page
func NewExtractor(page render.Page, log logger.Logger) *Extractor {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Extractor{page: page, logger: log.WithField("component", "extractor")}
}

// Fetch navigates to url, waits for the project content and extracts it.
func (e *Extractor) Fetch(ctx context.Context, url string) (*Data, error) {
	if err := e.page.Navigate(ctx, url); err != nil {
		return nil, err
	}
	if err := e.page.WaitFor(ctx, ContentMarker); err != nil {
		return nil, err
	}

	html, err := e.page.HTML(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := ParseRawData(url, html)
	if err != nil {
		return nil, err
	}

	data := Correct(raw)
	e.logger.DebugWithFields("Project extracted", map[string]interface{}{
		"url":    url,
		"id":     data.ID,
		"title":  data.Title,
		"images": len(data.Images),
	})
	return data, nil
}
