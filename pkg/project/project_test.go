package project

import (
	"context"
	"strings"
	"testing"

	errs "behancedl/pkg/errors"
	"behancedl/pkg/logger"
	"behancedl/pkg/render/rendertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectURL = "https://www.behance.net/gallery/12345/My-Project"

const projectHTML = `<!doctype html>
<html><head>
<meta property="og:title" content="My Project">
<meta property="og:owners" content="Jane Doe">
<meta property="og:url" content="https://www.behance.net/gallery/12345/My-Project">
</head><body>
<img src="https://a5.behance.net/avatar/jane.png">
<div class="project-content-wrap">
  <img src="https://mir-s3-cdn-cf.behance.net/project_modules/1400/aaa.jpg">
  <img src="https://mir-s3-cdn-cf.behance.net/project_modules/max_1200/bbb.png">
  <img src="https://mir-s3-cdn-cf.behance.net/project_modules/source/ccc.gif">
  <img alt="no source">
</div>
</body></html>`

func TestHighestResolution(t *testing.T) {
	for _, variant := range ResolutionVariants() {
		in := "https://mir-s3-cdn-cf.behance.net/" + variant + "abc.jpg"
		out := HighestResolution(in)

		assert.Equal(t, "https://mir-s3-cdn-cf.behance.net/project_modules/source/abc.jpg", out, variant)
		assert.Equal(t, out, HighestResolution(out), "rewrite must be idempotent for %s", variant)
		for _, v := range ResolutionVariants() {
			assert.NotContains(t, out, v)
		}
	}
}

func TestHighestResolutionLeavesOtherURLsAlone(t *testing.T) {
	in := "https://mir-s3-cdn-cf.behance.net/project_modules/source/abc.jpg"
	assert.Equal(t, in, HighestResolution(in))

	other := "https://a5.behance.net/avatar/jane.png"
	assert.Equal(t, other, HighestResolution(other))
}

func TestResolveURL(t *testing.T) {
	base := "https://www.behance.net"

	assert.Equal(t, "https://www.behance.net/gallery/789/z", ResolveURL(base, "/gallery/789/z"))
	assert.Equal(t, "https://www.behance.net/gallery/456/y", ResolveURL(base, "https://www.behance.net/gallery/456/y"))
}

func TestIDFromCanonicalURL(t *testing.T) {
	id, err := IDFromCanonicalURL("https://www.behance.net/gallery/12345/My-Project")
	require.NoError(t, err)
	assert.Equal(t, "12345", id)

	_, err = IDFromCanonicalURL("https://www.behance.net/gallery")
	assert.Error(t, err)

	_, err = IDFromCanonicalURL("https://www.behance.net/gallery//x")
	assert.Error(t, err)
}

func TestParseRawData(t *testing.T) {
	raw, err := ParseRawData(projectURL, projectHTML)
	require.NoError(t, err)

	assert.Equal(t, "My Project", raw.Title)
	assert.Equal(t, "Jane Doe", raw.Owners)
	assert.Equal(t, projectURL, raw.URL)
	assert.Equal(t, "12345", raw.ID)
	assert.Equal(t, []string{
		"https://mir-s3-cdn-cf.behance.net/project_modules/1400/aaa.jpg",
		"https://mir-s3-cdn-cf.behance.net/project_modules/max_1200/bbb.png",
		"https://mir-s3-cdn-cf.behance.net/project_modules/source/ccc.gif",
	}, raw.Images)
}

func TestParseRawDataMissingMeta(t *testing.T) {
	for _, property := range []string{"og:title", "og:owners", "og:url"} {
		t.Run(property, func(t *testing.T) {
			html := removeLine(projectHTML, property)

			_, err := ParseRawData(projectURL, html)

			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.ErrorTypeExtractionMismatch), "got %v", err)
			assert.Contains(t, err.Error(), property)
		})
	}
}

func TestParseRawDataMalformedCanonical(t *testing.T) {
	html := strings.Replace(projectHTML,
		`content="https://www.behance.net/gallery/12345/My-Project"`,
		`content="https://www.behance.net"`, 1)

	_, err := ParseRawData(projectURL, html)

	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrorTypeExtractionMismatch))
}

func TestCorrect(t *testing.T) {
	raw := &RawData{
		Title:  "Brand Identity / 2023",
		Owners: "Jane Doe, Studio Ü",
		URL:    projectURL,
		ID:     "12345",
		Images: []string{"https://cdn/project_modules/disp/a.jpg"},
	}

	data := Correct(raw)

	assert.Equal(t, "12345", data.ID)
	assert.Equal(t, "brand-identity-2023", data.NormalizedTitle)
	assert.Equal(t, "jane-doe-studio-u", data.NormalizedOwners)
	assert.Equal(t, []string{"https://cdn/project_modules/source/a.jpg"}, data.Images)
	assert.Equal(t, "Brand Identity / 2023", data.Title)
}

func TestExtractorFetch(t *testing.T) {
	page := rendertest.NewPage(map[string]rendertest.Document{
		projectURL: {HTML: projectHTML, Markers: []string{ContentMarker}},
	})
	e := NewExtractor(page, logger.NewNopLogger())

	data, err := e.Fetch(context.Background(), projectURL)
	require.NoError(t, err)

	assert.Equal(t, "12345", data.ID)
	assert.Equal(t, "my-project", data.NormalizedTitle)
	assert.Equal(t, "jane-doe", data.NormalizedOwners)
	assert.Equal(t, []string{
		"https://mir-s3-cdn-cf.behance.net/project_modules/source/aaa.jpg",
		"https://mir-s3-cdn-cf.behance.net/project_modules/source/bbb.png",
		"https://mir-s3-cdn-cf.behance.net/project_modules/source/ccc.gif",
	}, data.Images)
	assert.Equal(t, []string{projectURL}, page.Navigations())
}

func TestExtractorFetchWithoutMarker(t *testing.T) {
	page := rendertest.NewPage(map[string]rendertest.Document{
		projectURL: {HTML: projectHTML},
	})
	e := NewExtractor(page, logger.NewNopLogger())

	_, err := e.Fetch(context.Background(), projectURL)

	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrorTypeNavigationTimeout))
}

func removeLine(s, needle string) string {
	var kept []string
	for _, line := range strings.Split(s, "\n") {
		if !strings.Contains(line, needle) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
