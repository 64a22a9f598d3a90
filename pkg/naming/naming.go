package naming

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

const (
	DefaultPrefix    = "behance_"
	DefaultExtension = "jpg"
)

var (
	nonSlugChars = regexp.MustCompile(`[^A-Za-z0-9]`)
	hyphenRuns   = regexp.MustCompile(`-{2,}`)
)

// Normalize turns free text into a slug of [a-z0-9-] with no repeated
// hyphens. Non-Latin scripts are transliterated first. The function is pure:
// equal inputs always give equal slugs, and Normalize(Normalize(x)) equals
// Normalize(x).
func Normalize(text string) string {
	s := unidecode.Unidecode(text)
	s = nonSlugChars.ReplaceAllString(s, "-")
	s = strings.ToLower(s)
	return hyphenRuns.ReplaceAllString(s, "-")
}

// SequenceNumber formats a 1-based image index, zero padded below 10.
func SequenceNumber(n int) string {
	return fmt.Sprintf("%02d", n)
}

// Extension returns the file extension of an image URL without the dot.
// Query strings and fragments are ignored; URLs without an extension fall
// back to DefaultExtension.
func Extension(imageURL string) string {
	p := imageURL
	if u, err := url.Parse(imageURL); err == nil && u.Path != "" {
		p = u.Path
	}

	ext := strings.TrimPrefix(path.Ext(p), ".")
	if ext == "" || strings.ContainsAny(ext, "/?#") {
		return DefaultExtension
	}
	return strings.ToLower(ext)
}

// Target is where one image ends up on disk.
type Target struct {
	SourceURL string
	Path      string
}

// Project carries the normalized pieces a file name is built from.
type Project struct {
	ID               string
	NormalizedOwners string
	NormalizedTitle  string
}

// FileName builds {prefix}{owners}_{id}-{title}_{NN}.{ext}.
func FileName(prefix string, p Project, index int, ext string) string {
	return fmt.Sprintf("%s%s_%s-%s_%s.%s",
		prefix, p.NormalizedOwners, p.ID, p.NormalizedTitle, SequenceNumber(index), ext)
}

// NewTarget builds the download target for the index-th (1-based) image.
func NewTarget(outputDir, prefix string, p Project, index int, imageURL string) Target {
	return Target{
		SourceURL: imageURL,
		Path:      filepath.Join(outputDir, FileName(prefix, p, index, Extension(imageURL))),
	}
}

// Targets builds targets for every image in order.
func Targets(outputDir, prefix string, p Project, images []string) []Target {
	targets := make([]Target, 0, len(images))
	for i, img := range images {
		targets = append(targets, NewTarget(outputDir, prefix, p, i+1, img))
	}
	return targets
}
