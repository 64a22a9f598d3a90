package project

import (
	"net/url"
	"strings"
)

// SourceSegment is the path segment of the original, full resolution asset.
const SourceSegment = "project_modules/source/"

// resolutionVariants are the downsized asset paths, applied in this order.
var resolutionVariants = []string{
	"project_modules/2800/",
	"project_modules/2800_opt_1/",
	"project_modules/1400/",
	"project_modules/1400_opt_1/",
	"project_modules/disp/",
	"project_modules/max_1200/",
	"project_modules/fs/",
}

// ResolutionVariants returns a copy of the known downsized path segments.
func ResolutionVariants() []string {
	return append([]string(nil), resolutionVariants...)
}

// HighestResolution rewrites a gallery image URL to its source asset.
// Applying it twice gives the same result as once.
func HighestResolution(imageURL string) string {
	for _, variant := range resolutionVariants {
		imageURL = strings.Replace(imageURL, variant, SourceSegment, 1)
	}
	return imageURL
}

// ResolveURL makes a project href absolute against base. Collection pages
// link projects with site-relative paths such as /gallery/789/z.
func ResolveURL(base, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil || ref.IsAbs() {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}
