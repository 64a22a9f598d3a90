package render

import "context"

// Page is the subset of browser control the crawler relies on. It is not safe
// for concurrent use: callers drive one navigation at a time.
type Page interface {
	// Navigate loads url in the page.
	Navigate(ctx context.Context, url string) error
	// WaitFor blocks until an element matching selector exists. It returns a
	// navigation timeout error when the marker never shows up.
	WaitFor(ctx context.Context, selector string) error
	// HTML returns the serialized DOM of the current document.
	HTML(ctx context.Context) (string, error)
	// ScrollBy scrolls the window down by dy pixels.
	ScrollBy(ctx context.Context, dy int) error
	// ScrollOffset reports the current vertical scroll offset.
	ScrollOffset(ctx context.Context) (int, error)
}

// ImageBlocker toggles image loading for a page.
type ImageBlocker interface {
	BlockImages(ctx context.Context) error
	AllowImages(ctx context.Context) error
}
