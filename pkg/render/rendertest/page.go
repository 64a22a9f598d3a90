// Package rendertest provides an in-memory render.Page for tests.
package rendertest

import (
	"context"
	"fmt"
	"sync"

	errs "behancedl/pkg/errors"
)

// Document is a canned page served by Page.
type Document struct {
	HTML string
	// Markers lists the selectors WaitFor treats as present.
	Markers []string
	// ScrollLimit caps the vertical offset. A negative value means the page
	// keeps growing forever.
	ScrollLimit int
}

// Page serves Documents by URL and models a scrollable window.
type Page struct {
	mu          sync.Mutex
	docs        map[string]Document
	current     string
	offset      int
	navigations []string
	scrolls     int
	blocked     bool
}

// NewPage creates a Page serving docs keyed by URL.
func NewPage(docs map[string]Document) *Page {
	if docs == nil {
		docs = map[string]Document{}
	}
	return &Page{docs: docs}
}

// Set registers or replaces the document served for url.
func (p *Page) Set(url string, doc Document) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.docs[url] = doc
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.navigations = append(p.navigations, url)
	if _, ok := p.docs[url]; !ok {
		return &errs.Error{Type: errs.ErrorTypeNetwork, Message: "no such document", URL: url}
	}
	p.current = url
	p.offset = 0
	return nil
}

func (p *Page) WaitFor(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, m := range p.docs[p.current].Markers {
		if m == selector {
			return nil
		}
	}
	return errs.NavigationTimeout(p.current, selector, context.DeadlineExceeded)
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	doc, ok := p.docs[p.current]
	if !ok {
		return "", fmt.Errorf("no document loaded")
	}
	return doc.HTML, nil
}

func (p *Page) ScrollBy(ctx context.Context, dy int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.scrolls++
	p.offset += dy
	if limit := p.docs[p.current].ScrollLimit; limit >= 0 && p.offset > limit {
		p.offset = limit
	}
	return nil
}

func (p *Page) ScrollOffset(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.offset, nil
}

func (p *Page) BlockImages(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blocked = true
	return nil
}

func (p *Page) AllowImages(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blocked = false
	return nil
}

// Navigations returns every URL passed to Navigate, in order.
func (p *Page) Navigations() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.navigations...)
}

// Scrolls returns how many ScrollBy calls were made.
func (p *Page) Scrolls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scrolls
}

// ImagesBlocked reports whether BlockImages is in effect.
func (p *Page) ImagesBlocked() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.blocked
}
