package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"behancedl/pkg/config"
	errs "behancedl/pkg/errors"
	"behancedl/pkg/logger"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const (
	scrollOffsetJS = `() => window.pageYOffset`
	scrollByJS     = `(dy) => window.scrollBy(0, dy)`
)

// Browser owns the launched browser process and its CDP connection.
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	cfg      config.BrowserConfig
	logger   logger.Logger
}

// Launch starts a browser (or attaches to cfg.ControlURL when set).
func Launch(ctx context.Context, cfg config.BrowserConfig, log logger.Logger) (*Browser, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	b := &Browser{cfg: cfg, logger: log}

	controlURL := cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().Context(ctx).Headless(cfg.Headless)
		if cfg.Bin != "" {
			l = l.Bin(cfg.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
		b.launcher = l
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		b.cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	b.browser = browser

	log.InfoWithFields("Browser ready", map[string]interface{}{
		"headless":    cfg.Headless,
		"attached":    cfg.ControlURL != "",
		"block_image": cfg.BlockImages,
	})
	return b, nil
}

// NewPage opens a blank tab wrapped in a Controller.
func (b *Browser) NewPage() (*Controller, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	return &Controller{
		page:          page,
		markerTimeout: b.cfg.MarkerTimeout,
		logger:        b.logger.WithField("component", "render"),
	}, nil
}

// Close disconnects from the browser and kills it when we launched it.
func (b *Browser) Close() error {
	var err error
	if b.browser != nil {
		err = b.browser.Close()
	}
	b.cleanup()
	return err
}

func (b *Browser) cleanup() {
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}

// Controller drives a single rod page. It implements Page and ImageBlocker.
type Controller struct {
	page          *rod.Page
	markerTimeout time.Duration
	router        *rod.HijackRouter
	logger        logger.Logger
}

var (
	_ Page         = (*Controller)(nil)
	_ ImageBlocker = (*Controller)(nil)
)

func (c *Controller) Navigate(ctx context.Context, url string) error {
	c.logger.DebugWithFields("Navigating", map[string]interface{}{"url": url})

	p := c.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return &errs.Error{Type: errs.ErrorTypeNetwork, Message: "navigation failed", URL: url, Err: err}
	}
	return nil
}

func (c *Controller) WaitFor(ctx context.Context, selector string) error {
	p := c.page.Context(ctx)
	if c.markerTimeout > 0 {
		p = p.Timeout(c.markerTimeout)
		defer p.CancelTimeout()
	}

	if _, err := p.Element(selector); err != nil {
		url := ""
		if info, infoErr := c.page.Info(); infoErr == nil {
			url = info.URL
		}
		return waitError(url, selector, err)
	}
	return nil
}

// waitError maps a failed marker wait. Running out of time means the page
// never rendered the marker; anything else is a browser problem.
func waitError(url, selector string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errs.NavigationTimeout(url, selector, err)
	}
	return &errs.Error{Type: errs.ErrorTypeUnknown, Message: fmt.Sprintf("waiting for %q", selector), URL: url, Err: err}
}

func (c *Controller) HTML(ctx context.Context) (string, error) {
	html, err := c.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page html: %w", err)
	}
	return html, nil
}

func (c *Controller) ScrollBy(ctx context.Context, dy int) error {
	if _, err := c.page.Context(ctx).Eval(scrollByJS, dy); err != nil {
		return fmt.Errorf("failed to scroll: %w", err)
	}
	return nil
}

func (c *Controller) ScrollOffset(ctx context.Context) (int, error) {
	res, err := c.page.Context(ctx).Eval(scrollOffsetJS)
	if err != nil {
		return 0, fmt.Errorf("failed to read scroll offset: %w", err)
	}
	return res.Value.Int(), nil
}

// BlockImages aborts every image request the page makes until AllowImages.
func (c *Controller) BlockImages(ctx context.Context) error {
	if c.router != nil {
		return nil
	}

	router := c.page.Context(ctx).HijackRequests()
	err := router.Add("*", proto.NetworkResourceTypeImage, func(h *rod.Hijack) {
		h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
	})
	if err != nil {
		return fmt.Errorf("failed to install image blocker: %w", err)
	}
	go router.Run()

	c.router = router
	c.logger.Debug("Image loading disabled")
	return nil
}

// AllowImages removes the interception installed by BlockImages.
func (c *Controller) AllowImages(ctx context.Context) error {
	if c.router == nil {
		return nil
	}
	err := c.router.Stop()
	c.router = nil
	if err != nil {
		return fmt.Errorf("failed to remove image blocker: %w", err)
	}
	c.logger.Debug("Image loading enabled")
	return nil
}

// Close releases the tab.
func (c *Controller) Close() error {
	return c.page.Close()
}
