package convert

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Renderer captures raster screenshots of documents via a browsing engine.
type Renderer interface {
	// RenderHTML sets the markup as the page content and captures a
	// full-page PNG screenshot.
	RenderHTML(ctx context.Context, html string) ([]byte, error)
	// RenderFile opens a local file at a fixed viewport and captures a PNG
	// screenshot of its first page.
	RenderFile(ctx context.Context, path string, width, height int) ([]byte, error)
}

// RodRenderer implements Renderer on a headless Chrome controlled through
// go-rod. One browser per process; each render runs in a throwaway page.
type RodRenderer struct {
	browser *rod.Browser
	lnch    *launcher.Launcher
	logger  *slog.Logger
}

var _ Renderer = (*RodRenderer)(nil)

// NewRodRenderer connects to the Chrome instance at controlURL, or launches
// a local headless one when controlURL is empty.
func NewRodRenderer(controlURL string, logger *slog.Logger) (*RodRenderer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var lnch *launcher.Launcher
	wsURL := controlURL
	if wsURL == "" {
		lnch = launcher.New().Headless(true)
		u, err := lnch.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		wsURL = u
		logger.Info("renderer.launched_local_chrome", "url", wsURL)
	} else {
		logger.Info("renderer.connecting_remote_chrome", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	return &RodRenderer{browser: b, lnch: lnch, logger: logger}, nil
}

// Close shuts the browser down. Safe to call once at process exit.
func (r *RodRenderer) Close() error {
	err := r.browser.Close()
	if r.lnch != nil {
		r.lnch.Cleanup()
	}
	return err
}

func (r *RodRenderer) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("set page content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for page load: %w", err)
	}

	bin, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return bin, nil
}

func (r *RodRenderer) RenderFile(ctx context.Context, path string, width, height int) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + abs})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for page load: %w", err)
	}

	bin, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return bin, nil
}
