package scraper

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/battlestats/models"
	"github.com/ysmood/gson"
)

// Session is one browser tab held exclusively by a single request. Close
// must be called exactly once on every exit path.
type Session interface {
	// Navigate loads target and returns the document's HTTP status
	// (0 when the browser does not report one).
	Navigate(ctx context.Context, target string) (int, error)

	// WaitElement blocks until selector matches or ctx ends.
	WaitElement(ctx context.Context, selector string) error

	// HTML returns the rendered DOM serialised as HTML.
	HTML(ctx context.Context) (string, error)

	// Location returns window.location.href.
	Location(ctx context.Context) (string, error)

	Close() error
}

// rodSession is a pooled rod page plus the per-request hooks installed on it.
type rodSession struct {
	s             *Scraper
	page          *rod.Page
	router        *rod.HijackRouter
	removeStealth func() error
	closed        bool
}

// openRodSession borrows a page from the pool and prepares it for a profile
// load. Hooks must be installed before navigation to take effect.
//
// Pooled pages outlive the request, so they are created on the browser's own
// context; ctx only bounds the individual page calls.
func (s *Scraper) openRodSession(ctx context.Context) (Session, error) {
	page, err := acquirePage(ctx, s.pagePool, func() (*rod.Page, error) {
		return s.browser.Page(proto.TargetCreateTarget{})
	})
	if err != nil {
		return nil, err
	}
	s.activePages.Add(1)

	rs := &rodSession{s: s, page: page}

	if s.scraperCfg.Stealth {
		remove, evalErr := page.EvalOnNewDocument(stealth.JS)
		if evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		} else {
			rs.removeStealth = remove
		}
	}

	// Search-engine Referer; some CDNs treat referer-less headless traffic
	// as a bot.
	if u, parseErr := url.Parse(s.scraperCfg.ProfileURLTemplate); parseErr == nil && u.Hostname() != "" {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(map[string]string{
				"Referer": "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname()),
			}),
		}.Call(page)
	}

	rs.router = setupHijack(page, s.scraperCfg.BlockedResourceTypes, s.scraperCfg.BlockAds)
	return rs, nil
}

func (rs *rodSession) Navigate(ctx context.Context, target string) (int, error) {
	p := rs.page.Context(ctx)
	if err := p.Navigate(target); err != nil {
		return 0, err
	}
	if err := p.WaitLoad(); err != nil {
		return 0, err
	}

	// Navigation Timing exposes the document status without a CDP network
	// listener (which conflicts with the hijack router's Fetch domain).
	res, err := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch (e) {}
		return 0;
	}`)
	if err != nil {
		slog.Debug("navigation status unavailable", "url", target, "error", err)
		return 0, nil
	}
	return res.Value.Int(), nil
}

// acquirePage takes a slot from pool, creating the page on first use. Unlike
// pool.Get it gives up when ctx ends while every tab is busy. A failed create
// returns its slot.
func acquirePage(ctx context.Context, pool rod.Pool[rod.Page], create func() (*rod.Page, error)) (*rod.Page, error) {
	var page *rod.Page
	select {
	case page = <-pool:
	case <-ctx.Done():
		return nil, categorizeError(ctx.Err(), "no browser page became available")
	}
	if page != nil {
		return page, nil
	}

	page, err := create()
	if err != nil {
		pool.Put(nil)
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to acquire page from pool",
			err,
		)
	}
	return page, nil
}

func (rs *rodSession) WaitElement(ctx context.Context, selector string) error {
	_, err := rs.page.Context(ctx).Element(selector)
	return err
}

func (rs *rodSession) HTML(ctx context.Context) (string, error) {
	return rs.page.Context(ctx).HTML()
}

func (rs *rodSession) Location(ctx context.Context) (string, error) {
	res, err := rs.page.Context(ctx).Eval(`() => window.location.href`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// Close resets the tab and returns it to the pool. It uses the original page
// reference, so cleanup still runs after the request context expired.
func (rs *rodSession) Close() error {
	if rs.closed {
		return nil
	}
	rs.closed = true
	defer rs.s.activePages.Add(-1)

	if rs.router != nil {
		_ = rs.router.Stop()
	}
	if rs.removeStealth != nil {
		_ = rs.removeStealth()
	}

	err := rs.page.Navigate("about:blank")
	rs.s.pagePool.Put(rs.page)
	return err
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
