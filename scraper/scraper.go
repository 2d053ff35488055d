package scraper

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/use-agent/battlestats/config"
	"github.com/use-agent/battlestats/models"
)

// Scraper owns the browser process and its page pool, and fetches profile
// pages through exclusively-held sessions. It is safe for concurrent use.
type Scraper struct {
	browser     *rod.Browser
	pagePool    rod.Pool[rod.Page]
	browserCfg  config.BrowserConfig
	scraperCfg  config.ScraperConfig
	prober      *prober
	activePages atomic.Int32

	// open acquires a session; tests swap it for a fake.
	open func(ctx context.Context) (Session, error)
}

// NewScraper launches a headless browser and initialises the reusable page pool.
func NewScraper(browserCfg config.BrowserConfig, scraperCfg config.ScraperConfig) (*Scraper, error) {
	l := launcher.New().
		Headless(browserCfg.Headless).
		NoSandbox(browserCfg.NoSandbox)

	if browserCfg.Bin != "" {
		l = l.Bin(browserCfg.Bin)
	}
	if browserCfg.Proxy != "" {
		l = l.Proxy(browserCfg.Proxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	// ── Environment-specific flags ───────────────────────────────────
	for _, arg := range browserCfg.Args {
		name, values := parseArg(arg)
		if name == "" {
			continue
		}
		l.Set(flags.Flag(name), values...)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched",
		"controlURL", controlURL,
		"env", browserCfg.Env,
		"args", len(browserCfg.Args),
	)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	pool := rod.NewPagePool(browserCfg.MaxPages)
	slog.Info("page pool created", "maxPages", browserCfg.MaxPages)

	s := newScraper(browserCfg, scraperCfg, nil)
	s.browser = browser
	s.pagePool = pool
	s.open = s.openRodSession
	return s, nil
}

// newScraper wires everything except the browser.
func newScraper(browserCfg config.BrowserConfig, scraperCfg config.ScraperConfig, open func(ctx context.Context) (Session, error)) *Scraper {
	s := &Scraper{
		browserCfg: browserCfg,
		scraperCfg: scraperCfg,
		open:       open,
	}
	if scraperCfg.ProbeNotFound {
		s.prober = newProber(scraperCfg.Proxy, scraperCfg.ProbeTimeout)
	}
	return s
}

// Stats returns a snapshot of the pool's current state.
func (s *Scraper) Stats() models.PoolStats {
	return models.PoolStats{
		MaxPages:    s.browserCfg.MaxPages,
		ActivePages: int(s.activePages.Load()),
	}
}

// Close drains the page pool and kills the browser process.
// Call this on shutdown to prevent zombie Chrome processes.
func (s *Scraper) Close() {
	if s.browser == nil {
		return
	}
	slog.Info("scraper shutting down: draining page pool")
	s.pagePool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	slog.Info("scraper shutting down: closing browser")
	if err := s.browser.Close(); err != nil {
		slog.Warn("browser close failed", "error", err)
	}
	slog.Info("scraper shutdown complete")
}

// parseArg splits "--name=a" into ("name", ["a"]) and "--name" into
// ("name", nil).
func parseArg(arg string) (string, []string) {
	arg = strings.TrimLeft(strings.TrimSpace(arg), "-")
	if arg == "" {
		return "", nil
	}
	name, value, ok := strings.Cut(arg, "=")
	if !ok {
		return name, nil
	}
	return name, []string{value}
}
