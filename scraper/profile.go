package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/use-agent/battlestats/extractor"
	"github.com/use-agent/battlestats/models"
)

// ProfileURL embeds username into the configured profile template.
// username must already be validated.
func (s *Scraper) ProfileURL(username string) string {
	return fmt.Sprintf(s.scraperCfg.ProfileURLTemplate, url.PathEscape(username))
}

// FetchProfile resolves a rendered snapshot of the player's profile page.
//
// Lifecycle:
//
//  1. Probe (optional)   – cheap HTTP GET; a 404 ends here without a session
//  2. Open session       – borrow a tab from the pool
//  3. DEFER: close       – runs on every exit path, exactly once
//  4. Navigate           – bounded by NavigationTimeout; 404 → PLAYER_NOT_FOUND
//  5. Wait ready         – ReadySelector within ReadyTimeout, else STATS_NOT_RENDERED
//  6. Snapshot           – rendered HTML + resolved location
//
// There is no retry: every failure is reported once to the caller.
func (s *Scraper) FetchProfile(ctx context.Context, username string) (*extractor.Snapshot, error) {
	target := s.ProfileURL(username)

	// ── 1. Probe ──────────────────────────────────────────────────────
	if s.prober != nil {
		status, err := s.prober.status(ctx, target)
		switch {
		case err != nil:
			slog.Debug("not-found probe failed, continuing with browser",
				"url", target, "error", err)
		case status == http.StatusNotFound:
			return nil, models.NewScrapeError(models.ErrCodeNotFound, "Player not found", nil)
		}
	}

	// ── 2. Open session ───────────────────────────────────────────────
	sess, err := s.open(ctx)
	if err != nil {
		var se *models.ScrapeError
		if errors.As(err, &se) {
			return nil, se
		}
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to open browser session", err)
	}

	// ── 3. Release on every path ──────────────────────────────────────
	defer func() {
		if closeErr := sess.Close(); closeErr != nil {
			slog.Warn("session cleanup failed", "url", target, "error", closeErr)
		}
	}()

	// ── 4. Navigate ───────────────────────────────────────────────────
	navCtx, navCancel := context.WithTimeout(ctx, s.scraperCfg.NavigationTimeout)
	status, err := sess.Navigate(navCtx, target)
	navCancel()
	if err != nil {
		return nil, categorizeError(err, "navigation to profile page failed")
	}
	if status == http.StatusNotFound {
		return nil, models.NewScrapeError(models.ErrCodeNotFound, "Player not found", nil)
	}

	// ── 5. Wait for the stats container ───────────────────────────────
	waitCtx, waitCancel := context.WithTimeout(ctx, s.scraperCfg.ReadyTimeout)
	err = sess.WaitElement(waitCtx, s.scraperCfg.ReadySelector)
	waitCancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, models.NewScrapeError(
				models.ErrCodeStatsMissing,
				"stats container did not render",
				err,
			)
		}
		return nil, categorizeError(err, "waiting for stats container failed")
	}

	// ── 6. Snapshot ───────────────────────────────────────────────────
	rawHTML, err := sess.HTML(ctx)
	if err != nil {
		return nil, categorizeError(err, "failed to read rendered page")
	}
	location, err := sess.Location(ctx)
	if err != nil || location == "" {
		location = target
	}

	snap, err := extractor.NewSnapshot(rawHTML, location)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInternal, "failed to parse rendered page", err)
	}
	return snap, nil
}

// categorizeError wraps raw errors into typed ScrapeErrors so the API layer
// can map them to status codes.
func categorizeError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}
