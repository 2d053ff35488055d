package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/battlestats/config"
	"github.com/use-agent/battlestats/extractor"
	"github.com/use-agent/battlestats/models"
)

// ProfileFetcher resolves a rendered profile page for a validated username.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, username string) (*extractor.Snapshot, error)
}

// PlayerOptions tune the response of the player endpoint.
type PlayerOptions struct {
	// ExposeErrors adds the wrapped cause to 500 bodies.
	ExposeErrors bool

	Cache config.CacheConfig
}

// Player returns a handler for GET /api/v1/player/:username.
//
// Flow:
//  1. Read username (path, then ?username=) and validate it.
//  2. FetchProfile → rendered snapshot, or NotFound / fetch failure.
//  3. Extract → PlayerStats (never fails).
//  4. Cache-Control + 200.
func Player(f ProfileFetcher, ex *extractor.Extractor, opts PlayerOptions) gin.HandlerFunc {
	cacheControl := CacheControl(opts.Cache)

	return func(c *gin.Context) {
		start := time.Now()

		// ── 1. Validate ─────────────────────────────────────────────
		username := c.Param("username")
		if username == "" {
			username = c.Query("username")
		}
		if err := models.ValidateUsername(username); err != nil {
			respondError(c, err, opts.ExposeErrors)
			return
		}

		// ── 2. Fetch ────────────────────────────────────────────────
		snap, err := f.FetchProfile(c.Request.Context(), username)
		if err != nil {
			slogFetchError(username, err, time.Since(start))
			respondError(c, err, opts.ExposeErrors)
			return
		}

		// ── 3. Extract ──────────────────────────────────────────────
		stats := ex.Extract(snap)
		slog.Info("player stats extracted",
			"username", stats.Username,
			"duration_ms", time.Since(start).Milliseconds(),
		)

		// ── 4. Respond ──────────────────────────────────────────────
		c.Header("Cache-Control", cacheControl)
		c.JSON(http.StatusOK, stats)
	}
}

// CacheControl renders the shared-cache policy for successful responses.
func CacheControl(cfg config.CacheConfig) string {
	swr := "stale-while-revalidate"
	if cfg.StaleWhileRevalidate > 0 {
		swr = fmt.Sprintf("%s=%d", swr, int(cfg.StaleWhileRevalidate.Seconds()))
	}
	return fmt.Sprintf("s-maxage=%d, %s", int(cfg.SMaxAge.Seconds()), swr)
}

func slogFetchError(username string, err error, elapsed time.Duration) {
	var se *models.ScrapeError
	if errors.As(err, &se) && se.Code == models.ErrCodeNotFound {
		slog.Info("player not found", "username", username)
		return
	}
	slog.Error("player fetch failed",
		"username", username,
		"duration_ms", elapsed.Milliseconds(),
		"error", err,
	)
}

// respondError maps an error to its status code and writes the JSON body.
// Internal details only leave the process when exposeDetails is set.
func respondError(c *gin.Context, err error, exposeDetails bool) {
	var se *models.ScrapeError
	if !errors.As(err, &se) {
		se = models.NewScrapeError(models.ErrCodeInternal, "Failed to scrape profile", err)
	}

	status := mapErrorToStatus(se)
	body := models.ErrorResponse{Code: se.Code}

	switch status {
	case http.StatusBadRequest, http.StatusNotFound:
		body.Error = se.Message
	default:
		body.Error = "Internal server error"
		body.Message = "Failed to scrape profile"
		if exposeDetails {
			body.Details = se.Error()
		}
	}

	c.JSON(status, body)
}

// mapErrorToStatus translates error codes to HTTP status codes. Every fetch
// failure, including a stats container that never rendered, is a 500.
func mapErrorToStatus(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeNotFound:
		return http.StatusNotFound // 404
	default:
		return http.StatusInternalServerError // 500
	}
}
