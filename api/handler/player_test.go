package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/battlestats/config"
	"github.com/use-agent/battlestats/extractor"
	"github.com/use-agent/battlestats/models"
)

const profileHTML = `<html><body>
	<img class="user-details__avatar" src="https://cdn.example/alice.png">
	<div class="leaderboard-stats-box"><span>7</span><span>Current Streak</span></div>
	<section><h2>Versus</h2>
		<div data-snow-surface="true"><span>1,480</span><span>Rating</span></div>
	</section>
</body></html>`

type fakeFetcher struct {
	calls []string
	snap  *extractor.Snapshot
	err   error
}

func (f *fakeFetcher) FetchProfile(_ context.Context, username string) (*extractor.Snapshot, error) {
	f.calls = append(f.calls, username)
	return f.snap, f.err
}

func newPlayerEngine(t *testing.T, f ProfileFetcher, opts PlayerOptions) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ex, err := extractor.New(extractor.DefaultSelectors())
	require.NoError(t, err)

	r := gin.New()
	h := Player(f, ex, opts)
	r.GET("/player", h)
	r.GET("/player/:username", h)
	return r
}

func doGet(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestPlayer_Success(t *testing.T) {
	snap, err := extractor.NewSnapshot(profileHTML, "https://cssbattle.dev/player/alice")
	require.NoError(t, err)
	f := &fakeFetcher{snap: snap}

	r := newPlayerEngine(t, f, PlayerOptions{Cache: config.CacheConfig{SMaxAge: time.Hour}})
	w := doGet(r, "/player/alice")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s-maxage=3600, stale-while-revalidate", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, []string{"alice"}, f.calls)

	var stats models.PlayerStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, "alice", stats.Username)
	assert.Equal(t, "https://cdn.example/alice.png", *stats.ProfilePicture)
	assert.Equal(t, 7, *stats.Streaks.Current)
	assert.Nil(t, stats.Streaks.Longest)
	assert.Equal(t, 1480, *stats.Versus.Rating)
}

func TestPlayer_QueryParameter(t *testing.T) {
	snap, err := extractor.NewSnapshot("<html></html>", "https://cssbattle.dev/player/bob")
	require.NoError(t, err)
	f := &fakeFetcher{snap: snap}

	w := doGet(newPlayerEngine(t, f, PlayerOptions{}), "/player?username=bob")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"bob"}, f.calls)
}

func TestPlayer_ValidationNeverFetches(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantMsg string
	}{
		{"missing", "/player", "Username parameter is required"},
		{"empty query", "/player?username=", "Username parameter is required"},
		{"dot", "/player/al.ice", "Invalid username format"},
		{"encoded space", "/player/al%20ice", "Invalid username format"},
		{"query chars", "/player?username=a%3Cb", "Invalid username format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFetcher{}
			w := doGet(newPlayerEngine(t, f, PlayerOptions{}), tt.path)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tt.wantMsg, body.Error)
			assert.Equal(t, models.ErrCodeInvalidInput, body.Code)
			assert.Empty(t, f.calls)
		})
	}
}

func TestPlayer_NotFound(t *testing.T) {
	f := &fakeFetcher{err: models.NewScrapeError(models.ErrCodeNotFound, "Player not found", nil)}
	w := doGet(newPlayerEngine(t, f, PlayerOptions{}), "/player/ghost")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Header().Get("Cache-Control"))
	body := decodeError(t, w)
	assert.Equal(t, "Player not found", body.Error)
	assert.Equal(t, models.ErrCodeNotFound, body.Code)
}

func TestPlayer_FetchFailureHidesDetails(t *testing.T) {
	cause := errors.New("context deadline exceeded")
	f := &fakeFetcher{err: models.NewScrapeError(models.ErrCodeStatsMissing, "stats container did not render", cause)}
	w := doGet(newPlayerEngine(t, f, PlayerOptions{}), "/player/alice")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "Internal server error", body.Error)
	assert.Equal(t, "Failed to scrape profile", body.Message)
	assert.Equal(t, models.ErrCodeStatsMissing, body.Code)
	assert.Empty(t, body.Details)
	assert.NotContains(t, w.Body.String(), "deadline")
}

func TestPlayer_ExposeErrorDetails(t *testing.T) {
	f := &fakeFetcher{err: errors.New("chrome exited unexpectedly")}
	w := doGet(newPlayerEngine(t, f, PlayerOptions{ExposeErrors: true}), "/player/alice")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, models.ErrCodeInternal, body.Code)
	assert.Contains(t, body.Details, "chrome exited unexpectedly")
}

func TestCacheControl(t *testing.T) {
	assert.Equal(t, "s-maxage=3600, stale-while-revalidate",
		CacheControl(config.CacheConfig{SMaxAge: time.Hour}))
	assert.Equal(t, "s-maxage=60, stale-while-revalidate=600",
		CacheControl(config.CacheConfig{SMaxAge: time.Minute, StaleWhileRevalidate: 10 * time.Minute}))
}

type fixedPool models.PoolStats

func (p fixedPool) Stats() models.PoolStats { return models.PoolStats(p) }

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		stats  models.PoolStats
		status string
	}{
		{"idle", models.PoolStats{MaxPages: 4, ActivePages: 0}, "healthy"},
		{"busy", models.PoolStats{MaxPages: 4, ActivePages: 4}, "degraded"},
		{"unbounded", models.PoolStats{}, "healthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", Health(fixedPool(tt.stats), time.Now()))
			w := doGet(r, "/health")

			require.Equal(t, http.StatusOK, w.Code)
			var body models.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, tt.stats, body.PoolStats)
			assert.Equal(t, Version, body.Version)
		})
	}
}
