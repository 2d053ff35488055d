package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/battlestats/api/handler"
	"github.com/use-agent/battlestats/config"
	"github.com/use-agent/battlestats/extractor"
)

// Fetcher is what the router needs from the scraper.
type Fetcher interface {
	handler.ProfileFetcher
	handler.PoolReporter
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//
// The bare /player route exists so a missing username gets a 400 body
// instead of gin's 404.
func NewRouter(f Fetcher, ex *extractor.Extractor, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")
	v1.GET("/health", handler.Health(f, startTime))

	player := handler.Player(f, ex, handler.PlayerOptions{
		ExposeErrors: cfg.Server.ExposeErrors,
		Cache:        cfg.Cache,
	})
	v1.GET("/player", player)
	v1.GET("/player/:username", player)

	return r
}
