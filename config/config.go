package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	Selectors SelectorConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"

	// ExposeErrors adds the underlying cause to 500 responses.
	ExposeErrors bool // default: true only in development
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Env selects launch defaults: "development" runs a local browser as-is,
	// "production" adds sandbox-friendly flags for containers/serverless.
	Env string // default: "production"

	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 4

	// Proxy is the proxy URL for all browser traffic.
	Proxy string

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: true in production

	// Bin overrides the Chromium binary path.
	Bin string

	// Args are extra command-line flags, e.g. "--single-process".
	Args []string
}

// ScraperConfig controls how a profile page is fetched.
type ScraperConfig struct {
	// ProfileURLTemplate receives the username through a single %s.
	ProfileURLTemplate string // default: "https://cssbattle.dev/player/%s"

	// NavigationTimeout bounds page.Navigate plus the load event.
	NavigationTimeout time.Duration // default: 15s

	// ReadySelector must appear before the page counts as rendered.
	ReadySelector string // default: ".leaderboard-stats-box"

	// ReadyTimeout bounds the wait for ReadySelector.
	ReadyTimeout time.Duration // default: 10s

	// Stealth injects anti-bot-detection evasions before navigation.
	Stealth bool // default: true

	// BlockedResourceTypes lists resource types to block.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string

	// BlockAds drops requests to known ad and tracking hosts.
	BlockAds bool // default: true

	// ProbeNotFound issues a plain HTTP GET before touching the browser and
	// short-circuits a 404.
	ProbeNotFound bool // default: false

	// ProbeTimeout bounds the probe request.
	ProbeTimeout time.Duration // default: 5s

	// Proxy is used by the probe; it mirrors BrowserConfig.Proxy.
	Proxy string
}

// SelectorConfig names the structural markers of the profile page.
type SelectorConfig struct {
	StatsBox string // default: ".leaderboard-stats-box"
	Panel    string // default: `[data-snow-surface="true"]`
	Heading  string // default: "h2"
	Avatar   string // default: ".user-details__avatar"
	Span     string // default: "span"
}

// CacheConfig controls the Cache-Control header on successful responses.
type CacheConfig struct {
	// SMaxAge is the shared-cache freshness lifetime.
	SMaxAge time.Duration // default: 1h

	// StaleWhileRevalidate is the stale window. Zero emits the bare
	// directive (no explicit bound).
	StaleWhileRevalidate time.Duration // default: 0
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// productionArgs mirror the flag set serverless Chromium builds ship with.
var productionArgs = []string{
	"--disable-gpu",
	"--disable-setuid-sandbox",
	"--no-zygote",
	"--single-process",
	"--hide-scrollbars",
	"--mute-audio",
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	env := envOr("BATTLESTATS_ENV", "production")
	dev := env == "development"

	defaultArgs := productionArgs
	if dev {
		defaultArgs = nil
	}
	proxy := os.Getenv("BATTLESTATS_PROXY")

	return &Config{
		Server: ServerConfig{
			Host:         envOr("BATTLESTATS_HOST", "0.0.0.0"),
			Port:         envIntOr("BATTLESTATS_PORT", 8080),
			Mode:         envOr("BATTLESTATS_MODE", "release"),
			ExposeErrors: envBoolOr("BATTLESTATS_EXPOSE_ERRORS", dev),
		},
		Browser: BrowserConfig{
			Env:       env,
			Headless:  envBoolOr("BATTLESTATS_HEADLESS", true),
			MaxPages:  envIntOr("BATTLESTATS_MAX_PAGES", 4),
			Proxy:     proxy,
			NoSandbox: envBoolOr("BATTLESTATS_NO_SANDBOX", !dev),
			Bin:       os.Getenv("BATTLESTATS_BROWSER_BIN"),
			Args:      envSliceOr("BATTLESTATS_BROWSER_ARGS", defaultArgs),
		},
		Scraper: ScraperConfig{
			ProfileURLTemplate: envOr("BATTLESTATS_PROFILE_URL", "https://cssbattle.dev/player/%s"),
			NavigationTimeout:  envDurationOr("BATTLESTATS_NAV_TIMEOUT", 15*time.Second),
			ReadySelector:      envOr("BATTLESTATS_READY_SELECTOR", ".leaderboard-stats-box"),
			ReadyTimeout:       envDurationOr("BATTLESTATS_READY_TIMEOUT", 10*time.Second),
			Stealth:            envBoolOr("BATTLESTATS_STEALTH", true),
			BlockedResourceTypes: envSliceOr("BATTLESTATS_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
			BlockAds:      envBoolOr("BATTLESTATS_BLOCK_ADS", true),
			ProbeNotFound: envBoolOr("BATTLESTATS_PROBE_NOT_FOUND", false),
			ProbeTimeout:  envDurationOr("BATTLESTATS_PROBE_TIMEOUT", 5*time.Second),
			Proxy:         proxy,
		},
		Selectors: SelectorConfig{
			StatsBox: envOr("BATTLESTATS_SEL_STATS_BOX", ".leaderboard-stats-box"),
			Panel:    envOr("BATTLESTATS_SEL_PANEL", `[data-snow-surface="true"]`),
			Heading:  envOr("BATTLESTATS_SEL_HEADING", "h2"),
			Avatar:   envOr("BATTLESTATS_SEL_AVATAR", ".user-details__avatar"),
			Span:     envOr("BATTLESTATS_SEL_SPAN", "span"),
		},
		Cache: CacheConfig{
			SMaxAge:              envDurationOr("BATTLESTATS_CACHE_SMAXAGE", time.Hour),
			StaleWhileRevalidate: envDurationOr("BATTLESTATS_CACHE_SWR", 0),
		},
		Log: LogConfig{
			Level:  envOr("BATTLESTATS_LOG_LEVEL", "info"),
			Format: envOr("BATTLESTATS_LOG_FORMAT", "json"),
		},
	}
}

// IsDevelopment reports whether the browser runs with local defaults.
func (c BrowserConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
