package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the complete runtime configuration of folio.
type Config struct {
	Router  RouterConfig
	Search  SearchConfig
	Routes  RoutesConfig
	Content ContentConfig
	State   StateConfig
	Log     LogConfig
}

// RouterConfig configures the reverse proxy.
type RouterConfig struct {
	// Addr is the listen address.
	Addr string

	// FrontendURL is the base URL of the rendering frontend.
	FrontendURL string

	// AdminPrefix is the path prefix forwarded verbatim to the frontend.
	AdminPrefix string

	// SearchPrefix is the path prefix proxied to the frontend's search page.
	SearchPrefix string

	// NotFoundPath is the frontend page served for unknown routes.
	NotFoundPath string

	// UpstreamTimeout bounds every proxied request.
	UpstreamTimeout time.Duration
}

// SearchConfig configures the search API and its index jobs.
type SearchConfig struct {
	// Addr is the listen address of the search API.
	Addr string

	// IncrementalInterval is the period of the incremental update job.
	IncrementalInterval time.Duration

	// FullRebuildInterval is the period of the self-healing full rebuild job.
	FullRebuildInterval time.Duration
}

// RoutesConfig configures the route cache.
type RoutesConfig struct {
	// RefreshInterval is the period of the route cache refresh job.
	RefreshInterval time.Duration
}

// ContentConfig configures the content store client.
type ContentConfig struct {
	// URL is the base URL of the content store.
	URL string

	// Timeout bounds each content store request.
	Timeout time.Duration

	// RequestsPerSecond limits polling. Zero disables limiting.
	RequestsPerSecond float64

	// Burst is the limiter's bucket size.
	Burst int
}

// StateConfig configures where scheduler state is kept.
type StateConfig struct {
	// Dir is the directory of the SQLite state database.
	// Empty keeps scheduler state in memory.
	Dir string
}

// LogConfig configures logging.
type LogConfig struct {
	// Verbose enables debug output.
	Verbose bool

	// Format is "text" or "json".
	Format string
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Router: RouterConfig{
			Addr:            ":8080",
			FrontendURL:     "http://localhost:3000",
			AdminPrefix:     "/admin",
			SearchPrefix:    "/search",
			NotFoundPath:    "/not-found",
			UpstreamTimeout: 10 * time.Second,
		},
		Search: SearchConfig{
			Addr:                ":8081",
			IncrementalInterval: time.Minute,
			FullRebuildInterval: time.Hour,
		},
		Routes: RoutesConfig{
			RefreshInterval: 5 * time.Minute,
		},
		Content: ContentConfig{
			URL:     "http://localhost:3001",
			Timeout: 30 * time.Second,
			Burst:   1,
		},
		Log: LogConfig{
			Format: "text",
		},
	}
}

// SchedulerConfig derives the scheduler configuration from the job intervals.
func (c Config) SchedulerConfig() SchedulerConfig {
	cfg := DefaultSchedulerConfig()
	cfg.TaskConfigs[TaskIDSearchIncremental] = TaskConfig{
		Enabled:  c.Search.IncrementalInterval > 0,
		Interval: c.Search.IncrementalInterval,
	}
	cfg.TaskConfigs[TaskIDSearchFullRebuild] = TaskConfig{
		Enabled:  c.Search.FullRebuildInterval > 0,
		Interval: c.Search.FullRebuildInterval,
	}
	cfg.TaskConfigs[TaskIDRouteRefresh] = TaskConfig{
		Enabled:  c.Routes.RefreshInterval > 0,
		Interval: c.Routes.RefreshInterval,
	}
	return cfg
}

// Validate reports a setting that cannot work.
// Errors wrap ErrInvalidInput.
func (c Config) Validate() error {
	for name, raw := range map[string]string{
		"router.frontend_url": c.Router.FrontendURL,
		"content.url":         c.Content.URL,
	} {
		if err := validateBaseURL(raw); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidInput, name, err)
		}
	}

	for name, p := range map[string]string{
		"router.admin_prefix":   c.Router.AdminPrefix,
		"router.search_prefix":  c.Router.SearchPrefix,
		"router.not_found_path": c.Router.NotFoundPath,
	} {
		if !strings.HasPrefix(p, "/") || p == "/" {
			return fmt.Errorf("%w: %s must start with / and name a path, got %q", ErrInvalidInput, name, p)
		}
	}

	if c.Router.UpstreamTimeout <= 0 {
		return fmt.Errorf("%w: router.upstream_timeout must be positive", ErrInvalidInput)
	}
	if c.Content.Timeout <= 0 {
		return fmt.Errorf("%w: content.timeout must be positive", ErrInvalidInput)
	}
	if c.Content.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: content.requests_per_second must not be negative", ErrInvalidInput)
	}
	if c.Content.Burst < 1 {
		return fmt.Errorf("%w: content.burst must be at least 1", ErrInvalidInput)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalidInput, c.Log.Format)
	}
	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}
