package services

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyRouterAddr         = "router.addr"
	KeyRouterFrontendURL  = "router.frontend_url"
	KeyRouterAdminPrefix  = "router.admin_prefix"
	KeyRouterSearchPrefix = "router.search_prefix"
	KeyRouterNotFoundPath = "router.not_found_path"
	KeyRouterTimeout      = "router.upstream_timeout"
	KeySearchAddr         = "search.addr"
	KeySearchIncremental  = "search.incremental_interval"
	KeySearchFullRebuild  = "search.full_rebuild_interval"
	KeyRoutesRefresh      = "routes.refresh_interval"
	KeyContentURL         = "content.url"
	KeyContentTimeout     = "content.timeout"
	KeyContentRate        = "content.requests_per_second"
	KeyContentBurst       = "content.burst"
	KeyStateDir           = "state.dir"
	KeyLogVerbose         = "log.verbose"
	KeyLogFormat          = "log.format"
)

// Environment variables overriding the config file.
const (
	EnvFrontendURL = "FOLIO_FRONTEND_URL"
	EnvContentURL  = "FOLIO_CONTENT_URL"
	EnvStateDir    = "FOLIO_STATE_DIR"
)

type valueKind int

const (
	kindString valueKind = iota
	kindDuration
	kindFloat
	kindInt
	kindBool
)

// settingKeys lists every key in display order with how its value is parsed.
var settingKeys = []struct {
	key  string
	kind valueKind
}{
	{KeyRouterAddr, kindString},
	{KeyRouterFrontendURL, kindString},
	{KeyRouterAdminPrefix, kindString},
	{KeyRouterSearchPrefix, kindString},
	{KeyRouterNotFoundPath, kindString},
	{KeyRouterTimeout, kindDuration},
	{KeySearchAddr, kindString},
	{KeySearchIncremental, kindDuration},
	{KeySearchFullRebuild, kindDuration},
	{KeyRoutesRefresh, kindDuration},
	{KeyContentURL, kindString},
	{KeyContentTimeout, kindDuration},
	{KeyContentRate, kindFloat},
	{KeyContentBurst, kindInt},
	{KeyStateDir, kindString},
	{KeyLogVerbose, kindBool},
	{KeyLogFormat, kindString},
}

// SettingsService resolves the runtime configuration from a config store,
// the environment and built-in defaults.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// Get returns the effective configuration. Values the store cannot convert
// fall back to their defaults; the merged result must pass validation.
func (s *SettingsService) Get() (domain.Config, error) {
	defaults := domain.DefaultConfig()

	cfg := domain.Config{
		Router: domain.RouterConfig{
			Addr:            s.getString(KeyRouterAddr, defaults.Router.Addr),
			FrontendURL:     s.getString(KeyRouterFrontendURL, defaults.Router.FrontendURL),
			AdminPrefix:     s.getString(KeyRouterAdminPrefix, defaults.Router.AdminPrefix),
			SearchPrefix:    s.getString(KeyRouterSearchPrefix, defaults.Router.SearchPrefix),
			NotFoundPath:    s.getString(KeyRouterNotFoundPath, defaults.Router.NotFoundPath),
			UpstreamTimeout: s.getDuration(KeyRouterTimeout, defaults.Router.UpstreamTimeout),
		},
		Search: domain.SearchConfig{
			Addr:                s.getString(KeySearchAddr, defaults.Search.Addr),
			IncrementalInterval: s.getDuration(KeySearchIncremental, defaults.Search.IncrementalInterval),
			FullRebuildInterval: s.getDuration(KeySearchFullRebuild, defaults.Search.FullRebuildInterval),
		},
		Routes: domain.RoutesConfig{
			RefreshInterval: s.getDuration(KeyRoutesRefresh, defaults.Routes.RefreshInterval),
		},
		Content: domain.ContentConfig{
			URL:               s.getString(KeyContentURL, defaults.Content.URL),
			Timeout:           s.getDuration(KeyContentTimeout, defaults.Content.Timeout),
			RequestsPerSecond: s.getFloat(KeyContentRate, defaults.Content.RequestsPerSecond),
			Burst:             s.getInt(KeyContentBurst, defaults.Content.Burst),
		},
		State: domain.StateConfig{
			Dir: s.getString(KeyStateDir, defaults.State.Dir),
		},
		Log: domain.LogConfig{
			Verbose: s.getBool(KeyLogVerbose, defaults.Log.Verbose),
			Format:  s.getString(KeyLogFormat, defaults.Log.Format),
		},
	}

	if v, ok := s.env(EnvFrontendURL); ok {
		cfg.Router.FrontendURL = v
	}
	if v, ok := s.env(EnvContentURL); ok {
		cfg.Content.URL = v
	}
	if v, ok := s.env(EnvStateDir); ok {
		cfg.State.Dir = v
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// Set parses value according to key and persists it.
// Unknown keys and unparseable values wrap domain.ErrInvalidInput.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := kindOf(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var typed any
	switch kind {
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return fmt.Errorf("%w: %s expects a duration like 30s, got %q", domain.ErrInvalidInput, key, value)
		}
		typed = d.String()
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s expects a number, got %q", domain.ErrInvalidInput, key, value)
		}
		typed = f
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects an integer, got %q", domain.ErrInvalidInput, key, value)
		}
		typed = n
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false, got %q", domain.ErrInvalidInput, key, value)
		}
		typed = b
	default:
		typed = value
	}

	// Reject values that would leave the merged configuration unusable
	previous, existed := s.configStore.Get(key)
	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	if _, err := s.Get(); err != nil {
		if existed {
			_ = s.configStore.Set(key, previous)
		} else {
			_ = s.configStore.Set(key, defaultValue(key))
		}
		return err
	}
	return nil
}

// Keys returns every supported configuration key in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.key
	}
	return keys
}

func kindOf(key string) (valueKind, bool) {
	for _, k := range settingKeys {
		if k.key == key {
			return k.kind, true
		}
	}
	return 0, false
}

// defaultValue returns the store representation of key's default.
func defaultValue(key string) any {
	d := domain.DefaultConfig()
	switch key {
	case KeyRouterAddr:
		return d.Router.Addr
	case KeyRouterFrontendURL:
		return d.Router.FrontendURL
	case KeyRouterAdminPrefix:
		return d.Router.AdminPrefix
	case KeyRouterSearchPrefix:
		return d.Router.SearchPrefix
	case KeyRouterNotFoundPath:
		return d.Router.NotFoundPath
	case KeyRouterTimeout:
		return d.Router.UpstreamTimeout.String()
	case KeySearchAddr:
		return d.Search.Addr
	case KeySearchIncremental:
		return d.Search.IncrementalInterval.String()
	case KeySearchFullRebuild:
		return d.Search.FullRebuildInterval.String()
	case KeyRoutesRefresh:
		return d.Routes.RefreshInterval.String()
	case KeyContentURL:
		return d.Content.URL
	case KeyContentTimeout:
		return d.Content.Timeout.String()
	case KeyContentRate:
		return d.Content.RequestsPerSecond
	case KeyContentBurst:
		return d.Content.Burst
	case KeyStateDir:
		return d.State.Dir
	case KeyLogVerbose:
		return d.Log.Verbose
	case KeyLogFormat:
		return d.Log.Format
	default:
		return nil
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) env(name string) (string, bool) {
	if s.lookupEnv == nil {
		return "", false
	}
	v, ok := s.lookupEnv(name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	d, ok := s.configStore.GetDuration(key)
	if !ok || d < 0 {
		return defaultVal
	}
	return d
}
