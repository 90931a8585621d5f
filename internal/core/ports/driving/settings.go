package driving

import "github.com/custodia-labs/folio/internal/core/domain"

// SettingsService resolves the runtime configuration.
type SettingsService interface {
	// Get returns the effective configuration: defaults, overridden by the
	// config file, overridden by environment variables.
	Get() (domain.Config, error)

	// Set validates and persists a single configuration key.
	Set(key, value string) error

	// Keys returns every supported configuration key in display order.
	Keys() []string
}
