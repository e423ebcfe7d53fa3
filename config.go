// Package clientdesk defines the domain types and collaborator interfaces
// of an embeddable client-records module: it presents, filters, sorts,
// paginates and selectively mutates a collection of client records fetched
// from a remote service, gated by the viewing user's role.
//
// The root package carries no behavior. Concrete engines live in the
// subpackages (session, records, view, catalog, lifecycle, rest, ...) and
// are composed by desk.New; remote backends are injected through options,
// keeping the module independent of any specific host or server.
package clientdesk

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds connection and behavior configuration.
type Config struct {
	// BaseURL is the address of the remote record service.
	BaseURL string `envconfig:"CLIENTDESK_BASE_URL"`

	// PageSize is the fixed pagination window. Default: 10.
	PageSize int `envconfig:"CLIENTDESK_PAGE_SIZE" default:"10"`

	// CatalogTTL controls how long the fetched lifecycle catalog is
	// served from cache. Default: 5 minutes.
	CatalogTTL time.Duration `envconfig:"CLIENTDESK_CATALOG_TTL" default:"5m"`

	// StoragePath is the SQLite file backing the durable session slots.
	// Empty means in-memory storage.
	StoragePath string `envconfig:"CLIENTDESK_STORAGE_PATH"`

	// AgentScopedRoles lists the role ids whose record browsing is
	// restricted to their own assigned records. Role numbering is
	// deployment-specific, so it is configuration, never code.
	AgentScopedRoles []int `envconfig:"CLIENTDESK_AGENT_SCOPED_ROLES"`

	// MetricsEnabled registers Prometheus metrics when true.
	MetricsEnabled bool `envconfig:"CLIENTDESK_METRICS" default:"false"`
}

// ConfigFromEnv builds a Config from CLIENTDESK_* environment variables.
func ConfigFromEnv() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("clientdesk: load config: %w", err)
	}
	return c, nil
}
