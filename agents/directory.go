// Package agents resolves agent references for roles authorized to browse
// records across agents.
package agents

import (
	"context"
	"fmt"
	"time"

	clientdesk "github.com/bansur/clientdesk-go"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultTTL is how long resolved agents are served from cache.
const DefaultTTL = 5 * time.Minute

const cacheSize = 256

// Directory lists and resolves agents, caching lookups with a TTL so
// per-row display-name resolution does not hammer the remote service.
type Directory struct {
	source clientdesk.AgentSource
	cache  *expirable.LRU[int, clientdesk.AgentRef]
}

// Option configures the Directory.
type Option func(*options)

type options struct {
	ttl time.Duration
}

// WithTTL sets the cache lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// New creates a Directory over the given source.
func New(source clientdesk.AgentSource, opts ...Option) *Directory {
	o := &options{ttl: DefaultTTL}
	for _, opt := range opts {
		opt(o)
	}
	return &Directory{
		source: source,
		cache:  expirable.NewLRU[int, clientdesk.AgentRef](cacheSize, nil, o.ttl),
	}
}

// List returns all known agents and primes the resolution cache.
func (d *Directory) List(ctx context.Context) ([]clientdesk.AgentRef, error) {
	agents, err := d.source.FetchAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("clientdesk/agents: %w", err)
	}
	for _, a := range agents {
		d.cache.Add(a.ID, a)
	}
	return agents, nil
}

// Resolve returns the agent with the given id. On a cache miss the full
// list is refetched once; ids still unknown after that resolve to false,
// which callers render as unassigned.
func (d *Directory) Resolve(ctx context.Context, id int) (clientdesk.AgentRef, bool, error) {
	if a, ok := d.cache.Get(id); ok {
		return a, true, nil
	}
	if _, err := d.List(ctx); err != nil {
		return clientdesk.AgentRef{}, false, err
	}
	a, ok := d.cache.Get(id)
	return a, ok, nil
}
