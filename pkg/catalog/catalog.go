package catalog

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/agentwire/agentwire/pkg/a2a"
	"github.com/agentwire/agentwire/pkg/client"
)

/*
Registry is an in-process directory of known agent cards, keyed by agent
name. Facilitator agents use it to keep track of the downstream agents
they compose.
*/
type Registry struct {
	agents sync.Map
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add stores or replaces a card.
func (r *Registry) Add(card a2a.AgentCard) {
	log.Info("adding agent to catalog", "name", card.Name, "url", card.URL)
	r.agents.Store(card.Name, card)
}

// Get returns the card for an agent name.
func (r *Registry) Get(name string) (a2a.AgentCard, bool) {
	v, ok := r.agents.Load(name)
	if !ok {
		return a2a.AgentCard{}, false
	}
	return v.(a2a.AgentCard), true
}

// List returns every known card.
func (r *Registry) List() []a2a.AgentCard {
	cards := make([]a2a.AgentCard, 0)
	r.agents.Range(func(_, v any) bool {
		cards = append(cards, v.(a2a.AgentCard))
		return true
	})
	return cards
}

/*
Resolver fetches cards from remote origins and records them in a
registry, so repeated lookups of the same agent skip the network.
*/
type Resolver struct {
	mu       sync.Mutex
	client   *client.Client
	registry *Registry
	byOrigin map[string]string
}

func NewResolver(c *client.Client, registry *Registry) *Resolver {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Resolver{
		client:   c,
		registry: registry,
		byOrigin: make(map[string]string),
	}
}

// Registry exposes the backing card directory.
func (r *Resolver) Registry() *Registry { return r.registry }

/*
Resolve returns the card for the agent at base, fetching it once and
serving later calls from the catalog.
*/
func (r *Resolver) Resolve(ctx context.Context, base string) (*a2a.AgentCard, error) {
	r.mu.Lock()
	if name, ok := r.byOrigin[base]; ok {
		if card, found := r.registry.Get(name); found {
			r.mu.Unlock()
			return &card, nil
		}
	}
	r.mu.Unlock()

	card, err := r.client.FetchCard(ctx, base)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.byOrigin[base] = card.Name
	r.mu.Unlock()
	r.registry.Add(*card)

	return card, nil
}
