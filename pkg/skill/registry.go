package skill

import (
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/cohesivestack/valgo"

	"github.com/agentwire/agentwire/pkg/errors"
)

/*
Registry maps skill keys to definitions. Insertion order is preserved so
that discovery output is stable. Safe for concurrent use; writes happen at
setup, reads on every request.
*/
type Registry struct {
	mu     sync.RWMutex
	skills map[string]*Skill
	order  []string
	rev    atomic.Uint64
}

func NewRegistry() *Registry {
	return &Registry{skills: make(map[string]*Skill)}
}

/*
Add registers a skill. It rejects blank keys, definitions without any
handler and duplicate keys.
*/
func (r *Registry) Add(s *Skill) error {
	val := valgo.Is(valgo.String(s.Key, "key").Not().Blank())
	if !val.Valid() {
		return errors.ErrInvalidSkill.WithDetails(val.Error())
	}

	if s.Invoke == nil && s.Stream == nil {
		return errors.ErrInvalidSkill.WithMessagef("skill %q has no handler", s.Key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.skills[s.Key]; exists {
		return errors.ErrDuplicateSkill.WithMessagef("skill %q is already registered", s.Key)
	}

	r.skills[s.Key] = s
	r.order = append(r.order, s.Key)
	r.rev.Add(1)

	log.Debug("skill registered", "key", s.Key, "streaming", s.IsStreaming())
	return nil
}

// Get returns the skill for key, or false when absent.
func (r *Registry) Get(key string) (*Skill, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.skills[key]
	return s, ok
}

// List returns all skills in insertion order.
func (r *Registry) List() []*Skill {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Skill, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.skills[key])
	}
	return out
}

// Revision increases on every successful Add. The HTTP layer uses it to
// know when a cached agent card is stale.
func (r *Registry) Revision() uint64 {
	return r.rev.Load()
}
