package state

import (
	"context"
	"sync"

	"github.com/maheshrc27/content-compass/internal/lock"
)

// Registry hands out one Store per signed-in user.
type Registry struct {
	da    DataAccess
	locks *lock.Keyed
	hooks Hooks

	mu     sync.Mutex
	stores map[string]*Store
}

func NewRegistry(da DataAccess, locks *lock.Keyed, hooks Hooks) *Registry {
	return &Registry{
		da:     da,
		locks:  locks,
		hooks:  hooks,
		stores: make(map[string]*Store),
	}
}

func (r *Registry) store(uid string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[uid]
	if !ok {
		s = NewStore(uid, r.da, r.locks, r.hooks)
		r.stores[uid] = s
	}
	return s
}

// Session returns the resolved store for id, resolving it on first use.
func (r *Registry) Session(ctx context.Context, id Identity) (*Store, error) {
	s := r.store(id.UID)
	if phase := s.Phase(); phase == PhaseUnresolved || phase == PhaseAnonymous {
		if _, err := s.Resolve(ctx, &id); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SignIn re-resolves the session from a fresh identity.
func (r *Registry) SignIn(ctx context.Context, id Identity) (Snapshot, error) {
	return r.store(id.UID).Resolve(ctx, &id)
}

// SignOut clears and forgets the user's session.
func (r *Registry) SignOut(uid string) {
	r.mu.Lock()
	s, ok := r.stores[uid]
	delete(r.stores, uid)
	r.mu.Unlock()
	if ok {
		s.SignOut()
	}
}

// Refresh reloads the session of uid if one is loaded.
func (r *Registry) Refresh(ctx context.Context, uid string) error {
	r.mu.Lock()
	s, ok := r.stores[uid]
	r.mu.Unlock()
	if !ok {
		return nil
	}
	_, err := s.Reload(ctx)
	return err
}
