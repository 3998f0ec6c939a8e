// Package session keeps the live configurator controllers, one per
// browser session, and expires idle ones.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/vehicle-configurator/internal/configurator"
	"github.com/iliyamo/vehicle-configurator/internal/logger"
)

// Factory builds the controller for a new session id.
type Factory func(id string) *configurator.Controller

type entry struct {
	ctrl     *configurator.Controller
	lastSeen time.Time
}

// Registry maps session ids to controllers.
type Registry struct {
	factory Factory
	ttl     time.Duration
	log     *logger.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewRegistry returns an empty registry.  Sessions idle for longer than ttl
// are removed by Sweep; a non-positive ttl disables expiry.
func NewRegistry(factory Factory, ttl time.Duration, log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		factory:  factory,
		ttl:      ttl,
		log:      log.With("component", "session.Registry"),
		now:      time.Now,
		sessions: map[string]*entry{},
	}
}

// Create opens a session and loads vehicleID (the default vehicle when
// empty).  The session is registered even when the load fails, so the
// caller can render the unavailable state and switch to another vehicle.
func (r *Registry) Create(ctx context.Context, vehicleID string) (*configurator.Controller, error) {
	id := uuid.NewString()
	ctrl := r.factory(id)

	r.mu.Lock()
	r.sessions[id] = &entry{ctrl: ctrl, lastSeen: r.now()}
	r.mu.Unlock()
	r.log.Debug("session created", "session_id", id)

	return ctrl, ctrl.SwitchVehicle(ctx, vehicleID)
}

// Get returns the controller for id and marks the session as used.
func (r *Registry) Get(id string) (*configurator.Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.ctrl, true
}

// Delete closes and forgets a session.  It reports whether it existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		e.ctrl.Close()
	}
	return ok
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes every session idle since before now-ttl and returns how
// many were removed.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var expired []*entry
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, e := range expired {
		e.ctrl.Close()
	}
	if len(expired) > 0 {
		r.log.Info("expired sessions removed", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done, then closes all sessions.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			r.CloseAll()
			return
		case <-t.C:
			r.Sweep()
		}
	}
}

// CloseAll closes and removes every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = map[string]*entry{}
	r.mu.Unlock()
	for _, e := range all {
		e.ctrl.Close()
	}
}
