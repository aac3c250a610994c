package game

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrDuplicateConnection guards against a connection id registering
	// twice. Should not occur under normal transport semantics.
	ErrDuplicateConnection = errors.New("connection already registered")
	ErrInvalidRole         = errors.New("invalid role")
)

// NewConnectionID mints an opaque id for one live client session.
func NewConnectionID() string {
	return uuid.NewString()
}

// Registry owns every Player record keyed by connection id. Rooms and
// broadcasts only ever hold references handed out here.
type Registry struct {
	mu      sync.Mutex
	players map[string]*Player
}

func NewRegistry() *Registry {
	return &Registry{players: map[string]*Player{}}
}

func (r *Registry) Register(connID, name string, role Role, admin bool) (*Player, error) {
	if !ValidRole(role) {
		return nil, ErrInvalidRole
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.players[connID]; exists {
		return nil, ErrDuplicateConnection
	}
	p := &Player{
		ID:    connID,
		Admin: admin,
		name:  name,
		role:  role,
		x:     PlayerStartX,
		y:     PlayerStartY,
	}
	r.players[connID] = p
	return p, nil
}

// Lookup returns the player for a connection, or nil when absent.
func (r *Registry) Lookup(connID string) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.players[connID]
}

// UpdatePosition stores the client-reported position. A move for an unknown
// connection is a no-op, not an error: it races disconnects by design.
func (r *Registry) UpdatePosition(connID string, x, y float64) *Player {
	r.mu.Lock()
	p := r.players[connID]
	r.mu.Unlock()
	if p == nil {
		return nil
	}
	p.SetPosition(x, y)
	return p
}

// Remove deletes and returns the player, or nil when absent.
func (r *Registry) Remove(connID string) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.players[connID]
	if p != nil {
		delete(r.players, connID)
	}
	return p
}

func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}
