package game

import "sync"

// Role is the closed set of player archetypes the client may pick at join.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	return r == RoleBuyer || r == RoleSeller
}

// OutboundMessage packages queued websocket events.
type OutboundMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Player is one live connection's game record. The Registry owns the record;
// rooms hold references only. Mutable fields are guarded by the player's own
// mutex so broadcast snapshots never race position updates.
type Player struct {
	ID    string
	Admin bool

	mu      sync.Mutex
	name    string
	role    Role
	x, y    float64
	roomID  string
	pending []OutboundMessage
}

// PlayerView is the public shape of a player as seen by peers.
type PlayerView struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Role Role    `json:"role"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func (p *Player) View() PlayerView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PlayerView{ID: p.ID, Name: p.name, Role: p.role, X: p.x, Y: p.y}
}

func (p *Player) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name
}

func (p *Player) SetPosition(x, y float64) {
	p.mu.Lock()
	p.x = x
	p.y = y
	p.mu.Unlock()
}

// CurrentRoom returns the id of the room the player is in, or "" when the
// player has not joined one.
func (p *Player) CurrentRoom() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.roomID
}

func (p *Player) setRoom(id string) {
	p.mu.Lock()
	p.roomID = id
	p.mu.Unlock()
}

// SendMessage queues an event for the player's connection. The per-connection
// writer drains the queue in order, so enqueue order is delivery order.
func (p *Player) SendMessage(msgType string, payload interface{}) {
	p.mu.Lock()
	p.pending = append(p.pending, OutboundMessage{Type: msgType, Payload: payload})
	p.mu.Unlock()
}

// ConsumePendingMessages returns and clears the queued events.
func (p *Player) ConsumePendingMessages() []OutboundMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.pending
	p.pending = nil
	return out
}
