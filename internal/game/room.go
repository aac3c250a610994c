package game

import (
	"log/slog"
	"sync"
	"time"
)

// Room is one broadcast partition of players and monsters. All room state
// is guarded by Mu; the logical clock Now advances only inside Tick.
type Room struct {
	ID      string
	Now     float64
	Members map[string]*Player
	Spawner *SpawnController
	Mu      sync.Mutex

	emptySince float64 // Now when the room last became empty; -1 while occupied
	stop       chan struct{}
	stopped    bool
}

func newRoom(id string, cfg SpawnConfig) *Room {
	return &Room{
		ID:      id,
		Members: map[string]*Player{},
		Spawner: NewSpawnController(cfg, nil),
		stop:    make(chan struct{}),
	}
}

// run drives the room's logical clock at SimHz until the hub drops the room.
func (r *Room) run() {
	ticker := time.NewTicker(time.Duration(1000.0/SimHz) * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.Tick()
		}
	}
}

// Tick advances the clock one step and runs due spawn attempts. An empty
// room keeps its clock moving (the cleanup grace period counts on it) but
// spawns nothing.
func (r *Room) Tick() {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.Now += Dt
	if len(r.Members) == 0 {
		return
	}
	for _, m := range r.Spawner.AdvanceLocked(r.Now) {
		r.BroadcastLocked(EventMonsterSpawned, m.View(), "")
	}
}

// Hub owns the room directory and the connection registry. It is the only
// component that creates or drops rooms.
type Hub struct {
	Mu       sync.Mutex
	Rooms    map[string]*Room
	Registry *Registry

	spawnCfg SpawnConfig
	logger   *slog.Logger
}

func NewHub(spawnCfg SpawnConfig, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		Rooms:    map[string]*Room{},
		Registry: NewRegistry(),
		spawnCfg: SanitizeSpawnConfig(spawnCfg),
		logger:   logger,
	}
}

// GetRoom returns the room, creating it (and starting its tick loop) on
// first use.
func (h *Hub) GetRoom(id string) *Room {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	r, ok := h.Rooms[id]
	if !ok {
		r = newRoom(id, h.spawnCfg)
		h.Rooms[id] = r
		go r.run()
		h.logger.Info("room created", "room_id", id)
	}
	return r
}

// RoomIfExists never creates: move/chat against a room that is gone are
// dropped upstream.
func (h *Hub) RoomIfExists(id string) *Room {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	return h.Rooms[id]
}

// Join adds the player to a room, removing it from any prior room first so
// a player is a member of at most one room. The joiner's gameState snapshot
// is enqueued before anyone else's playerJoined, inside the same critical
// section, which pins the ordering guarantee.
func (h *Hub) Join(roomID string, p *Player) {
	if roomID == "" {
		roomID = DefaultRoomID
	}
	if prior := p.CurrentRoom(); prior != "" {
		if prior == roomID {
			return
		}
		h.removeFromRoom(prior, p, true)
	}
	for {
		room := h.GetRoom(roomID)
		room.Mu.Lock()
		if room.stopped {
			// Lost a race with cleanup; the map no longer holds this room.
			room.Mu.Unlock()
			continue
		}
		room.Members[p.ID] = p
		p.setRoom(roomID)
		room.emptySince = -1
		p.SendMessage(EventGameState, room.snapshotLocked(p.ID))
		room.BroadcastLocked(EventPlayerJoined, p.View(), p.ID)
		room.Spawner.ArmLocked(room.Now)
		room.Mu.Unlock()
		break
	}
	h.logger.Info("player joined room", "room_id", roomID, "conn_id", p.ID, "name", p.Name())
}

// removeFromRoom drops the membership reference. notify controls whether the
// old room learns about it (used for room switches; disconnects broadcast
// globally instead).
func (h *Hub) removeFromRoom(roomID string, p *Player, notify bool) {
	room := h.RoomIfExists(roomID)
	p.setRoom("")
	if room == nil {
		return
	}
	room.Mu.Lock()
	if _, ok := room.Members[p.ID]; ok {
		delete(room.Members, p.ID)
		if notify {
			room.BroadcastLocked(EventPlayerLeft, PlayerLeftPayload{ID: p.ID}, "")
		}
		if len(room.Members) == 0 {
			room.emptySince = room.Now
		}
	}
	room.Mu.Unlock()
}

// Disconnect tears down everything a connection owned: registry record,
// room membership, and a global playerLeft so every roster forgets the id.
func (h *Hub) Disconnect(connID string) {
	p := h.Registry.Remove(connID)
	if p == nil {
		return
	}
	if roomID := p.CurrentRoom(); roomID != "" {
		h.removeFromRoom(roomID, p, false)
	}
	h.BroadcastAll(EventPlayerLeft, PlayerLeftPayload{ID: connID})
	h.logger.Info("player disconnected", "conn_id", connID)
}

// MovePlayer stores the client-reported position and relays it to the
// player's room. Moves from unknown connections or players outside a room
// are dropped silently: they race disconnects and joins by design.
func (h *Hub) MovePlayer(connID string, x, y float64) {
	p := h.Registry.UpdatePosition(connID, x, y)
	if p == nil {
		return
	}
	roomID := p.CurrentRoom()
	if roomID == "" {
		return
	}
	room := h.RoomIfExists(roomID)
	if room == nil {
		return
	}
	room.Mu.Lock()
	room.BroadcastLocked(EventPlayerMoved, PlayerMovedPayload{ID: p.ID, X: x, Y: y}, "")
	room.Mu.Unlock()
}

// Chat relays a message to the sender's room, sender included.
func (h *Hub) Chat(connID, message string) {
	p := h.Registry.Lookup(connID)
	if p == nil {
		return
	}
	roomID := p.CurrentRoom()
	if roomID == "" {
		return
	}
	room := h.RoomIfExists(roomID)
	if room == nil {
		return
	}
	room.Mu.Lock()
	room.BroadcastLocked(EventChatMessage, ChatMessagePayload{ID: p.ID, Name: p.Name(), Message: message}, "")
	room.Mu.Unlock()
}

// CleanupEmptyRooms drops rooms that have sat empty past the grace period,
// stopping their tick loops and with them the spawn schedule.
func (h *Hub) CleanupEmptyRooms() {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	for id, room := range h.Rooms {
		room.Mu.Lock()
		expired := len(room.Members) == 0 && room.emptySince >= 0 && room.Now-room.emptySince >= EmptyRoomGraceS
		if expired && !room.stopped {
			room.stopped = true
			close(room.stop)
		}
		room.Mu.Unlock()
		if expired {
			delete(h.Rooms, id)
			h.logger.Info("empty room dropped", "room_id", id)
		}
	}
}
