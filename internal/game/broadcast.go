package game

// Outbound event names. The client switches on these.
const (
	EventGameState          = "gameState"
	EventPlayerJoined       = "playerJoined"
	EventPlayerMoved        = "playerMoved"
	EventPlayerLeft         = "playerLeft"
	EventChatMessage        = "chatMessage"
	EventMonsterSpawned     = "monsterSpawned"
	EventMonsterKilled      = "monsterKilled"
	EventMonstersCleared    = "monstersCleared"
	EventAdminSettings      = "adminSettings"
	EventAdminStats         = "adminStats"
	EventAdminActionSuccess = "adminActionSuccess"
	EventAdminError         = "adminError"
)

// GameStatePayload is the one-shot snapshot a joining client materializes
// its room from. Players excludes the joiner itself.
type GameStatePayload struct {
	RoomID   string        `json:"roomId"`
	You      string        `json:"you"`
	Players  []PlayerView  `json:"players"`
	Monsters []MonsterView `json:"monsters"`
}

type PlayerMovedPayload struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type PlayerLeftPayload struct {
	ID string `json:"id"`
}

type ChatMessagePayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type MonsterKilledPayload struct {
	ID         string `json:"id"`
	TemplateID string `json:"templateId"`
	KilledBy   string `json:"killedBy,omitempty"`
}

type MonstersClearedPayload struct {
	Count int `json:"count"`
}

// BroadcastLocked enqueues the event for every room member except exclude.
// Queues preserve enqueue order per connection, so anything enqueued inside
// one critical section is delivered in that order.
func (r *Room) BroadcastLocked(msgType string, payload interface{}, exclude string) {
	for id, member := range r.Members {
		if id == exclude {
			continue
		}
		member.SendMessage(msgType, payload)
	}
}

func (r *Room) snapshotLocked(forID string) GameStatePayload {
	players := make([]PlayerView, 0, len(r.Members))
	for id, member := range r.Members {
		if id == forID {
			continue
		}
		players = append(players, member.View())
	}
	return GameStatePayload{
		RoomID:   r.ID,
		You:      forID,
		Players:  players,
		Monsters: r.Spawner.MonsterViewsLocked(),
	}
}

// BroadcastAll fans an event out to every member of every room.
func (h *Hub) BroadcastAll(msgType string, payload interface{}) {
	h.Mu.Lock()
	rooms := make([]*Room, 0, len(h.Rooms))
	for _, room := range h.Rooms {
		rooms = append(rooms, room)
	}
	h.Mu.Unlock()

	for _, room := range rooms {
		room.Mu.Lock()
		room.BroadcastLocked(msgType, payload, "")
		room.Mu.Unlock()
	}
}
