package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"BazaarBrawl/internal/game"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// liveConn serializes writes to one websocket. The writer goroutine and the
// pre-registration admin error path both write, hence the mutex.
type liveConn struct {
	conn     *websocket.Conn
	mu       sync.Mutex
	sendTick *time.Ticker
}

func (lc *liveConn) writeJSON(v interface{}) error {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.conn.WriteJSON(v)
}

func serveWS(h *game.Hub, adminToken string, logger *slog.Logger, w http.ResponseWriter, r *http.Request) {
	isAdmin := adminToken != "" && r.URL.Query().Get("admin") == adminToken

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", "err", err)
		return
	}
	lc := &liveConn{
		conn:     conn,
		sendTick: time.NewTicker(time.Duration(1000.0/game.UpdateRateHz) * time.Millisecond),
	}

	connID := game.NewConnectionID()
	logger.Info("connection opened", "conn_id", connID, "admin", isAdmin)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		defer cancel()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var inbound inboundMessage
			if err := json.Unmarshal(data, &inbound); err != nil {
				logger.Warn("invalid JSON message", "conn_id", connID, "err", err)
				continue
			}
			switch inbound.Type {
			case "joinGame":
				handleJoinGame(h, connID, isAdmin, inbound.Payload, logger)
			case "move":
				var payload movePayload
				if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
					logger.Warn("invalid move payload", "conn_id", connID, "err", err)
					continue
				}
				h.MovePlayer(connID, payload.X, payload.Y)
			case "chat":
				var payload chatPayload
				if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
					logger.Warn("invalid chat payload", "conn_id", connID, "err", err)
					continue
				}
				h.Chat(connID, payload.Message)
			case "defeatMonster":
				var payload defeatMonsterPayload
				if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
					logger.Warn("invalid defeatMonster payload", "conn_id", connID, "err", err)
					continue
				}
				handleDefeatMonster(h, connID, payload.MonsterID)
			case "requestAdminSettings":
				handleRequestAdminSettings(h, lc, connID, isAdmin, inbound.Type)
			case "requestAdminStats":
				handleRequestAdminStats(h, lc, connID, isAdmin, inbound.Type)
			case "updateAdminSettings":
				handleUpdateAdminSettings(h, lc, connID, isAdmin, inbound.Type, inbound.Payload, logger)
			case "adminApplySettings":
				handleAdminApplySettings(h, lc, connID, isAdmin, inbound.Type, inbound.Payload, logger)
			case "adminSpawnMonster":
				handleAdminSpawnMonster(h, lc, connID, isAdmin, inbound.Type)
			case "adminClearMonsters":
				handleAdminClearMonsters(h, lc, connID, isAdmin, inbound.Type)
			default:
				logger.Warn("unknown message type", "conn_id", connID, "type", inbound.Type)
			}
		}
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-lc.sendTick.C:
				p := h.Registry.Lookup(connID)
				if p == nil {
					continue
				}
				for _, event := range p.ConsumePendingMessages() {
					if err := lc.writeJSON(event); err != nil {
						logger.Warn("send error", "conn_id", connID, "err", err)
						cancel()
						return
					}
				}
			}
		}
	}()

	<-ctx.Done()
	lc.sendTick.Stop()
	conn.Close()
	h.Disconnect(connID)
	logger.Info("connection closed", "conn_id", connID)
}

func handleJoinGame(h *game.Hub, connID string, isAdmin bool, raw json.RawMessage, logger *slog.Logger) {
	var payload joinGamePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		logger.Warn("invalid joinGame payload", "conn_id", connID, "err", err)
		return
	}
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		name = "Anon"
	}

	p := h.Registry.Lookup(connID)
	if p == nil {
		var err error
		p, err = h.Registry.Register(connID, name, game.Role(payload.Role), isAdmin)
		if err != nil {
			logger.Warn("join rejected", "conn_id", connID, "role", payload.Role, "err", err)
			return
		}
	}
	h.Join(payload.RoomID, p)
}

func handleDefeatMonster(h *game.Hub, connID, monsterID string) {
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
	defer room.Mu.Unlock()
	if m, ok := room.Spawner.MonsterDefeatedLocked(monsterID); ok {
		room.BroadcastLocked(game.EventMonsterKilled, game.MonsterKilledPayload{
			ID:         m.ID,
			TemplateID: m.TemplateID,
			KilledBy:   connID,
		}, "")
	}
}

// adminContext resolves the room an admin command targets. Every failure
// path reports back so the admin panel never hangs on silence.
func adminContext(h *game.Hub, lc *liveConn, connID string, isAdmin bool, action string) (*game.Room, bool) {
	p := h.Registry.Lookup(connID)
	if !isAdmin || (p != nil && !p.Admin) {
		sendAdminError(h, lc, connID, action, "admin access required")
		return nil, false
	}
	if p == nil {
		sendAdminError(h, lc, connID, action, "join a room first")
		return nil, false
	}
	roomID := p.CurrentRoom()
	if roomID == "" {
		sendAdminError(h, lc, connID, action, "join a room first")
		return nil, false
	}
	room := h.RoomIfExists(roomID)
	if room == nil {
		sendAdminError(h, lc, connID, action, "join a room first")
		return nil, false
	}
	return room, true
}

// sendAdminError goes through the pending queue when the connection has a
// registered player, otherwise straight to the socket: ordering relative to
// game events only matters once there are game events.
func sendAdminError(h *game.Hub, lc *liveConn, connID, action, message string) {
	payload := adminErrorPayload{Action: action, Message: message}
	if p := h.Registry.Lookup(connID); p != nil {
		p.SendMessage(game.EventAdminError, payload)
		return
	}
	_ = lc.writeJSON(game.OutboundMessage{Type: game.EventAdminError, Payload: payload})
}

func handleRequestAdminSettings(h *game.Hub, lc *liveConn, connID string, isAdmin bool, action string) {
	room, ok := adminContext(h, lc, connID, isAdmin, action)
	if !ok {
		return
	}
	p := h.Registry.Lookup(connID)
	room.Mu.Lock()
	settings := settingsToDTO(room.Spawner.SettingsLocked())
	room.Mu.Unlock()
	p.SendMessage(game.EventAdminSettings, settings)
}

func handleRequestAdminStats(h *game.Hub, lc *liveConn, connID string, isAdmin bool, action string) {
	room, ok := adminContext(h, lc, connID, isAdmin, action)
	if !ok {
		return
	}
	p := h.Registry.Lookup(connID)
	room.Mu.Lock()
	stats := roomStatsLocked(room)
	room.Mu.Unlock()
	p.SendMessage(game.EventAdminStats, stats)
}

func roomStatsLocked(room *game.Room) statsDTO {
	s := room.Spawner.StatsLocked(room.Now)
	return statsDTO{
		RoomID:         room.ID,
		Players:        len(room.Members),
		ActiveMonsters: s.ActiveMonsters,
		TotalSpawns:    s.TotalSpawns,
		TotalKills:     s.TotalKills,
		NextSpawnInS:   s.NextSpawnInS,
	}
}

func handleUpdateAdminSettings(h *game.Hub, lc *liveConn, connID string, isAdmin bool, action string, raw json.RawMessage, logger *slog.Logger) {
	room, ok := adminContext(h, lc, connID, isAdmin, action)
	if !ok {
		return
	}
	var dto settingsDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		sendAdminError(h, lc, connID, action, "malformed settings payload")
		return
	}
	p := h.Registry.Lookup(connID)
	room.Mu.Lock()
	err := room.Spawner.UpdateSettingsLocked(dto.toConfig(), room.Now)
	stats := roomStatsLocked(room)
	room.Mu.Unlock()
	if err != nil {
		sendAdminError(h, lc, connID, action, err.Error())
		return
	}
	logger.Info("spawn settings updated", "room_id", room.ID, "conn_id", connID,
		"max_monsters", dto.MaxMonsters, "interval_s", dto.SpawnIntervalSeconds)
	p.SendMessage(game.EventAdminActionSuccess, adminActionPayload{Action: action})
	p.SendMessage(game.EventAdminStats, stats)
}

func handleAdminApplySettings(h *game.Hub, lc *liveConn, connID string, isAdmin bool, action string, raw json.RawMessage, logger *slog.Logger) {
	room, ok := adminContext(h, lc, connID, isAdmin, action)
	if !ok {
		return
	}
	var dto settingsDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		sendAdminError(h, lc, connID, action, "malformed settings payload")
		return
	}
	p := h.Registry.Lookup(connID)
	room.Mu.Lock()
	spawned, cleared, err := room.Spawner.ApplySettingsLocked(dto.toConfig(), room.Now)
	if err == nil {
		room.BroadcastLocked(game.EventMonstersCleared, game.MonstersClearedPayload{Count: cleared}, "")
		for _, m := range spawned {
			room.BroadcastLocked(game.EventMonsterSpawned, m.View(), "")
		}
	}
	stats := roomStatsLocked(room)
	room.Mu.Unlock()
	if err != nil {
		sendAdminError(h, lc, connID, action, err.Error())
		return
	}
	logger.Info("spawn settings applied", "room_id", room.ID, "conn_id", connID,
		"spawned", len(spawned), "cleared", cleared)
	p.SendMessage(game.EventAdminActionSuccess, adminActionPayload{
		Action:  action,
		Spawned: len(spawned),
		Cleared: cleared,
	})
	p.SendMessage(game.EventAdminStats, stats)
}

func handleAdminSpawnMonster(h *game.Hub, lc *liveConn, connID string, isAdmin bool, action string) {
	room, ok := adminContext(h, lc, connID, isAdmin, action)
	if !ok {
		return
	}
	p := h.Registry.Lookup(connID)
	room.Mu.Lock()
	m := room.Spawner.ForceSpawnLocked()
	if m != nil {
		room.BroadcastLocked(game.EventMonsterSpawned, m.View(), "")
	}
	stats := roomStatsLocked(room)
	room.Mu.Unlock()
	result := adminActionPayload{Action: action, Skipped: m == nil}
	if m != nil {
		result.MonsterID = m.ID
		result.Spawned = 1
	}
	p.SendMessage(game.EventAdminActionSuccess, result)
	p.SendMessage(game.EventAdminStats, stats)
}

func handleAdminClearMonsters(h *game.Hub, lc *liveConn, connID string, isAdmin bool, action string) {
	room, ok := adminContext(h, lc, connID, isAdmin, action)
	if !ok {
		return
	}
	p := h.Registry.Lookup(connID)
	room.Mu.Lock()
	cleared := room.Spawner.ClearAllLocked()
	room.BroadcastLocked(game.EventMonstersCleared, game.MonstersClearedPayload{Count: cleared}, "")
	stats := roomStatsLocked(room)
	room.Mu.Unlock()
	p.SendMessage(game.EventAdminActionSuccess, adminActionPayload{Action: action, Cleared: cleared})
	p.SendMessage(game.EventAdminStats, stats)
}
