package ws

import (
	"encoding/json"
	"strconv"
	"sync"

	"github.com/gofiber/contrib/websocket"

	"quotekeeper/internal/middleware"
	"quotekeeper/internal/model"
	"quotekeeper/internal/telemetry"
)

var (
	mu    sync.RWMutex
	rooms = map[string]map[*websocket.Conn]struct{}{}
)

type Action string

const (
	ActionJoin  Action = "join"
	ActionLeave Action = "leave"
)

// Clients join "user.<id>" to receive events for their own account.
const RoomUser = "user"

type Event string

const (
	EventSyncStarted   Event = "kindle.sync.started"
	EventSyncCompleted Event = "kindle.sync.completed"
)

type PayloadEvent struct {
	Event Event `json:"event"`
	Data  any   `json:"data,omitempty"`
}

type ClientMessage struct {
	Action Action `json:"action"`
	Room   string `json:"room"`
}

// HandleWS runs behind AuthSession; the verified user is read from locals
// and a connection may only join that user's own room.
func HandleWS(c *websocket.Conn) {
	user, _ := c.Locals(middleware.UserKey).(*model.User)
	if user == nil {
		_ = c.Close()
		return
	}

	log := telemetry.L().With().Str("module", "ws").Int64("user_id", user.ID).Logger()
	log.Info().Msg("ws_connected")
	defer func() {
		mu.Lock()
		for room := range rooms {
			delete(rooms[room], c)
		}
		mu.Unlock()
		_ = c.Close()
	}()

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			break
		}

		var cm ClientMessage
		if err := json.Unmarshal(msg, &cm); err != nil {
			continue
		}
		if !CanJoin(user.ID, cm.Room) {
			log.Warn().Str("room", cm.Room).Msg("ws_room_denied")
			continue
		}

		switch cm.Action {
		case ActionJoin:
			joinRoom(c, cm.Room)
		case ActionLeave:
			leaveRoom(c, cm.Room)
		}
	}
}

// CanJoin restricts subscriptions to the caller's own user room.
func CanJoin(userID int64, room string) bool {
	return room == userRoom(userID)
}

func joinRoom(c *websocket.Conn, room string) {
	if room == "" {
		return
	}
	mu.Lock()
	if rooms[room] == nil {
		rooms[room] = map[*websocket.Conn]struct{}{}
	}
	rooms[room][c] = struct{}{}
	mu.Unlock()
}

func leaveRoom(c *websocket.Conn, room string) {
	if room == "" {
		return
	}
	mu.Lock()
	delete(rooms[room], c)
	mu.Unlock()
}

func userRoom(userID int64) string {
	return RoomUser + "." + strconv.FormatInt(userID, 10)
}

func broadcast(room string, pl PayloadEvent) {
	mu.RLock()
	conns := rooms[room]
	mu.RUnlock()

	for c := range conns {
		_ = c.WriteJSON(pl)
	}
}

func BroadcastSyncStarted(userID, collectionID int64, highlights int) {
	broadcast(userRoom(userID), PayloadEvent{
		Event: EventSyncStarted,
		Data: map[string]any{
			"collection_id": collectionID,
			"highlights":    highlights,
		},
	})
}

type SyncSummary struct {
	Added      int      `json:"added"`
	Duplicated int      `json:"duplicated"`
	Skipped    int      `json:"skipped"`
	Errors     []string `json:"errors"`
}

func BroadcastSyncCompleted(userID int64, s SyncSummary) {
	broadcast(userRoom(userID), PayloadEvent{Event: EventSyncCompleted, Data: s})
}
