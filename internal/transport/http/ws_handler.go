package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"brandquiz-service/internal/app"
	"brandquiz-service/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler upgrades HTTP requests to websockets and translates the wire
// protocol into game engine calls. Requests carrying an ackId get a direct
// "ack" reply; everything else is fire-and-forget, with effects delivered
// through the engine's broadcasts.
type WSHandler struct {
	engine   *app.GameEngine
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(engine *app.GameEngine, hub *Hub) *WSHandler {
	return &WSHandler{
		engine: engine,
		hub:    hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	AckID   int64           `json:"ackId"`
	Payload json.RawMessage `json:"payload"`
}

type createRoomPayload struct {
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

type joinRoomPayload struct {
	RoomCode string `json:"roomCode"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

type startGamePayload struct {
	RoomCode       string   `json:"roomCode"`
	SelectedGroups []string `json:"selectedGroups"`
	QuestionCount  int      `json:"questionCount"`
}

type submitAnswerPayload struct {
	RoomCode string          `json:"roomCode"`
	Answer   json.RawMessage `json:"answer"`
}

type roomCodePayload struct {
	RoomCode string `json:"roomCode"`
}

type soloScorePayload struct {
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
	Avatar   string `json:"avatar"`
}

type adminLoginPayload struct {
	Password string `json:"password"`
}

type adminScorePayload struct {
	LeaderboardType string `json:"leaderboardType"`
	Index           int    `json:"index"`
}

type resultPayload struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ServeWS runs the read loop for one connection until it closes, then
// removes the connection from its room.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	c := h.hub.register()
	log.Printf("connection opened: %s", c.id)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case msg := <-c.send:
				if err := conn.WriteJSON(msg); err != nil {
					log.Printf("ws write error for %s: %v", c.id, err)
					return
				}
			case <-c.done:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(r.Context(), c.id, inbound)
	}

	log.Printf("connection closed: %s", c.id)
	h.engine.Leave(c.id)
	h.hub.unregister(c.id)
	<-writerDone
}

func (h *WSHandler) dispatch(ctx context.Context, connID string, msg inboundMessage) {
	switch msg.Type {
	case "create_room":
		var payload createRoomPayload
		_ = json.Unmarshal(msg.Payload, &payload)
		var code string
		var err error
		if payload.Nickname != "" {
			code, err = h.engine.CreateRoomWithPlayer(connID, payload.Nickname, payload.Avatar)
		} else {
			code, err = h.engine.CreateRoom(connID)
		}
		if err != nil {
			h.ack(connID, msg.AckID, resultPayload{Success: false, Error: err.Error()})
			return
		}
		h.hub.JoinRoom(connID, code)
		h.ack(connID, msg.AckID, roomCodePayload{RoomCode: code})

	case "join_room":
		var payload joinRoomPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			h.ack(connID, msg.AckID, resultPayload{Success: false, Error: "invalid payload"})
			return
		}
		// Subscribe before joining so the roster broadcast reaches the
		// joining player too.
		h.hub.JoinRoom(connID, payload.RoomCode)
		if err := h.engine.JoinRoom(connID, payload.RoomCode, payload.Nickname, payload.Avatar); err != nil {
			h.hub.LeaveRoom(connID)
			h.ack(connID, msg.AckID, resultPayload{Success: false, Error: err.Error()})
			return
		}
		h.ack(connID, msg.AckID, resultPayload{Success: true})

	case "start_game":
		var payload startGamePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		// The provider fetch can take seconds; don't stall this
		// connection's read loop on it.
		go h.engine.StartGame(ctx, connID, payload.RoomCode, payload.SelectedGroups, payload.QuestionCount)

	case "submit_answer":
		var payload submitAnswerPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		answer, ok := parseAnswer(payload.Answer)
		if !ok {
			return
		}
		h.engine.SubmitAnswer(connID, payload.RoomCode, answer)

	case "time_up":
		var payload roomCodePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		h.engine.TimeUp(connID, payload.RoomCode)

	case "next_question":
		var payload roomCodePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		h.engine.NextQuestion(ctx, connID, payload.RoomCode)

	case "leave_room":
		h.engine.Leave(connID)
		h.hub.LeaveRoom(connID)

	case "submit_solo_score":
		var payload soloScorePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			h.ack(connID, msg.AckID, resultPayload{Success: false, Error: "invalid payload"})
			return
		}
		if err := h.engine.SubmitSoloScore(ctx, payload.Nickname, payload.Score, payload.Avatar); err != nil {
			log.Printf("submit solo score: %v", err)
			h.ack(connID, msg.AckID, resultPayload{Success: false, Error: "could not save score"})
			return
		}
		h.ack(connID, msg.AckID, resultPayload{Success: true})

	case "get_solo_leaderboard", "get_global_leaderboard":
		scores, err := h.engine.SoloLeaderboard(ctx)
		if err != nil {
			log.Printf("solo leaderboard: %v", err)
			scores = []domain.SoloScore{}
		}
		h.ack(connID, msg.AckID, scores)

	case "get_daily_leaderboard":
		scores, err := h.engine.DailyLeaderboard(ctx)
		if err != nil {
			log.Printf("daily leaderboard: %v", err)
			scores = []domain.SoloScore{}
		}
		h.ack(connID, msg.AckID, scores)

	case "get_multiplayer_leaderboard":
		summaries, err := h.engine.MultiplayerLeaderboard(ctx)
		if err != nil {
			log.Printf("multiplayer leaderboard: %v", err)
			summaries = []domain.GameSummary{}
		}
		h.ack(connID, msg.AckID, summaries)

	case "admin_login":
		var payload adminLoginPayload
		_ = json.Unmarshal(msg.Payload, &payload)
		if err := h.engine.AdminLogin(payload.Password); err != nil {
			h.ack(connID, msg.AckID, resultPayload{Success: false, Error: err.Error()})
			return
		}
		h.ack(connID, msg.AckID, resultPayload{Success: true})

	case "admin_delete_score":
		var payload adminScorePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		if err := h.engine.AdminDeleteScore(ctx, payload.LeaderboardType, payload.Index); err != nil {
			log.Printf("admin delete score: %v", err)
		}

	case "admin_clear_leaderboard":
		var payload adminScorePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		if err := h.engine.AdminClearLeaderboard(ctx, payload.LeaderboardType); err != nil {
			log.Printf("admin clear leaderboard: %v", err)
		}

	default:
		log.Printf("unsupported message type %q from %s", msg.Type, connID)
	}
}

func (h *WSHandler) ack(connID string, ackID int64, payload any) {
	if ackID == 0 {
		return
	}
	h.hub.mu.RLock()
	c, ok := h.hub.conns[connID]
	h.hub.mu.RUnlock()
	if !ok {
		return
	}
	c.trySend(outboundMessage{Type: "ack", AckID: ackID, Payload: payload})
}

// parseAnswer accepts a single option index or an array of indices
// (multi-select).
func parseAnswer(raw json.RawMessage) (domain.Answer, bool) {
	var single int
	if err := json.Unmarshal(raw, &single); err == nil {
		return domain.Answer{Option: single}, true
	}
	var multi []int
	if err := json.Unmarshal(raw, &multi); err == nil {
		if multi == nil {
			multi = []int{}
		}
		return domain.Answer{Options: multi}, true
	}
	return domain.Answer{}, false
}
