package app

import (
	"sort"
	"sync"
	"time"

	"brandquiz-service/internal/domain"
)

// Room is one live game session. All fields are guarded by mu; every
// mutation happens under the lock so concurrent submissions within a room
// cannot race, while distinct rooms proceed independently.
type Room struct {
	mu sync.Mutex

	code       string
	hostConnID string
	players    []*domain.Player // join order
	state      domain.RoomState
	questions  []domain.Question
	current    int // -1 before the game starts
	answers    map[string]domain.Answer

	questionStart time.Time

	// generation increases every time the room serves or resolves a
	// question, so a late-firing timer can detect it is stale and no-op.
	generation int
	// starting blocks duplicate start triggers while the provider fetch is
	// outstanding.
	starting bool
}

func newRoom(code, hostConnID string) *Room {
	return &Room{
		code:       code,
		hostConnID: hostConnID,
		state:      domain.StateLobby,
		current:    -1,
		answers:    make(map[string]domain.Answer),
	}
}

// Code returns the room's join code.
func (r *Room) Code() string {
	return r.code
}

// State returns the room's current lifecycle phase.
func (r *Room) State() domain.RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// PlayerCount returns the number of joined players.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

func (r *Room) findPlayerLocked(connID string) *domain.Player {
	for _, p := range r.players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

// isControllerLocked reports whether connID may drive the game: the host, or
// the sole player in solo mode.
func (r *Room) isControllerLocked(connID string) bool {
	if connID == r.hostConnID {
		return true
	}
	return len(r.players) == 1 && r.players[0].ConnID == connID
}

func (r *Room) rosterLocked() domain.LobbyUpdate {
	players := make([]domain.LobbyPlayer, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, domain.LobbyPlayer{
			Nickname: p.Nickname,
			Avatar:   p.Avatar,
			IsHost:   p.ConnID == r.hostConnID,
		})
	}
	return domain.LobbyUpdate{Players: players}
}

// leaderboardLocked ranks players by score, keeping join order among ties.
func (r *Room) leaderboardLocked() []domain.LeaderboardRow {
	rows := make([]domain.LeaderboardRow, 0, len(r.players))
	for _, p := range r.players {
		rows = append(rows, domain.LeaderboardRow{
			ConnID:          p.ConnID,
			Nickname:        p.Nickname,
			Avatar:          p.Avatar,
			Score:           p.Score,
			LastRoundPoints: p.LastRoundPoints,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Score > rows[j].Score })
	return rows
}

func (r *Room) questionViewLocked() domain.QuestionView {
	q := r.questions[r.current]
	return domain.QuestionView{
		Text:      q.Text,
		Options:   q.Options,
		TimeLimit: q.TimeLimit,
		Type:      q.Type,
		Index:     r.current,
		Total:     len(r.questions),
	}
}
