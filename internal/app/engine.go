package app

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"brandquiz-service/internal/domain"
)

// RoomRegistry abstracts how live rooms are stored (in-memory today).
type RoomRegistry interface {
	// Reserve claims a code for the room; false means the code is taken.
	Reserve(code string, room *Room) bool
	Get(code string) (*Room, bool)
	Delete(code string)
}

// LeaderboardStore is the append-only store for solo scores and completed
// multiplayer game summaries.
type LeaderboardStore interface {
	AddSoloScore(ctx context.Context, score domain.SoloScore) error
	TopSolo(ctx context.Context, n int) ([]domain.SoloScore, error)
	TopDaily(ctx context.Context, day time.Time, n int) ([]domain.SoloScore, error)
	AddGameSummary(ctx context.Context, summary domain.GameSummary) error
	GameSummaries(ctx context.Context) ([]domain.GameSummary, error)
	DeleteScore(ctx context.Context, kind string, index int) error
	Clear(ctx context.Context, kind string) error
}

// Emitter is the outbound half of the realtime transport: fire-and-forget
// multicast to a room or a single connection.
type Emitter interface {
	ToRoom(roomCode, event string, payload any)
	ToConn(connID, event string, payload any)
}

// QuestionProvider produces a question set for the selected groups, or an
// error that triggers the static fallback.
type QuestionProvider interface {
	Generate(ctx context.Context, count int, groupIDs []string) ([]domain.Question, error)
}

// FallbackBank serves pre-verified questions when the provider fails.
type FallbackBank interface {
	Questions(count int) []domain.Question
}

const (
	minQuestions = 5
	maxQuestions = 25

	soloDefaultQuestions  = 15
	multiDefaultQuestions = 20

	// allAnsweredDebounce batches near-simultaneous submissions before
	// auto-resolving, so the resolution does not race a firing timeout.
	allAnsweredDebounce = 500 * time.Millisecond

	roomCodeAttempts = 100
	topN             = 10
)

// GameEngine owns the room lifecycle and the game state machine. It is safe
// for concurrent use: each room carries its own lock, and the engine-level
// lock only guards the connection index and code generation.
type GameEngine struct {
	rooms    RoomRegistry
	store    LeaderboardStore
	emitter  Emitter
	provider QuestionProvider
	fallback FallbackBank

	adminPassword string
	debounce      time.Duration
	now           func() time.Time

	mu         sync.Mutex
	roomByConn map[string]string
	rnd        *rand.Rand
}

func NewGameEngine(rooms RoomRegistry, store LeaderboardStore, emitter Emitter, provider QuestionProvider, fallback FallbackBank, adminPassword string) *GameEngine {
	return &GameEngine{
		rooms:         rooms,
		store:         store,
		emitter:       emitter,
		provider:      provider,
		fallback:      fallback,
		adminPassword: adminPassword,
		debounce:      allAnsweredDebounce,
		now:           time.Now,
		roomByConn:    make(map[string]string),
		rnd:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetDebounce overrides the all-answered debounce window (tests).
func (e *GameEngine) SetDebounce(d time.Duration) {
	e.debounce = d
}

// CreateRoom opens an empty room hosted by connID and returns its code.
func (e *GameEngine) CreateRoom(connID string) (string, error) {
	return e.createRoom(connID, nil)
}

// CreateRoomWithPlayer opens a room and seats the creator as its first
// player.
func (e *GameEngine) CreateRoomWithPlayer(connID, nickname, avatar string) (string, error) {
	if avatar == "" {
		avatar = domain.DefaultAvatar
	}
	player := &domain.Player{ConnID: connID, Nickname: nickname, Avatar: avatar}
	return e.createRoom(connID, player)
}

func (e *GameEngine) createRoom(connID string, creator *domain.Player) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := 0; i < roomCodeAttempts; i++ {
		code := fmt.Sprintf("%04d", 1000+e.rnd.Intn(9000))
		room := newRoom(code, connID)
		if creator != nil {
			room.players = append(room.players, creator)
		}
		if e.rooms.Reserve(code, room) {
			e.roomByConn[connID] = code
			log.Printf("room created: %s by %s", code, connID)
			return code, nil
		}
	}
	return "", fmt.Errorf("no free room codes after %d attempts", roomCodeAttempts)
}

// JoinRoom seats a player in a lobby. The full roster is rebroadcast to the
// whole room so late joiners and re-renders stay consistent.
func (e *GameEngine) JoinRoom(connID, roomCode, nickname, avatar string) error {
	room, ok := e.rooms.Get(roomCode)
	if !ok {
		return domain.ErrRoomNotFound
	}
	if avatar == "" {
		avatar = domain.DefaultAvatar
	}

	room.mu.Lock()
	if room.state != domain.StateLobby {
		room.mu.Unlock()
		return domain.ErrGameAlreadyStarted
	}
	for _, p := range room.players {
		if p.Nickname == nickname {
			room.mu.Unlock()
			return domain.ErrNicknameTaken
		}
	}
	player := &domain.Player{ConnID: connID, Nickname: nickname, Avatar: avatar}
	room.players = append(room.players, player)
	hostConnID := room.hostConnID
	roster := room.rosterLocked()
	joined := *player
	room.mu.Unlock()

	e.mu.Lock()
	e.roomByConn[connID] = roomCode
	e.mu.Unlock()

	e.emitter.ToConn(hostConnID, domain.EventPlayerJoined, joined)
	e.emitter.ToRoom(roomCode, domain.EventLobbyUpdate, roster)
	log.Printf("%s joined room %s", nickname, roomCode)
	return nil
}

// StartGame moves a lobby into the first question. The question set comes
// from the provider, or the static bank when the provider fails; players
// never see a provider error. Blocks for the duration of the fetch, so
// callers typically run it in its own goroutine.
func (e *GameEngine) StartGame(ctx context.Context, connID, roomCode string, selectedGroups []string, requestedCount int) {
	room, ok := e.rooms.Get(roomCode)
	if !ok {
		return
	}

	room.mu.Lock()
	if room.state != domain.StateLobby || room.starting || !room.isControllerLocked(connID) {
		room.mu.Unlock()
		return
	}
	room.starting = true

	// Solo play: the host's connection doubles as the only player.
	if len(room.players) == 0 {
		room.players = append(room.players, &domain.Player{
			ConnID:   room.hostConnID,
			Nickname: "SoloPlayer",
			Avatar:   domain.DefaultAvatar,
		})
	}

	count := requestedCount
	if count == 0 {
		if len(room.players) == 1 {
			count = soloDefaultQuestions
		} else {
			count = multiDefaultQuestions
		}
	}
	if count > maxQuestions {
		count = maxQuestions
	}
	if count < minQuestions {
		count = minQuestions
	}

	groups := selectedGroups
	if len(groups) == 0 {
		groups = []string{"MARRIOTT"}
	}
	room.mu.Unlock()

	// The long-latency call runs without the room lock held.
	var questionSet []domain.Question
	if e.provider != nil {
		var err error
		questionSet, err = e.provider.Generate(ctx, count, groups)
		if err != nil {
			log.Printf("question provider failed for room %s, using fallback bank: %v", roomCode, err)
			questionSet = nil
		}
	}
	if len(questionSet) == 0 {
		questionSet = e.fallback.Questions(count)
	}

	room.mu.Lock()
	if room.state != domain.StateLobby {
		// The room moved on while the fetch was outstanding; discard.
		room.starting = false
		room.mu.Unlock()
		return
	}
	room.questions = questionSet
	room.state = domain.StateQuestion
	room.current = 0
	room.answers = make(map[string]domain.Answer)
	room.questionStart = e.now()
	room.generation++
	room.starting = false
	view := room.questionViewLocked()
	room.mu.Unlock()

	e.emitter.ToRoom(roomCode, domain.EventGameStarted, struct{}{})
	e.emitter.ToRoom(roomCode, domain.EventNewQuestion, domain.NewQuestionEvent{Question: view})
	log.Printf("game started in room %s with %d questions (groups: %v)", roomCode, len(questionSet), groups)
}

// SubmitAnswer records a player's answer for the active question. Late and
// duplicate submissions are silently ignored. Once every player has
// answered, resolution is scheduled after a short debounce.
func (e *GameEngine) SubmitAnswer(connID, roomCode string, answer domain.Answer) {
	room, ok := e.rooms.Get(roomCode)
	if !ok {
		return
	}

	room.mu.Lock()
	if room.state != domain.StateQuestion {
		room.mu.Unlock()
		return
	}
	if room.findPlayerLocked(connID) == nil {
		room.mu.Unlock()
		return
	}
	if _, already := room.answers[connID]; already {
		room.mu.Unlock()
		return
	}
	answer.TimeTaken = e.now().Sub(room.questionStart).Seconds()
	room.answers[connID] = answer

	hostConnID := room.hostConnID
	answered := len(room.answers)
	allAnswered := answered == len(room.players)
	gen := room.generation
	room.mu.Unlock()

	e.emitter.ToConn(hostConnID, domain.EventPlayerAnswered, domain.PlayerAnswered{
		PlayerID:      connID,
		AnsweredCount: answered,
	})

	if allAnswered {
		time.AfterFunc(e.debounce, func() {
			e.resolveQuestion(room, gen)
		})
	}
}

// TimeUp forces resolution of the active question. Only the host (or the
// sole player in solo mode) may trigger it; duplicates are no-ops.
func (e *GameEngine) TimeUp(connID, roomCode string) {
	room, ok := e.rooms.Get(roomCode)
	if !ok {
		return
	}
	room.mu.Lock()
	authorized := room.isControllerLocked(connID)
	gen := room.generation
	room.mu.Unlock()
	if !authorized {
		return
	}
	e.resolveQuestion(room, gen)
}

// resolveQuestion scores the current question and transitions the room to
// LEADERBOARD. It is idempotent: a stale generation or a room no longer in
// QUESTION state makes it a no-op, so the all-answered debounce and a
// concurrently firing timeout cannot double-award points.
func (e *GameEngine) resolveQuestion(room *Room, gen int) {
	room.mu.Lock()
	if room.state != domain.StateQuestion || room.generation != gen {
		room.mu.Unlock()
		return
	}
	room.state = domain.StateLeaderboard
	room.generation++

	q := room.questions[room.current]

	type playerResult struct {
		connID  string
		payload any
	}
	results := make([]playerResult, 0, len(room.players))
	for _, p := range room.players {
		var ans *domain.Answer
		if a, ok := room.answers[p.ConnID]; ok {
			ans = &a
		}

		if q.IsMultiSelect() {
			res := scoreMulti(q, ans, p)
			p.LastRoundPoints = res.points
			results = append(results, playerResult{p.ConnID, domain.MultiResult{
				Correct:        res.correct,
				Points:         res.points,
				Score:          p.Score,
				Streak:         p.Streak,
				CorrectAnswers: q.CorrectAnswers,
				CorrectCount:   res.correctCount,
				TotalCorrect:   res.totalCorrect,
				Type:           domain.QuestionTypeMultiSelect,
			}})
		} else {
			res := scoreSingle(q, ans, p)
			p.LastRoundPoints = res.points
			results = append(results, playerResult{p.ConnID, domain.SingleResult{
				Correct:       res.correct,
				Points:        res.points,
				Score:         p.Score,
				Streak:        p.Streak,
				CorrectAnswer: q.Options[q.CorrectAnswer],
			}})
		}
	}

	ended := domain.QuestionEnded{
		Leaderboard:    room.leaderboardLocked(),
		CorrectAnswers: []int{},
		Type:           q.Type,
	}
	if q.IsMultiSelect() {
		texts := make([]string, 0, len(q.CorrectAnswers))
		for _, idx := range q.CorrectAnswers {
			texts = append(texts, q.Options[idx])
		}
		ended.CorrectAnswerText = strings.Join(texts, ", ")
		ended.CorrectAnswers = q.CorrectAnswers
	} else {
		ended.CorrectAnswerText = q.Options[q.CorrectAnswer]
	}
	roomCode := room.code
	questionNo := room.current + 1
	room.mu.Unlock()

	for _, r := range results {
		e.emitter.ToConn(r.connID, domain.EventQuestionResult, r.payload)
	}
	e.emitter.ToRoom(roomCode, domain.EventQuestionEnded, ended)
	log.Printf("question %d resolved in room %s", questionNo, roomCode)
}

// NextQuestion advances from the leaderboard to the next question, or ends
// the game when the question list is exhausted. Stale or unauthorized calls
// are no-ops.
func (e *GameEngine) NextQuestion(ctx context.Context, connID, roomCode string) {
	room, ok := e.rooms.Get(roomCode)
	if !ok {
		return
	}

	room.mu.Lock()
	if room.state != domain.StateLeaderboard || !room.isControllerLocked(connID) {
		room.mu.Unlock()
		return
	}
	room.answers = make(map[string]domain.Answer)
	room.current++

	if room.current >= len(room.questions) {
		room.state = domain.StateFinished
		final := room.leaderboardLocked()
		playerCount := len(room.players)
		questionCount := len(room.questions)
		room.mu.Unlock()

		e.emitter.ToRoom(roomCode, domain.EventGameOver, domain.GameOver{Leaderboard: final})
		log.Printf("game over in room %s", roomCode)

		if playerCount > 1 {
			summary := domain.GameSummary{
				ID:            fmt.Sprintf("game_%d", e.now().UnixMilli()),
				Date:          e.now(),
				Winner:        final[0].Nickname,
				QuestionCount: questionCount,
			}
			for _, row := range final {
				summary.Players = append(summary.Players, domain.SummaryPlayer{
					Nickname: row.Nickname,
					Score:    row.Score,
					Avatar:   row.Avatar,
				})
			}
			if err := e.store.AddGameSummary(ctx, summary); err != nil {
				log.Printf("save game summary for room %s: %v", roomCode, err)
			}
		}
		return
	}

	room.state = domain.StateQuestion
	room.questionStart = e.now()
	room.generation++
	view := room.questionViewLocked()
	room.mu.Unlock()

	e.emitter.ToRoom(roomCode, domain.EventNewQuestion, domain.NewQuestionEvent{Question: view})
}

// Leave removes the connection from whichever room it occupies. It covers
// both explicit leave_room and transport disconnects; removal never blocks
// the remaining players. Returns the room code left, if any.
func (e *GameEngine) Leave(connID string) (string, bool) {
	e.mu.Lock()
	roomCode, ok := e.roomByConn[connID]
	if ok {
		delete(e.roomByConn, connID)
	}
	e.mu.Unlock()
	if !ok {
		return "", false
	}

	room, ok := e.rooms.Get(roomCode)
	if !ok {
		return roomCode, false
	}

	room.mu.Lock()
	var removed *domain.Player
	for i, p := range room.players {
		if p.ConnID == connID {
			removed = p
			room.players = append(room.players[:i], room.players[i+1:]...)
			break
		}
	}
	delete(room.answers, connID)
	wasHost := connID == room.hostConnID
	empty := len(room.players) == 0
	inLobby := room.state == domain.StateLobby
	var roster domain.LobbyUpdate
	if inLobby && !empty {
		roster = room.rosterLocked()
	}
	room.mu.Unlock()

	if removed != nil {
		log.Printf("%s left room %s", removed.Nickname, roomCode)
	}
	if wasHost && !empty {
		// Open question: the game simply continues without a host.
		log.Printf("host left room %s", roomCode)
	}

	if empty {
		e.rooms.Delete(roomCode)
		log.Printf("room %s deleted (empty)", roomCode)
		return roomCode, removed != nil
	}
	if inLobby && removed != nil {
		e.emitter.ToRoom(roomCode, domain.EventLobbyUpdate, roster)
	}
	return roomCode, removed != nil
}

// SubmitSoloScore appends a finished solo run to the solo and daily
// leaderboards.
func (e *GameEngine) SubmitSoloScore(ctx context.Context, nickname string, score int, avatar string) error {
	if avatar == "" {
		avatar = domain.DefaultAvatar
	}
	return e.store.AddSoloScore(ctx, domain.SoloScore{
		Nickname: nickname,
		Score:    score,
		Avatar:   avatar,
		Date:     e.now(),
	})
}

// SoloLeaderboard returns the all-time top solo scores.
func (e *GameEngine) SoloLeaderboard(ctx context.Context) ([]domain.SoloScore, error) {
	return e.store.TopSolo(ctx, topN)
}

// DailyLeaderboard returns today's top solo scores.
func (e *GameEngine) DailyLeaderboard(ctx context.Context) ([]domain.SoloScore, error) {
	return e.store.TopDaily(ctx, e.now(), topN)
}

// MultiplayerLeaderboard returns every saved game summary.
func (e *GameEngine) MultiplayerLeaderboard(ctx context.Context) ([]domain.GameSummary, error) {
	return e.store.GameSummaries(ctx)
}

// AdminLogin checks the shared admin secret.
func (e *GameEngine) AdminLogin(password string) error {
	if password != e.adminPassword {
		return domain.ErrInvalidPassword
	}
	return nil
}

// AdminDeleteScore removes one entry from the named leaderboard.
func (e *GameEngine) AdminDeleteScore(ctx context.Context, kind string, index int) error {
	return e.store.DeleteScore(ctx, kind, index)
}

// AdminClearLeaderboard wipes the named leaderboard.
func (e *GameEngine) AdminClearLeaderboard(ctx context.Context, kind string) error {
	return e.store.Clear(ctx, kind)
}
