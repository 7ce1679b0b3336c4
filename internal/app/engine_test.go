package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"brandquiz-service/internal/domain"
)

type fakeRegistry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{rooms: make(map[string]*Room)}
}

func (r *fakeRegistry) Reserve(code string, room *Room) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.rooms[code]; taken {
		return false
	}
	r.rooms[code] = room
	return true
}

func (r *fakeRegistry) Get(code string) (*Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[code]
	return room, ok
}

func (r *fakeRegistry) Delete(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, code)
}

func (r *fakeRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

type fakeStore struct {
	mu        sync.Mutex
	scores    []domain.SoloScore
	summaries []domain.GameSummary
}

func (s *fakeStore) AddSoloScore(_ context.Context, score domain.SoloScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores = append(s.scores, score)
	return nil
}

func (s *fakeStore) TopSolo(_ context.Context, n int) ([]domain.SoloScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.scores
	if n < len(out) {
		out = out[:n]
	}
	return out, nil
}

func (s *fakeStore) TopDaily(_ context.Context, _ time.Time, n int) ([]domain.SoloScore, error) {
	return s.TopSolo(context.Background(), n)
}

func (s *fakeStore) AddGameSummary(_ context.Context, summary domain.GameSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append(s.summaries, summary)
	return nil
}

func (s *fakeStore) GameSummaries(_ context.Context) ([]domain.GameSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.GameSummary(nil), s.summaries...), nil
}

func (s *fakeStore) DeleteScore(_ context.Context, _ string, _ int) error { return nil }

func (s *fakeStore) Clear(_ context.Context, _ string) error { return nil }

type recordedEvent struct {
	target  string // room code or conn ID
	toRoom  bool
	event   string
	payload any
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (e *fakeEmitter) ToRoom(roomCode, event string, payload any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, recordedEvent{target: roomCode, toRoom: true, event: event, payload: payload})
}

func (e *fakeEmitter) ToConn(connID, event string, payload any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, recordedEvent{target: connID, event: event, payload: payload})
}

func (e *fakeEmitter) count(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, ev := range e.events {
		if ev.event == event {
			n++
		}
	}
	return n
}

func (e *fakeEmitter) last(event string) (recordedEvent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := len(e.events) - 1; i >= 0; i-- {
		if e.events[i].event == event {
			return e.events[i], true
		}
	}
	return recordedEvent{}, false
}

// waitFor polls until the nth occurrence of event arrives.
func (e *fakeEmitter) waitFor(t *testing.T, event string, n int) recordedEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if e.count(event) >= n {
			ev, _ := e.last(event)
			return ev
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for event %q (%d)", event, n)
	return recordedEvent{}
}

type fakeProvider struct {
	mu        sync.Mutex
	questions []domain.Question
	err       error
	lastCount int
}

func (p *fakeProvider) Generate(_ context.Context, count int, _ []string) ([]domain.Question, error) {
	p.mu.Lock()
	p.lastCount = count
	p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return p.questions, nil
}

func (p *fakeProvider) requested() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastCount
}

type fakeBank struct{ marker string }

func (b *fakeBank) Questions(count int) []domain.Question {
	out := make([]domain.Question, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, domain.Question{
			Text:          fmt.Sprintf("%s %d", b.marker, i),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: 0,
			TimeLimit:     12,
		})
	}
	return out
}

func fixedQuestions(n int) []domain.Question {
	out := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Question{
			Text:          fmt.Sprintf("question %d", i),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: 0,
			TimeLimit:     12,
		})
	}
	return out
}

type engineFixture struct {
	engine   *GameEngine
	registry *fakeRegistry
	store    *fakeStore
	emitter  *fakeEmitter
	provider *fakeProvider
}

func newFixture(questions []domain.Question) *engineFixture {
	f := &engineFixture{
		registry: newFakeRegistry(),
		store:    &fakeStore{},
		emitter:  &fakeEmitter{},
		provider: &fakeProvider{questions: questions},
	}
	f.engine = NewGameEngine(f.registry, f.store, f.emitter, f.provider, &fakeBank{marker: "fallback"}, "12345")
	f.engine.SetDebounce(time.Millisecond)
	return f
}

func TestCreateRoomCode(t *testing.T) {
	f := newFixture(fixedQuestions(5))
	code, err := f.engine.CreateRoom("host")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if len(code) != 4 {
		t.Fatalf("expected 4-digit code, got %q", code)
	}
	if code[0] == '0' {
		t.Fatalf("code %q must not start with zero", code)
	}
	room, ok := f.registry.Get(code)
	if !ok {
		t.Fatalf("room %s not registered", code)
	}
	if room.State() != domain.StateLobby {
		t.Fatalf("new room state = %s, want LOBBY", room.State())
	}
	if room.PlayerCount() != 0 {
		t.Fatalf("hostless room should start empty, got %d players", room.PlayerCount())
	}
}

func TestCreateRoomWithPlayerSeatsCreator(t *testing.T) {
	f := newFixture(fixedQuestions(5))
	code, err := f.engine.CreateRoomWithPlayer("host", "Ana", "")
	if err != nil {
		t.Fatalf("CreateRoomWithPlayer: %v", err)
	}
	room, _ := f.registry.Get(code)
	if room.PlayerCount() != 1 {
		t.Fatalf("expected 1 player, got %d", room.PlayerCount())
	}
	room.mu.Lock()
	avatar := room.players[0].Avatar
	room.mu.Unlock()
	if avatar != domain.DefaultAvatar {
		t.Fatalf("empty avatar should default, got %q", avatar)
	}
}

func TestJoinRoomErrors(t *testing.T) {
	f := newFixture(fixedQuestions(5))
	if err := f.engine.JoinRoom("c1", "0000", "Ana", ""); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("join unknown room: got %v, want ErrRoomNotFound", err)
	}

	code, _ := f.engine.CreateRoomWithPlayer("host", "Ana", "")
	if err := f.engine.JoinRoom("c2", code, "Ana", ""); !errors.Is(err, domain.ErrNicknameTaken) {
		t.Fatalf("duplicate nickname: got %v, want ErrNicknameTaken", err)
	}

	f.engine.StartGame(context.Background(), "host", code, nil, 5)
	if err := f.engine.JoinRoom("c3", code, "Ben", ""); !errors.Is(err, domain.ErrGameAlreadyStarted) {
		t.Fatalf("join after start: got %v, want ErrGameAlreadyStarted", err)
	}
}

func TestJoinRoomBroadcastsRoster(t *testing.T) {
	f := newFixture(fixedQuestions(5))
	code, _ := f.engine.CreateRoomWithPlayer("host", "Ana", "")
	if err := f.engine.JoinRoom("c2", code, "Ben", "🦊"); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}

	joined, ok := f.emitter.last(domain.EventPlayerJoined)
	if !ok {
		t.Fatal("player_joined not emitted")
	}
	if joined.target != "host" || joined.toRoom {
		t.Fatalf("player_joined should go to the host connection, got %+v", joined)
	}

	update, ok := f.emitter.last(domain.EventLobbyUpdate)
	if !ok {
		t.Fatal("lobby_update not emitted")
	}
	roster := update.payload.(domain.LobbyUpdate)
	if len(roster.Players) != 2 {
		t.Fatalf("roster has %d players, want 2", len(roster.Players))
	}
	if roster.Players[0].Nickname != "Ana" || !roster.Players[0].IsHost {
		t.Fatalf("first roster entry should be the host Ana, got %+v", roster.Players[0])
	}
	if roster.Players[1].Nickname != "Ben" || roster.Players[1].Avatar != "🦊" {
		t.Fatalf("second roster entry wrong: %+v", roster.Players[1])
	}
}

func TestStartGameSoloSynthesizesPlayer(t *testing.T) {
	f := newFixture(fixedQuestions(15))
	code, _ := f.engine.CreateRoom("host")
	f.engine.StartGame(context.Background(), "host", code, nil, 0)

	if f.provider.requested() != 15 {
		t.Fatalf("solo default question count = %d, want 15", f.provider.requested())
	}
	room, _ := f.registry.Get(code)
	if room.PlayerCount() != 1 {
		t.Fatalf("solo start should synthesize one player, got %d", room.PlayerCount())
	}
	room.mu.Lock()
	nick := room.players[0].Nickname
	room.mu.Unlock()
	if nick != "SoloPlayer" {
		t.Fatalf("synthesized player nickname = %q, want SoloPlayer", nick)
	}

	if n := f.emitter.count(domain.EventGameStarted); n != 1 {
		t.Fatalf("game_started emitted %d times, want 1", n)
	}
	ev := f.emitter.waitFor(t, domain.EventNewQuestion, 1)
	view := ev.payload.(domain.NewQuestionEvent).Question
	if view.Index != 0 || view.Total != 15 {
		t.Fatalf("first question view = index %d total %d", view.Index, view.Total)
	}
}

func TestStartGameCountClamp(t *testing.T) {
	cases := []struct {
		requested int
		want      int
	}{
		{3, 5},
		{30, 25},
		{7, 7},
	}
	for _, tc := range cases {
		f := newFixture(fixedQuestions(5))
		code, _ := f.engine.CreateRoom("host")
		f.engine.StartGame(context.Background(), "host", code, nil, tc.requested)
		if got := f.provider.requested(); got != tc.want {
			t.Fatalf("requested %d: provider asked for %d, want %d", tc.requested, got, tc.want)
		}
	}
}

func TestStartGameMultiplayerDefaultCount(t *testing.T) {
	f := newFixture(fixedQuestions(5))
	code, _ := f.engine.CreateRoomWithPlayer("host", "Ana", "")
	if err := f.engine.JoinRoom("c2", code, "Ben", ""); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	f.engine.StartGame(context.Background(), "host", code, nil, 0)
	if f.provider.requested() != 20 {
		t.Fatalf("multiplayer default question count = %d, want 20", f.provider.requested())
	}
}

func TestStartGameProviderFailureUsesFallback(t *testing.T) {
	f := newFixture(nil)
	f.provider.err = errors.New("quota exceeded")
	code, _ := f.engine.CreateRoom("host")
	f.engine.StartGame(context.Background(), "host", code, nil, 5)

	ev := f.emitter.waitFor(t, domain.EventNewQuestion, 1)
	view := ev.payload.(domain.NewQuestionEvent).Question
	if view.Text != "fallback 0" {
		t.Fatalf("expected fallback question, got %q", view.Text)
	}
	room, _ := f.registry.Get(code)
	if room.State() != domain.StateQuestion {
		t.Fatalf("room state = %s, want QUESTION", room.State())
	}
}

func TestStartGameIgnoresNonController(t *testing.T) {
	f := newFixture(fixedQuestions(5))
	code, _ := f.engine.CreateRoomWithPlayer("host", "Ana", "")
	if err := f.engine.JoinRoom("c2", code, "Ben", ""); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	f.engine.StartGame(context.Background(), "c2", code, nil, 5)
	room, _ := f.registry.Get(code)
	if room.State() != domain.StateLobby {
		t.Fatalf("non-host started the game, state = %s", room.State())
	}
}

func TestSubmitAnswerResolvesWhenAllAnswered(t *testing.T) {
	f := newFixture(fixedQuestions(5))
	code, _ := f.engine.CreateRoomWithPlayer("host", "Ana", "")
	if err := f.engine.JoinRoom("c2", code, "Ben", ""); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	f.engine.StartGame(context.Background(), "host", code, nil, 5)

	f.engine.SubmitAnswer("host", code, domain.Answer{Option: 0})
	answered := f.emitter.waitFor(t, domain.EventPlayerAnswered, 1)
	if pa := answered.payload.(domain.PlayerAnswered); pa.AnsweredCount != 1 {
		t.Fatalf("answered count = %d, want 1", pa.AnsweredCount)
	}

	f.engine.SubmitAnswer("c2", code, domain.Answer{Option: 3})
	ended := f.emitter.waitFor(t, domain.EventQuestionEnded, 1)

	payload := ended.payload.(domain.QuestionEnded)
	if payload.CorrectAnswerText != "A" {
		t.Fatalf("correct answer text = %q, want A", payload.CorrectAnswerText)
	}
	if len(payload.Leaderboard) != 2 {
		t.Fatalf("leaderboard has %d rows, want 2", len(payload.Leaderboard))
	}
	if payload.Leaderboard[0].Nickname != "Ana" || payload.Leaderboard[0].Score != 10 {
		t.Fatalf("leaderboard head = %+v, want Ana with 10", payload.Leaderboard[0])
	}
	if payload.Leaderboard[1].Score != 0 {
		t.Fatalf("Ben should have 0 points, got %d", payload.Leaderboard[1].Score)
	}

	res, ok := f.emitter.last(domain.EventQuestionResult)
	if !ok {
		t.Fatal("question_result not emitted")
	}
	if !res.toRoom && res.target == "c2" {
		single := res.payload.(domain.SingleResult)
		if single.Correct || single.Points != 0 {
			t.Fatalf("Ben's result = %+v, want incorrect with 0 points", single)
		}
	}
}

func TestSubmitAnswerDuplicateIgnored(t *testing.T) {
	f := newFixture(fixedQuestions(5))
	code, _ := f.engine.CreateRoomWithPlayer("host", "Ana", "")
	if err := f.engine.JoinRoom("c2", code, "Ben", ""); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	f.engine.StartGame(context.Background(), "host", code, nil, 5)

	f.engine.SubmitAnswer("host", code, domain.Answer{Option: 0})
	f.engine.SubmitAnswer("host", code, domain.Answer{Option: 1})
	time.Sleep(20 * time.Millisecond)

	if n := f.emitter.count(domain.EventPlayerAnswered); n != 1 {
		t.Fatalf("player_answered emitted %d times, want 1", n)
	}
	room, _ := f.registry.Get(code)
	if room.State() != domain.StateQuestion {
		t.Fatalf("one of two answers should not resolve the question, state = %s", room.State())
	}
}

func TestTimeUpResolvesOnce(t *testing.T) {
	f := newFixture(fixedQuestions(5))
	code, _ := f.engine.CreateRoom("host")
	f.engine.StartGame(context.Background(), "host", code, nil, 5)

	f.engine.TimeUp("host", code)
	f.engine.TimeUp("host", code)

	if n := f.emitter.count(domain.EventQuestionEnded); n != 1 {
		t.Fatalf("question_ended emitted %d times, want 1", n)
	}
	room, _ := f.registry.Get(code)
	if room.State() != domain.StateLeaderboard {
		t.Fatalf("room state = %s, want LEADERBOARD", room.State())
	}

	res, _ := f.emitter.last(domain.EventQuestionResult)
	single := res.payload.(domain.SingleResult)
	if single.Correct {
		t.Fatal("unanswered question scored as correct")
	}
}

func TestDebounceDoesNotDoubleResolveAfterTimeUp(t *testing.T) {
	f := newFixture(fixedQuestions(5))
	f.engine.SetDebounce(30 * time.Millisecond)
	code, _ := f.engine.CreateRoom("host")
	f.engine.StartGame(context.Background(), "host", code, nil, 5)

	// All answered schedules resolution, but the timeout fires first.
	f.engine.SubmitAnswer("host", code, domain.Answer{Option: 0})
	f.engine.TimeUp("host", code)
	time.Sleep(80 * time.Millisecond)

	if n := f.emitter.count(domain.EventQuestionEnded); n != 1 {
		t.Fatalf("question_ended emitted %d times, want 1", n)
	}
}

func TestFullSoloGame(t *testing.T) {
	f := newFixture(fixedQuestions(5))
	code, _ := f.engine.CreateRoom("host")
	f.engine.StartGame(context.Background(), "host", code, nil, 5)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		f.engine.SubmitAnswer("host", code, domain.Answer{Option: 0})
		f.emitter.waitFor(t, domain.EventQuestionEnded, i+1)
		f.engine.NextQuestion(ctx, "host", code)
	}

	over := f.emitter.waitFor(t, domain.EventGameOver, 1)
	final := over.payload.(domain.GameOver).Leaderboard
	if len(final) != 1 {
		t.Fatalf("final leaderboard has %d rows, want 1", len(final))
	}
	// 10 + 15 + 20 + 25 + 30 with the streak bonus compounding.
	if final[0].Score != 100 {
		t.Fatalf("perfect 5-question run = %d points, want 100", final[0].Score)
	}

	summaries, _ := f.store.GameSummaries(ctx)
	if len(summaries) != 0 {
		t.Fatalf("solo games must not be saved as summaries, got %d", len(summaries))
	}
}

func TestFullMultiplayerGameSavesSummary(t *testing.T) {
	f := newFixture(fixedQuestions(5))
	code, _ := f.engine.CreateRoomWithPlayer("host", "Ana", "")
	if err := f.engine.JoinRoom("c2", code, "Ben", ""); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	f.engine.StartGame(context.Background(), "host", code, nil, 5)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		f.engine.SubmitAnswer("host", code, domain.Answer{Option: 0})
		f.engine.SubmitAnswer("c2", code, domain.Answer{Option: 1})
		f.emitter.waitFor(t, domain.EventQuestionEnded, i+1)
		f.engine.NextQuestion(ctx, "host", code)
	}
	f.emitter.waitFor(t, domain.EventGameOver, 1)

	summaries, _ := f.store.GameSummaries(ctx)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 game summary, got %d", len(summaries))
	}
	s := summaries[0]
	if s.Winner != "Ana" {
		t.Fatalf("winner = %q, want Ana", s.Winner)
	}
	if s.QuestionCount != 5 {
		t.Fatalf("question count = %d, want 5", s.QuestionCount)
	}
	if len(s.Players) != 2 || s.Players[0].Score != 100 || s.Players[1].Score != 0 {
		t.Fatalf("summary players wrong: %+v", s.Players)
	}

	room, _ := f.registry.Get(code)
	if room.State() != domain.StateFinished {
		t.Fatalf("room state = %s, want FINISHED", room.State())
	}
}

func TestNextQuestionRequiresLeaderboardState(t *testing.T) {
	f := newFixture(fixedQuestions(5))
	code, _ := f.engine.CreateRoom("host")
	f.engine.StartGame(context.Background(), "host", code, nil, 5)

	f.engine.NextQuestion(context.Background(), "host", code)
	room, _ := f.registry.Get(code)
	if room.State() != domain.StateQuestion {
		t.Fatalf("NextQuestion during QUESTION should be a no-op, state = %s", room.State())
	}
	if n := f.emitter.count(domain.EventNewQuestion); n != 1 {
		t.Fatalf("new_question emitted %d times, want 1", n)
	}
}

func TestLeaveLobbyRebroadcastsRoster(t *testing.T) {
	f := newFixture(fixedQuestions(5))
	code, _ := f.engine.CreateRoomWithPlayer("host", "Ana", "")
	if err := f.engine.JoinRoom("c2", code, "Ben", ""); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}

	left, ok := f.engine.Leave("c2")
	if !ok || left != code {
		t.Fatalf("Leave = (%q, %v), want (%q, true)", left, ok, code)
	}

	update, _ := f.emitter.last(domain.EventLobbyUpdate)
	roster := update.payload.(domain.LobbyUpdate)
	if len(roster.Players) != 1 || roster.Players[0].Nickname != "Ana" {
		t.Fatalf("roster after leave = %+v, want only Ana", roster.Players)
	}
}

func TestLeaveLastPlayerDeletesRoom(t *testing.T) {
	f := newFixture(fixedQuestions(5))
	code, _ := f.engine.CreateRoomWithPlayer("host", "Ana", "")

	f.engine.Leave("host")
	if _, ok := f.registry.Get(code); ok {
		t.Fatalf("room %s should be deleted when its last player leaves", code)
	}
	if f.registry.size() != 0 {
		t.Fatalf("registry still holds %d rooms", f.registry.size())
	}
}

func TestLeaveUnknownConnIsNoop(t *testing.T) {
	f := newFixture(fixedQuestions(5))
	if code, ok := f.engine.Leave("ghost"); ok || code != "" {
		t.Fatalf("Leave for unknown conn = (%q, %v), want empty no-op", code, ok)
	}
}

func TestGameContinuesAfterHostLeaves(t *testing.T) {
	f := newFixture(fixedQuestions(5))
	code, _ := f.engine.CreateRoomWithPlayer("host", "Ana", "")
	if err := f.engine.JoinRoom("c2", code, "Ben", ""); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	f.engine.StartGame(context.Background(), "host", code, nil, 5)

	f.engine.Leave("host")
	room, ok := f.registry.Get(code)
	if !ok {
		t.Fatal("room should survive the host leaving while a player remains")
	}
	if room.PlayerCount() != 1 {
		t.Fatalf("room has %d players, want 1", room.PlayerCount())
	}

	// The remaining sole player can now drive the game.
	f.engine.SubmitAnswer("c2", code, domain.Answer{Option: 0})
	f.emitter.waitFor(t, domain.EventQuestionEnded, 1)
	f.engine.NextQuestion(context.Background(), "c2", code)
	if n := f.emitter.count(domain.EventNewQuestion); n != 2 {
		t.Fatalf("new_question emitted %d times, want 2", n)
	}
}

func TestSubmitSoloScoreDefaultsAvatar(t *testing.T) {
	f := newFixture(fixedQuestions(5))
	if err := f.engine.SubmitSoloScore(context.Background(), "Ana", 120, ""); err != nil {
		t.Fatalf("SubmitSoloScore: %v", err)
	}
	scores, _ := f.store.TopSolo(context.Background(), 10)
	if len(scores) != 1 {
		t.Fatalf("expected 1 score, got %d", len(scores))
	}
	if scores[0].Avatar != domain.DefaultAvatar {
		t.Fatalf("avatar = %q, want default", scores[0].Avatar)
	}
	if scores[0].Date.IsZero() {
		t.Fatal("score date not set")
	}
}

func TestAdminLogin(t *testing.T) {
	f := newFixture(fixedQuestions(5))
	if err := f.engine.AdminLogin("wrong"); !errors.Is(err, domain.ErrInvalidPassword) {
		t.Fatalf("wrong password: got %v, want ErrInvalidPassword", err)
	}
	if err := f.engine.AdminLogin("12345"); err != nil {
		t.Fatalf("correct password rejected: %v", err)
	}
}
