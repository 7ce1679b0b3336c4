package domain

import "time"

// RoomState is the lifecycle phase of a game room.
type RoomState string

const (
	StateLobby       RoomState = "LOBBY"
	StateQuestion    RoomState = "QUESTION"
	StateLeaderboard RoomState = "LEADERBOARD"
	StateFinished    RoomState = "FINISHED"
)

// QuestionTypeMultiSelect marks questions with more than one correct option.
// Single-select questions carry an empty type.
const QuestionTypeMultiSelect = "multi-select"

// DefaultAvatar is used when a player joins without picking one.
const DefaultAvatar = "👤"

// Player is a connected participant in one room.
type Player struct {
	ConnID          string `json:"id"`
	Nickname        string `json:"nickname"`
	Avatar          string `json:"avatar"`
	Score           int    `json:"score"`
	Streak          int    `json:"streak"`
	LastRoundPoints int    `json:"lastRoundPoints"`
}

// Question is one quiz question. Immutable once placed into a room.
// Text may contain **brand** emphasis markers; they are display-only.
type Question struct {
	Type           string   `json:"type,omitempty"`
	Text           string   `json:"text"`
	Options        []string `json:"options"`
	CorrectAnswer  int      `json:"correctAnswer"`
	CorrectAnswers []int    `json:"correctAnswers,omitempty"`
	TimeLimit      int      `json:"timeLimit"`
}

func (q Question) IsMultiSelect() bool {
	return q.Type == QuestionTypeMultiSelect
}

// QuestionView is the public shape broadcast to clients; correct-answer
// fields are withheld.
type QuestionView struct {
	Text      string   `json:"text"`
	Options   []string `json:"options"`
	TimeLimit int      `json:"timeLimit"`
	Type      string   `json:"type,omitempty"`
	Index     int      `json:"index"`
	Total     int      `json:"total"`
}

// Answer is a recorded submission for the current question.
// Options is nil for single-select answers.
type Answer struct {
	Option    int
	Options   []int
	TimeTaken float64
}

// LeaderboardRow is one ranked entry in a question/final leaderboard broadcast.
type LeaderboardRow struct {
	ConnID          string `json:"id"`
	Nickname        string `json:"nickname"`
	Avatar          string `json:"avatar"`
	Score           int    `json:"score"`
	LastRoundPoints int    `json:"lastRoundPoints"`
}

// SoloScore is a write-once solo leaderboard entry.
type SoloScore struct {
	Nickname string    `json:"nickname"`
	Score    int       `json:"score"`
	Avatar   string    `json:"avatar"`
	Date     time.Time `json:"date"`
}

// SummaryPlayer is a ranked player snapshot inside a completed game summary.
type SummaryPlayer struct {
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
	Avatar   string `json:"avatar"`
}

// GameSummary records one completed multiplayer game. Write-once.
type GameSummary struct {
	ID            string          `json:"id"`
	Date          time.Time       `json:"date"`
	Players       []SummaryPlayer `json:"players"`
	Winner        string          `json:"winner"`
	QuestionCount int             `json:"questionCount"`
}

// Leaderboard kinds accepted by admin operations.
const (
	LeaderboardSolo        = "solo"
	LeaderboardDaily       = "daily"
	LeaderboardMultiplayer = "multiplayer"
)
