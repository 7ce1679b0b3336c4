package domain

// Event names pushed over the realtime channel.
const (
	EventPlayerJoined   = "player_joined"
	EventLobbyUpdate    = "lobby_update"
	EventGameStarted    = "game_started"
	EventNewQuestion    = "new_question"
	EventPlayerAnswered = "player_answered"
	EventQuestionResult = "question_result"
	EventQuestionEnded  = "question_ended"
	EventGameOver       = "game_over"
)

// LobbyPlayer is the roster view broadcast while a room is in the lobby.
type LobbyPlayer struct {
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	IsHost   bool   `json:"isHost"`
}

// LobbyUpdate is the full roster push sent on every join/leave in the lobby.
type LobbyUpdate struct {
	Players []LobbyPlayer `json:"players"`
}

// NewQuestionEvent wraps the public view of the question being served.
type NewQuestionEvent struct {
	Question QuestionView `json:"question"`
}

// PlayerAnswered notifies the host that one more answer arrived.
type PlayerAnswered struct {
	PlayerID      string `json:"playerId"`
	AnsweredCount int    `json:"answeredCount"`
}

// SingleResult is the per-player outcome of a single-select question.
type SingleResult struct {
	Correct       bool   `json:"correct"`
	Points        int    `json:"points"`
	Score         int    `json:"score"`
	Streak        int    `json:"streak"`
	CorrectAnswer string `json:"correctAnswer"`
}

// MultiResult is the per-player outcome of a multi-select question.
type MultiResult struct {
	Correct        bool   `json:"correct"`
	Points         int    `json:"points"`
	Score          int    `json:"score"`
	Streak         int    `json:"streak"`
	CorrectAnswers []int  `json:"correctAnswers"`
	CorrectCount   int    `json:"correctCount"`
	TotalCorrect   int    `json:"totalCorrect"`
	Type           string `json:"type"`
}

// QuestionEnded is the room-wide leaderboard snapshot after a resolution.
type QuestionEnded struct {
	Leaderboard       []LeaderboardRow `json:"leaderboard"`
	CorrectAnswerText string           `json:"correctAnswerText"`
	CorrectAnswers    []int            `json:"correctAnswers"`
	Type              string           `json:"type,omitempty"`
}

// GameOver carries the final ranking.
type GameOver struct {
	Leaderboard []LeaderboardRow `json:"leaderboard"`
}
