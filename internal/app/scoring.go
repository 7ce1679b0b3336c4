package app

import "brandquiz-service/internal/domain"

const (
	singleBasePoints  = 10
	streakBonusPoints = 5
)

// roundResult is the scoring outcome for one player on one question.
type roundResult struct {
	points       int
	correct      bool
	correctCount int // multi-select only: correct selections net of wrong picks
	totalCorrect int // multi-select only: size of the answer key
}

// scoreSingle applies single-select scoring to p and returns the outcome.
// A correct answer pays the base plus a bonus per streak round accumulated
// before this answer; anything else resets the streak.
func scoreSingle(q domain.Question, ans *domain.Answer, p *domain.Player) roundResult {
	if ans == nil || ans.Options != nil || ans.Option != q.CorrectAnswer {
		p.Streak = 0
		return roundResult{}
	}
	points := singleBasePoints + p.Streak*streakBonusPoints
	p.Score += points
	p.Streak++
	return roundResult{points: points, correct: true}
}

// scoreMulti applies multi-select scoring: one point per correct selection
// minus one per incorrect selection, floored at zero. The streak survives
// only an exact match of the answer key. A missing or malformed answer is an
// empty selection.
func scoreMulti(q domain.Question, ans *domain.Answer, p *domain.Player) roundResult {
	key := make(map[int]bool, len(q.CorrectAnswers))
	for _, idx := range q.CorrectAnswers {
		key[idx] = true
	}

	var selected []int
	if ans != nil {
		selected = ans.Options
	}

	seen := make(map[int]bool, len(selected))
	matched, wrong := 0, 0
	for _, idx := range selected {
		if seen[idx] {
			continue
		}
		seen[idx] = true
		if key[idx] {
			matched++
		} else {
			wrong++
		}
	}

	points := matched - wrong
	if points < 0 {
		points = 0
	}
	p.Score += points

	exact := wrong == 0 && matched == len(key) && len(seen) == len(key)
	if exact {
		p.Streak++
	} else {
		p.Streak = 0
	}

	return roundResult{
		points:       points,
		correct:      exact,
		correctCount: points,
		totalCorrect: len(key),
	}
}
