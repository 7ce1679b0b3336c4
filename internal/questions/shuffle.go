package questions

import (
	"math/rand"

	"brandquiz-service/internal/domain"
)

// ShuffleOptions returns a copy of q with its options in random order and
// every correct-answer index remapped to the option's new position.
func ShuffleOptions(rnd *rand.Rand, q domain.Question) domain.Question {
	perm := rnd.Perm(len(q.Options))

	shuffled := make([]string, len(q.Options))
	newIndex := make([]int, len(q.Options)) // old position -> new position
	for newPos, oldPos := range perm {
		shuffled[newPos] = q.Options[oldPos]
		newIndex[oldPos] = newPos
	}

	out := q
	out.Options = shuffled
	if q.IsMultiSelect() {
		remapped := make([]int, len(q.CorrectAnswers))
		for i, oldPos := range q.CorrectAnswers {
			remapped[i] = newIndex[oldPos]
		}
		out.CorrectAnswers = remapped
	} else {
		out.CorrectAnswer = newIndex[q.CorrectAnswer]
	}
	return out
}
