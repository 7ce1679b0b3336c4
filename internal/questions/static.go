package questions

import (
	"math/rand"
	"time"

	"brandquiz-service/internal/domain"
)

// staticBank is the fallback question set used whenever the AI provider
// fails. Facts here are fixed and pre-verified.
var staticBank = []domain.Question{
	{Text: "Which brand is Marriott's flagship luxury brand?", Options: []string{"JW Marriott", "Ritz-Carlton", "St. Regis", "W Hotels"}, CorrectAnswer: 1},
	{Text: "Is Bulgari part of the Marriott portfolio?", Options: []string{"Yes", "No"}, CorrectAnswer: 0},
	{Text: "Which brand offers yacht experiences?", Options: []string{"W Hotels", "Ritz-Carlton", "EDITION", "St. Regis"}, CorrectAnswer: 1},
	{Text: "Which brand is known for its wellness focus?", Options: []string{"Sheraton", "Westin", "Renaissance", "Le Méridien"}, CorrectAnswer: 1},
	{Text: "Is Autograph Collection a soft brand?", Options: []string{"Yes", "No"}, CorrectAnswer: 0},
	{Text: "Which brand targets creative travelers?", Options: []string{"Renaissance", "Le Méridien", "Sheraton", "Delta Hotels"}, CorrectAnswer: 0},
	{Text: "Which brand is designed for extended stays?", Options: []string{"Courtyard", "Residence Inn", "Fairfield Inn", "SpringHill Suites"}, CorrectAnswer: 1},
	{Text: "Is Moxy a budget-friendly brand?", Options: []string{"Yes", "No"}, CorrectAnswer: 0},
	{Text: "Which brand focuses on eco-conscious travelers?", Options: []string{"Element", "Aloft", "AC Hotels", "Four Points"}, CorrectAnswer: 0},
	{Text: "Which brand offers vacation ownership?", Options: []string{"Residence Inn", "Marriott Vacation Club", "TownePlace Suites", "Element"}, CorrectAnswer: 1},
	{Text: "Does Homes & Villas offer private home rentals?", Options: []string{"Yes", "No"}, CorrectAnswer: 0},
	{Text: "Is Hilton part of Marriott?", Options: []string{"Yes", "No"}, CorrectAnswer: 1},
	{Text: "Which of these is NOT a Marriott brand?", Options: []string{"Westin", "Sofitel", "Sheraton", "Courtyard"}, CorrectAnswer: 1},
	{Text: "Is Crowne Plaza a Marriott brand?", Options: []string{"Yes", "No"}, CorrectAnswer: 1},
	{Text: "Which is a competitor brand?", Options: []string{"Aloft", "Best Western", "Moxy", "AC Hotels"}, CorrectAnswer: 1},
	{
		Type:           domain.QuestionTypeMultiSelect,
		Text:           "Select all **Luxury** brands from Marriott:",
		Options:        []string{"Ritz-Carlton", "Courtyard", "St. Regis", "Moxy", "JW Marriott", "Aloft"},
		CorrectAnswers: []int{0, 2, 4},
		TimeLimit:      20,
	},
	{
		Type:           domain.QuestionTypeMultiSelect,
		Text:           "Select all brands that are **NOT** part of Marriott:",
		Options:        []string{"Westin", "Hilton", "Sheraton", "Hyatt", "Renaissance", "InterContinental"},
		CorrectAnswers: []int{1, 3, 5},
		TimeLimit:      20,
	},
}

// StaticBank serves fallback questions from the fixed in-process bank.
type StaticBank struct {
	rnd *rand.Rand
}

func NewStaticBank() *StaticBank {
	return &StaticBank{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Questions returns up to count questions drawn from the bank in random
// order, each with brand emphasis applied and its options shuffled.
func (b *StaticBank) Questions(count int) []domain.Question {
	picked := make([]domain.Question, len(staticBank))
	copy(picked, staticBank)
	b.rnd.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	if count < len(picked) {
		picked = picked[:count]
	}

	out := make([]domain.Question, 0, len(picked))
	for _, q := range picked {
		q.Text = HighlightBrands(q.Text)
		if q.TimeLimit == 0 {
			q.TimeLimit = 12
		}
		out = append(out, ShuffleOptions(b.rnd, q))
	}
	return out
}
