package questions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"net/http"
	"regexp"
	"strings"
	"time"

	"brandquiz-service/internal/domain"
)

// DefaultGeminiBaseURL is the public Gemini REST endpoint root.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiProvider generates quiz questions by calling the Gemini
// generateContent REST API. Any transport, parse, or validation failure is
// surfaced as an error so the caller can fall back to the static bank.
type GeminiProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	rnd     *rand.Rand
}

func NewGeminiProvider(apiKey, model, baseURL string, timeout time.Duration) *GeminiProvider {
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	if model == "" {
		model = "gemini-2.0-flash-001"
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &GeminiProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// rawQuestion is the documented JSON shape the model is asked to emit.
// CorrectAnswer may arrive as a number, a letter ("A"–"D"), or the literal
// option text, so it is decoded leniently.
type rawQuestion struct {
	Type           string          `json:"type"`
	Text           string          `json:"text"`
	Options        []string        `json:"options"`
	CorrectAnswer  json.RawMessage `json:"correctAnswer"`
	CorrectAnswers []int           `json:"correctAnswers"`
	TimeLimit      int             `json:"timeLimit"`
}

// Generate requests count questions for the selected groups. Questions that
// fail parsing or validation are dropped; zero survivors is an error.
func (p *GeminiProvider) Generate(ctx context.Context, count int, groupIDs []string) ([]domain.Question, error) {
	groups := validGroupIDs(groupIDs)
	prompt := buildPrompt(count, groups)

	body, err := json.Marshal(generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.baseURL, p.model, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("gemini api error (%d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var payload generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}
	if len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini response has no candidates")
	}

	raw, err := parseQuestionJSON(payload.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		return nil, err
	}

	valid := make([]domain.Question, 0, len(raw))
	for _, rq := range raw {
		q, ok := normalizeQuestion(rq)
		if !ok {
			continue
		}
		if accepted, reason := ValidateQuestion(q, groups); !accepted {
			log.Printf("question rejected: %s (text: %q)", reason, rq.Text)
			continue
		}
		valid = append(valid, q)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("all generated questions failed validation")
	}

	if len(valid) > count {
		valid = valid[:count]
	}
	for i := range valid {
		valid[i] = ShuffleOptions(p.rnd, valid[i])
	}
	return valid, nil
}

// parseQuestionJSON tolerates markdown code fences around the JSON array.
func parseQuestionJSON(text string) ([]rawQuestion, error) {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var raw []rawQuestion
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("parse question array: %w", err)
	}
	return raw, nil
}

var optionPrefix = regexp.MustCompile(`^(?i)[A-D][.)]\s*`)

// normalizeQuestion converts a raw model question into the domain shape,
// resolving the lenient correct-answer encodings. Returns ok=false when the
// question is unusable.
func normalizeQuestion(rq rawQuestion) (domain.Question, bool) {
	if rq.Text == "" || len(rq.Options) == 0 {
		return domain.Question{}, false
	}

	options := make([]string, len(rq.Options))
	for i, opt := range rq.Options {
		options[i] = strings.TrimSpace(optionPrefix.ReplaceAllString(opt, ""))
	}

	if rq.Type == domain.QuestionTypeMultiSelect {
		if len(rq.CorrectAnswers) == 0 {
			log.Printf("skipping multi-select question: missing correctAnswers array")
			return domain.Question{}, false
		}
		timeLimit := rq.TimeLimit
		if timeLimit == 0 {
			timeLimit = 20
		}
		return domain.Question{
			Type:           domain.QuestionTypeMultiSelect,
			Text:           HighlightBrands(rq.Text),
			Options:        options,
			CorrectAnswers: rq.CorrectAnswers,
			TimeLimit:      timeLimit,
		}, true
	}

	idx, ok := resolveCorrectIndex(rq.CorrectAnswer, rq.Options)
	if !ok {
		log.Printf("skipping question: could not resolve correct answer %s in options %v", rq.CorrectAnswer, rq.Options)
		return domain.Question{}, false
	}
	timeLimit := rq.TimeLimit
	if timeLimit == 0 {
		timeLimit = 12
	}
	return domain.Question{
		Text:          HighlightBrands(rq.Text),
		Options:       options,
		CorrectAnswer: idx,
		TimeLimit:     timeLimit,
	}, true
}

// resolveCorrectIndex accepts numeric indices, option letters, or the
// literal option text (exact first, then trimmed case-insensitive).
func resolveCorrectIndex(raw json.RawMessage, options []string) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var asInt int
	if err := json.Unmarshal(raw, &asInt); err == nil {
		if asInt < 0 || asInt >= len(options) {
			return 0, false
		}
		return asInt, true
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err != nil {
		return 0, false
	}

	letter := strings.ToUpper(strings.TrimSpace(asString))
	if len(letter) == 1 && letter[0] >= 'A' && letter[0] <= 'D' {
		idx := int(letter[0] - 'A')
		if idx < len(options) {
			return idx, true
		}
		return 0, false
	}

	for i, opt := range options {
		if opt == asString {
			return i, true
		}
	}
	want := strings.ToLower(strings.TrimSpace(asString))
	for i, opt := range options {
		if strings.ToLower(strings.TrimSpace(opt)) == want {
			return i, true
		}
	}
	return 0, false
}

func validGroupIDs(groupIDs []string) []string {
	valid := make([]string, 0, len(groupIDs))
	for _, id := range groupIDs {
		if _, ok := Groups[id]; ok {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		valid = []string{"MARRIOTT"}
	}
	return valid
}

// buildPrompt renders the generation instructions: a single-group drill or a
// multi-group comparison, with the full dataset inlined so the model does
// not hallucinate brand ownership.
func buildPrompt(count int, groupIDs []string) string {
	allGroups, _ := json.MarshalIndent(Groups, "", "  ")
	selectedName := Groups[groupIDs[0]].Name
	ask := int(math.Ceil(float64(count) * 1.5))

	var instructions string
	if len(groupIDs) == 1 {
		instructions = fmt.Sprintf(`
**MODE: SINGLE GROUP TRAINING (%[1]s)**
You must generate questions specifically to test knowledge of **%[1]s** against its competitors.

**FORBIDDEN QUESTION TYPES:**
- DO NOT ask "Which hotel group owns [Brand]?" if the answer is %[1]s. (This is too easy).

**REQUIRED QUESTION TYPES:**
1. **Find the Brand:** "Which of these is a %[1]s brand?" (Options: 1 Correct Brand, 3 Competitor Brands).
2. **Find the Imposter:** "Which of these is NOT a %[1]s brand?" (Options: 3 Correct Brands, 1 Competitor Brand).
3. **True/False:** "Is [Competitor Brand] part of %[1]s?" (Correct Answer: No).
4. **True/False:** "Is [Correct Brand] part of %[1]s?" (Correct Answer: Yes).

**SMART DISTRACTORS:**
- When choosing distractors, match the **tier/category** of the correct answer.
- Example: If the correct answer is a Luxury brand (e.g., Ritz-Carlton), distractors MUST be Luxury brands from other groups (e.g., Waldorf Astoria, Park Hyatt, Sofitel). DO NOT use budget brands as distractors for luxury questions.
`, selectedName)
	} else {
		instructions = `
**MODE: MULTI-GROUP COMPARISON**
You must generate questions to compare and contrast the selected groups.

**QUESTION TYPES:**
1. **Ownership:** "Which hotel group owns [Brand]?"
2. **Comparison:** "Which of these brands belongs to [Group]?"
3. **True/False:** "Is [Brand] part of [Group]?"

**SMART DISTRACTORS:**
- Always include distractors from the other selected groups first, then other major groups if needed.
`
	}

	return fmt.Sprintf(`You are an expert Hotel Consultant.

**FULL DATA CONTEXT (Reference Source):**
%s

**INSTRUCTIONS:**
The user is training on: **%s**.
%s

**CRITICAL RULES:**
1. Generate %d unique questions (we'll filter the best ones).
2. **IMPORTANT: Include 1-2 MULTI-SELECT questions in the quiz.**
3. Use the **FULL DATA CONTEXT** to verify facts. Do not hallucinate relationships.
4. **For standard questions**: Provide exactly 4 options.
5. **For multi-select questions**: Provide 6-8 options with multiple correct answers.

**MULTI-SELECT QUESTION FORMAT:**
- Type: "Select all brands belonging to [Group]"
- Must include "type": "multi-select" in the JSON
- Must include "correctAnswers": [0, 2, 4, 5] (array of all correct indices)
- Must include "timeLimit": 20 (20 seconds instead of 12)
- Options should be a mix of correct brands from the target group and competitor brands

**OUTPUT FORMAT:**
Strict JSON Array. No Markdown.
Standard question structure: [{ "id": 1, "text": "Question?", "options": ["A", "B", "C", "D"], "correctAnswer": "A", "explanation": "Short fact." }]
Multi-select structure: [{ "id": 2, "type": "multi-select", "text": "Select all...", "options": [...], "correctAnswers": [0, 2], "timeLimit": 25, "explanation": "..." }]`,
		allGroups, strings.Join(groupIDs, ", "), instructions, ask)
}
