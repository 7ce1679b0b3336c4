package questions

import (
	"fmt"
	"strings"

	"brandquiz-service/internal/domain"
)

// ValidateQuestion cross-checks a candidate question against the brand
// dataset. The returned reason is non-empty iff the question is rejected.
//
// Multi-select questions only get structural checks; single-select questions
// are checked for logical consistency (the marked answer must actually
// belong, or not belong, to the group the text asks about) and for
// ambiguity (no distractor may also satisfy the question).
func ValidateQuestion(q domain.Question, selectedGroupIDs []string) (bool, string) {
	if q.IsMultiSelect() {
		if len(q.CorrectAnswers) == 0 {
			return false, "multi-select question missing correctAnswers array"
		}
		for _, idx := range q.CorrectAnswers {
			if idx < 0 || idx >= len(q.Options) {
				return false, "multi-select question has invalid correctAnswers indices"
			}
		}
		return true, ""
	}

	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return false, "invalid correct answer index"
	}
	correctOption := q.Options[q.CorrectAnswer]

	targetGroup := inferTargetGroup(q.Text, selectedGroupIDs)
	if targetGroup == "" {
		// Single-group sessions pin the target; otherwise we cannot check
		// strictly and let the question through.
		if len(selectedGroupIDs) == 1 {
			targetGroup = selectedGroupIDs[0]
		} else {
			return true, ""
		}
	}

	correctOptionGroup := FindBrandGroup(correctOption)

	if strings.Contains(strings.ToUpper(q.Text), "NOT") {
		// "Which is NOT a [Group] brand?" — the answer must be an outsider.
		if correctOptionGroup == targetGroup {
			return false, fmt.Sprintf("logic error: question asks for NOT %s, but answer %q IS %s", targetGroup, correctOption, targetGroup)
		}
		// One distractor falling outside the group is tolerated (the dataset
		// does not cover every sub-brand); two or more outsiders mean the
		// question has multiple valid answers.
		var strays []string
		for i, opt := range q.Options {
			if i != q.CorrectAnswer && FindBrandGroup(opt) != targetGroup {
				strays = append(strays, opt)
			}
		}
		if len(strays) >= 2 {
			return false, fmt.Sprintf("ambiguous: multiple options are NOT %s: %s", targetGroup, strings.Join(strays, ", "))
		}
		return true, ""
	}

	// Affirmative phrasing: the answer must belong to the target group.
	if correctOptionGroup != targetGroup {
		if isYesNo(q.Options) {
			// "Is X part of [Group]?" cannot be checked without parsing the
			// brand out of the text; let it through.
			return true, ""
		}
		got := correctOptionGroup
		if got == "" {
			got = "Unknown"
		}
		return false, fmt.Sprintf("logic error: question asks for %s, but answer %q is %s", targetGroup, correctOption, got)
	}

	var ambiguous []string
	for i, opt := range q.Options {
		if i != q.CorrectAnswer && FindBrandGroup(opt) == targetGroup {
			ambiguous = append(ambiguous, opt)
		}
	}
	if len(ambiguous) > 0 {
		return false, fmt.Sprintf("ambiguous: multiple options ARE %s: %s", targetGroup, strings.Join(ambiguous, ", "))
	}
	return true, ""
}

// inferTargetGroup finds which selected group the question text refers to by
// looking for the group's full name or its leading word (so "Marriott"
// matches "Marriott International").
func inferTargetGroup(text string, selectedGroupIDs []string) string {
	for _, id := range selectedGroupIDs {
		group, ok := Groups[id]
		if !ok {
			continue
		}
		if strings.Contains(text, group.Name) {
			return id
		}
		if first, _, found := strings.Cut(group.Name, " "); found && strings.Contains(text, first) {
			return id
		}
	}
	return ""
}

func isYesNo(options []string) bool {
	var yes, no bool
	for _, opt := range options {
		switch opt {
		case "Yes":
			yes = true
		case "No":
			no = true
		}
	}
	return yes && no
}
