package questions

import (
	"regexp"
	"sort"
	"strings"
)

// displayBrands are the names wrapped in **emphasis** markers inside question
// text. This is a display convention only; scoring never looks at markers.
var displayBrands = []string{
	"Marriott", "JW Marriott", "The Ritz-Carlton", "St. Regis", "W Hotels", "EDITION",
	"The Luxury Collection", "Sheraton", "Westin", "Le Méridien", "Renaissance",
	"Gaylord Hotels", "Delta Hotels", "Marriott Executive Apartments",
	"Marriott Vacation Club", "Autograph Collection", "Tribute Portfolio",
	"Design Hotels", "Courtyard", "Four Points", "SpringHill Suites",
	"Fairfield Inn & Suites", "AC Hotels", "Aloft", "Moxy", "Residence Inn",
	"TownePlace Suites", "Element", "Homes & Villas by Marriott International",
	"Ritz-Carlton Reserve", "Bulgari", "Ritz-Carlton Yacht Collection",
	"Hilton", "Hyatt", "IHG", "Best Western", "Wyndham", "Radisson", "Accor",
	"Sofitel", "Novotel", "Ibis", "Crowne Plaza", "Holiday Inn",
}

var brandPatterns = buildBrandPatterns()

func buildBrandPatterns() []*regexp.Regexp {
	// Longest first so "JW Marriott" wins over "Marriott".
	sorted := make([]string, len(displayBrands))
	copy(sorted, displayBrands)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	patterns := make([]*regexp.Regexp, 0, len(sorted))
	for _, brand := range sorted {
		patterns = append(patterns, regexp.MustCompile(`(?i)\b(`+regexp.QuoteMeta(brand)+`)\b`))
	}
	return patterns
}

// HighlightBrands wraps recognized brand names in ** ** markers, preserving
// the original casing. A span already highlighted by a longer brand is left
// alone so markers never nest.
func HighlightBrands(text string) string {
	type span struct{ start, end int }
	var taken []span

	overlaps := func(start, end int) bool {
		for _, s := range taken {
			if start < s.end && end > s.start {
				return true
			}
		}
		return false
	}

	type insertion struct {
		start, end int
	}
	var inserts []insertion
	for _, pattern := range brandPatterns {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			if overlaps(loc[0], loc[1]) {
				continue
			}
			taken = append(taken, span{loc[0], loc[1]})
			inserts = append(inserts, insertion{loc[0], loc[1]})
		}
	}
	if len(inserts) == 0 {
		return text
	}

	sort.Slice(inserts, func(i, j int) bool { return inserts[i].start < inserts[j].start })

	var b strings.Builder
	prev := 0
	for _, ins := range inserts {
		b.WriteString(text[prev:ins.start])
		b.WriteString("**")
		b.WriteString(text[ins.start:ins.end])
		b.WriteString("**")
		prev = ins.end
	}
	b.WriteString(text[prev:])
	return b.String()
}
