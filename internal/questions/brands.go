package questions

import (
	_ "embed"
	"encoding/json"
	"sort"
	"strings"
)

//go:embed brands.json
var brandsJSON []byte

// BrandGroup is one hotel group with its portfolio of brands. This dataset is
// the ground truth the validator checks AI-generated questions against.
type BrandGroup struct {
	Name   string   `json:"name"`
	Brands []string `json:"brands"`
}

// Groups maps group ID (e.g. "MARRIOTT") to its brand portfolio. groupOrder
// holds the IDs sorted, so lookups that scan all groups resolve the same way
// on every run.
var (
	Groups     map[string]BrandGroup
	groupOrder []string
)

func init() {
	if err := json.Unmarshal(brandsJSON, &Groups); err != nil {
		panic("questions: invalid embedded brands.json: " + err.Error())
	}
	for id := range Groups {
		groupOrder = append(groupOrder, id)
	}
	sort.Strings(groupOrder)
}

// GroupIDs returns the IDs of all known groups in sorted order.
func GroupIDs() []string {
	return append([]string(nil), groupOrder...)
}

// FindBrandGroup returns the ID of the group a brand belongs to, matching
// exactly first and then by substring in either direction, case-insensitive.
// Returns "" when the brand is unknown.
func FindBrandGroup(brand string) string {
	normalized := strings.ToLower(strings.TrimSpace(brand))
	if normalized == "" {
		return ""
	}
	for _, id := range groupOrder {
		for _, b := range Groups[id].Brands {
			if strings.ToLower(b) == normalized {
				return id
			}
		}
	}
	for _, id := range groupOrder {
		for _, b := range Groups[id].Brands {
			lb := strings.ToLower(b)
			if strings.Contains(lb, normalized) || strings.Contains(normalized, lb) {
				return id
			}
		}
	}
	return ""
}
