// Package merchant normalizes raw merchant strings into stable match keys
// and scores how likely two strings refer to the same merchant.
//
// Bank descriptors are noisy ("NETFLIX.COM  844-505-2993" vs a manual entry
// of "Netflix"), so matching combines case-folded containment, token
// overlap, and edit distance rather than exact comparison.
package merchant

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Key returns the case-folded, whitespace-normalized match key for a raw
// merchant string. All grouping and alias lookups use this key.
func Key(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

// AliasTable maps merchant keys to canonical display names. It is supplied
// by the host (typically from the config file) and is optional; a nil table
// resolves every merchant to its normalized raw form.
type AliasTable map[string]string

// Resolve returns the match key and display name for a raw merchant string.
// When the table has a canonical name for the key, the canonical name's own
// key becomes the match key so aliased variants cluster together.
func (a AliasTable) Resolve(raw string) (key, display string) {
	key = Key(raw)
	if canonical, ok := a[key]; ok {
		return Key(canonical), canonical
	}
	return key, strings.TrimSpace(raw)
}

// Similarity scores two merchant strings in [0,1]. A score of 1 means the
// normalized keys are equal or one contains the other; otherwise the score
// is the better of token overlap and normalized edit distance.
func Similarity(a, b string) float64 {
	ka, kb := Key(a), Key(b)
	if ka == "" || kb == "" {
		return 0
	}
	if ka == kb {
		return 1
	}
	if strings.Contains(ka, kb) || strings.Contains(kb, ka) {
		return 1
	}

	overlap := tokenOverlap(ka, kb)
	edit := editSimilarity(ka, kb)
	if overlap > edit {
		return overlap
	}
	return edit
}

// tokenOverlap returns the share of the smaller token set present in the
// larger one.
func tokenOverlap(ka, kb string) float64 {
	ta := strings.Fields(ka)
	tb := strings.Fields(kb)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	set := make(map[string]bool, len(ta))
	for _, tok := range ta {
		set[tok] = true
	}
	shared := 0
	for _, tok := range tb {
		if set[tok] {
			shared++
		}
	}

	smaller := len(ta)
	if len(tb) < smaller {
		smaller = len(tb)
	}
	return float64(shared) / float64(smaller)
}

func editSimilarity(ka, kb string) float64 {
	longer := len(ka)
	if len(kb) > longer {
		longer = len(kb)
	}
	dist := levenshtein.ComputeDistance(ka, kb)
	return 1 - float64(dist)/float64(longer)
}
