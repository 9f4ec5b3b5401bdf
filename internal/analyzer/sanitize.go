package analyzer

import (
	"fmt"
	"strings"

	"trilion/internal/types"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// titleSimilarityCutoff marks two highlight titles as duplicates. LLM output
// often repeats the same moment with light rewording.
const titleSimilarityCutoff = 0.9

// Sanitize normalizes a discovery result: fills in missing titles, drops
// near-duplicate entries, and caps the list at the requested count.
func Sanitize(highlights []types.Highlight, limit int) []types.Highlight {
	kept := make([]types.Highlight, 0, len(highlights))
	for i, h := range highlights {
		h.Title = strings.TrimSpace(h.Title)
		if h.Title == "" {
			h.Title = fmt.Sprintf("Viral Moment %d", i+1)
		}
		if isDuplicateTitle(kept, h.Title) {
			continue
		}
		kept = append(kept, h)
		if limit > 0 && len(kept) == limit {
			break
		}
	}
	return kept
}

func isDuplicateTitle(kept []types.Highlight, title string) bool {
	for _, existing := range kept {
		ratio := levenshtein.RatioForStrings(
			[]rune(strings.ToLower(existing.Title)),
			[]rune(strings.ToLower(title)),
			levenshtein.DefaultOptions,
		)
		if ratio >= titleSimilarityCutoff {
			return true
		}
	}
	return false
}
