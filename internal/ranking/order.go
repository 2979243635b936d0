package ranking

import (
	"bytes"
	"cmp"
	"slices"

	"github.com/google/uuid"
)

// Ranked is a scored listing ready for ordering.
type Ranked struct {
	ID     uuid.UUID
	Score  float64
	Manual bool
}

// Compare orders a before b when a should be displayed first: manual
// overrides before computed scores, then higher score, then lower id.
func Compare(a, b Ranked) int {
	if a.Manual != b.Manual {
		if a.Manual {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return bytes.Compare(a.ID[:], b.ID[:])
}

// Order sorts entries in display order in place.
func Order(entries []Ranked) {
	slices.SortFunc(entries, Compare)
}
