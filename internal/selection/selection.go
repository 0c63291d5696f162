// Package selection picks a few candidates starting at a random offset.
package selection

import (
	"math/rand"

	"dining-concierge/internal/models"
)

// DefaultLimit is how many suggestions go into one message.
const DefaultLimit = 3

// Source draws the start offset; it must return a value in [0, n).
type Source func(n int) int

// RandomSource draws uniformly from the process-wide generator.
func RandomSource(n int) int {
	return rand.Intn(n)
}

type Selector struct {
	source Source
	limit  int
}

func New(source Source, limit int) *Selector {
	if source == nil {
		source = RandomSource
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Selector{source: source, limit: limit}
}

// Select draws a start offset and returns Pick's result.
func (s *Selector) Select(candidates []models.Candidate) []models.Candidate {
	if len(candidates) == 0 {
		return nil
	}
	return Pick(candidates, s.source(len(candidates)), s.limit)
}

// Pick walks the candidates from start, wrapping at the end, until limit
// entries are collected. With fewer than limit candidates some repeat.
func Pick(candidates []models.Candidate, start, limit int) []models.Candidate {
	n := len(candidates)
	if n == 0 || limit <= 0 {
		return nil
	}
	start = ((start % n) + n) % n

	out := make([]models.Candidate, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, candidates[(start+i)%n])
	}
	return out
}
