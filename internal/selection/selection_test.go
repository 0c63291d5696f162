package selection

import (
	"fmt"
	"testing"

	"dining-concierge/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidates(n int) []models.Candidate {
	out := make([]models.Candidate, n)
	for i := range out {
		out[i] = models.Candidate{ID: fmt.Sprintf("r%d", i)}
	}
	return out
}

func ids(cs []models.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestPick(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		start int
		want  []string
	}{
		{name: "from the top", n: 5, start: 0, want: []string{"r0", "r1", "r2"}},
		{name: "wraps at the end", n: 5, start: 4, want: []string{"r4", "r0", "r1"}},
		{name: "exactly three", n: 3, start: 2, want: []string{"r2", "r0", "r1"}},
		{name: "single candidate repeats", n: 1, start: 0, want: []string{"r0", "r0", "r0"}},
		{name: "two candidates repeat one", n: 2, start: 1, want: []string{"r1", "r0", "r1"}},
		{name: "start is reduced modulo n", n: 4, start: 9, want: []string{"r1", "r2", "r3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Pick(candidates(tt.n), tt.start, 3)))
		})
	}
}

func TestPick_DistinctForEveryStart(t *testing.T) {
	cs := candidates(5)
	for start := 0; start < 5; start++ {
		got := ids(Pick(cs, start, 3))
		require.Len(t, got, 3)

		seen := map[string]bool{}
		for _, id := range got {
			assert.False(t, seen[id], "start %d repeated %s", start, id)
			seen[id] = true
		}
	}
}

func TestPick_Empty(t *testing.T) {
	assert.Nil(t, Pick(nil, 0, 3))
	assert.Nil(t, Pick(candidates(3), 0, 0))
}

func TestSelector_Select(t *testing.T) {
	var drawnFrom int
	s := New(func(n int) int {
		drawnFrom = n
		return 3
	}, 0)

	got := s.Select(candidates(7))
	assert.Equal(t, 7, drawnFrom)
	assert.Equal(t, []string{"r3", "r4", "r5"}, ids(got))
	assert.Nil(t, s.Select(nil))
}

func TestRandomSource_InRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := RandomSource(4)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 4)
	}
}
