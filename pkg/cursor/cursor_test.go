package cursor

import (
	"testing"

	"github.com/entrhq/slides/pkg/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequence(t *testing.T, m Mapper, size, n int) []int {
	t.Helper()
	out := make([]int, 0, n)
	for c := 0; c < n; c++ {
		idx, err := m(c, size)
		require.NoError(t, err)
		out = append(out, idx)
	}
	return out
}

func TestBounce_SmallForwardWalk(t *testing.T) {
	got := sequence(t, Bounce, 5, 13)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 3, 2, 1, 0, 1, 2, 3, 4}, got)
}

func TestBounceDwell_SmallForwardWalk(t *testing.T) {
	got := sequence(t, BounceDwell, 5, 13)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 4, 3, 2, 1, 0, 0, 1, 2}, got)
}

func TestWrap(t *testing.T) {
	got := sequence(t, Wrap, 3, 7)
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2, 0}, got)
}

func TestBounce_InRangeAndTurnsOnlyAtWalls(t *testing.T) {
	for size := 2; size <= 12; size++ {
		prev, err := Bounce(0, size)
		require.NoError(t, err)
		dir := 1
		for c := 1; c < 10*size; c++ {
			idx, err := Bounce(c, size)
			require.NoError(t, err)
			require.GreaterOrEqual(t, idx, 0)
			require.Less(t, idx, size)

			step := idx - prev
			require.True(t, step == 1 || step == -1, "size %d counter %d: jump from %d to %d", size, c, prev, idx)
			if step != dir {
				// direction may only change after touching a wall
				require.True(t, prev == 0 || prev == size-1, "size %d counter %d: turned at %d", size, c, prev)
				dir = step
			}
			prev = idx
		}
	}
}

func TestBounce_Periodicity(t *testing.T) {
	for size := 2; size <= 9; size++ {
		period := 2 * (size - 1)
		for c := 0; c < 5*period; c++ {
			a, err := Bounce(c, size)
			require.NoError(t, err)
			b, err := Bounce(c+period, size)
			require.NoError(t, err)
			assert.Equal(t, a, b, "size %d counter %d", size, c)
		}
	}
}

func TestMappers_SingleItem(t *testing.T) {
	for name, m := range traversals {
		t.Run(name, func(t *testing.T) {
			for _, c := range []int{0, 1, 2, 7, 1_000_000_007} {
				idx, err := m(c, 1)
				require.NoError(t, err)
				assert.Equal(t, 0, idx)
			}
		})
	}
}

func TestMappers_EmptyAndNegative(t *testing.T) {
	for name, m := range traversals {
		t.Run(name, func(t *testing.T) {
			_, err := m(3, 0)
			assert.ErrorIs(t, err, content.ErrEmptyCollection)

			_, err = m(-1, 4)
			assert.ErrorIs(t, err, ErrNegativeCounter)
		})
	}
}

func TestBounce_LargeCounter(t *testing.T) {
	idx, err := Bounce(1_000_000_003, 5)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, idx, 0)
	assert.Less(t, idx, 5)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{name: "empty selects default", input: "", want: []int{0, 1, 2, 1, 0}},
		{name: "bounce", input: "bounce", want: []int{0, 1, 2, 1, 0}},
		{name: "case and spaces", input: "  Bounce-Dwell ", want: []int{0, 1, 2, 2, 1}},
		{name: "wrap", input: "wrap", want: []int{0, 1, 2, 0, 1}},
		{name: "unknown", input: "shuffle", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "bounce-dwell")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, sequence(t, m, 3, len(tt.want)))
		})
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"bounce", "bounce-dwell", "wrap"}, Names())
}
