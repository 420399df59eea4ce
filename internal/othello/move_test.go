package othello //nolint:testpackage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMove(t *testing.T) {
	tests := []struct {
		field   string
		want    Move
		wantErr bool
	}{
		{"a1", Move{Row: 0, Col: 0}, false},
		{"h8", Move{Row: 7, Col: 7}, false},
		{"d3", Move{Row: 2, Col: 3}, false},
		{"D3", Move{Row: 2, Col: 3}, false},
		{"--", PassMove, false},
		{"ps", PassMove, false},
		{"pa", PassMove, false},
		{"i1", Move{}, true},
		{"a9", Move{}, true},
		{"a", Move{}, true},
		{"a10", Move{}, true},
	}

	for _, test := range tests {
		t.Run(test.field, func(t *testing.T) {
			move, err := ParseMove(test.field)
			if test.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.want, move)
		})
	}
}

func TestMove_String(t *testing.T) {
	require.Equal(t, "a1", Move{Row: 0, Col: 0}.String())
	require.Equal(t, "d3", Move{Row: 2, Col: 3}.String())
	require.Equal(t, "h8", Move{Row: 7, Col: 7}.String())
	require.Equal(t, "--", PassMove.String())
	require.Equal(t, "(9,0)", Move{Row: 9, Col: 0}.String())

	for row := range Size {
		for col := range Size {
			move := Move{Row: row, Col: col}
			parsed, err := ParseMove(move.String())
			require.NoError(t, err)
			require.Equal(t, move, parsed)
		}
	}
}

func TestParseMoves(t *testing.T) {
	moves, err := ParseMoves("1. d3 c5 2. f6 --")
	require.NoError(t, err)
	require.Equal(t, []Move{{2, 3}, {4, 2}, {5, 5}, PassMove}, moves)

	moves, err = ParseMoves("")
	require.NoError(t, err)
	require.Empty(t, moves)

	_, err = ParseMoves("d3 z9")
	require.Error(t, err)
}

func TestMoveSet(t *testing.T) {
	var set MoveSet
	require.True(t, set.IsEmpty())
	require.Equal(t, 0, set.Len())

	set.Add(Move{Row: 5, Col: 4})
	set.Add(Move{Row: 2, Col: 3})
	set.Add(Move{Row: 5, Col: 4})

	require.False(t, set.IsEmpty())
	require.Equal(t, 2, set.Len())
	require.True(t, set.Contains(Move{Row: 2, Col: 3}))
	require.False(t, set.Contains(Move{Row: 3, Col: 2}))
	require.False(t, set.Contains(PassMove))
	require.Equal(t, []Move{{5, 4}, {2, 3}}, set.Moves())
	require.Equal(t, uint64(1)<<44|uint64(1)<<19, set.Mask())
	require.Equal(t, "e6 d3", set.String())

	// Moves returns a copy
	moves := set.Moves()
	moves[0] = PassMove
	require.Equal(t, Move{Row: 5, Col: 4}, set.Moves()[0])
}
