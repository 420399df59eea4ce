package search //nolint:testpackage

import (
	"testing"

	"github.com/lk16/reversi/internal/othello"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_Start(t *testing.T) {
	board := othello.NewBoard()

	require.Equal(t, 0, Evaluate(board, othello.BLACK))
	require.Equal(t, 0, Evaluate(board, othello.WHITE))
}

func TestEvaluate_AfterOpening(t *testing.T) {
	board := othello.NewBoard()
	require.NoError(t, board.ApplyMove(2, 3, othello.BLACK))

	// 3 discs ahead, both sides have 3 moves
	require.Equal(t, 30, Evaluate(board, othello.BLACK))
	require.Equal(t, -30, Evaluate(board, othello.WHITE))
}

func TestEvaluate_AllTerms(t *testing.T) {
	board := othello.NewBoardFromRowsMust([]string{
		"BB......",
		".W......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	})

	// discs 1*10, mobility 2*15, corner 25, edges 2*5, x/c squares -10+10
	require.Equal(t, 75, Evaluate(board, othello.BLACK))
	require.Equal(t, -75, Evaluate(board, othello.WHITE))
}

func TestEvaluate_CornerTerm(t *testing.T) {
	without := othello.NewBoardEmpty()
	with := othello.NewBoardFromRowsMust([]string{
		"B.......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	})

	require.Equal(t, 0, cellScore(without, corners[:], othello.BLACK, cornerWeight))
	require.Equal(t, 25, cellScore(with, corners[:], othello.BLACK, cornerWeight))
	require.Equal(t, -25, cellScore(with, corners[:], othello.WHITE, cornerWeight))

	// corner +25, edge +5, disc +10
	require.Equal(t, 40, Evaluate(with, othello.BLACK)-Evaluate(without, othello.BLACK))
}

func TestEdges(t *testing.T) {
	require.Len(t, edges, 28)

	seen := make(map[othello.Move]bool)
	for _, cell := range edges {
		require.False(t, seen[cell])
		seen[cell] = true
	}

	for _, corner := range corners {
		require.True(t, seen[corner])
	}

	for _, cell := range xcSquares {
		require.NotContains(t, corners[:], cell)
	}
}

func TestEvaluate_Antisymmetric(t *testing.T) {
	for _, board := range randomBoards(t, 30, 7) {
		require.Equal(t, -Evaluate(board, othello.BLACK), Evaluate(board, othello.WHITE))
	}
}
