package search //nolint:testpackage

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/lk16/reversi/internal/othello"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/semaphore"
)

// randomBoards returns boards reached by random play from the start position. The
// player to move on each board has at least one legal move.
func randomBoards(t *testing.T, count int, seed int64) []othello.Board {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	boards := make([]othello.Board, 0, count)

	for len(boards) < count {
		game := othello.NewGame()
		plies := rng.Intn(50)

		for range plies {
			if game.IsOver() {
				break
			}
			moves := game.Board().LegalMoves(game.Turn()).Moves()
			require.NoError(t, game.PushMove(moves[rng.Intn(len(moves))]))
		}

		if game.IsOver() || game.Turn() != othello.BLACK {
			continue
		}

		boards = append(boards, game.Board())
	}

	return boards
}

// passBoard has two black moves, each of which leaves white without a move.
func passBoard() othello.Board {
	return othello.NewBoardFromRowsMust([]string{
		"BWW.....",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"BW......",
	})
}

func TestParseStrategy(t *testing.T) {
	strategy, err := ParseStrategy("minimax")
	require.NoError(t, err)
	require.Equal(t, Minimax, strategy)

	strategy, err = ParseStrategy("")
	require.NoError(t, err)
	require.Equal(t, AlphaBeta, strategy)

	_, err = ParseStrategy("mcts")
	require.Error(t, err)

	require.Equal(t, "alphabeta", AlphaBeta.String())
	require.Equal(t, "minimax", Minimax.String())
}

func TestSearch_NoMoves(t *testing.T) {
	board := othello.NewBoardFromRowsMust([]string{
		"WB......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	})

	for _, strategy := range []Strategy{Minimax, AlphaBeta} {
		engine := NewEngine(strategy)

		_, ok := engine.ChooseMove(board, othello.BLACK, 3)
		require.False(t, ok)

		move, ok := engine.ChooseMove(board, othello.WHITE, 3)
		require.True(t, ok)
		require.Equal(t, othello.Move{Row: 0, Col: 2}, move)
	}
}

func TestSearch_DoesNotModifyBoard(t *testing.T) {
	board := othello.NewBoard()
	before := board

	for _, strategy := range []Strategy{Minimax, AlphaBeta} {
		result := NewEngine(strategy).Search(board, othello.BLACK, 3)
		require.True(t, result.Found)
		require.Equal(t, before, board)
	}
}

func TestSearch_DepthZeroIsGreedy(t *testing.T) {
	for _, board := range randomBoards(t, 20, 3) {
		bestScore := 0
		var bestMove othello.Move
		found := false

		for _, move := range board.LegalMoves(othello.BLACK).Moves() {
			child := board.Copy()
			require.NoError(t, child.ApplyMove(move.Row, move.Col, othello.BLACK))
			score := Evaluate(child, othello.BLACK)

			if !found || score > bestScore {
				bestScore = score
				bestMove = move
				found = true
			}
		}

		for _, strategy := range []Strategy{Minimax, AlphaBeta} {
			result := NewEngine(strategy).Search(board, othello.BLACK, 0)
			require.True(t, result.Found)
			require.Equal(t, bestMove, result.Move)
			require.Equal(t, bestScore, result.Score)
		}
	}
}

func TestSearch_NegativeDepth(t *testing.T) {
	engine := NewEngine(AlphaBeta)
	board := othello.NewBoard()

	require.Equal(t, engine.Search(board, othello.BLACK, 0), engine.Search(board, othello.BLACK, -3))
}

func TestSearch_TieBreakFirstMove(t *testing.T) {
	constant := func(othello.Board, int) int { return 0 }
	board := othello.NewBoard()
	first := board.LegalMoves(othello.BLACK).Moves()[0]

	for _, strategy := range []Strategy{Minimax, AlphaBeta} {
		for depth := range 3 {
			move, ok := NewEngine(strategy, WithEvaluator(constant)).ChooseMove(board, othello.BLACK, depth)
			require.True(t, ok)
			require.Equal(t, first, move)
		}
	}
}

func TestSearch_PassConsumesPly(t *testing.T) {
	board := passBoard()

	for _, strategy := range []Strategy{Minimax, AlphaBeta} {
		engine := NewEngine(strategy)

		// two root moves, each child is a leaf
		result := engine.Search(board, othello.BLACK, 0)
		require.True(t, result.Found)
		require.Equal(t, 2, result.Nodes)

		// white has to pass after either move, which uses up the only ply
		result = engine.Search(board, othello.BLACK, 1)
		require.True(t, result.Found)
		require.Equal(t, 4, result.Nodes)
	}
}

func TestSearch_StrategiesAgree(t *testing.T) {
	minimax := NewEngine(Minimax)
	alphaBeta := NewEngine(AlphaBeta)

	for i, board := range randomBoards(t, 15, 11) {
		maxDepth := 2
		if i < 3 {
			maxDepth = 3
		}

		for depth := 0; depth <= maxDepth; depth++ {
			for _, player := range []int{othello.BLACK, othello.WHITE} {
				want := minimax.Search(board, player, depth)
				got := alphaBeta.Search(board, player, depth)

				require.Equal(t, want.Found, got.Found)
				require.Equal(t, want.Score, got.Score, "depth %d board %s", depth, board)
				require.Equal(t, want.Move, got.Move, "depth %d board %s", depth, board)
				require.LessOrEqual(t, got.Nodes, want.Nodes)
			}
		}
	}
}

func TestSearch_PrefersCorner(t *testing.T) {
	// black can take a1 or play a2; the corner is worth more
	board := othello.NewBoardFromRowsMust([]string{
		".W......",
		".WB.....",
		"..B.....",
		"........",
		"........",
		"........",
		"........",
		"........",
	})
	require.True(t, board.LegalMoves(othello.BLACK).Contains(othello.Move{Row: 0, Col: 0}))

	for _, strategy := range []Strategy{Minimax, AlphaBeta} {
		move, ok := NewEngine(strategy).ChooseMove(board, othello.BLACK, 0)
		require.True(t, ok)
		require.Equal(t, othello.Move{Row: 0, Col: 0}, move)
	}
}

func TestEngine_ConcurrentUse(t *testing.T) {
	engine := NewEngine(AlphaBeta)
	board := othello.NewBoard()
	want := engine.Search(board, othello.BLACK, 2)

	results := make(chan Result, 8)
	for range 8 {
		go func() {
			results <- engine.Search(board, othello.BLACK, 2)
		}()
	}

	for range 8 {
		require.Equal(t, want, <-results)
	}
}

func TestEngine_SearchContext(t *testing.T) {
	engine := NewEngine(AlphaBeta)
	board := othello.NewBoard()

	result, err := engine.SearchContext(context.Background(), board, othello.BLACK, 2)
	require.NoError(t, err)
	require.Equal(t, engine.Search(board, othello.BLACK, 2), result)

	release := make(chan struct{})
	defer close(release)

	blocking := NewEngine(AlphaBeta, WithEvaluator(func(board othello.Board, player int) int {
		<-release
		return Evaluate(board, player)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = blocking.SearchContext(ctx, board, othello.BLACK, 1)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEngine_SearchAsyncLimiter(t *testing.T) {
	release := make(chan struct{})
	blocking := func(board othello.Board, player int) int {
		<-release
		return Evaluate(board, player)
	}

	limiter := semaphore.NewWeighted(1)
	engine := NewEngine(AlphaBeta, WithEvaluator(blocking), WithLimiter(limiter))
	other := NewEngine(Minimax, WithLimiter(limiter))
	board := othello.NewBoard()

	first, err := engine.SearchAsync(context.Background(), board, othello.BLACK, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = other.SearchContext(ctx, board, othello.BLACK, 0)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.True(t, (<-first).Found)

	result, err := other.SearchContext(context.Background(), board, othello.BLACK, 0)
	require.NoError(t, err)
	require.Equal(t, NewEngine(Minimax).Search(board, othello.BLACK, 0), result)
}
