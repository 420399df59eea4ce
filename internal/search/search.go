// Package search picks moves with a fixed-depth minimax search, optionally with
// alpha-beta pruning.
package search

import (
	"context"
	"fmt"

	"github.com/lk16/reversi/internal/othello"
	"golang.org/x/sync/semaphore"
)

// infinity is larger than any value Evaluate can return.
const infinity = 1 << 30

// Strategy selects the tree search algorithm.
type Strategy int

const (
	// AlphaBeta is minimax with alpha-beta pruning.
	AlphaBeta Strategy = iota

	// Minimax explores the full tree.
	Minimax
)

// String returns the name of the strategy.
func (s Strategy) String() string {
	switch s {
	case AlphaBeta:
		return "alphabeta"
	case Minimax:
		return "minimax"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy converts a strategy name to a Strategy. The empty string means AlphaBeta.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "alphabeta", "alpha-beta":
		return AlphaBeta, nil
	case "minimax":
		return Minimax, nil
	default:
		return 0, fmt.Errorf("unknown search strategy: %q", s)
	}
}

// Result is the outcome of a search.
type Result struct {
	// Move is the chosen move, only meaningful if Found is set.
	Move othello.Move

	// Found is false when the player has no legal move and must pass.
	Found bool

	// Score is the value of Move from the point of view of the searching player.
	Score int

	// Nodes is the number of nodes visited.
	Nodes int
}

// Engine chooses moves. It has no mutable state and can be used from multiple
// goroutines at once.
type Engine struct {
	strategy  Strategy
	evaluator Evaluator
	limiter   *semaphore.Weighted
}

// Option configures an Engine.
type Option func(*Engine)

// WithEvaluator replaces the default heuristic.
func WithEvaluator(evaluator Evaluator) Option {
	return func(e *Engine) {
		e.evaluator = evaluator
	}
}

// WithLimiter bounds the number of searches started by SearchAsync and SearchContext
// that run at the same time. Engines may share a limiter.
func WithLimiter(limiter *semaphore.Weighted) Option {
	return func(e *Engine) {
		e.limiter = limiter
	}
}

// NewEngine creates an Engine using the given strategy.
func NewEngine(strategy Strategy, opts ...Option) *Engine {
	e := &Engine{
		strategy:  strategy,
		evaluator: Evaluate,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strategy returns the strategy of the engine.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// ChooseMove returns the best move for player, or false if player has to pass.
func (e *Engine) ChooseMove(board othello.Board, player, depth int) (othello.Move, bool) {
	result := e.Search(board, player, depth)
	return result.Move, result.Found
}

// Search explores the game tree and returns the best move for player.
//
// Every legal move is tried and the resulting board is searched depth more plies, so
// depth 0 picks the move with the best immediate evaluation. Among equally scored
// moves the first one in LegalMoves order wins. The board passed in is never modified.
func (e *Engine) Search(board othello.Board, player, depth int) Result {
	depth = max(depth, 0)

	s := &searcher{
		evaluator:   e.evaluator,
		perspective: player,
	}

	result := Result{Score: -infinity}

	for _, move := range board.LegalMoves(player).Moves() {
		child := s.play(board, move, player)

		var value int
		switch e.strategy {
		case Minimax:
			value = s.minimax(child, othello.Opponent(player), depth)
		default:
			value = s.alphaBeta(child, othello.Opponent(player), depth, result.Score, infinity)
		}

		if !result.Found || value > result.Score {
			result.Move = move
			result.Score = value
			result.Found = true
		}
	}

	if !result.Found {
		result.Score = 0
	}

	result.Nodes = s.nodes
	return result
}

// searcher holds the state of one Search call.
type searcher struct {
	evaluator   Evaluator
	perspective int
	nodes       int
}

// play returns a copy of board with move applied.
func (s *searcher) play(board othello.Board, move othello.Move, player int) othello.Board {
	child := board.Copy()
	if err := child.ApplyMove(move.Row, move.Col, player); err != nil {
		// LegalMoves only returns moves that ApplyMove accepts.
		panic(fmt.Sprintf("applying legal move failed: %s", err))
	}
	return child
}

// leaf checks whether a node is terminal and returns the legal moves of toMove.
// A side without moves passes, which is reported by pass when the game is not over.
func (s *searcher) leaf(board othello.Board, toMove, depth int) (moves []othello.Move, terminal, pass bool) {
	if depth == 0 {
		return nil, true, false
	}

	moves = board.LegalMoves(toMove).Moves()
	if len(moves) > 0 {
		return moves, false, false
	}

	if !board.HasMoves(othello.Opponent(toMove)) {
		return nil, true, false
	}

	return nil, false, true
}

func (s *searcher) minimax(board othello.Board, toMove, depth int) int {
	s.nodes++

	moves, terminal, pass := s.leaf(board, toMove, depth)
	if terminal {
		return s.evaluator(board, s.perspective)
	}

	if pass {
		return s.minimax(board, othello.Opponent(toMove), depth-1)
	}

	maximizing := toMove == s.perspective

	best := infinity
	if maximizing {
		best = -infinity
	}

	for _, move := range moves {
		value := s.minimax(s.play(board, move, toMove), othello.Opponent(toMove), depth-1)

		if maximizing && value > best || !maximizing && value < best {
			best = value
		}
	}

	return best
}

func (s *searcher) alphaBeta(board othello.Board, toMove, depth, alpha, beta int) int {
	s.nodes++

	moves, terminal, pass := s.leaf(board, toMove, depth)
	if terminal {
		return s.evaluator(board, s.perspective)
	}

	if pass {
		return s.alphaBeta(board, othello.Opponent(toMove), depth-1, alpha, beta)
	}

	if toMove == s.perspective {
		best := -infinity
		for _, move := range moves {
			value := s.alphaBeta(s.play(board, move, toMove), othello.Opponent(toMove), depth-1, alpha, beta)
			best = max(best, value)
			alpha = max(alpha, best)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := infinity
	for _, move := range moves {
		value := s.alphaBeta(s.play(board, move, toMove), othello.Opponent(toMove), depth-1, alpha, beta)
		best = min(best, value)
		beta = min(beta, best)
		if beta <= alpha {
			break
		}
	}
	return best
}

// SearchAsync starts Search on its own goroutine and returns a channel that receives
// the result. With a limiter it first waits for a free slot, returning ctx.Err() if ctx
// ends before one frees up. The slot is held until the search completes, also when
// the caller stops waiting for the result.
func (e *Engine) SearchAsync(ctx context.Context, board othello.Board, player, depth int) (<-chan Result, error) {
	if e.limiter != nil {
		if err := e.limiter.Acquire(ctx, 1); err != nil {
			return nil, err
		}
	}

	results := make(chan Result, 1)
	go func() {
		if e.limiter != nil {
			defer e.limiter.Release(1)
		}
		results <- e.Search(board, player, depth)
	}()

	return results, nil
}

// SearchContext runs SearchAsync and returns ctx.Err() if ctx ends before the result
// arrives. The search keeps running in the background until it completes.
func (e *Engine) SearchContext(ctx context.Context, board othello.Board, player, depth int) (Result, error) {
	results, err := e.SearchAsync(ctx, board, player, depth)
	if err != nil {
		return Result{}, err
	}

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case result := <-results:
		return result, nil
	}
}
