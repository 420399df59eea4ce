// Package selfplay lets the engine play against itself, with plain minimax on one side
// and alpha-beta on the other, and checks that both strategies agree on every position.
package selfplay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/lk16/reversi/internal/othello"
	"github.com/lk16/reversi/internal/search"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// ErrDisagreement is returned when the strategies choose different moves or scores.
var ErrDisagreement = errors.New("strategies disagree")

// Config configures a selfplay run.
type Config struct {
	Games    int
	Depth    int
	Parallel int

	// OpeningMoves random moves are played before the engines take over, so games differ.
	OpeningMoves int
	Seed         int64
}

// GameResult is the outcome of one game.
type GameResult struct {
	Index      int
	Black      search.Strategy
	Winner     int
	BlackDiscs int
	WhiteDiscs int
	Transcript string

	// Nodes counts the nodes visited by each strategy over all positions of the game.
	Nodes map[search.Strategy]int

	Duration time.Duration
}

// Summary aggregates the results of a run.
type Summary struct {
	Games   int
	Wins    map[string]int
	Nodes   map[search.Strategy]int
	Elapsed time.Duration
}

func (c Config) validate() error {
	if c.Games < 1 {
		return fmt.Errorf("number of games must be positive, got %d", c.Games)
	}
	if c.Parallel < 1 {
		return fmt.Errorf("parallelism must be positive, got %d", c.Parallel)
	}
	if c.OpeningMoves < 0 {
		return fmt.Errorf("number of opening moves cannot be negative, got %d", c.OpeningMoves)
	}
	return search.ValidateDepth(c.Depth)
}

// Run plays cfg.Games games with at most cfg.Parallel at a time. Even games have minimax
// playing black, odd games alpha-beta. The first error cancels the remaining games.
func Run(ctx context.Context, cfg Config) ([]GameResult, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	results := make([]GameResult, cfg.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallel)

	for i := range cfg.Games {
		g.Go(func() error {
			result, err := playGame(ctx, cfg, i)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}

			slog.Info("Game finished", "game", i, "black", result.Black,
				"winner", othello.PlayerName(result.Winner),
				"discs", fmt.Sprintf("%d-%d", result.BlackDiscs, result.WhiteDiscs),
				"duration", result.Duration)

			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func playGame(ctx context.Context, cfg Config, index int) (GameResult, error) {
	start := time.Now()

	engines := lo.KeyBy(
		[]*search.Engine{search.NewEngine(search.Minimax), search.NewEngine(search.AlphaBeta)},
		func(engine *search.Engine) search.Strategy { return engine.Strategy() },
	)

	black := search.Minimax
	if index%2 == 1 {
		black = search.AlphaBeta
	}

	result := GameResult{
		Index: index,
		Black: black,
		Nodes: make(map[search.Strategy]int, len(engines)),
	}

	rng := rand.New(rand.NewSource(cfg.Seed + int64(index))) //nolint:gosec
	game := othello.NewGame()

	for len(game.Moves()) < cfg.OpeningMoves && !game.IsOver() {
		moves := game.Board().LegalMoves(game.Turn()).Moves()
		if err := game.PushMove(moves[rng.Intn(len(moves))]); err != nil {
			return GameResult{}, err
		}
	}

	for !game.IsOver() {
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}

		board := game.Board()
		turn := game.Turn()

		searched := lo.MapValues(engines, func(engine *search.Engine, _ search.Strategy) search.Result {
			return engine.Search(board, turn, cfg.Depth)
		})

		plain := searched[search.Minimax]
		pruned := searched[search.AlphaBeta]
		if plain.Move != pruned.Move || plain.Score != pruned.Score || plain.Found != pruned.Found {
			return GameResult{}, fmt.Errorf("%w on %s: minimax %s (%d), alphabeta %s (%d)",
				ErrDisagreement, board, plain.Move, plain.Score, pruned.Move, pruned.Score)
		}

		for strategy, searchResult := range searched {
			result.Nodes[strategy] += searchResult.Nodes
		}

		strategy := black
		if turn == othello.WHITE {
			strategy = otherStrategy(black)
		}

		move := othello.PassMove
		if searched[strategy].Found {
			move = searched[strategy].Move
		}

		if err := game.PushMove(move); err != nil {
			return GameResult{}, err
		}
	}

	board := game.Board()
	result.Winner = board.Winner()
	result.BlackDiscs = board.DiscCount(othello.BLACK)
	result.WhiteDiscs = board.DiscCount(othello.WHITE)
	result.Transcript = game.Transcript()
	result.Duration = time.Since(start)

	return result, nil
}

func otherStrategy(strategy search.Strategy) search.Strategy {
	if strategy == search.Minimax {
		return search.AlphaBeta
	}
	return search.Minimax
}

// Summarize counts wins per strategy and total nodes per strategy.
func Summarize(results []GameResult, elapsed time.Duration) Summary {
	wins := lo.CountValuesBy(results, func(result GameResult) string {
		switch result.Winner {
		case othello.BLACK:
			return result.Black.String()
		case othello.WHITE:
			return otherStrategy(result.Black).String()
		default:
			return "draw"
		}
	})

	nodes := map[search.Strategy]int{
		search.Minimax:   lo.SumBy(results, func(result GameResult) int { return result.Nodes[search.Minimax] }),
		search.AlphaBeta: lo.SumBy(results, func(result GameResult) int { return result.Nodes[search.AlphaBeta] }),
	}

	return Summary{
		Games:   len(results),
		Wins:    wins,
		Nodes:   nodes,
		Elapsed: elapsed,
	}
}
