package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/lk16/reversi/internal/config"
	"github.com/lk16/reversi/internal/search"
	"github.com/lk16/reversi/internal/selfplay"
)

func main() {
	config.SetLogLevel()
	config.LoadDotEnv()

	games := flag.Int("games", 10, "number of games to play")
	depth := flag.Int("depth", search.DefaultDifficulty.Depth(), "search depth of both engines")
	parallel := flag.Int("parallel", config.GetEnvIntMust("REVERSI_SELFPLAY_PARALLEL", runtime.NumCPU()),
		"number of games played at the same time")
	opening := flag.Int("opening", 4, "number of random opening moves")
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for the random opening moves")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()

	results, err := selfplay.Run(ctx, selfplay.Config{
		Games:        *games,
		Depth:        *depth,
		Parallel:     *parallel,
		OpeningMoves: *opening,
		Seed:         *seed,
	})
	if err != nil {
		slog.Error("Selfplay failed", "error", err)
		os.Exit(1)
	}

	summary := selfplay.Summarize(results, time.Since(start))

	slog.Info("Selfplay finished",
		"games", summary.Games,
		"depth", *depth,
		"seed", *seed,
		"minimax_wins", summary.Wins[search.Minimax.String()],
		"alphabeta_wins", summary.Wins[search.AlphaBeta.String()],
		"draws", summary.Wins["draw"],
		"minimax_nodes", summary.Nodes[search.Minimax],
		"alphabeta_nodes", summary.Nodes[search.AlphaBeta],
		"elapsed", summary.Elapsed)
}
