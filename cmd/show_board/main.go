package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lk16/reversi/internal/othello"
	"github.com/lk16/reversi/internal/search"
)

func main() {
	boardString := flag.String("board", "", "the board to show, as 32 hex characters")
	moves := flag.String("moves", "", "moves to play from the start position, e.g. \"d3 c5\"")
	depth := flag.Int("depth", -1, "also show the move the engine picks at this depth")
	flag.Parse()

	if *boardString != "" && *moves != "" {
		fmt.Println("-board and -moves cannot be combined")
		os.Exit(1)
	}

	board := othello.NewBoard()
	turn := othello.BLACK

	if *boardString != "" {
		var err error
		board, err = othello.NewBoardFromString(*boardString)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}

	if *moves != "" {
		game, err := othello.NewGameFromTranscript(*moves)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		board = game.Board()
		turn = game.Turn()
	}

	board.Print(turn)

	if *depth < 0 {
		return
	}

	if err := search.ValidateDepth(*depth); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	result := search.NewEngine(search.AlphaBeta).Search(board, turn, *depth)
	if !result.Found {
		fmt.Printf("%s has to pass\n", othello.PlayerName(turn))
		return
	}

	fmt.Printf("best move for %s: %s (score %d, %d nodes)\n",
		othello.PlayerName(turn), result.Move, result.Score, result.Nodes)
}
