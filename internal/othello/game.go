package othello

import (
	"fmt"
	"strings"
)

// Game represents an Othello game, either complete or in progress.
type Game struct {
	// start is the board before any move is played. This allows for custom start positions for debugging.
	start Board

	// startTurn is the player to move on the start board
	startTurn int

	// moves is the list of moves in the game. Pass moves are added automatically.
	moves []Move

	// board is the board after playing all moves
	board Board

	// turn is the player to move on board
	turn int
}

// NewGameWithStart creates a new empty game with a custom start board.
func NewGameWithStart(start Board, turn int) (*Game, error) {
	if !IsPlayer(turn) {
		return nil, fmt.Errorf("invalid turn: %d", turn)
	}

	return &Game{
		start:     start,
		startTurn: turn,
		moves:     make([]Move, 0),
		board:     start,
		turn:      turn,
	}, nil
}

// NewGame creates a new game from the starting position with black to move.
func NewGame() *Game {
	game, _ := NewGameWithStart(NewBoard(), BLACK)
	return game
}

// NewGameFromMoves creates a new game from a list of moves.
func NewGameFromMoves(moves []Move) (*Game, error) {
	game := NewGame()

	for _, move := range moves {
		if err := game.PushMove(move); err != nil {
			return nil, fmt.Errorf("failed to push move: %w", err)
		}
	}

	return game, nil
}

// NewGameFromTranscript creates a new game from whitespace-separated move fields.
func NewGameFromTranscript(transcript string) (*Game, error) {
	moves, err := ParseMoves(transcript)
	if err != nil {
		return nil, fmt.Errorf("failed to parse moves: %w", err)
	}

	return NewGameFromMoves(moves)
}

// Board returns a copy of the current board.
func (g *Game) Board() Board {
	return g.board.Copy()
}

// Turn returns the player to move.
func (g *Game) Turn() int {
	return g.turn
}

// Moves returns a copy of the moves played so far, including passes.
func (g *Game) Moves() []Move {
	moves := make([]Move, len(g.moves))
	copy(moves, g.moves)
	return moves
}

// IsOver returns whether neither player can move.
func (g *Game) IsOver() bool {
	return g.board.IsGameOver()
}

// Winner returns the winner by disc count. It is only meaningful once the game is over.
func (g *Game) Winner() int {
	return g.board.Winner()
}

// PushMove plays a move for the player to move.
func (g *Game) PushMove(move Move) error {
	if move.IsPass() {
		// Transcripts may list passes that were already added automatically.
		if n := len(g.moves); n > 0 && g.moves[n-1].IsPass() {
			return nil
		}
		if g.board.HasMoves(g.turn) {
			return &IllegalMoveError{Move: move, Player: g.turn, Reason: "cannot pass while having moves"}
		}
		if g.board.IsGameOver() {
			return &IllegalMoveError{Move: move, Player: g.turn, Reason: "game is over"}
		}

		g.moves = append(g.moves, PassMove)
		g.turn = Opponent(g.turn)
		return nil
	}

	if err := g.board.ApplyMove(move.Row, move.Col, g.turn); err != nil {
		return err
	}

	g.moves = append(g.moves, move)
	g.turn = Opponent(g.turn)

	// Add pass move if current player doesn't have moves but opponent does.
	if !g.board.HasMoves(g.turn) && g.board.HasMoves(Opponent(g.turn)) {
		g.moves = append(g.moves, PassMove)
		g.turn = Opponent(g.turn)
	}

	return nil
}

// PopMove undoes the last move.
func (g *Game) PopMove() {
	if len(g.moves) == 0 {
		return
	}

	poppedMoves := 1
	// Prevent having a last board without moves.
	if g.moves[len(g.moves)-1].IsPass() && len(g.moves) >= 2 {
		poppedMoves = 2
	}

	g.replay(g.moves[:len(g.moves)-poppedMoves])
}

// replay rebuilds the board from the start using moves that were accepted before.
func (g *Game) replay(moves []Move) {
	g.board = g.start
	g.turn = g.startTurn
	g.moves = make([]Move, 0, len(moves))

	for _, move := range moves {
		if move.IsPass() {
			g.moves = append(g.moves, PassMove)
			g.turn = Opponent(g.turn)
			continue
		}

		if err := g.board.ApplyMove(move.Row, move.Col, g.turn); err != nil {
			panic(fmt.Sprintf("replaying accepted move %s failed: %s", move, err))
		}
		g.moves = append(g.moves, move)
		g.turn = Opponent(g.turn)
	}
}

// Transcript returns the moves as space-separated field notation.
func (g *Game) Transcript() string {
	fields := make([]string, len(g.moves))
	for i, move := range g.moves {
		fields[i] = move.String()
	}
	return strings.Join(fields, " ")
}
