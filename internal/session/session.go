// Package session keeps live games in memory and runs the computer player for them.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lk16/reversi/internal/models"
	"github.com/lk16/reversi/internal/othello"
	"github.com/lk16/reversi/internal/search"
	"github.com/samber/lo"
)

var (
	ErrNotFound     = errors.New("game not found")
	ErrNotYourTurn  = errors.New("it is not a human player's turn")
	ErrNotAITurn    = errors.New("it is not the computer's turn")
	ErrGameOver     = errors.New("game is over")
	ErrThinking     = errors.New("computer is already thinking")
	ErrGameModified = errors.New("game was modified during the search")
	ErrNoHumans     = errors.New("game has no human player")
)

// Humans tells which colors are played by people. The computer plays the others.
type Humans struct {
	Black bool
	White bool
}

// ParseHumans parses "black", "white", "both" or "none". The empty string means "black".
func ParseHumans(s string) (Humans, error) {
	switch s {
	case "", "black":
		return Humans{Black: true}, nil
	case "white":
		return Humans{White: true}, nil
	case "both":
		return Humans{Black: true, White: true}, nil
	case "none":
		return Humans{}, nil
	default:
		return Humans{}, fmt.Errorf("invalid human player: %q", s)
	}
}

// Plays returns whether a person plays player.
func (h Humans) Plays(player int) bool {
	if player == othello.BLACK {
		return h.Black
	}
	return h.White
}

func (h Humans) String() string {
	switch {
	case h.Black && h.White:
		return "both"
	case h.Black:
		return "black"
	case h.White:
		return "white"
	default:
		return "none"
	}
}

// Session is one live game.
type Session struct {
	id     uuid.UUID
	humans Humans
	depth  int
	engine *search.Engine

	// mutex protects the fields below
	mutex      sync.Mutex
	game       *othello.Game
	thinking   bool
	recorded   bool
	lastActive time.Time
}

func newSession(humans Humans, depth int, engine *search.Engine) *Session {
	return &Session{
		id:         uuid.New(),
		humans:     humans,
		depth:      depth,
		engine:     engine,
		game:       othello.NewGame(),
		lastActive: time.Now(),
	}
}

// ID returns the id of the session.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// State returns a snapshot of the game.
func (s *Session) State() models.GameState {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.state()
}

// state builds the snapshot. It assumes mutex is locked.
func (s *Session) state() models.GameState {
	board := s.game.Board()
	turn := s.game.Turn()
	legalMoves := board.LegalMoves(turn)

	state := models.GameState{
		ID:          s.id.String(),
		Board:       board.Rows(),
		BoardString: board.String(),
		Turn:        othello.PlayerName(turn),
		Human:       s.humans.String(),
		Depth:       s.depth,
		BlackDiscs:  board.DiscCount(othello.BLACK),
		WhiteDiscs:  board.DiscCount(othello.WHITE),
		LegalMoves:  lo.Map(legalMoves.Moves(), func(move othello.Move, _ int) string { return move.String() }),
		LegalMask:   fmt.Sprintf("%016x", legalMoves.Mask()),
		GameOver:    s.game.IsOver(),
		AITurn:      !s.game.IsOver() && !s.humans.Plays(turn),
		Transcript:  s.game.Transcript(),
	}

	if state.GameOver {
		state.Winner = othello.PlayerName(s.game.Winner())
		state.LegalMoves = []string{}
	}

	return state
}

// PlayMove plays a move for the human whose turn it is.
func (s *Session) PlayMove(move othello.Move) (models.GameState, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.lastActive = time.Now()

	if s.game.IsOver() {
		return models.GameState{}, ErrGameOver
	}

	if !s.humans.Plays(s.game.Turn()) || s.thinking {
		return models.GameState{}, ErrNotYourTurn
	}

	if err := s.game.PushMove(move); err != nil {
		return models.GameState{}, err
	}

	return s.state(), nil
}

// Undo takes back moves until a human is to move again. Finished games and games
// without a human player cannot be undone.
func (s *Session) Undo() (models.GameState, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.lastActive = time.Now()

	if s.humans == (Humans{}) {
		return models.GameState{}, ErrNoHumans
	}

	if s.game.IsOver() {
		return models.GameState{}, ErrGameOver
	}

	if s.thinking {
		return models.GameState{}, ErrThinking
	}

	s.game.PopMove()
	for len(s.game.Moves()) > 0 && !s.humans.Plays(s.game.Turn()) {
		s.game.PopMove()
	}

	return s.state(), nil
}

// ComputeAIMove lets the computer choose and play a move. The search runs on its own
// goroutine; when ctx ends first, ctx.Err() is returned and the search result is
// dropped once it arrives. The session stays busy until then.
func (s *Session) ComputeAIMove(ctx context.Context) (models.GameState, error) {
	s.mutex.Lock()

	if s.game.IsOver() {
		s.mutex.Unlock()
		return models.GameState{}, ErrGameOver
	}

	if s.humans.Plays(s.game.Turn()) {
		s.mutex.Unlock()
		return models.GameState{}, ErrNotAITurn
	}

	if s.thinking {
		s.mutex.Unlock()
		return models.GameState{}, ErrThinking
	}

	s.thinking = true
	s.lastActive = time.Now()
	board := s.game.Board()
	turn := s.game.Turn()
	moveCount := len(s.game.Moves())
	s.mutex.Unlock()

	results, err := s.engine.SearchAsync(ctx, board, turn, s.depth)
	if err != nil {
		s.stopThinking()
		return models.GameState{}, err
	}

	select {
	case <-ctx.Done():
		go func() {
			<-results
			s.stopThinking()
		}()
		return models.GameState{}, ctx.Err()
	case result := <-results:
		return s.applySearchResult(result, turn, moveCount)
	}
}

func (s *Session) stopThinking() {
	s.mutex.Lock()
	s.thinking = false
	s.mutex.Unlock()
}

func (s *Session) applySearchResult(result search.Result, turn, moveCount int) (models.GameState, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.thinking = false
	s.lastActive = time.Now()

	if s.game.Turn() != turn || len(s.game.Moves()) != moveCount {
		return models.GameState{}, ErrGameModified
	}

	move := othello.PassMove
	if result.Found {
		move = result.Move
	}

	if err := s.game.PushMove(move); err != nil {
		return models.GameState{}, fmt.Errorf("computer move %s was rejected: %w", move, err)
	}

	return s.state(), nil
}

// FinishedResult returns the result of a finished game the first time it is called
// after the game ended.
func (s *Session) FinishedResult() (models.GameResult, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.game.IsOver() || s.recorded {
		return models.GameResult{}, false
	}

	s.recorded = true
	board := s.game.Board()

	return models.GameResult{
		ID:         s.id,
		BlackDiscs: board.DiscCount(othello.BLACK),
		WhiteDiscs: board.DiscCount(othello.WHITE),
		Winner:     board.Winner(),
		Depth:      s.depth,
		MoveCount:  len(s.game.Moves()),
		FinishedAt: time.Now(),
	}, true
}

func (s *Session) idleSince() time.Time {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.lastActive
}
