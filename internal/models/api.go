package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lk16/reversi/internal/othello"
	"github.com/lk16/reversi/internal/search"
)

// NewGameRequest is the payload for creating a game.
type NewGameRequest struct {
	// Depth is the search depth of the computer player. The server default is used when nil.
	Depth *int `json:"depth"`

	// Human is "black", "white" or "both". The computer plays the other color.
	Human string `json:"human"`
}

// MoveRequest is the payload for playing a move, e.g. {"move": "d3"}.
type MoveRequest struct {
	Move string `json:"move"`
}

// GameState describes a live game.
type GameState struct {
	ID          string   `json:"id"`
	Board       []string `json:"board"`
	BoardString string   `json:"board_string"`
	Turn        string   `json:"turn"`
	Human       string   `json:"human"`
	Depth       int      `json:"depth"`
	BlackDiscs  int      `json:"black_discs"`
	WhiteDiscs  int      `json:"white_discs"`
	LegalMoves  []string `json:"legal_moves"`

	// LegalMask has bit row*8+col set for every legal move, as 16 hex characters.
	LegalMask string `json:"legal_mask"`

	// AITurn is set when the computer is to move in an unfinished game.
	AITurn bool `json:"ai_turn"`

	GameOver   bool   `json:"game_over"`
	Winner     string `json:"winner,omitempty"`
	Transcript string `json:"transcript"`
}

// SearchRequest asks the engine for a move on an arbitrary board.
type SearchRequest struct {
	Board    string `json:"board"`
	Player   string `json:"player"`
	Depth    int    `json:"depth"`
	Strategy string `json:"strategy"`
}

// SearchResponse is the engine's answer to a SearchRequest.
type SearchResponse struct {
	Move  string `json:"move,omitempty"`
	Found bool   `json:"found"`
	Score int    `json:"score"`
	Nodes int    `json:"nodes"`
}

// ParsedSearchRequest is a validated SearchRequest.
type ParsedSearchRequest struct {
	Board    othello.Board
	Player   int
	Depth    int
	Strategy search.Strategy
}

// Parse validates the request.
func (r *SearchRequest) Parse() (ParsedSearchRequest, error) {
	if r.Board == "" {
		return ParsedSearchRequest{}, errors.New("board is missing")
	}

	board, err := othello.NewBoardFromString(r.Board)
	if err != nil {
		return ParsedSearchRequest{}, fmt.Errorf("invalid board: %w", err)
	}

	player, err := othello.ParsePlayer(r.Player)
	if err != nil {
		return ParsedSearchRequest{}, err
	}

	if err = search.ValidateDepth(r.Depth); err != nil {
		return ParsedSearchRequest{}, err
	}

	strategy, err := search.ParseStrategy(r.Strategy)
	if err != nil {
		return ParsedSearchRequest{}, err
	}

	return ParsedSearchRequest{
		Board:    board,
		Player:   player,
		Depth:    r.Depth,
		Strategy: strategy,
	}, nil
}

// NewSearchResponse converts a search result.
func NewSearchResponse(result search.Result) SearchResponse {
	response := SearchResponse{
		Found: result.Found,
		Score: result.Score,
		Nodes: result.Nodes,
	}
	if result.Found {
		response.Move = result.Move.String()
	}
	return response
}

// GameResult is a finished game as stored in the database.
type GameResult struct {
	ID         uuid.UUID `json:"id"          db:"id"`
	BlackDiscs int       `json:"black_discs" db:"black_discs"`
	WhiteDiscs int       `json:"white_discs" db:"white_discs"`
	Winner     int       `json:"winner"      db:"winner"`
	Depth      int       `json:"depth"       db:"depth"`
	MoveCount  int       `json:"move_count"  db:"move_count"`
	FinishedAt time.Time `json:"finished_at" db:"finished_at"`
}

// ResultStats counts finished games per winner and search depth.
type ResultStats struct {
	Winner string `json:"winner"`
	Depth  int    `json:"depth"`
	Count  int    `json:"count"`
}

// VersionResponse is returned by the version endpoint.
type VersionResponse struct {
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
}
