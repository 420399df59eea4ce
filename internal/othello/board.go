package othello

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
)

const (
	EMPTY = 0
	BLACK = 1
	WHITE = -1
	TIE   = EMPTY
)

// Size is the width and height of the board.
const Size = 8

// directions lists the (row, col) steps used for scanning and flipping. The order is
// fixed because it determines the order in which LegalMoves discovers moves.
var directions = [8][2]int{
	{0, -1},
	{0, 1},
	{1, 0},
	{-1, 0},
	{1, -1},
	{1, 1},
	{-1, 1},
	{-1, -1},
}

// ErrIllegalMove is matched by every IllegalMoveError.
var ErrIllegalMove = errors.New("illegal move")

// IllegalMoveError is returned by ApplyMove when a move cannot be played.
type IllegalMoveError struct {
	Move   Move
	Player int
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s for %s: %s", e.Move, PlayerName(e.Player), e.Reason)
}

func (e *IllegalMoveError) Unwrap() error {
	return ErrIllegalMove
}

// Opponent returns the opponent of a player.
func Opponent(player int) int {
	return -player
}

// IsPlayer checks if a value is BLACK or WHITE.
func IsPlayer(player int) bool {
	return player == BLACK || player == WHITE
}

// PlayerName returns a human readable name for a cell value or winner.
func PlayerName(player int) string {
	switch player {
	case BLACK:
		return "black"
	case WHITE:
		return "white"
	case EMPTY:
		return "none"
	default:
		return fmt.Sprintf("unknown(%d)", player)
	}
}

// ParsePlayer converts "black"/"b" or "white"/"w" to BLACK or WHITE.
func ParsePlayer(s string) (int, error) {
	switch s {
	case "black", "b", "BLACK", "B":
		return BLACK, nil
	case "white", "w", "WHITE", "W":
		return WHITE, nil
	default:
		return EMPTY, fmt.Errorf("invalid player: %q", s)
	}
}

// IsInBounds checks if a coordinate lies on the board.
func IsInBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// Board is an Othello board. It is a value type: assigning or copying a Board produces
// an independent board.
type Board struct {
	grid       [Size][Size]int
	blackCount int
	whiteCount int
}

// NewBoard creates a new board with the starting position.
func NewBoard() Board {
	b := NewBoardEmpty()
	b.grid[3][3] = WHITE
	b.grid[4][4] = WHITE
	b.grid[3][4] = BLACK
	b.grid[4][3] = BLACK
	b.blackCount = 2
	b.whiteCount = 2
	return b
}

// NewBoardEmpty creates a board without any discs.
func NewBoardEmpty() Board {
	return Board{}
}

// NewBoardFromRows creates a board from 8 rows of 8 characters each, using 'B' for
// black, 'W' for white and '.' for empty cells.
func NewBoardFromRows(rows []string) (Board, error) {
	if len(rows) != Size {
		return Board{}, fmt.Errorf("expected %d rows, got %d", Size, len(rows))
	}

	b := NewBoardEmpty()
	for row, line := range rows {
		if len(line) != Size {
			return Board{}, fmt.Errorf("row %d must be %d characters long, got %d", row, Size, len(line))
		}

		for col := range Size {
			switch line[col] {
			case 'B', 'b', 'x', 'X':
				b.set(row, col, BLACK)
			case 'W', 'w', 'o', 'O':
				b.set(row, col, WHITE)
			case '.', '-':
			default:
				return Board{}, fmt.Errorf("invalid character %q at row %d col %d", line[col], row, col)
			}
		}
	}

	return b, nil
}

// NewBoardFromRowsMust works like NewBoardFromRows but panics on invalid input.
func NewBoardFromRowsMust(rows []string) Board {
	b, err := NewBoardFromRows(rows)
	if err != nil {
		panic(err)
	}
	return b
}

// NewBoardFromString parses the output of Board.String.
func NewBoardFromString(s string) (Board, error) {
	if len(s) != 32 {
		return Board{}, fmt.Errorf("board string must be 32 characters long, got %d", len(s))
	}

	black, err := strconv.ParseUint(s[:16], 16, 64)
	if err != nil {
		return Board{}, fmt.Errorf("invalid black discs: %w", err)
	}

	white, err := strconv.ParseUint(s[16:], 16, 64)
	if err != nil {
		return Board{}, fmt.Errorf("invalid white discs: %w", err)
	}

	if black&white != 0 {
		return Board{}, errors.New("invalid board: black and white discs cannot overlap")
	}

	b := NewBoardEmpty()
	for index := range Size * Size {
		mask := uint64(1) << index
		switch {
		case black&mask != 0:
			b.set(index/Size, index%Size, BLACK)
		case white&mask != 0:
			b.set(index/Size, index%Size, WHITE)
		}
	}

	return b, nil
}

// set puts a disc on an empty cell and updates the counts.
func (b *Board) set(row, col, player int) {
	b.grid[row][col] = player
	if player == BLACK {
		b.blackCount++
	} else {
		b.whiteCount++
	}
}

// flip turns an opponent disc into a disc of player.
func (b *Board) flip(row, col, player int) {
	b.grid[row][col] = player
	if player == BLACK {
		b.blackCount++
		b.whiteCount--
	} else {
		b.whiteCount++
		b.blackCount--
	}
}

// Cell returns the value at a coordinate. Out of bounds coordinates return EMPTY and false.
func (b Board) Cell(row, col int) (int, bool) {
	if !IsInBounds(row, col) {
		return EMPTY, false
	}
	return b.grid[row][col], true
}

// IsInBounds checks if a coordinate lies on the board.
func (b Board) IsInBounds(row, col int) bool {
	return IsInBounds(row, col)
}

// LegalMoves returns all moves player can make.
//
// Moves are found by walking from each of player's discs, in row-major order, over runs
// of opponent discs in the fixed direction order until an empty cell is reached. The
// returned set enumerates moves in the order they were first found this way.
func (b Board) LegalMoves(player int) MoveSet {
	var moves MoveSet

	if !IsPlayer(player) {
		return moves
	}

	opponent := Opponent(player)

	for row := range Size {
		for col := range Size {
			if b.grid[row][col] != player {
				continue
			}

			for _, dir := range directions {
				r, c := row+dir[0], col+dir[1]
				if !IsInBounds(r, c) || b.grid[r][c] != opponent {
					continue
				}

				for IsInBounds(r, c) && b.grid[r][c] == opponent {
					r += dir[0]
					c += dir[1]
				}

				if IsInBounds(r, c) && b.grid[r][c] == EMPTY {
					moves.Add(Move{Row: r, Col: c})
				}
			}
		}
	}

	return moves
}

// HasMoves checks if player has at least one legal move.
func (b Board) HasMoves(player int) bool {
	return !b.LegalMoves(player).IsEmpty()
}

// ApplyMove places a disc for player and flips all flanked opponent discs.
// The board is not modified when an error is returned.
func (b *Board) ApplyMove(row, col, player int) error {
	move := Move{Row: row, Col: col}

	if !IsPlayer(player) {
		return &IllegalMoveError{Move: move, Player: player, Reason: "not a player"}
	}

	if !IsInBounds(row, col) {
		return &IllegalMoveError{Move: move, Player: player, Reason: "out of bounds"}
	}

	if b.grid[row][col] != EMPTY {
		return &IllegalMoveError{Move: move, Player: player, Reason: "cell is occupied"}
	}

	if !b.LegalMoves(player).Contains(move) {
		return &IllegalMoveError{Move: move, Player: player, Reason: "no discs are flanked"}
	}

	b.set(row, col, player)
	opponent := Opponent(player)

	for _, dir := range directions {
		r, c := row+dir[0], col+dir[1]
		if !IsInBounds(r, c) || b.grid[r][c] != opponent {
			continue
		}

		for IsInBounds(r, c) && b.grid[r][c] == opponent {
			r += dir[0]
			c += dir[1]
		}

		if !IsInBounds(r, c) || b.grid[r][c] != player {
			continue
		}

		for fr, fc := row+dir[0], col+dir[1]; fr != r || fc != c; fr, fc = fr+dir[0], fc+dir[1] {
			b.flip(fr, fc, player)
		}
	}

	return nil
}

// IsGameOver returns whether neither player can move.
func (b Board) IsGameOver() bool {
	return !b.HasMoves(BLACK) && !b.HasMoves(WHITE)
}

// DiscCount returns the number of discs of player.
func (b Board) DiscCount(player int) int {
	switch player {
	case BLACK:
		return b.blackCount
	case WHITE:
		return b.whiteCount
	default:
		return 0
	}
}

// EmptyCount returns the number of empty cells.
func (b Board) EmptyCount() int {
	return Size*Size - b.blackCount - b.whiteCount
}

// Winner compares the disc counts. It does not check whether the game is over.
func (b Board) Winner() int {
	switch {
	case b.blackCount > b.whiteCount:
		return BLACK
	case b.whiteCount > b.blackCount:
		return WHITE
	default:
		return TIE
	}
}

// Copy returns an independent copy of the board.
func (b Board) Copy() Board {
	return b
}

// bitboard returns a bitset of all cells holding player.
func (b Board) bitboard(player int) uint64 {
	var bitset uint64
	for row := range Size {
		for col := range Size {
			if b.grid[row][col] == player {
				bitset |= uint64(1) << (row*Size + col)
			}
		}
	}
	return bitset
}

// CountCells counts the cells holding a value by scanning the grid.
func (b Board) CountCells(value int) int {
	if value == EMPTY {
		return Size*Size - bits.OnesCount64(b.bitboard(BLACK)|b.bitboard(WHITE))
	}
	return bits.OnesCount64(b.bitboard(value))
}

// Rows returns the board as 8 strings using 'B', 'W' and '.'.
func (b Board) Rows() []string {
	rows := make([]string, Size)
	for row := range Size {
		line := make([]byte, Size)
		for col := range Size {
			switch b.grid[row][col] {
			case BLACK:
				line[col] = 'B'
			case WHITE:
				line[col] = 'W'
			default:
				line[col] = '.'
			}
		}
		rows[row] = string(line)
	}
	return rows
}

// ASCIIArtLines returns the ascii art lines for the board. Legal moves of turn are
// marked; pass EMPTY to mark nothing.
func (b Board) ASCIIArtLines(turn int) []string {
	moves := b.LegalMoves(turn)
	lines := make([]string, Size+2)

	lines[0] = "+-a-b-c-d-e-f-g-h-+"
	for row := range Size {
		line := fmt.Sprintf("%d ", row+1)

		for col := range Size {
			switch {
			case b.grid[row][col] == WHITE:
				line += "○ "
			case b.grid[row][col] == BLACK:
				line += "● "
			case moves.Contains(Move{Row: row, Col: col}):
				line += "· "
			default:
				line += "  "
			}
		}

		lines[row+1] = line + "|"
	}

	lines[Size+1] = "+-----------------+"

	return lines
}

// Print prints the board to the console. This is used for debugging.
func (b Board) Print(turn int) {
	for _, line := range b.ASCIIArtLines(turn) {
		fmt.Println(line)
	}
}

// String returns the hex encoding of the black and white bitboards.
func (b Board) String() string {
	return fmt.Sprintf("%016x%016x", b.bitboard(BLACK), b.bitboard(WHITE))
}
