package othello

import (
	"fmt"
	"strings"
)

// Move is a (row, col) coordinate on the board, 0-indexed.
type Move struct {
	Row int
	Col int
}

// PassMove is recorded in game histories when a player has no legal move.
var PassMove = Move{Row: -1, Col: -1}

// IsPass returns whether the move is a pass.
func (m Move) IsPass() bool {
	return m == PassMove
}

// index returns the bit index of the move, row-major.
func (m Move) index() int {
	return m.Row*Size + m.Col
}

// String returns the field notation of the move, e.g. "d3". Passes are "--".
func (m Move) String() string {
	if m.IsPass() {
		return "--"
	}

	if !IsInBounds(m.Row, m.Col) {
		return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
	}

	return fmt.Sprintf("%c%d", 'a'+m.Col, m.Row+1)
}

// ParseMove converts a field notation (e.g. "a1", "h8") to a Move.
// PassMove is returned if the field is "--", "ps" or "pa".
func ParseMove(field string) (Move, error) {
	if len(field) != 2 {
		return Move{}, fmt.Errorf("invalid field length: %q", field)
	}

	field = strings.ToLower(field)

	if field == "--" || field == "ps" || field == "pa" {
		return PassMove, nil
	}

	if !('a' <= field[0] && field[0] <= 'h' && '1' <= field[1] && field[1] <= '8') {
		return Move{}, fmt.Errorf("invalid field: %q", field)
	}

	return Move{
		Row: int(field[1] - '1'),
		Col: int(field[0] - 'a'),
	}, nil
}

// ParseMoves parses whitespace-separated fields. Words starting with a digit, such as
// move numbers like "1.", are skipped.
func ParseMoves(text string) ([]Move, error) {
	moves := make([]Move, 0)

	for _, word := range strings.Fields(text) {
		if word[0] >= '0' && word[0] <= '9' {
			continue
		}

		move, err := ParseMove(word)
		if err != nil {
			return nil, fmt.Errorf("failed to parse move %s: %w", word, err)
		}

		moves = append(moves, move)
	}

	return moves, nil
}

// MoveSet is a set of moves that remembers the order in which moves were first added.
type MoveSet struct {
	// mask has bit row*8+col set for every move in the set
	mask uint64

	// order lists the moves in order of discovery
	order []Move
}

// Add adds a move to the set. Adding a move that is already present does nothing.
func (s *MoveSet) Add(move Move) {
	bit := uint64(1) << move.index()
	if s.mask&bit != 0 {
		return
	}

	s.mask |= bit
	s.order = append(s.order, move)
}

// Contains checks if the set contains a move.
func (s MoveSet) Contains(move Move) bool {
	if !IsInBounds(move.Row, move.Col) {
		return false
	}
	return s.mask&(uint64(1)<<move.index()) != 0
}

// Len returns the number of moves in the set.
func (s MoveSet) Len() int {
	return len(s.order)
}

// IsEmpty returns whether the set has no moves.
func (s MoveSet) IsEmpty() bool {
	return s.mask == 0
}

// Mask returns the set as a bitset with bit row*8+col set for each move.
func (s MoveSet) Mask() uint64 {
	return s.mask
}

// Moves returns the moves in order of discovery. The returned slice is a copy.
func (s MoveSet) Moves() []Move {
	moves := make([]Move, len(s.order))
	copy(moves, s.order)
	return moves
}

// String returns the moves in discovery order in field notation.
func (s MoveSet) String() string {
	fields := make([]string, len(s.order))
	for i, move := range s.order {
		fields[i] = move.String()
	}
	return strings.Join(fields, " ")
}
