package search

import "github.com/lk16/reversi/internal/othello"

const (
	discWeight     = 10
	mobilityWeight = 15
	cornerWeight   = 25
	edgeWeight     = 5
	xcSquareWeight = 10
)

var corners = [4]othello.Move{{Row: 0, Col: 0}, {Row: 0, Col: 7}, {Row: 7, Col: 0}, {Row: 7, Col: 7}}

// xcSquares are the cells next to a corner. Holding one tends to give the corner away.
var xcSquares = [12]othello.Move{
	{Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 1},
	{Row: 0, Col: 6}, {Row: 1, Col: 6}, {Row: 1, Col: 7},
	{Row: 6, Col: 0}, {Row: 6, Col: 1}, {Row: 7, Col: 1},
	{Row: 6, Col: 6}, {Row: 6, Col: 7}, {Row: 7, Col: 6},
}

// edges is the border ring of 28 cells, corners included once.
var edges = func() []othello.Move {
	cells := make([]othello.Move, 0, 28)
	for row := range othello.Size {
		for col := range othello.Size {
			if row == 0 || row == othello.Size-1 || col == 0 || col == othello.Size-1 {
				cells = append(cells, othello.Move{Row: row, Col: col})
			}
		}
	}
	return cells
}()

// Evaluator scores a board from the point of view of a player. Higher is better for that player.
type Evaluator func(board othello.Board, forPlayer int) int

// Evaluate is the default heuristic. It combines disc count, mobility, corners, edges
// and a penalty for cells next to corners.
func Evaluate(board othello.Board, forPlayer int) int {
	opponent := othello.Opponent(forPlayer)

	discs := board.DiscCount(forPlayer) - board.DiscCount(opponent)
	mobility := board.LegalMoves(forPlayer).Len() - board.LegalMoves(opponent).Len()

	return discs*discWeight +
		mobility*mobilityWeight +
		cellScore(board, corners[:], forPlayer, cornerWeight) +
		cellScore(board, edges, forPlayer, edgeWeight) -
		cellScore(board, xcSquares[:], forPlayer, xcSquareWeight)
}

// cellScore adds weight for each cell held by forPlayer and subtracts it for each cell
// held by the opponent.
func cellScore(board othello.Board, cells []othello.Move, forPlayer, weight int) int {
	score := 0
	for _, cell := range cells {
		value, _ := board.Cell(cell.Row, cell.Col)
		switch value {
		case forPlayer:
			score += weight
		case othello.Opponent(forPlayer):
			score -= weight
		}
	}
	return score
}
