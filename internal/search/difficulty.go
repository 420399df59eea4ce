package search

import (
	"fmt"
	"strconv"
	"strings"
)

// Difficulty is a named search depth.
type Difficulty int

const (
	Easy   Difficulty = 1
	Medium Difficulty = 2
	Hard   Difficulty = 3

	DefaultDifficulty = Medium
)

// MaxDepth is the deepest search the server accepts.
const MaxDepth = 6

// Depth returns the search depth of the difficulty.
func (d Difficulty) Depth() int {
	return int(d)
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("depth %d", int(d))
	}
}

// ParseDifficulty accepts a difficulty name or a depth between 0 and MaxDepth.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium", "":
		return Medium, nil
	case "hard":
		return Hard, nil
	}

	depth, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid difficulty %q: %w", s, err)
	}

	if err = ValidateDepth(depth); err != nil {
		return 0, err
	}

	return Difficulty(depth), nil
}

// ValidateDepth checks that depth is between 0 and MaxDepth.
func ValidateDepth(depth int) error {
	if depth < 0 || depth > MaxDepth {
		return fmt.Errorf("depth %d is out of range [0, %d]", depth, MaxDepth)
	}
	return nil
}
