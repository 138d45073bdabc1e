package board

import (
	"errors"
	"fmt"

	"reversi/internal/core"
)

var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrIllegalMove = errors.New("illegal move")
)

// OutOfBoundsError reports a query for a position off the grid
type OutOfBoundsError struct {
	Pos Pos
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("position (%d,%d) is off the board", e.Pos.Row, e.Pos.Col)
}

func (e *OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}

// IllegalMoveError reports a rejected placement. The board is untouched.
type IllegalMoveError struct {
	Pos    Pos
	Color  core.Color
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s for %s: %s", e.Pos, e.Color.Name(), e.Reason)
}

func (e *IllegalMoveError) Is(target error) bool {
	return target == ErrIllegalMove
}
