package board

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"reversi/internal/core"
)

const (
	// StartingLayout is the opening position in Layout form
	StartingLayout = "........" +
		"........" +
		"........" +
		"...wb..." +
		"...bw..." +
		"........" +
		"........" +
		"........"

	emptySymbol = '.'
)

// Board owns the grid and every Piece on it. A nil cell is empty.
type Board struct {
	squares [Size][Size]*Piece
}

// New returns a board set up with the four center pieces
func New() *Board {
	b := &Board{}
	b.squares[3][3] = newPiece(core.ColorWhite)
	b.squares[4][4] = newPiece(core.ColorWhite)
	b.squares[3][4] = newPiece(core.ColorBlack)
	b.squares[4][3] = newPiece(core.ColorBlack)
	return b
}

// Parse builds a board from a row-major layout of 64 cells using '.', 'b'
// and 'w'. Whitespace is ignored so the output of String parses as well.
func Parse(layout string) (*Board, error) {
	b := &Board{}
	n := 0
	for _, ch := range layout {
		switch ch {
		case ' ', '\t', '\n', '\r':
			continue
		}
		if n >= Size*Size {
			return nil, fmt.Errorf("invalid layout: more than %d cells", Size*Size)
		}
		switch ch {
		case emptySymbol:
		case 'b', 'B':
			b.squares[n/Size][n%Size] = newPiece(core.ColorBlack)
		case 'w', 'W':
			b.squares[n/Size][n%Size] = newPiece(core.ColorWhite)
		default:
			return nil, fmt.Errorf("invalid layout: unexpected %q at cell %d", ch, n)
		}
		n++
	}
	if n != Size*Size {
		return nil, fmt.Errorf("invalid layout: expected %d cells, got %d", Size*Size, n)
	}
	return b, nil
}

// Clone returns a deep copy with fresh Piece objects
func (b *Board) Clone() *Board {
	c := &Board{}
	for r := 0; r < Size; r++ {
		for col := 0; col < Size; col++ {
			if p := b.squares[r][col]; p != nil {
				c.squares[r][col] = newPiece(p.color)
			}
		}
	}
	return c
}

func (b *Board) IsValidPos(p Pos) bool {
	return p.Valid()
}

// GetPiece returns a copy of the piece at p, or nil when the cell is empty
func (b *Board) GetPiece(p Pos) (*Piece, error) {
	if !p.Valid() {
		return nil, &OutOfBoundsError{Pos: p}
	}
	piece := b.squares[p.Row][p.Col]
	if piece == nil {
		return nil, nil
	}
	cp := *piece
	return &cp, nil
}

func (b *Board) IsOccupied(p Pos) (bool, error) {
	piece, err := b.GetPiece(p)
	if err != nil {
		return false, err
	}
	return piece != nil, nil
}

// IsMine never fails: off-board positions are simply not mine
func (b *Board) IsMine(p Pos, c core.Color) bool {
	if !p.Valid() {
		return false
	}
	piece := b.squares[p.Row][p.Col]
	return piece != nil && piece.color == c.Normalize()
}

// FindCaptureRun walks from origin in direction dir and returns the opposing
// pieces that a piece of color c at origin would capture on that line.
// The walk stops with no capture at the board edge, at an empty cell, or at
// an own piece with nothing in between.
func (b *Board) FindCaptureRun(origin Pos, c core.Color, dir Pos) []Pos {
	if dir == (Pos{}) {
		return nil
	}
	c = c.Normalize()

	var run []Pos
	for p := origin.Add(dir); p.Valid(); p = p.Add(dir) {
		piece := b.squares[p.Row][p.Col]
		switch {
		case piece == nil:
			return nil
		case piece.color != c:
			run = append(run, p)
		case len(run) == 0:
			return nil
		default:
			return run
		}
	}
	return nil
}

func (b *Board) IsLegalMove(p Pos, c core.Color) (bool, error) {
	occupied, err := b.IsOccupied(p)
	if err != nil {
		return false, err
	}
	if occupied {
		return false, nil
	}
	for _, d := range Directions {
		if len(b.FindCaptureRun(p, c, d)) > 0 {
			return true, nil
		}
	}
	return false, nil
}

// LegalMoves lists every legal placement for c in row-major order
func (b *Board) LegalMoves(c core.Color) []Pos {
	var moves []Pos
	for r := 0; r < Size; r++ {
		for col := 0; col < Size; col++ {
			p := Pos{Row: r, Col: col}
			if ok, _ := b.IsLegalMove(p, c); ok {
				moves = append(moves, p)
			}
		}
	}
	return moves
}

func (b *Board) HasAnyMove(c core.Color) bool {
	return len(b.LegalMoves(c)) > 0
}

// PlacePiece puts a piece of color c at p and flips every captured run.
// All runs are collected before the grid is touched, so a rejected move
// leaves the board unchanged. The flipped positions are returned in
// row-major order.
func (b *Board) PlacePiece(p Pos, c core.Color) ([]Pos, error) {
	c = c.Normalize()
	if !c.Valid() {
		return nil, &IllegalMoveError{Pos: p, Color: c, Reason: "unknown color"}
	}
	if !p.Valid() {
		return nil, &IllegalMoveError{Pos: p, Color: c, Reason: "off the board"}
	}
	if b.squares[p.Row][p.Col] != nil {
		return nil, &IllegalMoveError{Pos: p, Color: c, Reason: "square is occupied"}
	}

	var captured []Pos
	for _, d := range Directions {
		captured = append(captured, b.FindCaptureRun(p, c, d)...)
	}
	if len(captured) == 0 {
		return nil, &IllegalMoveError{Pos: p, Color: c, Reason: "no pieces captured"}
	}

	b.squares[p.Row][p.Col] = newPiece(c)
	for _, cp := range captured {
		b.squares[cp.Row][cp.Col].Flip()
	}

	sortRowMajor(captured)
	return captured, nil
}

// IsGameOver reports whether neither color can move
func (b *Board) IsGameOver() bool {
	return !b.HasAnyMove(core.ColorWhite) && !b.HasAnyMove(core.ColorBlack)
}

func (b *Board) Count(c core.Color) int {
	c = c.Normalize()
	n := 0
	for r := 0; r < Size; r++ {
		for col := 0; col < Size; col++ {
			if piece := b.squares[r][col]; piece != nil && piece.color == c {
				n++
			}
		}
	}
	return n
}

func (b *Board) Occupied() int {
	return b.Count(core.ColorBlack) + b.Count(core.ColorWhite)
}

// Leader returns the color with more pieces, or 0 on a tie
func (b *Board) Leader() core.Color {
	black, white := b.Count(core.ColorBlack), b.Count(core.ColorWhite)
	switch {
	case black > white:
		return core.ColorBlack
	case white > black:
		return core.ColorWhite
	default:
		return 0
	}
}

// Layout encodes the grid as 64 row-major characters
func (b *Board) Layout() string {
	var sb strings.Builder
	sb.Grow(Size * Size)
	for r := 0; r < Size; r++ {
		for col := 0; col < Size; col++ {
			sb.WriteByte(b.symbolAt(r, col))
		}
	}
	return sb.String()
}

// String renders one line per row, one character per cell
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < Size; col++ {
			sb.WriteByte(b.symbolAt(r, col))
		}
	}
	return sb.String()
}

// ToASCII creates a labelled ASCII representation of the board
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 0; r < Size; r++ {
		sb.WriteString(fmt.Sprintf("%d ", r+1))
		for col := 0; col < Size; col++ {
			sb.WriteString(fmt.Sprintf("%c ", b.symbolAt(r, col)))
		}
		sb.WriteString(fmt.Sprintf(" %d\n", r+1))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}

func (b *Board) symbolAt(r, col int) byte {
	if piece := b.squares[r][col]; piece != nil {
		return piece.symbol()
	}
	return emptySymbol
}

func sortRowMajor(ps []Pos) {
	slices.SortFunc(ps, func(a, b Pos) int {
		if a.Row != b.Row {
			return cmp.Compare(a.Row, b.Row)
		}
		return cmp.Compare(a.Col, b.Col)
	})
}
