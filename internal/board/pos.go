package board

import "fmt"

const Size = 8

// Pos addresses a cell by row and column, both in [0,Size)
type Pos struct {
	Row int
	Col int
}

// Directions holds the 8 unit steps: orthogonal and diagonal neighbors
var Directions = [8]Pos{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

func (p Pos) Add(d Pos) Pos {
	return Pos{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

func (p Pos) Valid() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// String renders the algebraic square: column letter then 1-based row, so
// Pos{2, 3} is "d3". Off-board positions fall back to the pair form.
func (p Pos) String() string {
	if !p.Valid() {
		return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+p.Col, p.Row+1)
}

// ParsePos parses an algebraic square such as "d3" or "F5"
func ParsePos(s string) (Pos, error) {
	if len(s) != 2 {
		return Pos{}, fmt.Errorf("invalid square %q: expected column letter and row digit", s)
	}
	col := s[0]
	if col >= 'A' && col <= 'H' {
		col += 'a' - 'A'
	}
	if col < 'a' || col > 'h' || s[1] < '1' || s[1] > '8' {
		return Pos{}, fmt.Errorf("invalid square %q: must be a1-h8", s)
	}
	return Pos{Row: int(s[1] - '1'), Col: int(col - 'a')}, nil
}

// FormatPositions renders positions in algebraic notation, preserving order
func FormatPositions(ps []Pos) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}
