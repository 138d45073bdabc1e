package board

import "reversi/internal/core"

// Piece is a disc on the grid. Flipping mutates it in place so captured
// pieces keep their identity.
type Piece struct {
	color core.Color
}

func newPiece(c core.Color) *Piece {
	return &Piece{color: c}
}

func (p *Piece) Color() core.Color {
	return p.color
}

func (p *Piece) Flip() {
	p.color = p.color.Opposite()
}

func (p *Piece) symbol() byte {
	return byte(p.color)
}
