package transport

import (
	"reversi/internal/board"
	"reversi/internal/core"
	"reversi/internal/game"
)

// View abstracts display/output operations for an interactive game
type View interface {
	DisplayBoard(b *board.Board)
	ShowMessage(msg string)
	ShowError(err error)
	ShowGameHistory(s game.Summary)
	ShowMove(result *game.MoveResult)
	ShowLegalMoves(color core.Color, moves []board.Pos)
	ShowGameOver(state core.State, black, white int)
	ShowPrompt(prompt string)
}
