package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"reversi/internal/cli"
	"reversi/internal/core"
	"reversi/internal/game"
	"reversi/internal/service"
	"reversi/internal/transport"
)

type CLIHandler struct {
	svc    *service.Service
	view   *cli.CLI
	gameID string
}

func New(svc *service.Service, view *cli.CLI) *CLIHandler {
	return &CLIHandler{
		svc:  svc,
		view: view,
	}
}

// Run is the main game loop, it returns on quit or end of input
func (h *CLIHandler) Run() {
	for {
		h.view.ShowPrompt(h.getPrompt())

		cmd, err := h.view.GetCommand()
		if err != nil {
			break
		}

		if !h.ProcessCommand(cmd) {
			break
		}
	}
}

// getPrompt shows the side to move and the score while a game is running
func (h *CLIHandler) getPrompt() string {
	if h.gameID == "" {
		return "> "
	}
	s, err := h.svc.GetGame(h.gameID)
	if err != nil || s.State != core.StateOngoing {
		return "> "
	}
	return fmt.Sprintf("[%s %d-%d]> ", s.NextTurn, s.Black, s.White)
}

// ProcessCommand handles one user command, it returns false to exit
func (h *CLIHandler) ProcessCommand(cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:
		return true

	case cli.CmdNew:
		layout, turn, err := parseNewArgs(cmd.Args)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.handleNewGame(layout, turn)

	case cli.CmdMove:
		if !h.requireGame() {
			return true
		}

		result, summary, err := h.svc.MakeMove(h.gameID, cmd.Args[0], 0)
		if err != nil {
			h.view.ShowError(fmt.Errorf("invalid move: %w", err))
			return true
		}

		h.view.ShowMove(result)
		h.showBoard()
		if result.GameState != core.StateOngoing {
			announce(h.view, summary)
		}

	case cli.CmdUndo:
		if !h.requireGame() {
			return true
		}

		count := 1
		if len(cmd.Args) > 0 {
			if n, err := strconv.Atoi(cmd.Args[0]); err == nil && n > 0 {
				count = n
			} else {
				h.view.ShowMessage("Invalid undo count. Usage: undo [count]")
				return true
			}
		}

		if _, err := h.svc.Undo(h.gameID, count); err != nil {
			h.view.ShowError(err)
			return true
		}
		if count == 1 {
			h.view.ShowMessage("Move undone")
		} else {
			h.view.ShowMessage(fmt.Sprintf("%d moves undone", count))
		}
		h.showBoard()

	case cli.CmdMoves:
		if !h.requireGame() {
			return true
		}
		color, moves, err := h.svc.LegalMoves(h.gameID, 0)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowLegalMoves(color, moves)
		h.showBoard()

	case cli.CmdBoard:
		if h.requireGame() {
			h.showBoard()
		}

	case cli.CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|green|gray>")
			return true
		}

		theme := cli.ColorTheme(cmd.Args[0])
		if err := h.view.SetTheme(theme); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
		if h.gameID != "" {
			h.showBoard()
		}

	case cli.CmdVerbose:
		verbose := h.view.ToggleVerbose()
		h.view.ShowMessage(fmt.Sprintf("Verbose mode: %t", verbose))

	case cli.CmdHistory:
		if !h.requireGame() {
			return true
		}
		s, err := h.svc.GetGame(h.gameID)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowGameHistory(s)

	case cli.CmdHelp:
		h.view.ShowHelp()
	}

	return true
}

func (h *CLIHandler) requireGame() bool {
	if h.gameID == "" {
		h.view.ShowMessage("No active game. Use 'new' to start one.")
		return false
	}
	return true
}

func (h *CLIHandler) showBoard() {
	b, err := h.svc.GetBoard(h.gameID)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	h.view.DisplayBoard(b)
}

// handleNewGame replaces the current game
func (h *CLIHandler) handleNewGame(layout string, turn core.Color) {
	if h.gameID != "" {
		_ = h.svc.DeleteGame(h.gameID)
		h.gameID = ""
	}

	id := h.svc.GenerateGameID()
	summary, err := h.svc.CreateGame(id, layout, turn)
	if err != nil {
		if errors.Is(err, service.ErrInvalidBoard) {
			h.view.ShowMessage("Layouts are 64 cells of '.', 'b' or 'w'.")
		}
		h.view.ShowError(fmt.Errorf("could not start the game: %w", err))
		return
	}
	h.gameID = id

	h.view.ShowMessage("Game started.")
	h.showBoard()
	if summary.State != core.StateOngoing {
		announce(h.view, summary)
	}
}

// announce reports a finished game
func announce(v transport.View, s game.Summary) {
	v.ShowGameOver(s.State, s.Black, s.White)
}

// parseNewArgs splits "new [layout...] [b|w]". The layout may be given as one
// token or as row tokens, the optional last token names the side to move.
func parseNewArgs(args []string) (string, core.Color, error) {
	var turn core.Color
	if n := len(args); n > 0 && len(args[n-1]) <= len("white") {
		if c, err := core.ParseColor(args[n-1]); err == nil {
			turn = c
			args = args[:n-1]
		}
	}

	layout := strings.Join(args, "")
	if layout != "" && len(layout) != 64 {
		return "", 0, fmt.Errorf("layout has %d cells, want 64", len(layout))
	}
	return layout, turn, nil
}
