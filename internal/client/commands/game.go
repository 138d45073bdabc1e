package commands

import (
	"fmt"
	"strconv"
	"strings"

	"reversi/internal/client/display"
	"reversi/internal/core"
)

func (r *Registry) registerGameCommands() {
	r.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Description: "Create a new game",
		Usage:       "new [layout] [b|w]",
		Handler:     newGameHandler,
	})

	r.Register(&Command{
		Name:        "join",
		ShortName:   "j",
		Description: "Join/set current game ID",
		Usage:       "join <gameId>",
		Handler:     joinGameHandler,
	})

	r.Register(&Command{
		Name:        "list",
		ShortName:   "l",
		Description: "List active games",
		Usage:       "list",
		Handler:     listGamesHandler,
	})

	r.Register(&Command{
		Name:        "side",
		ShortName:   "c",
		Description: "Play as one color only (moves out of turn are rejected)",
		Usage:       "side <b|w|any>",
		Handler:     sideHandler,
	})

	r.Register(&Command{
		Name:        "move",
		ShortName:   "m",
		Description: "Place a piece",
		Usage:       "move <square>",
		Handler:     moveHandler,
	})

	r.Register(&Command{
		Name:        "legal",
		ShortName:   "g",
		Description: "List legal moves",
		Usage:       "legal [b|w]",
		Handler:     legalMovesHandler,
	})

	r.Register(&Command{
		Name:        "undo",
		ShortName:   "u",
		Description: "Undo moves",
		Usage:       "undo [count]",
		Handler:     undoHandler,
	})

	r.Register(&Command{
		Name:        "show",
		ShortName:   "h",
		Description: "Show board and game state",
		Usage:       "show",
		Handler:     showBoardHandler,
	})

	r.Register(&Command{
		Name:        "state",
		ShortName:   "s",
		Description: "Show raw game JSON",
		Usage:       "state",
		Handler:     gameStateHandler,
	})

	r.Register(&Command{
		Name:        "delete",
		ShortName:   "d",
		Description: "Delete a game",
		Usage:       "delete [gameId]",
		Handler:     deleteGameHandler,
	})

	r.Register(&Command{
		Name:        "poll",
		ShortName:   "p",
		Description: "Long-poll for game updates",
		Usage:       "poll",
		Handler:     pollHandler,
	})
}

func currentGame(s Session) (string, error) {
	gameID := s.GetCurrentGame()
	if gameID == "" {
		return "", fmt.Errorf("no current game, use 'new' or 'join <gameId>'")
	}
	return gameID, nil
}

// printStatus writes the one-line summary of a game
func printStatus(s Session, g *core.GameResponse) {
	fmt.Fprintf(s.Out(), "Turn: %s | State: %s | %s | Moves: %d\n",
		display.ColorForTurn(g.Turn), g.State, display.Score(g.Black, g.White), len(g.Moves))
}

func printLastMove(s Session, g *core.GameResponse) {
	if g.LastMove == nil {
		return
	}
	out := s.Out()
	fmt.Fprintf(out, "Last move: %s by %s", g.LastMove.Move, display.ColorForTurn(g.LastMove.PlayerColor))
	if len(g.LastMove.Flipped) > 0 {
		fmt.Fprintf(out, " flipping %s", strings.Join(g.LastMove.Flipped, " "))
	}
	fmt.Fprintln(out)
	if g.LastMove.Passed {
		other := "w"
		if g.LastMove.PlayerColor == "w" {
			other = "b"
		}
		fmt.Fprintf(out, "%s%s passes%s\n", display.Yellow, display.ColorForTurn(other), display.Reset)
	}
}

func newGameHandler(s Session, args []string) error {
	req := &core.CreateGameRequest{}
	if n := len(args); n > 0 && len(args[n-1]) <= len("white") {
		if _, err := core.ParseColor(args[n-1]); err == nil {
			req.Turn = args[n-1]
			args = args[:n-1]
		}
	}
	req.Board = strings.Join(args, "")

	resp, err := s.GetClient().CreateGame(req)
	if err != nil {
		return err
	}

	s.SetCurrentGame(resp.GameID)
	s.SetGameState(resp)

	out := s.Out()
	fmt.Fprintf(out, "%sGame created: %s%s\n", display.Green, resp.GameID, display.Reset)
	printStatus(s, resp)
	return nil
}

func joinGameHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: join <gameId>")
	}

	gameID := args[0]
	resp, err := s.GetClient().GetGame(gameID)
	if err != nil {
		return err
	}

	s.SetCurrentGame(gameID)
	s.SetGameState(resp)

	fmt.Fprintf(s.Out(), "%sJoined game: %s%s\n", display.Green, gameID, display.Reset)
	printStatus(s, resp)
	return nil
}

func listGamesHandler(s Session, args []string) error {
	resp, err := s.GetClient().ListGames()
	if err != nil {
		return err
	}

	out := s.Out()
	if len(resp.Games) == 0 {
		fmt.Fprintln(out, "No active games")
		return nil
	}
	for _, id := range resp.Games {
		marker := "  "
		if id == s.GetCurrentGame() {
			marker = display.Green + "* " + display.Reset
		}
		fmt.Fprintf(out, "%s%s\n", marker, id)
	}
	return nil
}

func sideHandler(s Session, args []string) error {
	if len(args) < 1 {
		side := "any"
		if c := s.GetPlayerColor(); c != "" {
			side = display.ColorForTurn(c)
		}
		fmt.Fprintf(s.Out(), "Playing as: %s\n", side)
		return nil
	}

	if args[0] == "any" {
		s.SetPlayerColor("")
		fmt.Fprintln(s.Out(), "Playing as: any")
		return nil
	}

	c, err := core.ParseColor(args[0])
	if err != nil {
		return err
	}
	s.SetPlayerColor(c.String())
	fmt.Fprintf(s.Out(), "Playing as: %s\n", display.ColorForTurn(c.String()))
	return nil
}

func moveHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: move <square>")
	}

	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	resp, err := s.GetClient().MakeMove(gameID, strings.ToLower(args[0]), s.GetPlayerColor())
	if err != nil {
		return err
	}

	s.SetGameState(resp)
	fmt.Fprintf(s.Out(), "%sMove accepted%s\n", display.Green, display.Reset)
	printLastMove(s, resp)
	printStatus(s, resp)

	if resp.State != "ongoing" {
		fmt.Fprintf(s.Out(), "%sGame over: %s%s\n", display.Magenta, resp.State, display.Reset)
	}
	return nil
}

func legalMovesHandler(s Session, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	color := ""
	if len(args) > 0 {
		color = args[0]
	}

	resp, err := s.GetClient().GetLegalMoves(gameID, color)
	if err != nil {
		return err
	}

	if len(resp.Moves) == 0 {
		fmt.Fprintf(s.Out(), "No legal moves for %s\n", display.ColorForTurn(resp.Color))
		return nil
	}
	fmt.Fprintf(s.Out(), "Legal moves for %s: %s\n", display.ColorForTurn(resp.Color), strings.Join(resp.Moves, " "))
	return nil
}

func undoHandler(s Session, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	count := 1
	if len(args) > 0 {
		count, err = strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid count: %s", args[0])
		}
	}

	resp, err := s.GetClient().UndoMoves(gameID, count)
	if err != nil {
		return err
	}

	s.SetGameState(resp)
	fmt.Fprintf(s.Out(), "%sUndid %d move(s)%s\n", display.Green, count, display.Reset)
	return nil
}

func showBoardHandler(s Session, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	c := s.GetClient()
	game, err := c.GetGame(gameID)
	if err != nil {
		return err
	}
	board, err := c.GetBoard(gameID)
	if err != nil {
		return err
	}

	s.SetGameState(game)

	out := s.Out()
	fmt.Fprintln(out)
	display.RenderBoard(out, board.Board)
	fmt.Fprintf(out, "\nLayout: %s\n", game.Board)
	printStatus(s, game)

	if len(game.Moves) > 0 {
		fmt.Fprintf(out, "History: %s\n", strings.Join(game.Moves, " "))
	}
	printLastMove(s, game)
	return nil
}

func gameStateHandler(s Session, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	resp, err := s.GetClient().GetGame(gameID)
	if err != nil {
		return err
	}
	s.SetGameState(resp)

	fmt.Fprintf(s.Out(), "%sGame State:%s\n", display.Cyan, display.Reset)
	display.PrettyPrintJSON(s.Out(), resp)
	return nil
}

func deleteGameHandler(s Session, args []string) error {
	gameID := s.GetCurrentGame()
	if len(args) > 0 {
		gameID = args[0]
	}
	if gameID == "" {
		return fmt.Errorf("specify game ID or set current game")
	}

	if err := s.GetClient().DeleteGame(gameID); err != nil {
		return err
	}

	if gameID == s.GetCurrentGame() {
		s.SetCurrentGame("")
	}

	fmt.Fprintf(s.Out(), "%sGame deleted: %s%s\n", display.Green, gameID, display.Reset)
	return nil
}

func pollHandler(s Session, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	version := s.GetLastVersion()
	out := s.Out()
	fmt.Fprintf(out, "%sLong-polling for updates (version: %d)...%s\n", display.Cyan, version, display.Reset)
	fmt.Fprintf(out, "%sThis may take up to 25 seconds%s\n", display.Cyan, display.Reset)

	resp, err := s.GetClient().WaitForUpdate(gameID, version)
	if err != nil {
		return err
	}
	s.SetGameState(resp)

	if resp.Version != version {
		fmt.Fprintf(out, "%sGame updated (version %d)%s\n", display.Green, resp.Version, display.Reset)
		printLastMove(s, resp)
		printStatus(s, resp)
	} else {
		fmt.Fprintf(out, "%sNo updates (timeout)%s\n", display.Yellow, display.Reset)
	}
	return nil
}
