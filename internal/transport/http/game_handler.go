package http

import (
	"errors"

	"reversi/internal/board"
	"reversi/internal/core"
	"reversi/internal/game"
	"reversi/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// CreateGame starts a game from the standard opening or a supplied layout
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req := validatedBody[core.CreateGameRequest](c)

	var turn core.Color
	if req.Turn != "" {
		turn, _ = core.ParseColor(req.Turn) // validated by oneof
	}

	gameID := h.svc.GenerateGameID()
	summary, err := h.svc.CreateGame(gameID, req.Board, turn)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(buildGameResponse(gameID, summary))
}

// ListGames returns the IDs of active games
func (h *HTTPHandler) ListGames(c *fiber.Ctx) error {
	return c.JSON(core.GameListResponse{Games: h.svc.ListGames()})
}

// GetGame returns the game state. With ?wait=true&version=N it long-polls
// until the game changes from version N.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	var (
		summary game.Summary
		err     error
	)
	if c.QueryBool("wait") {
		summary, err = h.svc.WaitForUpdate(c.Context(), gameID, c.QueryInt("version"))
	} else {
		summary, err = h.svc.GetGame(gameID)
	}
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(buildGameResponse(gameID, summary))
}

// MakeMove places a piece for the side to move
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	req := validatedBody[core.MoveRequest](c)

	var color core.Color
	if req.Color != "" {
		color, _ = core.ParseColor(req.Color)
	}

	result, summary, err := h.svc.MakeMove(gameID, req.Move, color)
	if err != nil {
		log.Debug().Err(err).Str("game", gameID).Str("move", req.Move).Msg("move rejected")
		return h.writeError(c, err)
	}

	response := buildGameResponse(gameID, summary)
	response.LastMove = buildMoveInfo(result)
	return c.JSON(response)
}

// UndoMove undoes one or more moves
func (h *HTTPHandler) UndoMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	req := validatedBody[core.UndoRequest](c)

	count := req.Count
	if count < 1 {
		count = 1
	}

	summary, err := h.svc.Undo(gameID, count)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			return h.writeError(c, err)
		}
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "cannot undo moves",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	return c.JSON(buildGameResponse(gameID, summary))
}

// DeleteGame ends and cleans up a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	if err := h.svc.DeleteGame(c.Params("gameId")); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetBoard returns ASCII representation of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	b, err := h.svc.GetBoard(c.Params("gameId"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(core.BoardResponse{Board: b.ToASCII()})
}

// GetLegalMoves lists legal squares for ?color= or the side to move
func (h *HTTPHandler) GetLegalMoves(c *fiber.Ctx) error {
	var color core.Color
	if q := c.Query("color"); q != "" {
		var err error
		if color, err = core.ParseColor(q); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
				Error:   "invalid color",
				Code:    core.ErrInvalidRequest,
				Details: err.Error(),
			})
		}
	}

	color, moves, err := h.svc.LegalMoves(c.Params("gameId"), color)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(core.LegalMovesResponse{
		Color: color.String(),
		Moves: board.FormatPositions(moves),
	})
}

// writeError maps service and engine errors to API error responses
func (h *HTTPHandler) writeError(c *fiber.Ctx, err error) error {
	status, code, msg := fiber.StatusInternalServerError, core.ErrInternalError, "internal error"

	switch {
	case errors.Is(err, service.ErrGameNotFound):
		status, code, msg = fiber.StatusNotFound, core.ErrGameNotFound, "game not found"
	case errors.Is(err, service.ErrNotYourTurn):
		status, code, msg = fiber.StatusConflict, core.ErrNotYourTurn, "not your turn"
	case errors.Is(err, game.ErrGameOver):
		status, code, msg = fiber.StatusBadRequest, core.ErrGameOver, "game is over"
	case errors.Is(err, board.ErrIllegalMove):
		status, code, msg = fiber.StatusBadRequest, core.ErrInvalidMove, "invalid move"
	case errors.Is(err, service.ErrInvalidBoard):
		status, code, msg = fiber.StatusBadRequest, core.ErrInvalidBoard, "invalid board"
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}

	return c.Status(status).JSON(core.ErrorResponse{
		Error:   msg,
		Code:    code,
		Details: err.Error(),
	})
}

func buildGameResponse(gameID string, s game.Summary) core.GameResponse {
	moves := s.Moves
	if moves == nil {
		moves = []string{}
	}
	return core.GameResponse{
		GameID:  gameID,
		Version: s.Version,
		Board:   s.Layout,
		Turn:    s.NextTurn.String(),
		State:   s.State.Key(),
		Moves:   moves,
		Black:   s.Black,
		White:   s.White,
		Players: core.PlayersResponse{
			Black: core.NewPlayerInfo(s.Players[core.ColorBlack]),
			White: core.NewPlayerInfo(s.Players[core.ColorWhite]),
		},
		LastMove: buildMoveInfo(s.LastResult),
	}
}

func buildMoveInfo(r *game.MoveResult) *core.MoveInfo {
	if r == nil {
		return nil
	}
	return &core.MoveInfo{
		Move:        r.Move,
		PlayerColor: r.Player.String(),
		Flipped:     r.Flipped,
		Passed:      r.Passed,
	}
}
