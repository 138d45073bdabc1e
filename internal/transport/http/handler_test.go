package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"reversi/internal/board"
	"reversi/internal/core"
	"reversi/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, cfg Config) *fiber.App {
	t.Helper()
	svc, err := service.New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Shutdown() })
	return NewFiberApp(svc, cfg)
}

func do(t *testing.T, app *fiber.App, method, path, body string, out any) int {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createGame(t *testing.T, app *fiber.App, body string) core.GameResponse {
	t.Helper()
	var game core.GameResponse
	status := do(t, app, fiber.MethodPost, "/api/v1/games", body, &game)
	require.Equal(t, fiber.StatusCreated, status)
	return game
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, Config{})

	var body map[string]any
	status := do(t, app, fiber.MethodGet, "/health", "", &body)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "healthy", body["status"])
	require.Equal(t, "disabled", body["storage"])
	require.EqualValues(t, 0, body["games"])

	createGame(t, app, "")
	do(t, app, fiber.MethodGet, "/health", "", &body)
	require.EqualValues(t, 1, body["games"])
}

func TestCreateGame(t *testing.T) {
	app := newTestApp(t, Config{})

	t.Run("default opening", func(t *testing.T) {
		game := createGame(t, app, "")
		require.NotEmpty(t, game.GameID)
		require.Equal(t, board.StartingLayout, game.Board)
		require.Equal(t, "b", game.Turn)
		require.Equal(t, "ongoing", game.State)
		require.Empty(t, game.Moves)
		require.Equal(t, 2, game.Black)
		require.Equal(t, 2, game.White)
		require.Equal(t, "black", game.Players.Black.Color)
	})

	t.Run("custom board", func(t *testing.T) {
		game := createGame(t, app, `{"board":"`+board.StartingLayout+`","turn":"white"}`)
		require.Equal(t, "w", game.Turn)
	})

	t.Run("finished board", func(t *testing.T) {
		game := createGame(t, app, `{"board":"ww`+strings.Repeat(".", 62)+`"}`)
		require.Equal(t, "white_wins", game.State)
	})

	t.Run("validation", func(t *testing.T) {
		var errResp core.ErrorResponse
		status := do(t, app, fiber.MethodPost, "/api/v1/games", `{"turn":"red"}`, &errResp)
		require.Equal(t, fiber.StatusBadRequest, status)
		require.Equal(t, core.ErrInvalidRequest, errResp.Code)
		require.Contains(t, errResp.Details, "Turn must be one of")
	})

	t.Run("bad layout", func(t *testing.T) {
		var errResp core.ErrorResponse
		status := do(t, app, fiber.MethodPost, "/api/v1/games", `{"board":"`+strings.Repeat("x", 64)+`"}`, &errResp)
		require.Equal(t, fiber.StatusBadRequest, status)
		require.Equal(t, core.ErrInvalidBoard, errResp.Code)
	})

	t.Run("wrong content type", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodPost, "/api/v1/games", strings.NewReader("turn=b"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
	})
}

func TestMoves(t *testing.T) {
	app := newTestApp(t, Config{})
	game := createGame(t, app, "")
	movesPath := "/api/v1/games/" + game.GameID + "/moves"

	t.Run("legal move", func(t *testing.T) {
		var resp core.GameResponse
		status := do(t, app, fiber.MethodPost, movesPath, `{"move":"d3"}`, &resp)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, "w", resp.Turn)
		require.Equal(t, []string{"d3"}, resp.Moves)
		require.Equal(t, 4, resp.Black)
		require.Equal(t, 1, resp.White)
		require.NotNil(t, resp.LastMove)
		require.Equal(t, "b", resp.LastMove.PlayerColor)
		require.Equal(t, []string{"d4"}, resp.LastMove.Flipped)
	})

	t.Run("not your turn", func(t *testing.T) {
		var errResp core.ErrorResponse
		status := do(t, app, fiber.MethodPost, movesPath, `{"move":"c3","color":"black"}`, &errResp)
		require.Equal(t, fiber.StatusConflict, status)
		require.Equal(t, core.ErrNotYourTurn, errResp.Code)
	})

	t.Run("illegal move", func(t *testing.T) {
		var errResp core.ErrorResponse
		status := do(t, app, fiber.MethodPost, movesPath, `{"move":"a1"}`, &errResp)
		require.Equal(t, fiber.StatusBadRequest, status)
		require.Equal(t, core.ErrInvalidMove, errResp.Code)

		var current core.GameResponse
		do(t, app, fiber.MethodGet, "/api/v1/games/"+game.GameID, "", &current)
		require.Equal(t, []string{"d3"}, current.Moves)
	})

	t.Run("missing move", func(t *testing.T) {
		var errResp core.ErrorResponse
		status := do(t, app, fiber.MethodPost, movesPath, `{}`, &errResp)
		require.Equal(t, fiber.StatusBadRequest, status)
		require.Equal(t, core.ErrInvalidRequest, errResp.Code)
	})

	t.Run("legal moves for side to move", func(t *testing.T) {
		var resp core.LegalMovesResponse
		status := do(t, app, fiber.MethodGet, "/api/v1/games/"+game.GameID+"/legal-moves", "", &resp)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, "w", resp.Color)
		require.Equal(t, []string{"c3", "e3", "c5"}, resp.Moves)
	})

	t.Run("board", func(t *testing.T) {
		var resp core.BoardResponse
		status := do(t, app, fiber.MethodGet, "/api/v1/games/"+game.GameID+"/board", "", &resp)
		require.Equal(t, fiber.StatusOK, status)
		require.Contains(t, resp.Board, "3 . . . b . . . .  3")
	})

	t.Run("undo", func(t *testing.T) {
		var resp core.GameResponse
		status := do(t, app, fiber.MethodPost, "/api/v1/games/"+game.GameID+"/undo", `{"count":1}`, &resp)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, board.StartingLayout, resp.Board)
		require.Empty(t, resp.Moves)

		var errResp core.ErrorResponse
		status = do(t, app, fiber.MethodPost, "/api/v1/games/"+game.GameID+"/undo", "", &errResp)
		require.Equal(t, fiber.StatusBadRequest, status)
		require.Equal(t, core.ErrInvalidRequest, errResp.Code)
	})
}

func TestGameOverMove(t *testing.T) {
	app := newTestApp(t, Config{})
	game := createGame(t, app, `{"board":"bb`+strings.Repeat(".", 62)+`"}`)
	require.Equal(t, "black_wins", game.State)

	var errResp core.ErrorResponse
	status := do(t, app, fiber.MethodPost, "/api/v1/games/"+game.GameID+"/moves", `{"move":"c1"}`, &errResp)
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, core.ErrGameOver, errResp.Code)
}

func TestListAndDelete(t *testing.T) {
	app := newTestApp(t, Config{})
	game := createGame(t, app, "")

	var list core.GameListResponse
	require.Equal(t, fiber.StatusOK, do(t, app, fiber.MethodGet, "/api/v1/games", "", &list))
	require.Equal(t, []string{game.GameID}, list.Games)

	require.Equal(t, fiber.StatusNoContent, do(t, app, fiber.MethodDelete, "/api/v1/games/"+game.GameID, "", nil))

	var errResp core.ErrorResponse
	status := do(t, app, fiber.MethodGet, "/api/v1/games/"+game.GameID, "", &errResp)
	require.Equal(t, fiber.StatusNotFound, status)
	require.Equal(t, core.ErrGameNotFound, errResp.Code)

	status = do(t, app, fiber.MethodDelete, "/api/v1/games/"+game.GameID, "", &errResp)
	require.Equal(t, fiber.StatusNotFound, status)
}

func TestLongPollReturnsOnStaleVersion(t *testing.T) {
	app := newTestApp(t, Config{})
	game := createGame(t, app, "")

	do(t, app, fiber.MethodPost, "/api/v1/games/"+game.GameID+"/moves", `{"move":"f5"}`, nil)

	var resp core.GameResponse
	status := do(t, app, fiber.MethodGet, "/api/v1/games/"+game.GameID+"?wait=true&version=0", "", &resp)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, 1, resp.Version)
	require.Equal(t, []string{"f5"}, resp.Moves)
}

func TestRateLimit(t *testing.T) {
	app := newTestApp(t, Config{RateLimit: 1})

	var list core.GameListResponse
	require.Equal(t, fiber.StatusOK, do(t, app, fiber.MethodGet, "/api/v1/games", "", &list))

	var errResp core.ErrorResponse
	status := do(t, app, fiber.MethodGet, "/api/v1/games", "", &errResp)
	require.Equal(t, fiber.StatusTooManyRequests, status)
	require.Equal(t, core.ErrRateLimitExceeded, errResp.Code)

	// health is outside the limited group
	require.Equal(t, fiber.StatusOK, do(t, app, fiber.MethodGet, "/health", "", nil))
}
