package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"reversi/internal/board"
	"reversi/internal/core"
	"reversi/internal/game"
	"reversi/internal/storage"

	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Shutdown() })
	return svc
}

func TestCreateGame(t *testing.T) {
	svc := newTestService(t)

	t.Run("standard opening", func(t *testing.T) {
		id := svc.GenerateGameID()
		summary, err := svc.CreateGame(id, "", 0)
		require.NoError(t, err)
		require.Equal(t, board.StartingLayout, summary.Layout)
		require.Equal(t, core.ColorBlack, summary.NextTurn)
		require.Equal(t, 2, summary.Black)
		require.Equal(t, 2, summary.White)
		require.NotEmpty(t, summary.Players[core.ColorBlack].ID)
		require.NotEqual(t, summary.Players[core.ColorBlack].ID, summary.Players[core.ColorWhite].ID)
	})

	t.Run("duplicate id", func(t *testing.T) {
		_, err := svc.CreateGame("dup", "", core.ColorBlack)
		require.NoError(t, err)
		_, err = svc.CreateGame("dup", "", core.ColorBlack)
		require.ErrorIs(t, err, ErrGameExists)
	})

	t.Run("custom layout and turn", func(t *testing.T) {
		summary, err := svc.CreateGame("custom", board.StartingLayout, core.ColorWhite)
		require.NoError(t, err)
		require.Equal(t, core.ColorWhite, summary.NextTurn)
	})

	t.Run("bad layout", func(t *testing.T) {
		_, err := svc.CreateGame("bad", "bw", core.ColorBlack)
		require.ErrorIs(t, err, ErrInvalidBoard)

		_, err = svc.GetGame("bad")
		require.ErrorIs(t, err, ErrGameNotFound)
	})
}

func TestMakeMove(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateGame("g", "", core.ColorBlack)
	require.NoError(t, err)

	t.Run("legal move", func(t *testing.T) {
		result, summary, err := svc.MakeMove("g", "d3", core.ColorBlack)
		require.NoError(t, err)
		require.Equal(t, []string{"d4"}, result.Flipped)
		require.Equal(t, core.ColorWhite, summary.NextTurn)
		require.Equal(t, []string{"d3"}, summary.Moves)
		require.Equal(t, 1, summary.Version)
	})

	t.Run("wrong color", func(t *testing.T) {
		_, _, err := svc.MakeMove("g", "c3", core.ColorBlack)
		require.ErrorIs(t, err, ErrNotYourTurn)
	})

	t.Run("illegal square", func(t *testing.T) {
		_, summary, err := svc.MakeMove("g", "a1", 0)
		require.ErrorIs(t, err, board.ErrIllegalMove)
		require.Equal(t, []string{"d3"}, summary.Moves)
	})

	t.Run("unparseable square", func(t *testing.T) {
		_, _, err := svc.MakeMove("g", "z9", 0)
		require.ErrorIs(t, err, board.ErrIllegalMove)
	})

	t.Run("unknown game", func(t *testing.T) {
		_, _, err := svc.MakeMove("missing", "d3", 0)
		require.ErrorIs(t, err, ErrGameNotFound)
	})

	t.Run("finished game", func(t *testing.T) {
		_, err := svc.CreateGame("over", "ww"+dots(62), core.ColorBlack)
		require.NoError(t, err)
		_, _, err = svc.MakeMove("over", "c1", core.ColorBlack)
		require.ErrorIs(t, err, game.ErrGameOver)
	})
}

func TestConcurrentMoves(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateGame("g", "", core.ColorBlack)
	require.NoError(t, err)

	// Every opening square is legal for black, but only one can win the race
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for _, sq := range []string{"d3", "c4", "f5", "e6"} {
		wg.Add(1)
		go func(sq string) {
			defer wg.Done()
			if _, _, err := svc.MakeMove("g", sq, core.ColorBlack); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(sq)
	}
	wg.Wait()

	require.Equal(t, 1, succeeded)
	summary, err := svc.GetGame("g")
	require.NoError(t, err)
	require.Len(t, summary.Moves, 1)
	require.Equal(t, 5, summary.Black+summary.White)
}

func TestUndoAndDelete(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateGame("g", "", core.ColorBlack)
	require.NoError(t, err)

	_, _, err = svc.MakeMove("g", "d3", 0)
	require.NoError(t, err)

	summary, err := svc.Undo("g", 1)
	require.NoError(t, err)
	require.Equal(t, board.StartingLayout, summary.Layout)
	require.Empty(t, summary.Moves)

	_, err = svc.Undo("g", 1)
	require.Error(t, err)

	require.Equal(t, []string{"g"}, svc.ListGames())
	require.NoError(t, svc.DeleteGame("g"))
	require.ErrorIs(t, svc.DeleteGame("g"), ErrGameNotFound)
	require.Empty(t, svc.ListGames())
}

func TestLegalMoves(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateGame("g", "", core.ColorBlack)
	require.NoError(t, err)

	color, moves, err := svc.LegalMoves("g", 0)
	require.NoError(t, err)
	require.Equal(t, core.ColorBlack, color)
	require.Equal(t, []string{"d3", "c4", "f5", "e6"}, board.FormatPositions(moves))

	color, moves, err = svc.LegalMoves("g", core.ColorWhite)
	require.NoError(t, err)
	require.Equal(t, core.ColorWhite, color)
	require.Equal(t, []string{"e3", "f4", "c5", "d6"}, board.FormatPositions(moves))
}

func TestWaitForUpdate(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateGame("g", "", core.ColorBlack)
	require.NoError(t, err)

	t.Run("returns immediately on stale version", func(t *testing.T) {
		summary, err := svc.WaitForUpdate(context.Background(), "g", 42)
		require.NoError(t, err)
		require.Equal(t, 0, summary.Version)
	})

	t.Run("wakes on move", func(t *testing.T) {
		done := make(chan game.Summary, 1)
		go func() {
			summary, err := svc.WaitForUpdate(context.Background(), "g", 0)
			if err == nil {
				done <- summary
			}
		}()

		require.Eventually(t, func() bool { return svc.waiter.Waiting("g") == 1 }, time.Second, 5*time.Millisecond)
		_, _, err := svc.MakeMove("g", "d3", 0)
		require.NoError(t, err)

		select {
		case summary := <-done:
			require.Equal(t, 1, summary.Version)
		case <-time.After(2 * time.Second):
			t.Fatal("waiter was not notified")
		}
		require.Equal(t, 0, svc.waiter.Waiting("g"))
	})

	t.Run("context cancel", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := svc.WaitForUpdate(ctx, "g", 1)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Equal(t, 0, svc.waiter.Waiting("g"))
	})

	t.Run("unknown game", func(t *testing.T) {
		_, err := svc.WaitForUpdate(context.Background(), "missing", 0)
		require.ErrorIs(t, err, ErrGameNotFound)
	})
}

func TestReleaseWaiters(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateGame("g", "", core.ColorBlack)
	require.NoError(t, err)

	type result struct {
		summary game.Summary
		err     error
	}
	done := make(chan result, 1)
	go func() {
		summary, err := svc.WaitForUpdate(context.Background(), "g", 0)
		done <- result{summary, err}
	}()
	require.Eventually(t, func() bool { return svc.waiter.Waiting("g") == 1 }, time.Second, 5*time.Millisecond)

	svc.ReleaseWaiters()

	select {
	case r := <-done:
		require.NoError(t, r.err)
		require.Equal(t, 0, r.summary.Version)
	case <-time.After(2 * time.Second):
		t.Fatal("waiter was not released")
	}

	// Requests still draining keep working
	_, summary, err := svc.MakeMove("g", "d3", 0)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Version)

	// Later waits return at once instead of blocking the drain
	summary, err = svc.WaitForUpdate(context.Background(), "g", 1)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Version)
}

func TestRestoreFromStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reversi.db")

	store, err := storage.NewStore(path, false)
	require.NoError(t, err)
	require.NoError(t, store.InitDB())

	svc, err := New(store)
	require.NoError(t, err)
	require.Equal(t, "ok", svc.GetStorageHealth())

	_, err = svc.CreateGame("g", "", core.ColorBlack)
	require.NoError(t, err)
	_, _, err = svc.MakeMove("g", "d3", 0)
	require.NoError(t, err)
	before, err := svc.GetGame("g")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, store.Flush(ctx))
	require.NoError(t, svc.Shutdown())

	store, err = storage.NewStore(path, false)
	require.NoError(t, err)
	restoredSvc, err := New(store)
	require.NoError(t, err)
	defer restoredSvc.Shutdown()

	n, err := restoredSvc.Restore()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	after, err := restoredSvc.GetGame("g")
	require.NoError(t, err)
	require.Equal(t, before.Layout, after.Layout)
	require.Equal(t, core.ColorWhite, after.NextTurn)
	require.Equal(t, before.Players[core.ColorBlack].ID, after.Players[core.ColorBlack].ID)

	_, _, err = restoredSvc.MakeMove("g", "c3", core.ColorWhite)
	require.NoError(t, err)
}

func TestStorageHealthDisabled(t *testing.T) {
	svc := newTestService(t)
	require.Equal(t, "disabled", svc.GetStorageHealth())
	n, err := svc.Restore()
	require.NoError(t, err)
	require.Zero(t, n)
}

func dots(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '.'
	}
	return string(b)
}
