package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const startLayout = "...........................wb......bw..........................."

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "reversi.db"), true)
	require.NoError(t, err)
	require.NoError(t, store.InitDB())
	t.Cleanup(func() { store.Close() })
	return store
}

func flush(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Flush(ctx))
}

func record(id string) GameRecord {
	now := time.Now().UTC()
	return GameRecord{
		GameID:        id,
		Board:         startLayout,
		NextTurn:      "b",
		State:         "ongoing",
		BlackPlayerID: "black-" + id,
		WhitePlayerID: "white-" + id,
		StartTimeUTC:  now,
		UpdateTimeUTC: now,
	}
}

func TestSaveAndQuery(t *testing.T) {
	s := newTestStore(t)

	s.SaveGame(record("g1"))
	s.SaveGame(record("g2"))
	flush(t, s)

	games, err := s.LoadGames()
	require.NoError(t, err)
	require.Len(t, games, 2)

	byID, err := s.QueryGames("g1", "")
	require.NoError(t, err)
	require.Len(t, byID, 1)
	require.Equal(t, startLayout, byID[0].Board)
	require.Equal(t, "b", byID[0].NextTurn)
	require.Equal(t, "black-g1", byID[0].BlackPlayerID)

	byPlayer, err := s.QueryGames("*", "white-g2")
	require.NoError(t, err)
	require.Len(t, byPlayer, 1)
	require.Equal(t, "g2", byPlayer[0].GameID)

	require.True(t, s.IsHealthy())
}

func TestSaveUpserts(t *testing.T) {
	s := newTestStore(t)

	r := record("g1")
	s.SaveGame(r)

	r.Board = strings.Replace(startLayout, "...wb", "..bbb", 1)
	r.NextTurn = "w"
	r.MoveCount = 1
	r.UpdateTimeUTC = r.UpdateTimeUTC.Add(time.Second)
	s.SaveGame(r)
	flush(t, s)

	games, err := s.QueryGames("g1", "")
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.Equal(t, r.Board, games[0].Board)
	require.Equal(t, "w", games[0].NextTurn)
	require.Equal(t, 1, games[0].MoveCount)
	require.Equal(t, "black-g1", games[0].BlackPlayerID)
}

func TestDeleteGame(t *testing.T) {
	s := newTestStore(t)

	s.SaveGame(record("g1"))
	s.DeleteGame("g1")
	flush(t, s)

	games, err := s.LoadGames()
	require.NoError(t, err)
	require.Empty(t, games)
}

func TestFailedWriteDegrades(t *testing.T) {
	s := newTestStore(t)

	bad := record("bad")
	bad.Board = "too short"
	s.SaveGame(bad)

	require.Eventually(t, func() bool { return !s.IsHealthy() }, 5*time.Second, 10*time.Millisecond)
	require.ErrorIs(t, s.Flush(context.Background()), ErrDegraded)

	// Writes are dropped once degraded
	s.SaveGame(record("g1"))
	games, err := s.LoadGames()
	require.NoError(t, err)
	require.Empty(t, games)
}

func TestDeleteDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reversi.db")
	s, err := NewStore(path, false)
	require.NoError(t, err)
	require.NoError(t, s.InitDB())

	require.NoError(t, s.DeleteDB())
	require.NoFileExists(t, path)

	// Close after delete is harmless
	require.NoError(t, s.Close())
}
