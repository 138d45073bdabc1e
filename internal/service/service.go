package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"reversi/internal/board"
	"reversi/internal/core"
	"reversi/internal/game"
	"reversi/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrInvalidBoard = errors.New("invalid board")
)

// Service is the state manager for reversi games with optional persistence.
// Every mutation holds mu for the whole validate-then-apply sequence, so the
// board engine itself never sees concurrent callers.
type Service struct {
	games   map[string]*game.Game
	started map[string]time.Time
	mu      sync.RWMutex
	store   *storage.Store // nil if persistence disabled
	waiter  *WaitRegistry
}

// New creates a new service instance with optional storage
func New(store *storage.Store) (*Service, error) {
	return &Service{
		games:   make(map[string]*game.Game),
		started: make(map[string]time.Time),
		store:   store,
		waiter:  NewWaitRegistry(),
	}, nil
}

// CreateGame starts a game from layout (empty for the standard opening)
func (s *Service) CreateGame(id, layout string, startingTurn core.Color) (game.Summary, error) {
	b := board.New()
	if layout != "" {
		var err error
		if b, err = board.Parse(layout); err != nil {
			return game.Summary{}, fmt.Errorf("%w: %v", ErrInvalidBoard, err)
		}
	}
	if startingTurn == 0 {
		startingTurn = core.ColorBlack
	}
	if !startingTurn.Valid() {
		return game.Summary{}, fmt.Errorf("invalid starting turn: %v", startingTurn)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; exists {
		return game.Summary{}, fmt.Errorf("%w: %s", ErrGameExists, id)
	}

	g := game.New(b, core.NewPlayer(core.ColorBlack), core.NewPlayer(core.ColorWhite), startingTurn)
	s.games[id] = g
	s.started[id] = time.Now().UTC()
	s.checkpoint(id, g)

	log.Debug().Str("game", id).Str("turn", g.NextTurn().Name()).Msg("game created")
	return g.Summary(), nil
}

// GenerateGameID creates a new unique game ID
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// GetGame returns a snapshot of the game
func (s *Service) GetGame(gameID string) (game.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return game.Summary{}, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return g.Summary(), nil
}

// GetBoard returns a copy of the current position
func (s *Service) GetBoard(gameID string) (*board.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return g.Board(), nil
}

// MakeMove plays move (algebraic, e.g. "d3") for the side to move. When
// color is set it must match the side to move.
func (s *Service) MakeMove(gameID, move string, color core.Color) (*game.MoveResult, game.Summary, error) {
	pos, err := board.ParsePos(move)
	if err != nil {
		return nil, game.Summary{}, fmt.Errorf("%w: %v", board.ErrIllegalMove, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, game.Summary{}, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	if color != 0 && g.State() == core.StateOngoing && color != g.NextTurn() {
		return nil, g.Summary(), fmt.Errorf("%w: %s to move", ErrNotYourTurn, g.NextTurn().Name())
	}

	result, err := g.Play(pos)
	if err != nil {
		return nil, g.Summary(), err
	}

	log.Debug().
		Str("game", gameID).
		Str("move", result.Move).
		Str("player", result.Player.Name()).
		Int("flipped", len(result.Flipped)).
		Bool("passed", result.Passed).
		Msg("move applied")
	if result.GameState != core.StateOngoing {
		log.Info().Str("game", gameID).Str("result", result.GameState.String()).Msg("game finished")
	}

	s.checkpoint(gameID, g)
	s.waiter.NotifyGame(gameID)

	return result, g.Summary(), nil
}

// Undo removes the specified number of moves from game history
func (s *Service) Undo(gameID string, count int) (game.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return game.Summary{}, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	if err := g.Undo(count); err != nil {
		return game.Summary{}, err
	}

	s.checkpoint(gameID, g)
	s.waiter.NotifyGame(gameID)

	return g.Summary(), nil
}

// LegalMoves lists legal squares for color, or for the side to move when
// color is zero. A finished game has no legal moves.
func (s *Service) LegalMoves(gameID string, color core.Color) (core.Color, []board.Pos, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return 0, nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	if color == 0 {
		color = g.NextTurn()
	}
	if g.State() != core.StateOngoing {
		return color, nil, nil
	}
	return color, g.Board().LegalMoves(color), nil
}

// DeleteGame removes a game from memory and storage
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	s.waiter.RemoveGame(gameID)

	delete(s.games, gameID)
	delete(s.started, gameID)
	if s.store != nil {
		s.store.DeleteGame(gameID)
	}
	return nil
}

// ListGames returns the IDs of all games in memory, sorted
func (s *Service) ListGames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// WaitForUpdate blocks until the game's version differs from version, the
// game is deleted, ctx is done, or WaitTimeout passes. It then returns the
// current state.
func (s *Service) WaitForUpdate(ctx context.Context, gameID string, version int) (game.Summary, error) {
	s.mu.RLock()
	g, ok := s.games[gameID]
	if !ok {
		s.mu.RUnlock()
		return game.Summary{}, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	if g.Version() != version {
		summary := g.Summary()
		s.mu.RUnlock()
		return summary, nil
	}
	// Registered under the lock so a concurrent move cannot slip past
	notify, cancel := s.waiter.Register(gameID)
	s.mu.RUnlock()
	defer cancel()

	timer := time.NewTimer(WaitTimeout)
	defer timer.Stop()

	select {
	case <-notify:
	case <-timer.C:
	case <-ctx.Done():
		return game.Summary{}, ctx.Err()
	}

	return s.GetGame(gameID)
}

// Restore loads stored checkpoints into memory, skipping games already
// present. It returns the number of games restored.
func (s *Service) Restore() (int, error) {
	if s.store == nil {
		return 0, nil
	}

	records, err := s.store.LoadGames()
	if err != nil {
		return 0, fmt.Errorf("failed to load games: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	restored := 0
	for _, r := range records {
		if _, exists := s.games[r.GameID]; exists {
			continue
		}
		g, err := restoreGame(r)
		if err != nil {
			log.Warn().Err(err).Str("game", r.GameID).Msg("skipping unreadable checkpoint")
			continue
		}
		s.games[r.GameID] = g
		s.started[r.GameID] = r.StartTimeUTC
		restored++
	}
	return restored, nil
}

func restoreGame(r storage.GameRecord) (*game.Game, error) {
	b, err := board.Parse(r.Board)
	if err != nil {
		return nil, err
	}
	turn, err := core.ParseColor(r.NextTurn)
	if err != nil {
		return nil, err
	}
	state, err := core.ParseState(r.State)
	if err != nil {
		return nil, err
	}
	black := &core.Player{ID: r.BlackPlayerID, Color: core.ColorBlack}
	white := &core.Player{ID: r.WhitePlayerID, Color: core.ColorWhite}
	return game.Restore(b, black, white, turn, state), nil
}

// checkpoint queues the current position for storage. Caller holds mu.
func (s *Service) checkpoint(gameID string, g *game.Game) {
	if s.store == nil {
		return
	}
	s.store.SaveGame(storage.GameRecord{
		GameID:        gameID,
		Board:         g.Layout(),
		NextTurn:      g.NextTurn().String(),
		State:         g.State().Key(),
		BlackPlayerID: g.Player(core.ColorBlack).ID,
		WhitePlayerID: g.Player(core.ColorWhite).ID,
		MoveCount:     len(g.Moves()),
		StartTimeUTC:  s.started[gameID],
		UpdateTimeUTC: time.Now().UTC(),
	})
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// ReleaseWaiters wakes every long-poll client with the current state and
// makes later waits return immediately. Games stay available, so call it
// before draining the listener and Shutdown after.
func (s *Service) ReleaseWaiters() {
	s.waiter.Shutdown()
}

// Shutdown releases waiting clients, drops in-memory games and closes
// storage. No request may be in flight.
func (s *Service) Shutdown() error {
	s.waiter.Shutdown()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*game.Game)
	s.started = make(map[string]time.Time)

	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
