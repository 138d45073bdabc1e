package game

import (
	"errors"
	"fmt"
	"slices"

	"reversi/internal/board"
	"reversi/internal/core"
)

var ErrGameOver = errors.New("game is over")

type Snapshot struct {
	Layout       string     // Board state at this point
	PreviousMove string     // Move that created this position (empty for initial)
	NextTurn     core.Color // Whose turn it is at this position
	State        core.State
}

// MoveResult tracks the outcome of a move
type MoveResult struct {
	Move      string
	Player    core.Color
	Flipped   []string
	Passed    bool // the opponent had no reply, Player moves again
	GameState core.State
}

type Game struct {
	snapshots  []Snapshot
	board      *board.Board
	players    map[core.Color]*core.Player
	lastResult *MoveResult
	version    int // bumped on every change, never reused
}

// New starts a game from b with startingTurn to move. If that side cannot
// move but the other can, the turn passes immediately.
func New(b *board.Board, blackPlayer, whitePlayer *core.Player, startingTurn core.Color) *Game {
	g := &Game{
		board: b,
		players: map[core.Color]*core.Player{
			core.ColorBlack: blackPlayer,
			core.ColorWhite: whitePlayer,
		},
	}
	turn, state := resolveTurn(b, startingTurn)
	g.snapshots = []Snapshot{
		{
			Layout:   b.Layout(),
			NextTurn: turn,
			State:    state,
		},
	}
	return g
}

// resolveTurn applies pass-when-stuck: the side to move keeps the turn if
// it can move, otherwise it passes to the opponent, and if neither can move
// the game is decided on piece count.
func resolveTurn(b *board.Board, toMove core.Color) (core.Color, core.State) {
	switch {
	case b.HasAnyMove(toMove):
		return toMove, core.StateOngoing
	case b.HasAnyMove(toMove.Opposite()):
		return toMove.Opposite(), core.StateOngoing
	default:
		return toMove, core.WinnerState(b.Leader())
	}
}

// Play places a piece for the side to move
func (g *Game) Play(pos board.Pos) (*MoveResult, error) {
	if g.State() != core.StateOngoing {
		return nil, ErrGameOver
	}

	mover := g.NextTurn()
	flipped, err := g.board.PlacePiece(pos, mover)
	if err != nil {
		return nil, err
	}

	next, state := resolveTurn(g.board, mover.Opposite())
	result := &MoveResult{
		Move:      pos.String(),
		Player:    mover,
		Flipped:   board.FormatPositions(flipped),
		Passed:    state == core.StateOngoing && next == mover,
		GameState: state,
	}

	g.snapshots = append(g.snapshots, Snapshot{
		Layout:       g.board.Layout(),
		PreviousMove: result.Move,
		NextTurn:     next,
		State:        state,
	})
	g.lastResult = result
	g.version++
	return result, nil
}

func (g *Game) Undo(count int) error {
	if count < 1 {
		return fmt.Errorf("invalid undo count: %d", count)
	}

	availableMoves := len(g.snapshots) - 1
	if availableMoves < count {
		return fmt.Errorf("cannot undo %d moves: only %d moves available", count, availableMoves)
	}

	restored, err := board.Parse(g.snapshots[len(g.snapshots)-1-count].Layout)
	if err != nil {
		return fmt.Errorf("corrupt snapshot: %w", err)
	}

	g.snapshots = g.snapshots[:len(g.snapshots)-count]
	g.board = restored
	g.lastResult = nil
	g.version++
	return nil
}

func (g *Game) CurrentSnapshot() Snapshot {
	return g.snapshots[len(g.snapshots)-1]
}

func (g *Game) NextTurn() core.Color {
	return g.CurrentSnapshot().NextTurn
}

func (g *Game) NextPlayer() *core.Player {
	return g.players[g.NextTurn()]
}

func (g *Game) Player(c core.Color) *core.Player {
	return g.players[c]
}

func (g *Game) State() core.State {
	return g.CurrentSnapshot().State
}

// Board returns a copy of the current position
func (g *Game) Board() *board.Board {
	return g.board.Clone()
}

func (g *Game) Layout() string {
	return g.CurrentSnapshot().Layout
}

func (g *Game) InitialLayout() string {
	return g.snapshots[0].Layout
}

func (g *Game) LegalMoves() []board.Pos {
	if g.State() != core.StateOngoing {
		return nil
	}
	return g.board.LegalMoves(g.NextTurn())
}

func (g *Game) Moves() []string {
	moves := []string{}
	for i := 1; i < len(g.snapshots); i++ {
		if g.snapshots[i].PreviousMove != "" {
			moves = append(moves, g.snapshots[i].PreviousMove)
		}
	}
	return moves
}

func (g *Game) LastResult() *MoveResult {
	return g.lastResult
}

// Version increases with every Play and Undo. Unlike the move count it
// never repeats, so clients can poll on it.
func (g *Game) Version() int {
	return g.version
}

func (g *Game) Score() (black, white int) {
	return g.board.Count(core.ColorBlack), g.board.Count(core.ColorWhite)
}

// Restore rebuilds a game from a stored checkpoint. Only the current position
// is known, so the restored game starts with an empty move list.
func Restore(b *board.Board, blackPlayer, whitePlayer *core.Player, nextTurn core.Color, state core.State) *Game {
	g := New(b, blackPlayer, whitePlayer, nextTurn)
	if state != core.StateOngoing {
		g.snapshots[0].State = state
	}
	return g
}

// Summary is a point-in-time copy of the game that is safe to hand out
type Summary struct {
	Version       int
	InitialLayout string
	Layout        string
	ASCII         string
	NextTurn      core.Color
	State         core.State
	Moves         []string
	Black         int
	White         int
	Players       map[core.Color]*core.Player
	LastResult    *MoveResult
}

func (g *Game) Summary() Summary {
	black, white := g.Score()
	players := make(map[core.Color]*core.Player, len(g.players))
	for c, p := range g.players {
		if p != nil {
			cp := *p
			players[c] = &cp
		}
	}
	var last *MoveResult
	if g.lastResult != nil {
		cp := *g.lastResult
		cp.Flipped = slices.Clone(cp.Flipped)
		last = &cp
	}
	return Summary{
		Version:       g.version,
		InitialLayout: g.InitialLayout(),
		Layout:        g.Layout(),
		ASCII:         g.board.ToASCII(),
		NextTurn:      g.NextTurn(),
		State:         g.State(),
		Moves:         g.Moves(),
		Black:         black,
		White:         white,
		Players:       players,
		LastResult:    last,
	}
}
