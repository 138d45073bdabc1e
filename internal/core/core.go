package core

import (
	"fmt"
	"strings"
)

type State int

const (
	StateOngoing State = iota
	StateBlackWins
	StateWhiteWins
	StateDraw
)

func (s State) String() string {
	switch s {
	case StateBlackWins:
		return "black wins"
	case StateWhiteWins:
		return "white wins"
	case StateDraw:
		return "draw"
	case StateOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

// Key returns the snake_case form used in API responses and storage
func (s State) Key() string {
	return strings.ReplaceAll(s.String(), " ", "_")
}

// ParseState is the inverse of State.Key
func ParseState(key string) (State, error) {
	for _, s := range []State{StateOngoing, StateBlackWins, StateWhiteWins, StateDraw} {
		if s.Key() == key {
			return s, nil
		}
	}
	return StateOngoing, fmt.Errorf("unknown game state: %q", key)
}

type Color byte

const (
	ColorBlack Color = 'b'
	ColorWhite Color = 'w'
)

// ParseColor normalizes "black", "Black", "b", "WHITE", "w" etc.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "b", "black":
		return ColorBlack, nil
	case "w", "white":
		return ColorWhite, nil
	default:
		return 0, fmt.Errorf("invalid color: %q", s)
	}
}

// Normalize maps 'B' and 'W' to their lowercase colors
func (c Color) Normalize() Color {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func (c Color) Valid() bool {
	return c == ColorBlack || c == ColorWhite
}

func (c Color) Opposite() Color {
	if c == ColorBlack {
		return ColorWhite
	}
	return ColorBlack
}

func (c Color) String() string {
	if c.Valid() {
		return string(c)
	}
	return "-"
}

func (c Color) Name() string {
	switch c {
	case ColorBlack:
		return "black"
	case ColorWhite:
		return "white"
	default:
		return "none"
	}
}

// WinnerState maps a winning color to the terminal game state
func WinnerState(c Color) State {
	switch c {
	case ColorBlack:
		return StateBlackWins
	case ColorWhite:
		return StateWhiteWins
	default:
		return StateDraw
	}
}
