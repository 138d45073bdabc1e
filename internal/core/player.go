package core

import (
	"github.com/google/uuid"
)

// Player identifies one side of a game
type Player struct {
	ID    string `json:"id"`
	Color Color  `json:"color"`
}

// NewPlayer creates a Player with a fresh UUID
func NewPlayer(color Color) *Player {
	return &Player{
		ID:    uuid.New().String(),
		Color: color,
	}
}

// PlayersResponse for API responses
type PlayersResponse struct {
	Black *PlayerInfo `json:"black"`
	White *PlayerInfo `json:"white"`
}

type PlayerInfo struct {
	ID    string `json:"id"`
	Color string `json:"color"`
}

func NewPlayerInfo(p *Player) *PlayerInfo {
	if p == nil {
		return nil
	}
	return &PlayerInfo{ID: p.ID, Color: p.Color.Name()}
}
