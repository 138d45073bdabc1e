package core

// Request types

type CreateGameRequest struct {
	Board string `json:"board,omitempty" validate:"omitempty,min=64,max=200"` // 64 cells of '.', 'b', 'w'; whitespace ignored
	Turn  string `json:"turn,omitempty" validate:"omitempty,oneof=b w black white"`
}

type MoveRequest struct {
	Move  string `json:"move" validate:"required,len=2"`                              // algebraic square: "d3"
	Color string `json:"color,omitempty" validate:"omitempty,oneof=b w black white"` // optional turn guard
}

type UndoRequest struct {
	Count int `json:"count" validate:"omitempty,min=1,max=60"` // at most 60 placements in a game
}

// Response types

type GameResponse struct {
	GameID   string          `json:"gameId"`
	Version  int             `json:"version"` // changes on every move or undo
	Board    string          `json:"board"`   // 64-char row-major layout
	Turn     string          `json:"turn"`    // "b" or "w"
	State    string          `json:"state"`   // "ongoing", "black_wins", etc
	Moves    []string        `json:"moves"`
	Black    int             `json:"black"`
	White    int             `json:"white"`
	Players  PlayersResponse `json:"players"`
	LastMove *MoveInfo       `json:"lastMove,omitempty"`
}

type MoveInfo struct {
	Move        string   `json:"move"`
	PlayerColor string   `json:"playerColor"` // "b" or "w"
	Flipped     []string `json:"flipped"`
	Passed      bool     `json:"passed,omitempty"` // opponent had no reply and passes
}

type BoardResponse struct {
	Board string `json:"board"` // ASCII representation
}

type LegalMovesResponse struct {
	Color string   `json:"color"`
	Moves []string `json:"moves"`
}

type GameListResponse struct {
	Games []string `json:"games"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
