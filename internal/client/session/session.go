package session

import (
	"io"

	"reversi/internal/client/api"
	"reversi/internal/core"
)

// Session holds the client's connection and current game context
type Session struct {
	APIBaseURL       string
	Client           *api.Client
	Verbose          bool
	CurrentGame      string
	LastVersion      int
	CurrentGameState *core.GameResponse
	PlayerColor      string // "b", "w" or empty to play either side
}

func New(baseURL string, out io.Writer) *Session {
	c := api.New(baseURL)
	c.Out = out
	return &Session{
		APIBaseURL: c.BaseURL,
		Client:     c,
	}
}

func (s *Session) GetAPIBaseURL() string { return s.APIBaseURL }
func (s *Session) SetAPIBaseURL(url string) { s.APIBaseURL = url }
func (s *Session) GetCurrentGame() string { return s.CurrentGame }
func (s *Session) GetLastVersion() int { return s.LastVersion }
func (s *Session) GetClient() *api.Client { return s.Client }
func (s *Session) IsVerbose() bool { return s.Verbose }
func (s *Session) GetPlayerColor() string { return s.PlayerColor }
func (s *Session) SetPlayerColor(c string) { s.PlayerColor = c }
func (s *Session) Out() io.Writer { return s.Client.Out }

// SetCurrentGame switches games and forgets the previous game's state
func (s *Session) SetCurrentGame(id string) {
	s.CurrentGame = id
	s.LastVersion = 0
	s.CurrentGameState = nil
}

// SetGameState records the latest known state of the current game
func (s *Session) SetGameState(g *core.GameResponse) {
	s.CurrentGameState = g
	if g != nil {
		s.LastVersion = g.Version
	}
}

func (s *Session) GetGameState() *core.GameResponse {
	return s.CurrentGameState
}
