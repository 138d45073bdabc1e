package storage

import "time"

// GameRecord represents a row in the games table. It is a checkpoint of the
// current position only; individual moves are not stored.
type GameRecord struct {
	GameID        string    `db:"game_id"`
	Board         string    `db:"board"`
	NextTurn      string    `db:"next_turn"` // "b" or "w"
	State         string    `db:"state"`     // core.State key
	BlackPlayerID string    `db:"black_player_id"`
	WhitePlayerID string    `db:"white_player_id"`
	MoveCount     int       `db:"move_count"`
	StartTimeUTC  time.Time `db:"start_time_utc"`
	UpdateTimeUTC time.Time `db:"update_time_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	board TEXT NOT NULL CHECK(length(board) = 64),
	next_turn TEXT NOT NULL CHECK(next_turn IN ('b', 'w')),
	state TEXT NOT NULL DEFAULT 'ongoing',
	black_player_id TEXT NOT NULL,
	white_player_id TEXT NOT NULL,
	move_count INTEGER NOT NULL DEFAULT 0,
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	update_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_games_state ON games(state);
CREATE INDEX IF NOT EXISTS idx_games_black_player ON games(black_player_id);
CREATE INDEX IF NOT EXISTS idx_games_white_player ON games(white_player_id);
`
