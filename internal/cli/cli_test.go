package cli

import (
	"bytes"
	"strings"
	"testing"

	"reversi/internal/board"
	"reversi/internal/core"
	"reversi/internal/game"

	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		typ   CommandType
		args  []string
	}{
		{"new", CmdNew, []string{}},
		{"new " + board.StartingLayout + " w", CmdNew, []string{board.StartingLayout, "w"}},
		{"d3", CmdMove, []string{"d3"}},
		{"D3", CmdMove, []string{"d3"}},
		{"undo 2", CmdUndo, []string{"2"}},
		{"moves", CmdMoves, nil},
		{"hint", CmdMoves, nil},
		{"board", CmdBoard, nil},
		{"color green", CmdColor, []string{"green"}},
		{"history", CmdHistory, nil},
		{"?", CmdHelp, nil},
		{"exit", CmdQuit, nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd := ParseCommand(tt.input)
			require.Equal(t, tt.typ, cmd.Type)
			if tt.args != nil {
				require.Equal(t, tt.args, cmd.Args)
			}
		})
	}
}

func TestGetCommand(t *testing.T) {
	view := New(NewScanner(strings.NewReader("d3\n\n")), &bytes.Buffer{})

	cmd, err := view.GetCommand()
	require.NoError(t, err)
	require.Equal(t, CmdMove, cmd.Type)

	cmd, err = view.GetCommand()
	require.NoError(t, err)
	require.Equal(t, CmdNone, cmd.Type)

	// End of input quits
	cmd, err = view.GetCommand()
	require.NoError(t, err)
	require.Equal(t, CmdQuit, cmd.Type)
}

type promptRecorder struct {
	LineReader
	prompt string
}

func (p *promptRecorder) SetPrompt(prompt string) {
	p.prompt = prompt
}

func TestShowPrompt(t *testing.T) {
	var out bytes.Buffer
	New(NewScanner(strings.NewReader("")), &out).ShowPrompt("> ")
	require.Equal(t, "> ", out.String())

	out.Reset()
	rec := &promptRecorder{LineReader: NewScanner(strings.NewReader(""))}
	New(rec, &out).ShowPrompt("[b]> ")
	require.Empty(t, out.String())
	require.Equal(t, "[b]> ", rec.prompt)
}

func TestDisplayBoard(t *testing.T) {
	var out bytes.Buffer
	view := New(NewScanner(strings.NewReader("")), &out)
	b := board.New()

	view.DisplayBoard(b)
	text := out.String()
	require.Contains(t, text, "  a b c d e f g h")
	require.Contains(t, text, "4 . . . w b . . .  4")
	require.Contains(t, text, "Black: 2  White: 2")

	t.Run("hints mark once", func(t *testing.T) {
		out.Reset()
		view.ShowLegalMoves(core.ColorBlack, b.LegalMoves(core.ColorBlack))
		require.Contains(t, out.String(), "Legal moves for black: d3 c4 f5 e6")

		out.Reset()
		view.DisplayBoard(b)
		require.Contains(t, out.String(), "3 . . . * . . . .  3")

		out.Reset()
		view.DisplayBoard(b)
		require.Contains(t, out.String(), "3 . . . . . . . .  3")
	})

	t.Run("themed", func(t *testing.T) {
		require.NoError(t, view.SetTheme(ThemeGreen))
		out.Reset()
		view.DisplayBoard(b)
		require.Contains(t, out.String(), "\033[48;5;28m")
		require.Contains(t, out.String(), "●")

		require.Error(t, view.SetTheme("brown"))
		require.Equal(t, ThemeGreen, view.Theme())
	})
}

func TestParseTheme(t *testing.T) {
	theme, err := ParseTheme("Gray")
	require.NoError(t, err)
	require.Equal(t, ThemeGray, theme)

	_, err = ParseTheme("auto")
	require.ErrorContains(t, err, "invalid theme: auto")
}

func TestShowMove(t *testing.T) {
	var out bytes.Buffer
	view := New(NewScanner(strings.NewReader("")), &out)
	result := &game.MoveResult{
		Move:    "d3",
		Player:  core.ColorBlack,
		Flipped: []string{"d4"},
		Passed:  true,
	}

	view.ShowMove(result)
	require.Equal(t, "black: d3\nwhite has no legal move and passes\n", out.String())

	out.Reset()
	require.True(t, view.ToggleVerbose())
	view.ShowMove(result)
	require.Contains(t, out.String(), "black: d3 flips d4")
}

func TestShowGameOver(t *testing.T) {
	var out bytes.Buffer
	view := New(NewScanner(strings.NewReader("")), &out)
	view.ShowGameOver(core.StateWhiteWins, 20, 44)
	require.Contains(t, out.String(), "Game Over: white wins (20-44)")
}
