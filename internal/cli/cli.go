package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"reversi/internal/board"
	"reversi/internal/core"
	"reversi/internal/game"
	"reversi/internal/transport"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdMove
	CmdUndo
	CmdMoves
	CmdBoard
	CmdColor
	CmdVerbose
	CmdHistory
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

// LineReader is the input side of the console. readline.Instance satisfies
// it, NewScanner adapts plain readers.
type LineReader interface {
	Readline() (string, error)
}

// prompter is implemented by readers that draw their own prompt
type prompter interface {
	SetPrompt(prompt string)
}

type scannerReader struct {
	scanner *bufio.Scanner
}

// NewScanner wraps r as a LineReader
func NewScanner(r io.Reader) LineReader {
	return &scannerReader{scanner: bufio.NewScanner(r)}
}

func (s *scannerReader) Readline() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	bg    string
	hint  string
	white string
	black string
	reset string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeGreen: {
		bg:    "\033[48;5;28m", // Felt green
		hint:  "\033[38;5;120m",
		white: "\033[97m",
		black: "\033[30m",
		reset: "\033[0m",
	},
	ThemeGray: {
		bg:    "\033[48;5;244m",
		hint:  "\033[38;5;250m",
		white: "\033[97m",
		black: "\033[30m",
		reset: "\033[0m",
	},
}

type CLI struct {
	input   LineReader
	output  io.Writer
	theme   ColorTheme
	verbose bool
	hints   []board.Pos
}

func New(input LineReader, output io.Writer) *CLI {
	return &CLI{
		input:  input,
		output: output,
		theme:  ThemeOff,
	}
}

// GetCommand reads a command synchronously. End of input reads as quit.
func (c *CLI) GetCommand() (*Command, error) {
	line, err := c.input.Readline()
	if err != nil {
		if err == io.EOF {
			return &Command{Type: CmdQuit}, nil
		}
		return nil, err
	}

	input := strings.TrimSpace(line)
	if input == "" {
		return &Command{Type: CmdNone}, nil
	}

	return ParseCommand(input), nil
}

// ParseCommand maps one input line to a command. Anything that is not a
// keyword is taken as a move.
func ParseCommand(input string) *Command {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "new":
		return &Command{Type: CmdNew, Args: args, Raw: input}
	case "undo":
		return &Command{Type: CmdUndo, Args: args}
	case "moves", "hint":
		return &Command{Type: CmdMoves}
	case "board", "show":
		return &Command{Type: CmdBoard}
	case "color":
		return &Command{Type: CmdColor, Args: args}
	case "verbose":
		return &Command{Type: CmdVerbose}
	case "history":
		return &Command{Type: CmdHistory}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "quit", "exit":
		return &Command{Type: CmdQuit}
	default:
		return &Command{Type: CmdMove, Args: []string{cmd}}
	}
}

// ParseTheme checks a theme name
func ParseTheme(name string) (ColorTheme, error) {
	theme := ColorTheme(strings.ToLower(name))
	if _, ok := themes[theme]; !ok {
		return "", fmt.Errorf("invalid theme: %s (use: off, green, gray)", name)
	}
	return theme, nil
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	t, err := ParseTheme(string(theme))
	if err != nil {
		return err
	}
	c.theme = t
	return nil
}

func (c *CLI) Theme() ColorTheme {
	return c.theme
}

func (c *CLI) ToggleVerbose() bool {
	c.verbose = !c.verbose
	return c.verbose
}

func (c *CLI) IsVerbose() bool {
	return c.verbose
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

func (c *CLI) ShowPrompt(prompt string) {
	if p, ok := c.input.(prompter); ok {
		p.SetPrompt(prompt)
		return
	}
	fmt.Fprint(c.output, prompt)
}

// ShowLegalMoves lists the squares and marks them on the next board drawn
func (c *CLI) ShowLegalMoves(color core.Color, moves []board.Pos) {
	c.hints = moves
	if len(moves) == 0 {
		c.ShowMessage(fmt.Sprintf("No legal moves for %s", color.Name()))
		return
	}
	c.ShowMessage(fmt.Sprintf("Legal moves for %s: %s", color.Name(),
		strings.Join(board.FormatPositions(moves), " ")))
}

func (c *CLI) DisplayBoard(b *board.Board) {
	theme := themes[c.theme]
	hints := make(map[board.Pos]bool, len(c.hints))
	for _, p := range c.hints {
		hints[p] = true
	}
	c.hints = nil

	var sb strings.Builder
	sb.WriteString("\n  a b c d e f g h\n")

	for r := 0; r < board.Size; r++ {
		sb.WriteString(fmt.Sprintf("%d ", r+1))
		for col := 0; col < board.Size; col++ {
			p := board.Pos{Row: r, Col: col}
			piece, _ := b.GetPiece(p)

			var symbol, fg string
			switch {
			case piece != nil && piece.Color() == core.ColorBlack:
				symbol, fg = "b", theme.black
			case piece != nil:
				symbol, fg = "w", theme.white
			case hints[p]:
				symbol, fg = "*", theme.hint
			default:
				symbol = "."
			}

			if c.theme == ThemeOff {
				sb.WriteString(symbol + " ")
				continue
			}
			if piece != nil {
				symbol = "●"
			} else if symbol == "." {
				symbol = " "
			}
			sb.WriteString(fmt.Sprintf("%s%s%s %s", theme.bg, fg, symbol, theme.reset))
		}
		sb.WriteString(fmt.Sprintf(" %d\n", r+1))
	}
	sb.WriteString("  a b c d e f g h\n")
	sb.WriteString(fmt.Sprintf("Black: %d  White: %d", b.Count(core.ColorBlack), b.Count(core.ColorWhite)))

	c.ShowMessage(sb.String())
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  new [layout] [b|w] - Start a new game, optionally from a 64-cell layout
  <move>             - Place a piece (e.g., d3, f5)
  undo [count]       - Undo last move(s), default 1
  moves              - List legal moves and mark them on the board
  board              - Show the board
  color <theme>      - Set board color theme (off|green|gray)
  verbose            - Toggle flipped-piece details
  history            - Show game move history and positions
  quit/exit          - Exit the program
  help/?             - Show this help message

Layouts use '.' for empty, 'b' for black and 'w' for white, row 1 first.`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Reversi!")
	c.ShowMessage("Commands: new, <move>, undo, moves, board, history, help/?, quit/exit")
	c.ShowMessage("Black moves first. Squares are column a-h then row 1-8, e.g. 'd3'.")
	c.ShowMessage("")
}

func (c *CLI) ShowGameHistory(s game.Summary) {
	c.ShowMessage(fmt.Sprintf("Starting layout: %s", s.InitialLayout))

	for i, move := range s.Moves {
		c.ShowMessage(fmt.Sprintf("%d. %s", i+1, move))
	}
	c.ShowMessage(fmt.Sprintf("Current layout: %s", s.Layout))
	c.ShowMessage(fmt.Sprintf("Game state: %s (next: %s)", s.State, s.NextTurn.Name()))
}

func (c *CLI) ShowMove(result *game.MoveResult) {
	if c.verbose {
		c.ShowMessage(fmt.Sprintf("%s: %s flips %s", result.Player.Name(), result.Move,
			strings.Join(result.Flipped, " ")))
	} else {
		c.ShowMessage(fmt.Sprintf("%s: %s", result.Player.Name(), result.Move))
	}
	if result.Passed {
		c.ShowMessage(fmt.Sprintf("%s has no legal move and passes", result.Player.Opposite().Name()))
	}
}

func (c *CLI) ShowGameOver(state core.State, black, white int) {
	c.ShowMessage(fmt.Sprintf("\nGame Over: %s (%d-%d)", state, black, white))
	c.ShowMessage("Start a new game with 'new'.")
}

var _ transport.View = (*CLI)(nil)
