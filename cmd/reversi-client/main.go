// Package main implements an interactive client for the reversi server API.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"reversi/internal/client/commands"
	"reversi/internal/client/display"
	"reversi/internal/client/session"

	"github.com/chzyer/readline"
)

func main() {
	apiURL := flag.String("url", "http://localhost:8080", "Reversi server base URL")
	flag.Parse()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("reversi"),
		HistoryFile:     ".reversi_client_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	s := session.New(*apiURL, rl.Stdout())

	fmt.Printf("%sReversi Client%s\n", display.Cyan, display.Reset)
	fmt.Printf("%sAPI: %s%s\n", display.Cyan, s.APIBaseURL, display.Reset)
	fmt.Printf("Type 'help' for commands\n\n")

	registry := commands.NewRegistry(s)

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line == "exit" || line == "quit" || line == "x" {
			break
		}

		if strings.HasSuffix(line, " -v") {
			s.Verbose = true
			line = strings.TrimSuffix(line, " -v")
		} else {
			s.Verbose = false
		}

		registry.Execute(line)
	}
}

func buildPrompt(s *session.Session) string {
	promptStr := "reversi"

	var parts []string
	if s.CurrentGame != "" {
		id := s.CurrentGame
		if len(id) > 8 {
			id = id[:8]
		}
		parts = append(parts, display.White+id+display.Reset)
	}
	if s.PlayerColor != "" {
		parts = append(parts, display.ColorForTurn(s.PlayerColor))
	}
	if len(parts) > 0 {
		promptStr += display.Yellow + " [" + display.Reset + strings.Join(parts, " ") + display.Yellow + "]"
	}

	if g := s.CurrentGameState; g != nil {
		if g.State == "ongoing" {
			promptStr += fmt.Sprintf(" - Turn:%s %d-%d", display.ColorForTurn(g.Turn), g.Black, g.White)
		} else {
			promptStr += " - " + display.Magenta + g.State + display.Reset
		}
	}

	return display.Prompt(promptStr)
}
