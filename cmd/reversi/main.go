// Package main runs a two-player reversi game on the local console.
package main

import (
	"flag"
	"fmt"
	"os"

	"reversi/internal/cli"
	"reversi/internal/service"
	clitransport "reversi/internal/transport/cli"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

func main() {
	var (
		color       = flag.String("color", "auto", "Board color theme: auto, off, green, gray")
		historyFile = flag.String("history", ".reversi_history", "Readline history file (empty disables)")
		logLevel    = flag.String("log-level", "warn", "Log level: debug, info, warn, error")
	)
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level %q: %v\n", *logLevel, err)
		os.Exit(2)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	theme := cli.ThemeOff
	if *color == "auto" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			theme = cli.ThemeGreen
		}
	} else if theme, err = cli.ParseTheme(*color); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	svc, err := service.New(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}
	defer svc.Shutdown()

	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	var input cli.LineReader
	if interactive {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "> ",
			HistoryFile:     *historyFile,
			InterruptPrompt: "^C",
			EOFPrompt:       "quit",
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize readline")
		}
		defer rl.Close()
		input = rl
	} else {
		input = cli.NewScanner(os.Stdin)
	}

	view := cli.New(input, os.Stdout)
	_ = view.SetTheme(theme) // parsed above

	handler := clitransport.New(svc, view)

	view.ShowWelcome()
	handler.Run()
}
