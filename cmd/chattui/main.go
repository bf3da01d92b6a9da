package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ananyak/chatterm/internal/api"
	"github.com/ananyak/chatterm/internal/auth"
	"github.com/ananyak/chatterm/internal/bus"
	"github.com/ananyak/chatterm/internal/chat"
	"github.com/ananyak/chatterm/internal/logging"
	"github.com/ananyak/chatterm/internal/session"
	"github.com/ananyak/chatterm/internal/tui"
)

func main() {
	sessionFlag := flag.String("session", "", "session name (overrides config default)")
	backendFlag := flag.String("backend", "", "backend base URL (overrides config)")
	flag.Parse()

	sessionName := session.Resolve(*sessionFlag)
	if err := session.ValidateName(sessionName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := session.EnsureDir(sessionName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// File-only logger: stderr writes would corrupt the terminal UI.
	logger, err := logging.NewFileOnly(session.TUILogPath(sessionName), sessionName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	backendURL := session.ResolveBackendURL(*backendFlag)

	store := auth.NewStore(session.TokenPath(sessionName))
	client := api.New(backendURL, store)
	b := bus.New()
	gate := auth.NewGate(store, b)
	sess := chat.NewSession(gate, client, b, logger)

	app := tui.NewApp(sess, sessionName, logger)
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
