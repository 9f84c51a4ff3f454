// cmd/kicker/main.go
//
// Interactive menu over the ledger. The terminal belongs to the TUI, so
// log output goes to KICKER_LOG_FILE instead.

package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"kickerledger/internal/app"
	"kickerledger/internal/config"
	"kickerledger/internal/tui"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return 1
	}

	logFile, err := tea.LogToFile(cfg.LogFile, "kicker")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		return 1
	}
	defer logFile.Close()

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to store: %v\n", err)
		return 1
	}
	defer a.Close(ctx)

	ui := tui.NewApp(a.Registry, a.Ledger, a.Query)
	if _, err := tea.NewProgram(ui).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return 1
	}
	if err := ui.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println("Bye")
	return 0
}
