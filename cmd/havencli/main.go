package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"havencli/internal/api"
	"havencli/internal/config"
	"havencli/internal/logging"
	"havencli/internal/session"
	"havencli/internal/ui"
)

func main() {
	cfg := config.LoadConfig()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "havencli needs an interactive terminal")
		os.Exit(1)
	}

	logger, closeLog, err := logging.NewFileLogger(cfg.LogFile, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store := session.NewStore(cfg.SessionFile, logger)
	client := api.NewHTTPClient(cfg.ServerURL, store, cfg.RequestTimeout)
	store.SetClient(client)

	deps := ui.NewDeps(ctx, client, store, logger)
	app := ui.NewApp(deps, cfg.ServerURL)

	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		logger.Error(ctx, "program exited", "err", err.Error())
		fmt.Fprintf(os.Stderr, "havencli: %v\n", err)
		os.Exit(1)
	}
}
