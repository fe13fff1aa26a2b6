package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"semdoc/internal/driver"
	"semdoc/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// The progress view draws on stderr, so stdout stays clean for the output.
func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stderr)
	}
}

type renderOutcome struct {
	results []driver.Result
	err     error
}

func runRenderWithUI(ctx context.Context, title string, setup *renderSetup) ([]driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan renderOutcome, 1)

	go func() {
		opts := setup.opts
		opts.Observer = driver.ChannelObserver(events)
		res, err := driver.RenderAll(ctx, setup.docs, setup.descriptor, opts)
		outcomeCh <- renderOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, docIDs(setup.docs), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// The view may quit before the batch ends; keep the workers unblocked.
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
