package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"nate/internal/pipeline"
	"nate/internal/ui"
)

type generateOutcome struct {
	result *pipeline.Result
	err    error
}

func runGenerateWithUI(ctx context.Context, title string, names []string, req pipeline.Request) (*pipeline.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan generateOutcome, 1)

	go func() {
		req.Progress = pipeline.ChannelSink{Ch: events}
		res, err := pipeline.Generate(ctx, req)
		outcomeCh <- generateOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
