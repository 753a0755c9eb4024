package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"unsafescan/internal/driver"
	"unsafescan/internal/ui"
)

type scanOutcome struct {
	result *driver.DirAnalysis
	err    error
}

// runScanWithUI runs a directory scan while a progress view is drawn on out.
func runScanWithUI(ctx context.Context, out io.Writer, title, dir string, opts driver.Options) (*driver.DirAnalysis, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan scanOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.AnalyzeDir(ctx, dir, optsCopy)
		outcomeCh <- scanOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, nil, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// модель больше не читает канал, дочитываем сами
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
