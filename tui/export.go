package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/user/framecut-cli/clip"
	"github.com/user/framecut-cli/frame"
)

// exportProgressMsg carries progress updates from the export goroutine.
type exportProgressMsg struct {
	written int
	source  int
}

// exportDoneMsg is sent once when the export goroutine finishes.
type exportDoneMsg struct {
	result *clip.Result
	err    error
}

// waitForExportMsg returns a tea.Cmd that waits for the next message on the channel.
func waitForExportMsg(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// startExport runs job on a copy of proc in a background goroutine. Progress
// messages are dropped rather than stalling the export when the UI lags; the
// final exportDoneMsg is always delivered.
func startExport(ctx context.Context, proc *clip.Processor, dec frame.Decoder, job clip.Job) <-chan tea.Msg {
	ch := make(chan tea.Msg, 16)

	exporter := clip.Exporter{}
	if proc.Exporter != nil {
		exporter = *proc.Exporter
	}
	exporter.OnFrame = func(written, source int) {
		select {
		case ch <- exportProgressMsg{written: written, source: source}:
		default:
		}
	}
	p := *proc
	p.Exporter = &exporter

	go func() {
		defer close(ch)
		result, err := p.Run(ctx, dec, job)
		ch <- exportDoneMsg{result: result, err: err}
	}()
	return ch
}
