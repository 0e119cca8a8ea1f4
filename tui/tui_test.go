package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/framecut-cli/clip"
	"github.com/user/framecut-cli/frame"
	"github.com/user/framecut-cli/frame/frametest"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m *Model, keys ...string) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func newTestModel(t *testing.T, dec *frametest.Decoder) *Model {
	t.Helper()
	m, err := NewModel(Options{
		VideoPath: filepath.Join(t.TempDir(), "match.mp4"),
		Decoder:   dec,
		Origin:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		HasOrigin: true,
	})
	require.NoError(t, err)
	return m
}

func TestKeyAction(t *testing.T) {
	tests := []struct {
		key    string
		action Action
		delta  int
	}{
		{"k", ActionStep, 1},
		{"K", ActionStep, 30},
		{"l", ActionStep, 300},
		{"L", ActionStep, 900},
		{"j", ActionStep, -1},
		{"J", ActionStep, -30},
		{"h", ActionStep, -300},
		{"H", ActionStep, -900},
		{"a", ActionMarkStart, 0},
		{"s", ActionMarkEnd, 0},
		{"q", ActionExport, 0},
		{"Q", ActionQuit, 0},
		{"m", ActionToggleClock, 0},
		{"x", ActionSnapshot, 0},
		{"z", ActionNone, 0},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			action, delta := KeyAction(tt.key, 30)
			assert.Equal(t, tt.action, action)
			assert.Equal(t, tt.delta, delta)
		})
	}
}

func TestModel_LoadsFirstFrame(t *testing.T) {
	m := newTestModel(t, frametest.NewDecoder(100, 30))
	assert.Equal(t, 0, m.cur.Index)
	assert.Equal(t, frametest.Payload(0), m.cur.Payload)
}

func TestModel_NoDecodableFrame(t *testing.T) {
	dec := frametest.NewDecoder(3, 30).Drop(0, 1, 2)
	_, err := NewModel(Options{Decoder: dec})
	assert.ErrorIs(t, err, frame.ErrSourceUnreadable)
}

func TestModel_Navigation(t *testing.T) {
	m := newTestModel(t, frametest.NewDecoder(1000, 30))

	press(t, m, "k")
	assert.Equal(t, 1, m.cur.Index)
	press(t, m, "K")
	assert.Equal(t, 31, m.cur.Index)
	press(t, m, "l")
	assert.Equal(t, 331, m.cur.Index)
	press(t, m, "H")
	assert.Equal(t, 0, m.cur.Index, "clamped at the first frame")
	press(t, m, "L", "L")
	assert.Equal(t, 999, m.cur.Index, "clamped at the last frame")
}

func TestModel_SkipsDroppedFrame(t *testing.T) {
	m := newTestModel(t, frametest.NewDecoder(100, 30).Drop(5))

	press(t, m, "k", "k", "k", "k", "k")
	assert.Equal(t, 6, m.cur.Index, "forward intent lands after the gap")

	press(t, m, "j")
	assert.Equal(t, 4, m.cur.Index, "backward intent lands before the gap")
}

func TestModel_KeepsFrameWhenNothingFurther(t *testing.T) {
	m := newTestModel(t, frametest.NewDecoder(10, 30).Drop(8, 9))
	press(t, m, "k", "k", "k", "k", "k", "k", "k")
	require.Equal(t, 7, m.cur.Index)

	press(t, m, "k")
	assert.Equal(t, 7, m.cur.Index)
	assert.Equal(t, "no more frames forward", m.status)
}

func TestModel_ClockToggle(t *testing.T) {
	m := newTestModel(t, frametest.NewDecoder(100, 30))
	press(t, m, "K")
	assert.Equal(t, "0:00:01.000", m.clock())

	press(t, m, "m")
	assert.Equal(t, "2024-05-01T10:00:01.000000Z", m.clock())
}

func TestModel_ExportNeedsOrderedMarks(t *testing.T) {
	m := newTestModel(t, frametest.NewDecoder(100, 30))

	press(t, m, "q")
	assert.Contains(t, m.status, "mark a start")

	press(t, m, "k", "k", "a", "j", "s", "q")
	assert.Equal(t, 2, m.start)
	assert.Equal(t, 1, m.end)
	assert.Equal(t, "start must be before end", m.status)
	assert.False(t, m.export.Active)
}

// drive runs export commands until the done message has been handled.
func drive(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil && m.export.Active; i++ {
		require.Less(t, i, 10000)
		msg := cmd()
		if msg == nil {
			return
		}
		_, cmd = m.Update(msg)
	}
}

func TestModel_Export(t *testing.T) {
	// at 1 fps "l" moves ten frames
	dec := frametest.NewDecoder(100, 1).Drop(12)
	m := newTestModel(t, dec)
	w := &frametest.Writer{}
	m.opts.Processor = &clip.Processor{
		Exporter: &clip.Exporter{},
		Open: func(string, frame.Info) (frame.Writer, error) {
			return w, nil
		},
	}

	press(t, m, "l")
	press(t, m, "a")
	cmd := press(t, m, "k", "k", "k", "s", "q")
	require.True(t, m.export.Active)
	assert.Equal(t, 5, m.export.Total)

	drive(t, m, cmd)

	assert.True(t, m.quitting)
	out := m.Outcome()
	assert.Equal(t, frame.Range{Start: 10, End: 14}, out.Range)
	require.NotNil(t, out.Result)
	assert.Equal(t, 4, out.Result.Frames)
	assert.Equal(t, []int{10, 11, 13, 14}, w.Indices())
}

func TestModel_ExportCancelled(t *testing.T) {
	m := newTestModel(t, frametest.NewDecoder(100, 30))
	m.opts.Processor = &clip.Processor{
		Exporter: &clip.Exporter{},
		Open: func(string, frame.Info) (frame.Writer, error) {
			return &frametest.Writer{}, nil
		},
	}
	press(t, m, "a", "L", "s")

	// cancel before the goroutine gets going; the processor sees a done context
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m.cancel = cancel
	ch := startExport(ctx, m.opts.Processor, m.opts.Decoder, clip.Job{
		VideoPath: m.opts.VideoPath,
		Range:     frame.Range{Start: m.start, End: m.end},
		Paths:     clip.OutputPaths(m.opts.VideoPath),
	})
	m.export.Active = true
	m.exportCh = ch

	drive(t, m, waitForExportMsg(ch))

	assert.False(t, m.quitting)
	assert.Equal(t, "export cancelled", m.status)
	assert.Nil(t, m.Outcome().Result)
}

func TestModel_SnapshotRejectsShortPayload(t *testing.T) {
	m := newTestModel(t, frametest.NewDecoder(10, 30))
	press(t, m, "x")
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "snapshot failed")
}

type recordingPreview struct {
	seconds []float64
}

func (p *recordingPreview) Show(seconds float64, _ string) error {
	p.seconds = append(p.seconds, seconds)
	return nil
}

func TestModel_MirrorsToPreview(t *testing.T) {
	preview := &recordingPreview{}
	m, err := NewModel(Options{
		VideoPath: "match.mp4",
		Decoder:   frametest.NewDecoder(100, 10),
		Preview:   preview,
	})
	require.NoError(t, err)

	press(t, m, "K")
	require.Len(t, preview.seconds, 2)
	assert.InDelta(t, 1.0, preview.seconds[1], 1e-9)
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t, frametest.NewDecoder(100, 30))
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	press(t, m, "a")

	view := m.View()
	assert.Contains(t, view, "frame 0/99")
	assert.Contains(t, view, "Marks")
	assert.Contains(t, view, "Timeline")

	press(t, m, "?")
	assert.Contains(t, m.View(), "Keybindings")
	press(t, m, "k")
	assert.False(t, m.showHelp)
	assert.Equal(t, 0, m.cur.Index, "key that closes help does not navigate")

	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Contains(t, m.View(), "Terminal too small")
}
