// Package tui is the interactive frame picker: step through a video frame by
// frame, mark a start and an end, and export the marked range.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/user/framecut-cli/clip"
	"github.com/user/framecut-cli/frame"
	"github.com/user/framecut-cli/pkg/timeutil"
	"github.com/user/framecut-cli/tui/components"
	"github.com/user/framecut-cli/tui/layout"
	"github.com/user/framecut-cli/tui/styles"
	"github.com/user/framecut-cli/video"
)

// statusDisplayDuration is how long a status message stays visible.
const statusDisplayDuration = 4 * time.Second

// clearStatusMsg clears the status line unless a newer message replaced it.
type clearStatusMsg struct{ seq int }

// Previewer mirrors the selected frame in an external player.
type Previewer interface {
	Show(seconds float64, label string) error
}

// Options wires the picker to a source and an export pipeline.
type Options struct {
	VideoPath string
	Decoder   frame.Decoder
	// Origin is the recording start; the wall-clock display needs it.
	Origin    time.Time
	HasOrigin bool
	Stamper   clip.Stamper
	Processor *clip.Processor
	// Preview is optional.
	Preview Previewer
	Logger  *zap.Logger
}

// Outcome is what the picker leaves behind when it exits.
type Outcome struct {
	Range frame.Range
	// Result is set when an export completed.
	Result *clip.Result
}

// Model is the Bubbletea model for the frame picker.
type Model struct {
	opts Options
	nav  *frame.Navigator
	info frame.Info
	log  *zap.Logger

	cur    frame.Resolved
	loaded bool
	// start and end are -1 until marked
	start int
	end   int

	wallClock bool
	showHelp  bool
	width     int
	height    int

	status    string
	statusErr bool
	statusSeq int

	export     components.ExportProgressState
	exportCh   <-chan tea.Msg
	cancel     context.CancelFunc
	quitOnDone bool

	outcome  Outcome
	quitting bool
}

// NewModel creates the picker and decodes the first frame.
func NewModel(opts Options) (*Model, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	m := &Model{
		opts:  opts,
		nav:   frame.NewNavigator(opts.Decoder),
		info:  opts.Decoder.Info(),
		log:   log,
		start: -1,
		end:   -1,
	}
	if err := m.moveTo(-1, 0); err != nil {
		if errors.Is(err, frame.ErrFrameUnresolvable) {
			return nil, fmt.Errorf("%w: no decodable frame: %w", frame.ErrSourceUnreadable, err)
		}
		return nil, err
	}
	return m, nil
}

// Init initializes the model. It returns an optional command to run.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case exportProgressMsg:
		m.export.Written = msg.written
		m.export.Source = msg.source
		return m, waitForExportMsg(m.exportCh)

	case exportDoneMsg:
		return m.finishExport(msg)

	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m *Model) handleKey(key string) (tea.Model, tea.Cmd) {
	action, delta := KeyAction(key, m.info.StepFPS())

	if m.export.Active {
		switch action {
		case ActionCancel:
			m.cancel()
			return m, m.setStatus("cancelling export...", false)
		case ActionQuit:
			m.quitOnDone = true
			m.cancel()
		}
		return m, nil
	}

	switch action {
	case ActionStep:
		return m, m.step(delta)

	case ActionMarkStart:
		m.start = m.cur.Index
		return m, m.setStatus(fmt.Sprintf("start marked at frame %d", m.start), false)

	case ActionMarkEnd:
		m.end = m.cur.Index
		return m, m.setStatus(fmt.Sprintf("end marked at frame %d", m.end), false)

	case ActionExport:
		return m.beginExport()

	case ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case ActionToggleClock:
		m.wallClock = !m.wallClock
		if m.wallClock && !m.opts.HasOrigin {
			return m, m.setStatus("no creation_time in this video; wall clock is relative to zero", true)
		}
		return m, nil

	case ActionSnapshot:
		return m, m.snapshot()

	case ActionHelp:
		m.showHelp = true
		return m, nil
	}
	return m, nil
}

// moveTo resolves target and makes it current. When no frame exists in the
// direction of travel the current frame is kept.
func (m *Model) moveTo(current, target int) error {
	r, err := m.nav.Goto(current, target)
	if err != nil {
		return err
	}
	if r.Index != target {
		m.log.Debug("seek corrected", zap.Int("requested", target), zap.Int("landed", r.Index))
	}
	m.cur = r
	m.loaded = true
	m.mirror()
	return nil
}

func (m *Model) step(delta int) tea.Cmd {
	current := m.cur.Index
	if !m.loaded {
		current = -1
	}
	err := m.moveTo(current, current+delta)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, frame.ErrFrameUnresolvable):
		dir := "forward"
		if delta < 0 {
			dir = "backward"
		}
		return m.setStatus("no more frames "+dir, false)
	default:
		m.log.Error("navigation failed", zap.Int("frame", current+delta), zap.Error(err))
		return m.setStatus(err.Error(), true)
	}
}

// mirror shows the current frame in the external preview, if any.
func (m *Model) mirror() {
	if m.opts.Preview == nil {
		return
	}
	label := fmt.Sprintf("frame %d  %s", m.cur.Index, m.clock())
	if err := m.opts.Preview.Show(m.cur.Elapsed.Seconds(), label); err != nil {
		m.log.Warn("preview lost", zap.Error(err))
		m.opts.Preview = nil
	}
}

func (m *Model) snapshot() tea.Cmd {
	if !m.loaded {
		return m.setStatus("no frame to save", true)
	}
	path := clip.SnapshotPath(m.opts.VideoPath, m.cur.Index)
	if err := video.SaveSnapshot(path, m.cur.Payload, m.info.Width, m.info.Height); err != nil {
		m.log.Error("snapshot failed", zap.String("path", path), zap.Error(err))
		return m.setStatus("snapshot failed: "+err.Error(), true)
	}
	stamped := clip.StampedSnapshotPath(m.opts.VideoPath, m.cur.Index)
	if err := video.SaveStampedSnapshot(stamped, m.cur.Payload, m.info.Width, m.info.Height, m.clock()); err != nil {
		m.log.Error("snapshot failed", zap.String("path", stamped), zap.Error(err))
		return m.setStatus("snapshot failed: "+err.Error(), true)
	}
	m.log.Info("snapshot saved", zap.String("path", path), zap.String("stamped", stamped), zap.Int("frame", m.cur.Index))
	return m.setStatus("saved "+filepath.Base(path)+" and "+filepath.Base(stamped), false)
}

func (m *Model) beginExport() (tea.Model, tea.Cmd) {
	if m.start < 0 || m.end < 0 {
		return m, m.setStatus("mark a start (a) and an end (s) first", true)
	}
	rng := frame.Range{Start: m.start, End: m.end}
	if err := rng.Validate(); err != nil {
		return m, m.setStatus("start must be before end", true)
	}
	if m.opts.Processor == nil {
		m.outcome.Range = rng
		m.quitting = true
		return m, tea.Quit
	}

	job := clip.Job{
		VideoPath: m.opts.VideoPath,
		Range:     rng,
		Origin:    m.opts.Origin,
		Paths:     clip.OutputPaths(m.opts.VideoPath),
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.outcome.Range = rng
	m.export = components.ExportProgressState{
		Active: true,
		Total:  rng.Len(),
		Source: rng.Start,
		Output: job.Paths.Output,
	}
	m.exportCh = startExport(ctx, m.opts.Processor, m.opts.Decoder, job)
	return m, waitForExportMsg(m.exportCh)
}

func (m *Model) finishExport(msg exportDoneMsg) (tea.Model, tea.Cmd) {
	m.export.Active = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	switch {
	case msg.err == nil:
		m.outcome.Result = msg.result
		m.quitting = true
		return m, tea.Quit
	case m.quitOnDone:
		m.quitting = true
		return m, tea.Quit
	case errors.Is(msg.err, context.Canceled):
		return m, m.setStatus("export cancelled", true)
	default:
		return m, m.setStatus("export failed: "+msg.err.Error(), true)
	}
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	seq := m.statusSeq
	m.status = text
	m.statusErr = isErr
	return tea.Tick(statusDisplayDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// clock renders the current frame time in the selected mode.
func (m *Model) clock() string {
	if m.wallClock {
		return m.opts.Stamper.Format(m.opts.Origin.Add(m.cur.Elapsed))
	}
	return timeutil.FormatElapsed(m.cur.Elapsed)
}

// Outcome returns the marked range and the export result, if any.
func (m *Model) Outcome() Outcome {
	return m.outcome
}

// View renders the model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return components.HelpOverlay(m.width, m.height)
	}
	if m.width > 0 && (m.width < layout.MinTerminalWidth || m.height < layout.MinTerminalHeight) {
		return styles.Warning.Render(fmt.Sprintf("Terminal too small (%dx%d)", m.width, m.height)) + "\n" +
			styles.SecondaryText.Italic(true).Render(fmt.Sprintf("Minimum: %dx%d", layout.MinTerminalWidth, layout.MinTerminalHeight))
	}

	width, height := m.width, m.height
	if width == 0 {
		width, height = 100, 30
	}

	status := components.StatusBar(components.StatusBarState{
		VideoName: filepath.Base(m.opts.VideoPath),
		Frame:     m.cur.Index,
		MaxFrame:  m.nav.MaxFrame,
		Clock:     m.clock(),
		StepFPS:   m.info.StepFPS(),
		Busy:      m.export.Active,
	}, width)

	timeline := components.Timeline(components.TimelineState{
		Frame:    m.cur.Index,
		MaxFrame: m.nav.MaxFrame,
		Start:    m.start,
		End:      m.end,
	}, width)

	bodyHeight := height - 1 - lipgloss.Height(timeline) - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	previewWidth, panelWidth, showPanel := layout.Split(width)
	preview := components.FramePreview(m.cur.Payload, m.info.Width, m.info.Height, previewWidth, bodyHeight)
	preview = layout.Center(preview, previewWidth, bodyHeight)

	var body string
	if showPanel {
		panel := layout.Container{Width: panelWidth, Height: bodyHeight}.Render(m.renderPanel(panelWidth))
		body = layout.JoinColumns([]string{preview, panel}, []int{previewWidth, panelWidth}, bodyHeight)
	} else {
		body = layout.Container{Width: previewWidth, Height: bodyHeight}.Render(preview)
	}

	return status + "\n" + body + "\n" + timeline + "\n" + m.renderStatusLine(width)
}

func (m *Model) renderPanel(width int) string {
	mode := "Elapsed"
	if m.wallClock {
		mode = "Wall clock"
	}

	mark := func(i int) string {
		if i < 0 {
			return styles.SecondaryText.Render("unset")
		}
		return styles.Mark.Render(fmt.Sprintf("%d", i))
	}
	marks := []string{
		" Start  " + mark(m.start),
		" End    " + mark(m.end),
	}
	if m.start >= 0 && m.end > m.start {
		marks = append(marks, styles.SecondaryText.Render(fmt.Sprintf(" %d frames", m.end-m.start+1)))
	}

	origin := "none"
	if m.opts.HasOrigin {
		origin = m.opts.Stamper.Format(m.opts.Origin)
	}
	info := []string{
		styles.PrimaryText.Render(fmt.Sprintf(" %dx%d  %s", m.info.Width, m.info.Height, m.info.Codec)),
		styles.PrimaryText.Render(fmt.Sprintf(" %.3f fps  %d frames", m.info.FPS, m.info.FrameCount)),
		styles.SecondaryText.Render(" origin"),
		styles.SecondaryText.Render(" " + components.Tail(origin, width-4)),
	}

	parts := []string{
		components.ModeIndicator(mode, width),
		components.RenderInfoBox("Marks", marks, width),
		components.RenderInfoBox("Source", info, width),
	}
	if m.export.Active {
		parts = append(parts, components.ExportProgress(m.export, width))
	}
	parts = append(parts, styles.SecondaryText.Render(" ? for keys"))
	return strings.Join(parts, "\n")
}

func (m *Model) renderStatusLine(width int) string {
	if m.status == "" {
		return ""
	}
	style := styles.Success
	if m.statusErr {
		style = styles.Warning
	}
	return layout.PadToWidth(style.Render(" "+m.status), width)
}

// Run starts the Bubbletea program and returns what the user picked.
func Run(opts Options) (Outcome, error) {
	model, err := NewModel(opts)
	if err != nil {
		return Outcome{}, err
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return Outcome{}, err
	}
	return final.(*Model).Outcome(), nil
}
