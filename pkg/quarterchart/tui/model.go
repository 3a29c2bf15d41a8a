// Package tui is an interactive terminal surface for the quarterly chart.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/controller"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/prefs"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/render"
)

const (
	frameInterval = time.Second / 30
	headerRows    = 3
	footerRows    = 4
	minChartRows  = 4
	snapshotWait  = 2 * time.Second
)

type (
	viewMsg     controller.View
	frameMsg    struct{ gen int }
	exportedMsg struct {
		path string
		err  error
	}
)

type editMode int

const (
	editNone editMode = iota
	editColor
	editPath
)

// Poster delivers events to the controller.
type Poster interface {
	Post(controller.Event) bool
	TryPost(controller.Event) bool
}

// Model is the bubbletea model. It holds the last view pushed by the
// controller and samples its transition on every animation frame.
type Model struct {
	post         Poster
	path         string
	snapshotPath string
	now          func() time.Time

	view     controller.View
	started  time.Time
	frameGen int

	width, height int
	edit          editMode
	input         textinput.Model
	showHelp      bool
	notice        string
}

// NewModel returns a model posting to p. path is the workbook the model
// reloads on request; snapshotPath is where exported defaults go.
func NewModel(p Poster, path, snapshotPath string) Model {
	in := textinput.New()
	in.CharLimit = 512
	in.Width = 40
	if snapshotPath == "" {
		snapshotPath = prefs.PublishedFileName
	}
	return Model{
		post:         p,
		path:         path,
		snapshotPath: snapshotPath,
		now:          time.Now,
		input:        in,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// ChartSize is the chart area in cells for the current terminal.
func (m Model) ChartSize() (cols, rows int) {
	return max(1, m.width), max(minChartRows, m.height-headerRows-footerRows)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		cols, rows := m.ChartSize()
		m.post.Post(controller.Resize{Width: float64(cols * CellWidth), Height: float64(rows * CellHeight)})
		return m, nil

	case viewMsg:
		m.view = controller.View(msg)
		if m.view.ExcelPath != "" {
			m.path = m.view.ExcelPath
		}
		if !m.view.Rendered {
			return m, nil
		}
		m.started = m.now()
		m.frameGen++
		return m, m.animate()

	case frameMsg:
		if msg.gen != m.frameGen || m.progress() >= 1 {
			return m, nil
		}
		return m, m.animate()

	case exportedMsg:
		if msg.err != nil {
			m.notice = "Export failed: " + msg.err.Error()
		} else {
			m.notice = "Wrote " + msg.path
		}
		return m, nil

	case tea.FocusMsg:
		m.post.Post(controller.Visibility{Hidden: false})
		return m, nil
	case tea.BlurMsg:
		m.post.Post(controller.Visibility{Hidden: true})
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		if m.edit != editNone {
			return m.handleEditKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) animate() tea.Cmd {
	gen := m.frameGen
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{gen: gen}
	})
}

func (m Model) progress() float64 {
	if m.started.IsZero() {
		return 1
	}
	return render.Progress(m.now().Sub(m.started))
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionMotion {
		return m, nil
	}
	_, rows := m.ChartSize()
	row := msg.Y - headerRows
	if row < 0 || row >= rows {
		if m.view.Tooltip != nil {
			m.post.TryPost(controller.HoverEnd{})
		}
		return m, nil
	}
	m.post.TryPost(controller.Hover{
		X: (float64(msg.X) + 0.5) * CellWidth,
		Y: (float64(row) + 0.5) * CellHeight,
	})
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	m.notice = ""

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.showHelp = true
	case " ", "p":
		m.post.Post(controller.TogglePlay{})
	case "left", "h":
		m.post.Post(controller.Step{Delta: -1})
	case "right", "l":
		m.post.Post(controller.Step{Delta: 1})
	case "home", "g":
		m.post.Post(controller.Seek{Start: 0})
	case "end", "G":
		m.post.Post(controller.Seek{Start: m.view.MaxStart})
	case "s":
		m.post.Post(controller.SetScale{Mode: m.view.Scale.Next()})
	case "tab":
		m.post.Post(controller.Select{Category: m.neighbor(1)})
	case "shift+tab":
		m.post.Post(controller.Select{Category: m.neighbor(-1)})
	case "esc":
		m.post.Post(controller.Select{Category: ""})
	case "[":
		m.move(-1)
	case "]":
		m.move(1)
	case "c":
		if item, ok := m.selectedItem(); ok {
			m.startEdit(editColor, item.Color)
			return m, textinput.Blink
		}
		m.notice = "Select a category first (tab)."
	case "R":
		m.post.Post(controller.ResetColors{})
	case "O":
		m.post.Post(controller.ResetOrder{})
	case "r":
		m.post.Post(controller.LoadRequested{Path: m.path})
	case "o":
		m.startEdit(editPath, m.path)
		return m, textinput.Blink
	case "e":
		return m, m.exportSnapshot()
	}
	return m, nil
}

func (m *Model) startEdit(mode editMode, value string) {
	m.edit = mode
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.edit = editNone
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		switch m.edit {
		case editColor:
			m.post.Post(controller.SetColor{Color: value})
		case editPath:
			if value != "" {
				m.path = value
				m.post.Post(controller.LoadRequested{Path: value})
			}
		}
		m.edit = editNone
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) selectedItem() (controller.LegendItem, bool) {
	for _, item := range m.view.Legend {
		if item.Selected {
			return item, true
		}
	}
	return controller.LegendItem{}, false
}

// neighbor is the legend entry delta steps from the selection, wrapping.
func (m Model) neighbor(delta int) string {
	n := len(m.view.Legend)
	if n == 0 {
		return ""
	}
	idx := -1
	for i, item := range m.view.Legend {
		if item.Selected {
			idx = i
		}
	}
	if idx < 0 {
		if delta < 0 {
			return m.view.Legend[n-1].Category
		}
		return m.view.Legend[0].Category
	}
	return m.view.Legend[((idx+delta)%n+n)%n].Category
}

// move shifts the selected category one place in the stacking order.
func (m Model) move(delta int) {
	for i, item := range m.view.Legend {
		if !item.Selected {
			continue
		}
		j := i + delta
		if j < 0 || j >= len(m.view.Legend) {
			return
		}
		m.post.Post(controller.MoveCategory{From: item.Category, To: m.view.Legend[j].Category})
		return
	}
}

func (m Model) exportSnapshot() tea.Cmd {
	post, path := m.post, m.snapshotPath
	return func() tea.Msg {
		reply := make(chan models.PreferenceDefaults, 1)
		if !post.Post(controller.ExportSnapshot{Reply: reply}) {
			return exportedMsg{path: path, err: errors.New("chart is not running")}
		}
		select {
		case snapshot := <-reply:
			return exportedMsg{path: path, err: prefs.WriteSnapshot(path, snapshot)}
		case <-time.After(snapshotWait):
			return exportedMsg{path: path, err: errors.New("timed out waiting for preferences")}
		}
	}
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading…"
	}
	if m.showHelp {
		return m.helpView()
	}

	var lines []string
	title := titleStyle.Render("quarterchart") + "  " + pathStyle.Render(m.path)
	lines = append(lines, ansi.Truncate(title, m.width, "…"))

	status := m.view.Status
	style := statusStyle
	if strings.HasPrefix(status, "Load failed") || status == controller.StatusInvalidColor {
		style = errorStyle
	}
	if m.notice != "" {
		status = m.notice
	}
	lines = append(lines, ansi.Truncate(style.Render(status), m.width, "…"))

	controls := fmt.Sprintf("%s  [%s]  scale: %s  %d/%d",
		windowStyle.Render(m.view.WindowLabel), m.view.PlayLabel, m.view.Scale, m.view.WindowStart, m.view.MaxStart)
	lines = append(lines, ansi.Truncate(controls, m.width, "…"))

	cols, rows := m.ChartSize()
	frame := m.view.Transition.Frame(m.progress())
	chart := Rasterize(frame, cols, rows)
	for len(chart) < rows {
		chart = append(chart, "")
	}
	lines = append(lines, chart...)

	lines = append(lines, m.tooltipLine())
	lines = append(lines, ansi.Truncate(m.legendLine(), m.width, "…"))
	switch m.edit {
	case editColor:
		lines = append(lines, "Color (#RRGGBB): "+m.input.View())
	case editPath:
		lines = append(lines, "Workbook: "+m.input.View())
	default:
		lines = append(lines, "")
	}
	lines = append(lines, ansi.Truncate(m.helpLine(), m.width, "…"))
	return strings.Join(lines, "\n")
}

func (m Model) tooltipLine() string {
	tip := m.view.Tooltip
	if tip == nil {
		return ""
	}
	text := fmt.Sprintf("%s · %s: %s (%s)", tip.Quarter, tip.Category, tip.Scaled, tip.Raw)
	return ansi.Truncate(tooltipStyle.Render(text), m.width, "…")
}

func (m Model) legendLine() string {
	parts := make([]string, 0, len(m.view.Legend))
	for _, item := range m.view.Legend {
		name := item.Category
		if item.Selected {
			name = selectedStyle.Render(name)
		}
		parts = append(parts, swatch(item.Color)+" "+name)
	}
	return strings.Join(parts, "  ")
}

var keyHelp = [][2]string{
	{"space", "play/pause"},
	{"←/→", "step"},
	{"s", "scale"},
	{"tab", "select"},
	{"c", "color"},
	{"[ ]", "reorder"},
	{"e", "export"},
	{"?", "help"},
	{"q", "quit"},
}

func (m Model) helpLine() string {
	parts := make([]string, 0, len(keyHelp))
	for _, k := range keyHelp {
		parts = append(parts, helpKeyStyle.Render(k[0])+" "+helpStyle.Render(k[1]))
	}
	return strings.Join(parts, "  ")
}

func (m Model) helpView() string {
	rows := [][2]string{
		{"space / p", "play or pause; replays from the start at the end"},
		{"← → / h l", "step one quarter (pauses)"},
		{"home / end", "jump to the first or last window"},
		{"s", "cycle scale: raw, thousands, millions"},
		{"tab / shift+tab", "select the next or previous category"},
		{"esc", "clear the selection"},
		{"c", "set the selected category's color"},
		{"[ / ]", "move the selected category down or up the stack"},
		{"R / O", "reset colors / reset order"},
		{"r / o", "reload / open another workbook"},
		{"e", "export preferences to " + m.snapshotPath},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Keys") + "\n\n")
	for _, r := range rows {
		b.WriteString(lipgloss.NewStyle().Width(18).Render(helpKeyStyle.Render(r[0])))
		b.WriteString(helpStyle.Render(r[1]) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("press any key to close"))
	return b.String()
}
