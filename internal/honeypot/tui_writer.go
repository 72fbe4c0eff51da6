package honeypot

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"qhoneypot-sim/internal/config"
	"qhoneypot-sim/internal/timeline"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a security log line for the viewport.
type logMsg struct{ line string }

// sampleMsg carries a timeline sample for the chart.
type sampleMsg struct{ timeline.Sample }

// intrusionMsg carries an intrusion marker for the chart.
type intrusionMsg struct{ timeline.Intrusion }

// stateMsg carries a per-tick trap state update.
type stateMsg struct{ timeline.StateRow }

// alertMsg carries an intrusion alert for the banner.
type alertMsg struct{ Alert }

// adminMsg reports the admin endpoint address.
type adminMsg struct{ addr string }

type setControlsMsg struct{ controls Controls }

const (
	maxChartHeightPct = 0.3
	maxLogLines       = 1000
)

// TUIWriter renders trap activity using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(cfg *config.HoneypotConfig) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	m := newTUIModel(cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	go func() {
		_ = p.Start()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// Write implements SampleWriter. Samples feed the chart, not the log.
func (w *TUIWriter) Write(s timeline.Sample) error {
	w.program.Send(sampleMsg{s})
	return nil
}

// WriteBatch outputs multiple samples.
func (w *TUIWriter) WriteBatch(samples []timeline.Sample) error {
	for _, s := range samples {
		_ = w.Write(s)
	}
	return nil
}

// WriteIntrusion implements IntrusionWriter.
func (w *TUIWriter) WriteIntrusion(i timeline.Intrusion) error {
	w.program.Send(intrusionMsg{i})
	return nil
}

// WriteEvent implements EventWriter. Events make up the security log.
func (w *TUIWriter) WriteEvent(e timeline.Event) error {
	kindColor := colorCyan
	switch e.Kind {
	case timeline.EventIntrusionCollapse, timeline.EventIntrusionDetected:
		kindColor = colorRed
	case timeline.EventMeasurement:
		kindColor = colorGreen
	case timeline.EventReset:
		kindColor = colorYellow
	}
	line := fmt.Sprintf("%s[%7.2fs]%s %s%s%s %s",
		colorGray, e.Elapsed, colorReset,
		kindColor, e.Kind, colorReset,
		e.Message)
	w.program.Send(logMsg{line: line})
	return nil
}

// WriteState implements StateWriter.
func (w *TUIWriter) WriteState(row timeline.StateRow) error {
	w.program.Send(stateMsg{StateRow: row})
	return nil
}

// WriteAlert implements AlertWriter.
func (w *TUIWriter) WriteAlert(a Alert) error {
	w.program.Send(alertMsg{Alert: a})
	return nil
}

// SetAdminStatus updates the admin UI indicator.
func (w *TUIWriter) SetAdminStatus(addr string) {
	w.program.Send(adminMsg{addr: addr})
}

// SetControls registers the trap operations behind the key bindings.
// SetAutoIntrusion is wrapped so rejections surface in the security log.
func (w *TUIWriter) SetControls(c Controls) {
	if fn := c.SetAutoIntrusion; fn != nil {
		c.SetAutoIntrusion = func(enabled bool, seconds int) error {
			err := fn(enabled, seconds)
			if err != nil {
				w.program.Send(logMsg{line: fmt.Sprintf("%sauto intrusion rejected: %v%s", colorRed, err, colorReset)})
			}
			return err
		}
	}
	w.program.Send(setControlsMsg{controls: c})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	cfg            *config.HoneypotConfig
	table          table.Model
	vp             viewport.Model
	logs           []string
	samples        []timeline.Sample
	intrusions     []timeline.Intrusion
	intrusionTotal int
	state          timeline.StateRow
	alert          *Alert
	adminAddr      string
	controls       Controls
	intervalInput  textinput.Model
	intervalDialog bool
	wrap           bool
	autoscroll     bool
	help           bool
	showInfo       bool
	header         string
	headerHeight   int
	height         int
}

func newTUIModel(cfg *config.HoneypotConfig) tuiModel {
	cols := []table.Column{
		{Title: "Field", Width: 16},
		{Title: "Value", Width: 12},
		{Title: "Field", Width: 16},
		{Title: "Value", Width: 12},
	}
	rows := statusRows(timeline.StateRow{State: "?"})
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(len(rows)+1))
	vp := viewport.New(0, 0)
	return tuiModel{
		cfg:        cfg,
		table:      t,
		vp:         vp,
		autoscroll: true,
		showInfo:   true,
	}
}

func statusRows(row timeline.StateRow) []table.Row {
	auto := "disabled"
	if row.AutoEnabled {
		auto = "enabled"
	}
	val := "unknown"
	if row.Value != nil {
		val = row.Value.String()
	}
	return []table.Row{
		{"State", row.State, "Value", val},
		{"Collapsed", fmt.Sprintf("%t", row.Collapsed), "Elapsed (s)", fmt.Sprintf("%.1f", row.Elapsed)},
		{"Auto Intrusion", auto, "Interval (s)", fmt.Sprintf("%d", row.AutoIntervalSec)},
		{"Samples", fmt.Sprintf("%d", row.SampleCount), "Intrusions", fmt.Sprintf("%d", row.IntrusionCount)},
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		tableWidth := msg.Width
		if m.showInfo {
			tableWidth = msg.Width / 2
		}
		m.table.SetWidth(tableWidth)
		m.vp.Width = msg.Width
		m.height = msg.Height
		m.header = m.renderHeader()
		m.headerHeight = lipgloss.Height(m.header)
		m.updateViewportHeight()
		m.refreshViewport()
	case tea.KeyMsg:
		if m.intervalDialog {
			switch msg.Type {
			case tea.KeyEnter:
				if n, err := strconv.Atoi(strings.TrimSpace(m.intervalInput.Value())); err == nil {
					if fn := m.controls.SetAutoIntrusion; fn != nil {
						go fn(true, n)
					}
				}
				m.intervalDialog = false
				m.updateViewportHeight()
			case tea.KeyEsc:
				m.intervalDialog = false
				m.updateViewportHeight()
			default:
				var cmd tea.Cmd
				m.intervalInput, cmd = m.intervalInput.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
				m.updateViewportHeight()
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.alert != nil {
				m.alert = nil
				m.updateViewportHeight()
			}
			return m, nil
		case "m":
			if fn := m.controls.Measure; fn != nil {
				go fn()
			}
			return m, nil
		case "i":
			if fn := m.controls.TriggerIntrusion; fn != nil {
				go fn()
			}
			return m, nil
		case "r":
			if fn := m.controls.Reset; fn != nil {
				go fn()
			}
			m.samples = nil
			m.intrusions = nil
			return m, nil
		case "a":
			if m.state.AutoEnabled {
				if fn := m.controls.SetAutoIntrusion; fn != nil {
					seconds := m.state.AutoIntervalSec
					go fn(false, seconds)
				}
				return m, nil
			}
			m.openIntervalDialog()
			return m, nil
		case "A":
			m.openIntervalDialog()
			return m, nil
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
			m.header = m.renderHeader()
			m.headerHeight = lipgloss.Height(m.header)
			m.updateViewportHeight()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
			return m, nil
		case "p":
			m.showInfo = !m.showInfo
			width := m.vp.Width
			if m.showInfo {
				m.table.SetWidth(width / 2)
			} else {
				m.table.SetWidth(width)
			}
			m.header = m.renderHeader()
			m.headerHeight = lipgloss.Height(m.header)
			m.updateViewportHeight()
			return m, nil
		case "h", "?":
			m.help = !m.help
			m.updateViewportHeight()
			return m, nil
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.vp.LineDown(1)
			case "k", "up":
				m.vp.LineUp(1)
			case "pgdown", "ctrl+n":
				m.vp.LineDown(10)
			case "pgup", "ctrl+p":
				m.vp.LineUp(10)
			default:
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		return m, nil
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refreshViewport()
	case sampleMsg:
		if msg.Source == timeline.SourceReset {
			m.samples = nil
			m.intrusions = nil
		}
		m.samples = append(m.samples, msg.Sample)
		if limit := m.sampleCap(); len(m.samples) > limit {
			m.samples = m.samples[len(m.samples)-limit:]
		}
	case intrusionMsg:
		m.intrusions = append(m.intrusions, msg.Intrusion)
		if len(m.intrusions) > maxLogLines {
			m.intrusions = m.intrusions[len(m.intrusions)-maxLogLines:]
		}
		m.intrusionTotal++
	case stateMsg:
		m.state = msg.StateRow
		m.table.SetRows(statusRows(m.state))
	case alertMsg:
		a := msg.Alert
		m.alert = &a
		m.updateViewportHeight()
	case adminMsg:
		m.adminAddr = msg.addr
	case setControlsMsg:
		m.controls = msg.controls
	}
	return m, nil
}

func (m *tuiModel) openIntervalDialog() {
	m.intervalInput = textinput.New()
	m.intervalInput.Placeholder = "seconds"
	seconds := m.state.AutoIntervalSec
	if seconds <= 0 {
		seconds = config.DefaultAutoIntervalSeconds
	}
	m.intervalInput.SetValue(strconv.Itoa(seconds))
	m.intervalInput.CursorEnd()
	m.intervalInput.Focus()
	m.intervalDialog = true
	m.updateViewportHeight()
}

func (m tuiModel) sampleCap() int {
	if m.cfg != nil && m.cfg.Timeline.MaxSamples > 0 {
		return m.cfg.Timeline.MaxSamples
	}
	return timeline.DefaultMaxSamples
}

func (m tuiModel) chartHeight() int {
	h := int(float64(m.height) * maxChartHeightPct)
	if h < 5 {
		h = 5
	}
	return h
}

func (m *tuiModel) updateViewportHeight() {
	bottomHeight := lipgloss.Height(m.renderBottom())
	extra := 0
	if m.intervalDialog {
		extra += 2
	}
	if m.alert != nil {
		extra += 2
	}
	h := m.height - m.headerHeight - m.chartHeight() - bottomHeight - extra - 7
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	var lines []string
	for _, l := range m.logs {
		if m.wrap {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := strings.Repeat("─", m.vp.Width)
	sections := []string{
		m.header,
		divider,
		m.renderTimeline(),
		divider,
		"Security Log:",
		m.vp.View(),
	}
	if m.intervalDialog {
		sections = append(sections, divider,
			fmt.Sprintf("Auto Intrusion Interval (s) - Enter to apply, Esc to cancel: %s", m.intervalInput.View()))
	}
	if m.alert != nil {
		sections = append(sections, divider, m.renderAlert())
	}
	sections = append(sections, divider, m.renderBottom())
	return strings.Join(sections, "\n")
}

func (m tuiModel) renderHeader() string {
	tableView := m.table.View()
	if !m.showInfo {
		return tableView
	}
	infoWidth := m.vp.Width/2 - 1
	info := renderTrapInfo(m.cfg, m.wrap, infoWidth)
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("│")
	return lipgloss.JoinHorizontal(lipgloss.Top, tableView, sep, info)
}

func renderTrapInfo(cfg *config.HoneypotConfig, wrap bool, width int) string {
	if cfg == nil {
		return "Trap"
	}
	min, max := cfg.AutoIntrusion.Bounds()
	lines := []string{
		"Trap",
		fmt.Sprintf("├─ session %s", cfg.SessionID),
		fmt.Sprintf("├─ timeline capacity %d", cfg.Timeline.MaxSamples),
		fmt.Sprintf("└─ interval bounds %d..%ds", min, max),
	}
	if wrap && width > 0 {
		for i, l := range lines {
			lines[i] = wordwrap.String(l, width)
		}
	}
	return strings.Join(lines, "\n")
}

// renderTimeline draws the sample history as an ASCII step chart. A column
// holds one sample; collapsed values sit on the 0 or 1 row, unknown samples
// on the middle row, intrusion markers as vertical lines.
func (m tuiModel) renderTimeline() string {
	width := m.vp.Width
	if width <= 0 {
		width = 80
	}
	height := m.chartHeight()
	if len(m.samples) == 0 {
		return "Timeline: no samples"
	}

	window := m.samples
	if len(window) > width {
		window = window[len(window)-width:]
	}
	topRow := 0
	bottomRow := height - 1
	midRow := (height - 1) / 2

	grid := make([][]string, height)
	for i := range grid {
		row := make([]string, width)
		for j := range row {
			row[j] = " "
		}
		grid[i] = row
	}

	for _, in := range m.intrusions {
		if in.Elapsed < window[0].Elapsed {
			continue
		}
		col := len(window) - 1
		for i, s := range window {
			if s.Elapsed >= in.Elapsed {
				col = i
				break
			}
		}
		for y := 0; y < height; y++ {
			grid[y][col] = fmt.Sprintf("%s┊%s", colorRed, colorReset)
		}
	}

	for i, s := range window {
		switch {
		case s.Value == nil:
			grid[midRow][i] = fmt.Sprintf("%s·%s", colorGray, colorReset)
		case *s.Value == 1:
			grid[topRow][i] = fmt.Sprintf("%s●%s", colorWhite, colorReset)
		default:
			grid[bottomRow][i] = fmt.Sprintf("%s●%s", colorWhite, colorReset)
		}
	}

	var b strings.Builder
	first, last := window[0], window[len(window)-1]
	b.WriteString(fmt.Sprintf("Timeline t=%.1fs..%.1fs samples=%d intrusions=%d\n",
		first.Elapsed, last.Elapsed, m.state.SampleCount, m.intrusionTotal))
	for y, row := range grid {
		label := "  "
		switch y {
		case topRow:
			label = "1 "
		case midRow:
			label = "? "
		case bottomRow:
			label = "0 "
		}
		b.WriteString(label)
		b.WriteString(strings.Join(row, ""))
		b.WriteByte('\n')
	}
	b.WriteString(fmt.Sprintf("%s●%s=value %s·%s=unknown %s┊%s=intrusion",
		colorWhite, colorReset, colorGray, colorReset, colorRed, colorReset))
	return strings.TrimRight(b.String(), "\n")
}

func (m tuiModel) renderAlert() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	return style.Render(fmt.Sprintf("⚠ %s (t=%.2fs, esc to dismiss)", m.alert.Message, m.alert.Elapsed))
}

func (m tuiModel) renderBottom() string {
	adminColor := lipgloss.Color("9")
	admin := "off"
	if m.adminAddr != "" {
		adminColor = lipgloss.Color("10")
		admin = m.adminAddr
	}
	wrapColor := lipgloss.Color("9")
	if m.wrap {
		wrapColor = lipgloss.Color("10")
	}
	scrollColor := lipgloss.Color("10")
	if !m.autoscroll {
		scrollColor = lipgloss.Color("9")
	}
	autoColor := lipgloss.Color("9")
	if m.state.AutoEnabled {
		autoColor = lipgloss.Color("10")
	}
	adminIndicator := lipgloss.NewStyle().Foreground(adminColor).Render("●")
	wrapIndicator := lipgloss.NewStyle().Foreground(wrapColor).Render("●")
	scrollIndicator := lipgloss.NewStyle().Foreground(scrollColor).Render("●")
	autoIndicator := lipgloss.NewStyle().Foreground(autoColor).Render("●")
	state := fmt.Sprintf("%sSTATE%s %s%s%s %scollapsed=%t%s %st=%.1fs%s",
		colorBlue, colorReset,
		colorWhite, m.state.State, colorReset,
		colorMagenta, m.state.Collapsed, colorReset,
		colorCyan, m.state.Elapsed, colorReset)
	return fmt.Sprintf("%s | Auto %s (%ds) | Admin %s %s | Wrap %s | Scroll %s | h: help",
		state, autoIndicator, m.state.AutoIntervalSec, adminIndicator, admin, wrapIndicator, scrollIndicator)
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" q  quit",
		" m  measure the cell",
		" i  trigger a manual intrusion",
		" r  reset the trap",
		" a  toggle auto intrusion (prompts for interval when enabling)",
		" A  set auto intrusion interval",
		" s  toggle auto-scroll",
		" w  toggle wrap for the security log",
		" p  toggle trap info panel",
		" esc dismiss alert banner",
		" h/? toggle this help view",
		"",
		"When auto-scroll is disabled:",
		" j/k or up/down    scroll one line",
		" pgdown/pgup       scroll a page",
	}
	return strings.Join(lines, "\n")
}
