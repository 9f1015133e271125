package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/synapse/internal/config"
	"github.com/san-kum/synapse/internal/engine"
	"github.com/san-kum/synapse/internal/render"
)

const (
	statsWidth      = 32
	headerRows      = 1
	historyCapacity = 120
	gifPath         = "synapse.gif"

	minCanvasW = 20
	minCanvasH = 8

	// Used until the first WindowSizeMsg arrives.
	defaultCanvasW = 80
	defaultCanvasH = 24
)

type TickMsg time.Time

// ReloadMsg carries a freshly parsed config from the file watcher.
type ReloadMsg struct{ Cfg *config.Config }

type Model struct {
	eng  *engine.Engine
	cfg  *config.Config
	keys keyMap
	help help.Model
	rec  recorder

	theme   string
	history []float64
	width   int
	height  int
	cw, ch  int
}

func NewModel(eng *engine.Engine, cfg *config.Config) Model {
	return Model{
		eng:     eng,
		cfg:     cfg,
		keys:    defaultKeyMap(),
		help:    help.New(),
		theme:   cfg.Theme,
		history: make([]float64, 0, historyCapacity),
		cw:      defaultCanvasW,
		ch:      defaultCanvasH,
	}
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) tick() tea.Cmd {
	fps := m.cfg.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		cw := msg.Width - statsWidth - 4
		ch := msg.Height - headerRows - 3
		if cw < minCanvasW {
			cw = minCanvasW
		}
		if ch < minCanvasH {
			ch = minCanvasH
		}
		m.cw, m.ch = cw, ch
		m.eng.Resize(cw, ch)
		return m, nil

	case tea.FocusMsg:
		m.eng.Resume()
		return m, nil

	case tea.BlurMsg:
		m.eng.ClearPointer()
		m.eng.Pause()
		return m, nil

	case ReloadMsg:
		m.cfg = msg.Cfg
		m.theme = msg.Cfg.Theme
		m.eng.SetRates(msg.Cfg.Rates())
		m.eng.SetTheme(msg.Cfg.Theme)
		return m, nil

	case TickMsg:
		m.eng.Advance()
		stats := m.eng.Stats()
		m.history = append(m.history, float64(stats.ActiveEdges))
		if len(m.history) > historyCapacity {
			m.history = m.history[1:]
		}
		if m.rec.active {
			m.rec.capture(m.eng.BrailleGrid())
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		if m.eng.State() == engine.StateRunning {
			m.eng.Pause()
		} else {
			m.eng.Resume()
		}

	case key.Matches(msg, m.keys.Theme):
		names := render.ThemeNames()
		for i, name := range names {
			if name == m.theme {
				m.theme = names[(i+1)%len(names)]
				break
			}
		}
		m.eng.SetTheme(m.theme)

	case key.Matches(msg, m.keys.Record):
		if !m.rec.toggle() {
			m.rec.save(gifPath)
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.ZoomIn):
		if cam := m.eng.Camera(); cam != nil {
			cam.ZoomIn()
		}
	case key.Matches(msg, m.keys.ZoomOt):
		if cam := m.eng.Camera(); cam != nil {
			cam.ZoomOut()
		}
	case key.Matches(msg, m.keys.Left):
		m.nudge(-0.02, 0)
	case key.Matches(msg, m.keys.Right):
		m.nudge(0.02, 0)
	case key.Matches(msg, m.keys.Up):
		m.nudge(0, -0.02)
	case key.Matches(msg, m.keys.Down):
		m.nudge(0, 0.02)
	}
	return m, nil
}

func (m Model) nudge(dx, dy float64) {
	if cam := m.eng.Camera(); cam != nil {
		cam.Nudge(dx, dy)
	}
}

// handleMouse maps terminal coordinates into canvas cells. The canvas
// content starts one row below the header and one column in, inside the
// panel border.
func (m Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionMotion && msg.Action != tea.MouseActionPress {
		return
	}
	col := msg.X - 1
	row := msg.Y - headerRows - 1
	if col < 0 || row < 0 || col >= m.cw || row >= m.ch {
		m.eng.ClearPointer()
		return
	}
	m.eng.SetPointerCell(col, row)
}

func (m Model) View() string {
	header := headerStyle.Render(" synapse ") + "  " + m.status()

	frame := strings.TrimRight(m.eng.Frame(), "\n")
	canvas := canvasStyle.Render(frame)

	main := lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.statsPanel())
	return header + "\n" + main + "\n" + m.help.View(m.keys)
}

func (m Model) status() string {
	var parts []string
	switch m.eng.State() {
	case engine.StateRunning:
		parts = append(parts, statusRunning.Render("● running"))
	case engine.StatePaused:
		parts = append(parts, statusPaused.Render("○ paused"))
	default:
		parts = append(parts, labelStyle.Render(m.eng.State().String()))
	}
	if m.rec.active {
		parts = append(parts, statusRecording.Render("● rec"))
	}
	return strings.Join(parts, "  ")
}

func (m Model) statsPanel() string {
	stats := m.eng.Stats()
	var b strings.Builder

	row := func(label string, value any) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(fmt.Sprint(value)) + "\n")
	}
	row("renderer", m.eng.RendererName())
	row("theme", m.theme)
	row("nodes", stats.Nodes)
	row("edges", stats.Edges)
	row("active", stats.ActiveEdges)
	row("particles", stats.Particles)
	row("fps", m.cfg.FPS)

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(4),
			asciigraph.Width(statsWidth-8),
			asciigraph.Caption("active edges"),
		)
		b.WriteString("\n" + graphStyle.Render(chart) + "\n")
	}
	return statsStyle.Width(statsWidth).Render(strings.TrimRight(b.String(), "\n"))
}

// Run starts the engine in driven mode and blocks inside the Bubble Tea
// loop until the user quits or ctx is cancelled. When watchPath is set,
// edits to that file re-tune the running scene in place.
func Run(ctx context.Context, cfg *config.Config, watchPath string, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	theme := render.GetTheme(cfg.Theme)
	eng := engine.New(engine.Options{
		Graph:    cfg.GraphConfig(theme.PaletteSize()),
		Rates:    cfg.Rates(),
		Width:    defaultCanvasW,
		Height:   defaultCanvasH,
		Renderer: cfg.Renderer,
		Theme:    cfg.Theme,
		FPS:      cfg.FPS,
		Driven:   true,
		Logger:   log,
	})
	if err := eng.Start(ctx); err != nil {
		return err
	}
	defer eng.Dispose()

	p := tea.NewProgram(NewModel(eng, cfg),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)

	if watchPath != "" {
		wctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			err := config.Watch(wctx, watchPath, log, func(c *config.Config) {
				p.Send(ReloadMsg{Cfg: c})
			})
			if err != nil && wctx.Err() == nil {
				log.Warn("config watcher stopped", "error", err)
			}
		}()
	}

	_, err := p.Run()
	return err
}
