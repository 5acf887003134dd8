/*
Package tui is the interactive terminal viewer.

The chart is drawn into a term.Grid through the same render.Surface used for images, with
one cell per frame pixel. The mouse wheel zooms around the pointer, dragging pans in both
directions and clicking an item opens its details.
*/
package tui

import (
	"fmt"
	"math"
	"strings"

	"chronoline/internal/chart"
	"chronoline/internal/chrono"
	"chronoline/internal/config"
	"chronoline/internal/item"
	"chronoline/internal/layout"
	"chronoline/internal/render"
	"chronoline/internal/render/term"
	"chronoline/internal/viewport"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hashicorp/go-hclog"
)

// cellWidth is the pixel width assumed for one terminal column when scaling the
// configured zoom limits to cells.
const cellWidth = 8

const (
	headerRows = 1
	detailRows = 8
	panStep    = 10 // cells per arrow key press
)

type inputMode int

const (
	modeBrowse inputMode = iota
	modeJump
	modeSearch
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	detailStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true, false, false, false)
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

// TerminalTheme maps configuration onto a cell-based theme. Sizes are in cells.
func TerminalTheme(cfg *config.Config) render.Theme {
	return render.Theme{
		Axis:              cfg.Colors.Axis,
		Text:              cfg.Colors.Text,
		Person:            cfg.Colors.Person,
		Point:             cfg.Colors.Point,
		Period:            cfg.Colors.Period,
		Highlight:         cfg.Colors.Highlight,
		FontSize:          1,
		MarkerSize:        0.5,
		MarkerStroke:      "",
		MarkerStrokeWidth: 0,
		BracketHeight:     1,
		BoxInset:          0,
		LabelGap:          1,
		TickLength:        0,
		MinSpan:           1,
	}
}

// TerminalBounds scales the configured zoom limits from pixels to cells.
func TerminalBounds(cfg *config.Config) viewport.Bounds {
	b := cfg.Bounds()
	b.MinYearsPerPixel *= cellWidth
	b.MaxYearsPerPixel *= cellWidth
	return b
}

// Model is the bubbletea model of the viewer.
type Model struct {
	chart   *chart.Chart
	ctrl    *viewport.Controller
	surface *render.Surface
	grid    *term.Grid
	era     chrono.Era
	log     hclog.Logger

	bounds             viewport.Bounds
	startYear, endYear float64

	width, height int
	sized         bool
	layout        *layout.Layout
	canvas        string

	keys keyMap
	help help.Model

	mode    inputMode
	input   textinput.Model
	matches []item.Item
	match   int

	dragging bool
	dragged  bool

	status string
	err    error
}

// New returns a viewer over snap. The initial window fits the data, falling back to the
// configured viewport when no item is dated.
func New(snap item.Snapshot, cfg *config.Config, filter item.Categories, log hclog.Logger) Model {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	c := chart.New(snap, cfg.TerminalLayoutOptions(), log.Named("chart"))
	c.SetFilter(filter)

	start, end := cfg.Viewport.StartYear, cfg.Viewport.EndYear
	if s, e, ok := c.Window(); ok {
		start, end = s, e
	}

	grid := term.New()
	surf := render.NewSurface(grid, TerminalTheme(cfg), nil, term.Measurer{}, log.Named("render"))
	surf.OnItemClick = func(k item.Kind, it item.Item) {
		log.Debug("item selected", "kind", k, "id", it.ID, "name", it.Name)
	}

	in := textinput.New()
	in.CharLimit = 64

	m := Model{
		chart:     c,
		surface:   surf,
		grid:      grid,
		era:       cfg.Era(),
		log:       log,
		bounds:    TerminalBounds(cfg),
		startYear: start,
		endYear:   end,
		keys:      defaultKeyMap(),
		help:      help.New(),
		input:     in,
	}
	// Refitted to the terminal width by the first WindowSizeMsg.
	m.fit(80)
	return m
}

// fit shows the initial window across width cells. It also becomes the Reset target.
func (m *Model) fit(width float64) {
	m.ctrl = viewport.New(m.bounds, m.startYear, m.endYear, width)
	log := m.log
	m.ctrl.OnViewportChange = func(v viewport.Viewport) {
		log.Trace("viewport changed", "start", v.StartYear, "end", v.EndYear, "years_per_cell", v.YearsPerPixel)
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) canvasHeight() int {
	h := m.height - headerRows - lipgloss.Height(m.footer())
	if _, ok := m.surface.Selected(); ok {
		h -= detailRows
	}
	return max(h, 1)
}

func (m Model) maxOffset() float64 {
	if m.layout == nil {
		return 0
	}
	return math.Max(0, m.layout.TotalHeight-float64(m.canvasHeight()))
}

// redraw lays out the visible items at the current scale and draws them into the grid.
func (m *Model) redraw() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	st := m.ctrl.State()
	l, err := m.chart.Layout(st.YearsPerPixel)
	if err != nil {
		m.err = err
		return
	}
	m.layout = l
	m.ctrl.ClampVertical(m.maxOffset())
	st = m.ctrl.State()

	err = m.surface.Draw(render.Frame{
		Layout:     l,
		Transform:  st.Transform,
		Width:      float64(m.width),
		Height:     float64(m.canvasHeight()),
		PanOffsetY: st.PanOffsetY,
		Era:        m.era,
	})
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.canvas = m.grid.String()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if !m.sized {
			m.sized = true
			m.fit(float64(msg.Width))
		} else {
			m.ctrl.Resize(float64(msg.Width))
		}
		m.redraw()
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	x := float64(msg.X)
	y := float64(msg.Y - headerRows)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.ctrl.Zoom(1, x)
		m.redraw()
	case msg.Button == tea.MouseButtonWheelDown:
		m.ctrl.Zoom(-1, x)
		m.redraw()
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.dragging, m.dragged = true, false
		m.ctrl.StartPan(x, y)
	case msg.Action == tea.MouseActionMotion && m.dragging:
		m.dragged = true
		m.ctrl.UpdatePan(x, y, m.maxOffset())
		m.redraw()
	case msg.Action == tea.MouseActionRelease && m.dragging:
		m.dragging = false
		m.ctrl.EndPan()
		if !m.dragged {
			m.click(x, y)
		}
	case msg.Action == tea.MouseActionMotion:
		m.surface.PointerMove(x, y)
	}
}

// click selects the item under (x, y). The redraw resizes the canvas around the detail
// panel.
func (m *Model) click(x, y float64) {
	if _, ok := m.surface.PointerClick(x, y); ok {
		m.redraw()
	}
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	center := float64(m.width) / 2
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.ZoomIn):
		m.ctrl.Zoom(1, center)
	case key.Matches(msg, m.keys.ZoomOut):
		m.ctrl.Zoom(-1, center)
	case key.Matches(msg, m.keys.Left):
		m.ctrl.PanBy(-panStep, 0, m.maxOffset())
	case key.Matches(msg, m.keys.Right):
		m.ctrl.PanBy(panStep, 0, m.maxOffset())
	case key.Matches(msg, m.keys.Up):
		m.ctrl.PanBy(0, -1, m.maxOffset())
	case key.Matches(msg, m.keys.Down):
		m.ctrl.PanBy(0, 1, m.maxOffset())
	case key.Matches(msg, m.keys.Reset):
		m.ctrl.Reset()
	case key.Matches(msg, m.keys.Dismiss):
		m.surface.Dismiss()
	case key.Matches(msg, m.keys.TogglePeople):
		m.chart.Toggle(item.KindPerson)
	case key.Matches(msg, m.keys.TogglePoints):
		m.chart.Toggle(item.KindPoint)
	case key.Matches(msg, m.keys.TogglePeriods):
		m.chart.Toggle(item.KindPeriod)
	case key.Matches(msg, m.keys.Jump):
		return m.openInput(modeJump, "year: ", "e.g. 44 BC"), textinput.Blink
	case key.Matches(msg, m.keys.Search):
		return m.openInput(modeSearch, "find: ", "name"), textinput.Blink
	default:
		return m, nil
	}
	m.status = ""
	m.redraw()
	return m, nil
}

func (m Model) openInput(mode inputMode, prompt, placeholder string) Model {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.input.Focus()
	m.matches, m.match = nil, 0
	m.status = ""
	return m
}

func (m Model) closeInput() Model {
	m.mode = modeBrowse
	m.input.Blur()
	m.matches = nil
	return m
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.closeInput(), nil
	case tea.KeyEnter:
		value := m.input.Value()
		mode := m.mode
		m = m.closeInput()
		if mode == modeJump {
			m.jumpTo(value)
		} else {
			m.findAndSelect(value)
		}
		return m, nil
	case tea.KeyUp, tea.KeyShiftTab:
		if m.mode == modeSearch && m.match > 0 {
			m.match--
		}
		return m, nil
	case tea.KeyDown, tea.KeyTab:
		if m.mode == modeSearch && m.match < len(m.matches)-1 {
			m.match++
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeSearch {
		m.matches = searchItems(m.chart.Visible(), m.input.Value())
		m.match = 0
	}
	return m, cmd
}

// jumpTo centres the view on an era-labelled year such as "44 BC".
func (m *Model) jumpTo(value string) {
	year, err := chrono.ParseLabel(value)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.ctrl.JumpToYear(float64(year))
	m.status = "centred on " + chrono.FormatYear(year, m.era)
	m.redraw()
}

// findAndSelect centres the view on the chosen search match and opens its details.
func (m *Model) findAndSelect(query string) {
	matches := m.matches
	if len(matches) == 0 {
		matches = searchItems(m.chart.Visible(), query)
	}
	if len(matches) == 0 {
		m.status = fmt.Sprintf("no match for %q", query)
		return
	}
	it := matches[min(m.match, len(matches)-1)]
	m.ctrl.JumpToYear(float64(it.Start+it.End) / 2)
	m.redraw()
	if m.layout == nil {
		return
	}
	if p, ok := m.layout.Find(it.ID); ok {
		m.ctrl.PanBy(0, p.Y-m.ctrl.State().PanOffsetY-float64(m.canvasHeight())/2, m.maxOffset())
	}
	m.surface.Select(it.ID)
	m.redraw()
}

func (m Model) header() string {
	vp := m.ctrl.Viewport()
	var hidden []string
	f := m.chart.Filter()
	for _, k := range item.Kinds {
		if f.Hides(k) {
			hidden = append(hidden, k.String())
		}
	}
	text := fmt.Sprintf(" chronoline  %s – %s  %.3g yrs/col",
		chrono.FormatFractionalYear(vp.StartYear, m.era),
		chrono.FormatFractionalYear(vp.EndYear, m.era),
		vp.YearsPerPixel)
	if len(hidden) > 0 {
		text += "  hidden: " + strings.Join(hidden, ", ")
	}
	if r, ok := m.surface.Hovered(); ok {
		text += "  ▸ " + r.Item.Name
	}
	return headerStyle.Width(m.width).MaxWidth(m.width).Render(text)
}

func (m Model) footer() string {
	switch {
	case m.mode != modeBrowse:
		line := m.input.View()
		if m.mode == modeSearch && len(m.matches) > 0 {
			names := make([]string, len(m.matches))
			for i, it := range m.matches {
				names[i] = it.Name
				if i == m.match {
					names[i] = titleStyle.Render("[" + it.Name + "]")
				}
			}
			line += "  " + mutedStyle.Render(strings.Join(names, " · "))
		}
		return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
	case m.err != nil:
		return errorStyle.MaxWidth(m.width).Render(m.err.Error())
	case m.status != "":
		return mutedStyle.MaxWidth(m.width).Render(m.status)
	default:
		return m.help.View(m.keys)
	}
}

func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "loading…"
	}
	parts := []string{m.header(), m.canvas}
	if r, ok := m.surface.Selected(); ok {
		parts = append(parts, m.detail(r.Item))
	}
	parts = append(parts, m.footer())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
