package tui

import (
	"strings"
	"testing"

	"chronoline/internal/config"
	"chronoline/internal/item"
	"chronoline/internal/render"

	tea "github.com/charmbracelet/bubbletea"
)

func testSnapshot(t *testing.T) item.Snapshot {
	t.Helper()
	snap, diag := item.Ingest(item.Dataset{
		People: []item.Record{
			{ID: "caesar", Name: "Caesar", StartDate: "-0100", EndDate: "-0044",
				Connections: []string{"pompey"}, PeriodID: "republic",
				Description: "**Dictator** of Rome."},
			{ID: "pompey", Name: "Pompey", StartDate: "-0106", EndDate: "-0048"},
		},
		Points: []item.Record{
			{ID: "rubicon", Name: "Rubicon", StartDate: "-0049-01-10"},
		},
		Periods: []item.Record{
			{ID: "republic", Name: "Roman Republic", StartDate: "-0509", EndDate: "-0027"},
		},
	})
	if err := diag.Err(); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	return snap
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(testSnapshot(t), config.DefaultConfig(), item.Categories{}, nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return next.(Model)
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func regionOf(t *testing.T, m Model, id string) render.Region {
	t.Helper()
	for _, r := range m.surface.HitMap().Regions() {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("region %q not drawn", id)
	return render.Region{}
}

func clickAt(t *testing.T, m Model, r render.Region) Model {
	t.Helper()
	c := r.Box.Center()
	x, y := int(c.X), int(c.Y)+headerRows
	return send(t, m,
		tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress},
		tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease},
	)
}

func TestViewDrawsItems(t *testing.T) {
	m := newTestModel(t)
	plain := m.grid.Plain()
	for _, name := range []string{"Pompey", "Roman Republic", "Rubicon"} {
		if !strings.Contains(plain, name) {
			t.Errorf("expected %q on the canvas:\n%s", name, plain)
		}
	}
	if w, _ := m.grid.Size(); w != 120 {
		t.Errorf("expected grid width 120, got %d", w)
	}
	if !strings.Contains(m.View(), "chronoline") {
		t.Error("expected header in view")
	}
}

func TestWheelZoomKeepsYearUnderPointer(t *testing.T) {
	m := newTestModel(t)
	before := m.ctrl.Transform()
	m = send(t, m, tea.MouseMsg{X: 40, Y: 5, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	after := m.ctrl.Transform()

	if after.YearsPerPixel >= before.YearsPerPixel {
		t.Fatalf("wheel up should zoom in: %v -> %v", before.YearsPerPixel, after.YearsPerPixel)
	}
	if d := before.PixelToYear(40) - after.PixelToYear(40); d > 1e-9 || d < -1e-9 {
		t.Errorf("year under pointer moved by %v", d)
	}
}

func TestDragPansWithoutSelecting(t *testing.T) {
	m := newTestModel(t)
	st := m.ctrl.State()
	m = send(t, m,
		tea.MouseMsg{X: 50, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress},
		tea.MouseMsg{X: 60, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion},
		tea.MouseMsg{X: 60, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease},
	)
	want := st.StartYear - 10*st.YearsPerPixel
	if got := m.ctrl.State().StartYear; got-want > 1e-9 || want-got > 1e-9 {
		t.Errorf("start year after drag: got %v, want %v", got, want)
	}
	if m.ctrl.Panning() {
		t.Error("release should end the pan")
	}
	if _, ok := m.surface.Selected(); ok {
		t.Error("a drag is not a click")
	}
}

func TestClickOpensDetailsAndEscCloses(t *testing.T) {
	m := newTestModel(t)
	full := m.canvasHeight()

	m = clickAt(t, m, regionOf(t, m, "caesar"))
	sel, ok := m.surface.Selected()
	if !ok || sel.ID != "caesar" {
		t.Fatalf("expected caesar selected, got %+v (ok=%v)", sel, ok)
	}
	if m.canvasHeight() != full-detailRows {
		t.Errorf("detail panel should take %d rows from the canvas", detailRows)
	}
	view := m.View()
	for _, want := range []string{"connections: Pompey", "period: Roman Republic", "Dictator"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail panel missing %q", want)
		}
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := m.surface.Selected(); ok {
		t.Error("esc should dismiss the details")
	}
	if m.canvasHeight() != full {
		t.Error("canvas should regain the detail rows")
	}
}

func TestHoverShowsInHeader(t *testing.T) {
	m := newTestModel(t)
	c := regionOf(t, m, "pompey").Box.Center()
	m = send(t, m, tea.MouseMsg{X: int(c.X), Y: int(c.Y) + headerRows, Button: tea.MouseButtonNone, Action: tea.MouseActionMotion})
	if !strings.Contains(m.header(), "Pompey") {
		t.Errorf("header should name the hovered item: %q", m.header())
	}
}

func TestToggleHidesKind(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, runes("1"))
	if strings.Contains(m.grid.Plain(), "Pompey") {
		t.Error("people should be hidden")
	}
	if !strings.Contains(m.header(), "hidden: person") {
		t.Errorf("header should list hidden kinds: %q", m.header())
	}
	m = send(t, m, runes("1"))
	if !strings.Contains(m.grid.Plain(), "Pompey") {
		t.Error("people should be visible again")
	}
}

func TestKeyboardPanAndReset(t *testing.T) {
	m := newTestModel(t)
	initial := m.ctrl.State()

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	want := initial.StartYear + panStep*initial.YearsPerPixel
	if got := m.ctrl.State().StartYear; got-want > 1e-9 || want-got > 1e-9 {
		t.Errorf("right arrow: got start %v, want %v", got, want)
	}

	m = send(t, m, runes("+"), runes("r"))
	if m.ctrl.State() != initial {
		t.Errorf("reset should restore the initial view: %+v vs %+v", m.ctrl.State(), initial)
	}
}

func TestJumpToYear(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, runes("g"))
	if m.mode != modeJump {
		t.Fatal("g should open the year prompt")
	}
	m = send(t, m, runes("300 BC"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeBrowse {
		t.Error("enter should close the prompt")
	}
	vp := m.ctrl.Viewport()
	if mid := (vp.StartYear + vp.EndYear) / 2; mid < -300 || mid > -298 {
		t.Errorf("expected the view centred near -299, got %v", mid)
	}

	m = send(t, m, runes("g"), runes("soon"), tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.footer(), "invalid year") {
		t.Errorf("expected an error in the footer, got %q", m.footer())
	}
}

func TestSearchSelectsMatch(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, runes("/"), runes("pomp"))
	if len(m.matches) == 0 || m.matches[0].ID != "pompey" {
		t.Fatalf("expected pompey as the first match, got %+v", m.matches)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	sel, ok := m.surface.Selected()
	if !ok || sel.ID != "pompey" {
		t.Errorf("expected pompey selected, got %+v", sel)
	}

	m = send(t, m, runes("/"), runes("zzzz"), tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.status, "no match") {
		t.Errorf("expected no-match status, got %q", m.status)
	}
}

func TestInputEscCancels(t *testing.T) {
	m := newTestModel(t)
	before := m.ctrl.State()
	m = send(t, m, runes("g"), runes("1000"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeBrowse || m.ctrl.State() != before {
		t.Error("esc should cancel the prompt without moving the view")
	}
}

func TestSearchItems(t *testing.T) {
	snap := testSnapshot(t)
	if got := searchItems(snap, ""); got != nil {
		t.Errorf("empty query should match nothing, got %v", got)
	}
	got := searchItems(snap, "rbcn")
	if len(got) == 0 || got[0].ID != "rubicon" {
		t.Errorf("expected rubicon first, got %+v", got)
	}
}

func TestRenderMarkdown(t *testing.T) {
	if renderMarkdown("   ", 40) != "" {
		t.Error("blank descriptions render as nothing")
	}
	if out := renderMarkdown("**Dictator** of Rome.", 40); !strings.Contains(out, "Dictator") {
		t.Errorf("rendered markdown lost its text: %q", out)
	}
}

func TestWheelZoomOutStaysInYearBounds(t *testing.T) {
	m := newTestModel(t)
	cfg := config.DefaultConfig()
	for i := 0; i < 100; i++ {
		m = send(t, m, tea.MouseMsg{X: 60, Y: 5, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	}
	vp := m.ctrl.Viewport()
	if vp.StartYear < cfg.Viewport.MinYear || vp.EndYear > cfg.Viewport.MaxYear+1e-6 {
		t.Errorf("window [%g, %g] leaves [%g, %g]", vp.StartYear, vp.EndYear, cfg.Viewport.MinYear, cfg.Viewport.MaxYear)
	}
}
