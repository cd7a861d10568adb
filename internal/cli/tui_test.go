package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/seqdraw/pkg/dsl"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func step(t *testing.T, m StepModel, keys ...string) StepModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(StepModel)
	}
	return m
}

func TestStepModelNavigation(t *testing.T) {
	d := dsl.Parse("A->>B: one\nB-->>A: two\nA->>A: three")
	m := NewStepModel(d, 1)

	m = step(t, m, "right", "right", "right")
	if m.Cursor != 2 {
		t.Errorf("cursor after three rights = %d, want 2 (clamped)", m.Cursor)
	}
	m = step(t, m, "left", "h")
	if m.Cursor != 0 {
		t.Errorf("cursor after left, h = %d, want 0", m.Cursor)
	}
	m = step(t, m, "end")
	if cur, _ := m.Current(); cur.Text != "three" {
		t.Errorf("current after end = %q, want three", cur.Text)
	}
}

func TestStepModelStartsOnIndex(t *testing.T) {
	d := dsl.Parse("A->>B: one\nB-->>A: 7. two")
	if got := NewStepModel(d, 2).Cursor; got != 1 {
		t.Errorf("NewStepModel(d, 2).Cursor = %d, want 1", got)
	}
	if got := NewStepModel(d, 9).Cursor; got != 0 {
		t.Errorf("out of range index cursor = %d, want 0", got)
	}
}

func TestStepModelQuit(t *testing.T) {
	m := NewStepModel(dsl.Parse("A->>B: x"), 1)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestStepModelView(t *testing.T) {
	d := dsl.Parse("title: Login\nC->>API: 1. credentials\nAPI-->>C: 2. token")
	view := step(t, NewStepModel(d, 1), "right").View()

	for _, want := range []string{"Login", "credentials", "token", "-->>", "[2/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestStepModelEmptyDiagram(t *testing.T) {
	m := NewStepModel(dsl.Parse(""), 1)
	m = step(t, m, "right", "end")
	if _, ok := m.Current(); ok {
		t.Error("empty diagram has no current message")
	}
	if !strings.Contains(m.View(), "no messages") {
		t.Error("empty view should say so")
	}
}

func TestInspectPlain(t *testing.T) {
	path := writeFile(t, t.TempDir(), "login.seq", loginSource)

	out, err := execute(t, "inspect", path, "--plain", "--step", "2")
	if err != nil {
		t.Fatalf("inspect error: %v", err)
	}
	for _, want := range []string{"Login", "Client", "token", "[2/2]"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect --plain missing %q:\n%s", want, out)
		}
	}
}
