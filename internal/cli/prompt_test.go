package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func press(t *testing.T, m promptModel, msg tea.Msg) (promptModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	pm, ok := next.(promptModel)
	if !ok {
		t.Fatalf("Update() returned %T, want promptModel", next)
	}
	return pm, cmd
}

func typeInput(t *testing.T, m promptModel, s string) promptModel {
	t.Helper()
	for _, r := range s {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestPromptSubmitNumber(t *testing.T) {
	m := typeInput(t, newPromptModel(1000), "250")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.count != 250 {
		t.Errorf("count = %d, want 250", m.count)
	}
	if m.quit {
		t.Error("quit = true, want false for numeric input")
	}
	if cmd == nil {
		t.Error("Update(enter) cmd = nil, want tea.Quit")
	}
}

func TestPromptFinish(t *testing.T) {
	m := typeInput(t, newPromptModel(1000), "n")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if !m.quit {
		t.Error("quit = false after n, want true")
	}
	if cmd == nil {
		t.Error("Update(enter) cmd = nil, want tea.Quit")
	}
}

func TestPromptRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"letters", "abc"},
		{"zero", "0"},
		{"negative", "-5"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := typeInput(t, newPromptModel(0), tt.input)
			m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

			if m.errMsg == "" {
				t.Error("errMsg empty, want a complaint")
			}
			if m.count != 0 {
				t.Errorf("count = %d, want 0", m.count)
			}
			if m.quit {
				t.Error("quit = true, want the prompt to repeat")
			}
			if cmd != nil {
				t.Error("cmd != nil, want the prompt to stay open")
			}
			if m.input != "" {
				t.Errorf("input = %q, want cleared buffer", m.input)
			}
		})
	}
}

func TestPromptBackspace(t *testing.T) {
	m := typeInput(t, newPromptModel(0), "123")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})

	if m.input != "12" {
		t.Errorf("input = %q, want %q", m.input, "12")
	}

	// Backspace on an empty buffer is a no-op.
	m.input = ""
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.input != "" {
		t.Errorf("input = %q, want empty", m.input)
	}
}

func TestPromptEscapeQuits(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m, cmd := press(t, newPromptModel(0), tea.KeyMsg{Type: key})
		if !m.quit {
			t.Errorf("quit = false after %v, want true", key)
		}
		if cmd == nil {
			t.Errorf("cmd = nil after %v, want tea.Quit", key)
		}
	}
}

func TestPromptView(t *testing.T) {
	m := newPromptModel(123456)
	m.errMsg = "not a number"

	view := m.View()
	if !strings.Contains(view, "Add more points?") {
		t.Errorf("View() missing title: %q", view)
	}
	if !strings.Contains(view, "123456") {
		t.Errorf("View() missing running total: %q", view)
	}
	if !strings.Contains(view, "not a number") {
		t.Errorf("View() missing error message: %q", view)
	}
}
