package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Prompt styles
var (
	promptInputStyle = lipgloss.NewStyle().Foreground(colorWhite)
	promptDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// promptModel - "Add more points?" loop
// =============================================================================

// promptModel is the bubbletea model behind the interactive run loop.
// Numeric input requests that many more points, n finishes the run, and
// anything else shows what went wrong and asks again.
type promptModel struct {
	total  int
	input  string
	errMsg string
	count  int
	quit   bool
}

func newPromptModel(total int) promptModel {
	return promptModel{total: total}
}

func (m promptModel) Init() tea.Cmd {
	return nil
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quit = true
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "backspace":
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
		default:
			if msg.Type == tea.KeyRunes {
				m.input += string(msg.Runes)
			}
		}
	}
	return m, nil
}

// submit parses the buffered input. Invalid input is never coerced: the
// message is shown and the prompt repeats with the buffer cleared.
func (m promptModel) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input)
	m.input = ""

	if input == "n" {
		m.quit = true
		return m, tea.Quit
	}
	if input == "" {
		m.errMsg = "enter a number of points, or n to finish"
		return m, nil
	}

	count, err := strconv.Atoi(input)
	if err != nil {
		m.errMsg = fmt.Sprintf("%q is not a number", input)
		return m, nil
	}
	if count <= 0 {
		m.errMsg = fmt.Sprintf("need a positive number, got %d", count)
		return m, nil
	}

	m.errMsg = ""
	m.count = count
	return m, tea.Quit
}

func (m promptModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Add more points?"))
	b.WriteString(promptDimStyle.Render(fmt.Sprintf("  %d so far", m.total)))
	b.WriteString("\n")
	b.WriteString(promptDimStyle.Render("number extends the stream  ⏎ submit  n finish"))
	b.WriteString("\n\n")

	b.WriteString(StyleHighlight.Render("▸ "))
	b.WriteString(promptInputStyle.Render(m.input))
	b.WriteString(promptDimStyle.Render("_"))
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(StyleWarning.Render(iconWarning + " " + m.errMsg))
		b.WriteString("\n")
	}

	return b.String()
}

// promptForCount runs the prompt and reports how many more points to
// generate. The prompt draws on stderr: stdout may be carrying the data
// stream.
func promptForCount(total int) (count int, quit bool, err error) {
	p := tea.NewProgram(newPromptModel(total), tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return 0, true, fmt.Errorf("prompt: %w", err)
	}

	final := finalModel.(promptModel)
	if final.quit {
		return 0, true, nil
	}
	return final.count, false, nil
}
