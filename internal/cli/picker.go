package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// selectModel is a cursor-driven list. Run it as its own program (onboard)
// or feed it key events from an enclosing model (the chat picker overlay).
type selectModel struct {
	title    string
	choices  []string
	cursor   int
	chosen   bool
	canceled bool
}

func newSelectModel(title string, choices []string) selectModel {
	return selectModel{title: title, choices: choices}
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.canceled = true
		m.chosen = true
		return m, tea.Quit
	case tea.KeyUp, tea.KeyShiftTab:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown, tea.KeyTab:
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case tea.KeyEnter:
		m.chosen = true
		return m, tea.Quit
	}
	return m, nil
}

func (m selectModel) View() string {
	if m.chosen {
		return ""
	}

	s := "\n  " + BoldStyle.Render(m.title) + "\n\n"
	for i, choice := range m.choices {
		cursor := "  "
		if i == m.cursor {
			cursor = BotLabel.Render("❯ ")
		}
		s += "  " + cursor + choice + "\n"
	}
	s += "\n" + DimStyle.Render("  ↑/↓ navigate · enter select · esc cancel") + "\n"
	return s
}

// runSelect shows the list and returns the chosen index, or -1 when the
// user backed out.
func runSelect(title string, choices []string) (int, error) {
	p := tea.NewProgram(newSelectModel(title, choices))
	final, err := p.Run()
	if err != nil {
		return -1, fmt.Errorf("run selector: %w", err)
	}
	fm := final.(selectModel)
	if fm.canceled {
		return -1, nil
	}
	return fm.cursor, nil
}
