package spinner

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ignitionstack/fnctl/internal/ui"
)

// SpinnerModel shows a spinner with a step message until a result or an
// error arrives
type SpinnerModel struct {
	spinner   spinner.Model
	step      string
	err       error
	done      bool
	hasResult bool
	result    interface{}
}

func NewSpinnerModel() SpinnerModel {
	return NewSpinnerModelWithMessage("Starting...")
}

func NewSpinnerModelWithMessage(message string) SpinnerModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ui.InfoColor))
	return SpinnerModel{
		spinner: s,
		step:    message,
	}
}

func (m SpinnerModel) HasError() bool {
	return m.err != nil
}

func (m SpinnerModel) HasResult() bool {
	return m.hasResult
}

func (m SpinnerModel) GetResult() interface{} {
	return m.result
}

func (m SpinnerModel) GetError() error {
	return m.err
}

func (m SpinnerModel) Done() bool {
	return m.done
}

func (m SpinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

type ResultMsg struct {
	Result interface{}
}

type ErrorMsg struct {
	Err error
}

func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.err = ErrInterrupted
			m.done = true
			return m, tea.Quit
		}
	case ErrorMsg:
		return m.fail(msg.Err)
	case error:
		return m.fail(msg)
	case ResultMsg:
		m.result = msg.Result
		m.hasResult = true
		m.done = true
		return m, tea.Quit
	case string:
		m.step = msg
		return m, nil
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m SpinnerModel) fail(err error) (tea.Model, tea.Cmd) {
	m.err = err
	m.done = true
	return m, tea.Sequence(
		tea.Printf("%s", ui.ErrorStyle.Render(fmt.Sprintf("█ Error: %s", strings.TrimSpace(err.Error())))),
		tea.Quit,
	)
}

func (m SpinnerModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.step)
}
