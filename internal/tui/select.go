package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrAborted is returned by Select when the user cancels the prompt.
var ErrAborted = errors.New("prompt aborted")

const (
	DefaultQuestion = "Select which all node_modules you want to delete:"
	SelectInvalid   = "Select at least one!"
	defaultPageSize = 7
)

// Validator decides whether a selection may be confirmed. A non-nil error is
// shown inline and keeps the prompt open.
type Validator func(selected []string) error

// AtLeastOne rejects an empty selection.
func AtLeastOne(selected []string) error {
	if len(selected) < 1 {
		return errors.New(SelectInvalid)
	}
	return nil
}

// SelectedMessage formats the answer shown once a selection is confirmed.
func SelectedMessage(selected []string) string {
	return fmt.Sprintf("%d folder(s) selected to be deleted.", len(selected))
}

type SelectOptions struct {
	Question  string
	PageSize  int
	Validate  Validator
	Formatter func(selected []string) string
	Input     io.Reader
	Output    io.Writer
}

type selectKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	All    key.Binding
	None   key.Binding
	Submit key.Binding
	Abort  key.Binding
}

var selectKeys = selectKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
	Toggle: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "select one")),
	All:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "all")),
	None:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "none")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Abort:  key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
}

type selectModel struct {
	question string
	options  []string
	checked  []bool
	cursor   int
	offset   int
	pageSize int

	validate Validator
	format   func([]string) string
	errMsg   string

	done    bool
	aborted bool
}

func newSelectModel(options []string, opts SelectOptions) selectModel {
	m := selectModel{
		question: opts.Question,
		options:  options,
		checked:  make([]bool, len(options)),
		pageSize: opts.PageSize,
		validate: opts.Validate,
		format:   opts.Formatter,
	}
	if m.question == "" {
		m.question = DefaultQuestion
	}
	if m.pageSize <= 0 {
		m.pageSize = defaultPageSize
	}
	if m.validate == nil {
		m.validate = AtLeastOne
	}
	if m.format == nil {
		m.format = SelectedMessage
	}
	return m
}

// Select shows options as a multi-select list and blocks until the user
// confirms a valid selection or cancels. The selection keeps list order.
func Select(options []string, opts SelectOptions) ([]string, error) {
	var popts []tea.ProgramOption
	if opts.Input != nil {
		popts = append(popts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		popts = append(popts, tea.WithOutput(opts.Output))
	}
	final, err := tea.NewProgram(newSelectModel(options, opts), popts...).Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(selectModel)
	if !ok || m.aborted || !m.done {
		return nil, ErrAborted
	}
	return m.selected(), nil
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, selectKeys.Abort):
		m.aborted = true
		return m, tea.Quit
	case key.Matches(km, selectKeys.Submit):
		if err := m.validate(m.selected()); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.done = true
		return m, tea.Quit
	case len(m.options) == 0:
		return m, nil
	case key.Matches(km, selectKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		} else {
			m.cursor = len(m.options) - 1
		}
	case key.Matches(km, selectKeys.Down):
		if m.cursor < len(m.options)-1 {
			m.cursor++
		} else {
			m.cursor = 0
		}
	case key.Matches(km, selectKeys.Toggle):
		if m.cursor >= 0 && m.cursor < len(m.checked) {
			m.checked[m.cursor] = !m.checked[m.cursor]
		}
	case key.Matches(km, selectKeys.All):
		m.setAll(true)
	case key.Matches(km, selectKeys.None):
		m.setAll(false)
	default:
		return m, nil
	}
	m.errMsg = ""
	m.adjustScroll()
	return m, nil
}

func (m selectModel) View() string {
	var b strings.Builder
	b.WriteString(promptStyle.Render("?") + " " + questionStyle.Render(m.question))
	if m.done {
		b.WriteString(" " + answerStyle.Render(m.format(m.selected())) + "\n")
		return b.String()
	}
	if m.aborted {
		b.WriteString(" " + errorStyle.Render("<canceled>") + "\n")
		return b.String()
	}
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render("# "+m.errMsg) + "\n")
	}

	width := len(fmt.Sprint(len(m.options)))
	end := m.offset + m.pageSize
	if end > len(m.options) {
		end = len(m.options)
	}
	for i := m.offset; i < end; i++ {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render(">") + " "
		}
		mark := markStyle.Render("[ ]")
		if m.checked[i] {
			mark = markSelectedStyle.Render("[x]")
		}
		idx := indexStyle.Render(fmt.Sprintf("%0*d)", width, i+1))
		b.WriteString(prefix + idx + " " + mark + " " + m.options[i] + "\n")
	}
	b.WriteString(helpStyle.Render("[↑↓ to move, space to select one, → to all, ← to none, enter to confirm, esc to cancel]") + "\n")
	return b.String()
}

func (m *selectModel) setAll(v bool) {
	for i := range m.checked {
		m.checked[i] = v
	}
}

func (m *selectModel) adjustScroll() {
	if m.cursor >= m.offset+m.pageSize {
		m.offset = m.cursor - m.pageSize + 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
}

func (m selectModel) selected() []string {
	var out []string
	for i, ok := range m.checked {
		if ok {
			out = append(out, m.options[i])
		}
	}
	return out
}
