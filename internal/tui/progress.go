package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"node-killer/internal/deleter"
	"node-killer/pkg/utils"
)

const barWidth = 50

// DeleteFunc performs one delete attempt.
type DeleteFunc func(path string) deleter.Result

type itemDoneMsg struct{ res deleter.Result }

type progressModel struct {
	paths []string
	del   DeleteFunc

	sp  spinner.Model
	bar progress.Model

	pos      int
	sum      deleter.Summary
	msg      string
	finished bool
}

func newProgressModel(paths []string, del DeleteFunc) progressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = spinnerStyle
	bar := progress.New(
		progress.WithSolidFill("11"),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	return progressModel{paths: paths, del: del, sp: sp, bar: bar}
}

// RunDeletion deletes paths one by one while drawing a progress bar, and
// returns the accumulated summary. Keyboard input is not read; an interrupt
// ends the run early with whatever was processed so far.
func RunDeletion(paths []string, del DeleteFunc, out io.Writer) (deleter.Summary, error) {
	m := newProgressModel(paths, del)
	if len(paths) == 0 {
		return m.sum, nil
	}
	popts := []tea.ProgramOption{tea.WithInput(nil)}
	if out != nil {
		popts = append(popts, tea.WithOutput(out))
	}
	final, err := tea.NewProgram(m, popts...).Run()
	if fm, ok := final.(progressModel); ok {
		return fm.sum, err
	}
	return m.sum, err
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(m.sp.Tick, m.next())
}

// next schedules the delete for the current position. Only one is ever in
// flight.
func (m progressModel) next() tea.Cmd {
	if m.pos >= len(m.paths) {
		return nil
	}
	path, del := m.paths[m.pos], m.del
	return func() tea.Msg {
		return itemDoneMsg{res: del(path)}
	}
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case itemDoneMsg:
		m.sum.Add(msg.res)
		if msg.res.Err != nil {
			m.msg = "Could not delete " + BadStyle.Render(msg.res.Path)
		} else {
			m.msg = "Saved " + GoodStyle.Render(utils.HumanizeBytes(m.sum.Freed))
		}
		m.pos++
		if m.pos >= len(m.paths) {
			m.finished = true
			m.msg = fmt.Sprintf("Deleted %d folders!", len(m.paths))
			return m, tea.Quit
		}
		return m, m.next()
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.sp, cmd = m.sp.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) percent() float64 {
	if len(m.paths) == 0 {
		return 1
	}
	return float64(m.pos) / float64(len(m.paths))
}

func (m progressModel) View() string {
	return fmt.Sprintf("%s [%s] %7d/%-7d %s\n", m.sp.View(), m.bar.ViewAs(m.percent()), m.pos, len(m.paths), m.msg)
}
