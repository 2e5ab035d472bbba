package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// progressModel - live "checked n/N" line for concurrent runs
// =============================================================================

type progressMsg struct{ done, total int }

type progressQuitMsg struct{}

type tickMsg time.Time

// progressModel is the bubbletea model behind progressView.
type progressModel struct {
	done     int
	total    int
	start    time.Time
	now      time.Time
	quitting bool
}

func newProgressModel(total int) progressModel {
	now := time.Now()
	return progressModel{total: total, start: now, now: now}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m progressModel) Init() tea.Cmd {
	return tick()
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.done, m.total = msg.done, msg.total
	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()
	case progressQuitMsg:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.quitting {
		return ""
	}
	elapsed := m.now.Sub(m.start).Truncate(100 * time.Millisecond)
	return styleIconSpinner.Render(iconInfo) + " " +
		fmt.Sprintf("checked %s/%d", StyleNumber.Render(fmt.Sprint(m.done)), m.total) +
		StyleDim.Render(fmt.Sprintf(" · %s", elapsed))
}

// =============================================================================
// progressView - runs the model on its own goroutine
// =============================================================================

// progressReporter is the live view a concurrent check reports into.
type progressReporter interface {
	Update(done, total int)
	Stop()
}

// progressView renders progress to a terminal while a run is in flight.
// Update may be called from any goroutine. Stop is idempotent and returns
// once the line has been cleared.
type progressView struct {
	p    *tea.Program
	done chan struct{}
	once sync.Once
}

func startProgressView(w io.Writer, total int) *progressView {
	v := &progressView{
		p: tea.NewProgram(newProgressModel(total),
			tea.WithOutput(w),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(),
		),
		done: make(chan struct{}),
	}
	go func() {
		defer close(v.done)
		_, _ = v.p.Run()
	}()
	return v
}

// Update reports done of total entries complete.
func (v *progressView) Update(done, total int) {
	v.p.Send(progressMsg{done: done, total: total})
}

// Stop tears the view down.
func (v *progressView) Stop() {
	v.once.Do(func() {
		v.p.Send(progressQuitMsg{})
		<-v.done
	})
}

var _ progressReporter = (*progressView)(nil)
