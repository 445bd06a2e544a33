package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/go-go-golems/remotehand/pkg/action"
	"github.com/go-go-golems/remotehand/pkg/tui/styles"
)

// NotificationMsg wraps a lifecycle notification from the session engine
// for delivery into the bubbletea program.
type NotificationMsg struct {
	Notification action.Notification
}

// pendingConfirm is an action waiting for the operator's decision. Only
// the front of the queue is shown and answerable.
type pendingConfirm struct {
	id  uuid.UUID
	a   action.Action
	ack chan<- bool
}

// Model renders the live action list inline at the bottom of the
// terminal, evicting completed rows into scroll history as the list
// outgrows the viewport.
type Model struct {
	rows    []row
	pending []pendingConfirm

	geom   Geometry
	bounds Bounds

	spin     spinner.Model
	quitting bool
	fatal    error
}

func NewModel() Model {
	sp := spinner.New()
	sp.Spinner = spinner.Spinner{Frames: styles.SpinnerFrames, FPS: time.Second / 10}
	sp.Style = styles.DefaultStyles.Running
	return Model{
		spin:   sp,
		bounds: Bounds{Width: 80, Height: 24},
	}
}

// Err reports the fatal rendering error that ended the view, if any.
func (m Model) Err() error { return m.fatal }

func (m Model) Init() tea.Cmd { return m.spin.Tick }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.bounds = Bounds{Width: v.Width, Height: v.Height}
		return m.reconcile()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(v)
		return m, cmd
	case tea.KeyMsg:
		switch v.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "y":
			return m.resolveFront(true)
		case "n":
			return m.resolveFront(false)
		}
		return m, nil
	case NotificationMsg:
		return m.apply(v.Notification)
	}
	return m, nil
}

// resolveFront answers the oldest pending confirmation and moves it into
// the row list as Running or Canceled.
func (m Model) resolveFront(confirmed bool) (tea.Model, tea.Cmd) {
	if len(m.pending) == 0 {
		return m, nil
	}
	front := m.pending[0]
	m.pending = m.pending[1:]

	st := action.StateRunning
	if !confirmed {
		st = action.StateCanceled
	}
	m.rows = append(m.rows, actionRow{id: front.id, sa: action.Stateful{Action: front.a, State: st}})

	// The ack channel holds one value; if the engine already gave up
	// (context ended) nobody reads it, so never block here.
	select {
	case front.ack <- confirmed:
	default:
	}

	return m.reconcile()
}

func (m Model) apply(n action.Notification) (tea.Model, tea.Cmd) {
	switch v := n.(type) {
	case action.ConfirmAction:
		m.pending = append(m.pending, pendingConfirm{id: v.ID, a: v.Action, ack: v.Ack})
	case action.AddAction:
		m.rows = append(m.rows, actionRow{id: v.ID, sa: action.Stateful{Action: v.Action, State: action.StateRunning}})
	case action.StopAction:
		// The row may already be gone from the visible set; that is a
		// no-op, evicted rows can no longer change.
		for i, r := range m.rows {
			ar, ok := r.(actionRow)
			if !ok || ar.id != v.ID {
				continue
			}
			if !ar.sa.State.Terminal() {
				ar.sa.State = action.StateFinished
				m.rows[i] = ar
			}
			break
		}
	case action.NewSession:
		m.rows = append(m.rows, infoRow{text: "Session id: " + v.SessionID})
	}
	return m.reconcile()
}

func (m Model) margin() int {
	if len(m.pending) > 0 {
		return 2
	}
	return 0
}

// reconcile re-fits the viewport after every event and pushes rows that
// no longer fit into terminal scroll history.
func (m Model) reconcile() (tea.Model, tea.Cmd) {
	geom, evict, err := Reconcile(m.geom, m.bounds, len(m.rows), m.margin())
	if err != nil {
		m.fatal = err
		m.quitting = true
		return m, tea.Quit
	}
	m.geom = geom

	var cmds []tea.Cmd
	frame := m.spinnerFrame()
	for i := 0; i < evict && len(m.rows) > 0; i++ {
		r := m.rows[0]
		m.rows = m.rows[1:]
		cmds = append(cmds, tea.Println(renderRow(r, frame)))
	}
	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Sequence(cmds...)
}

func (m Model) spinnerFrame() string {
	if m.quitting {
		return styles.DefaultStyles.Running.Render(styles.IconFinished)
	}
	return m.spin.View()
}

func (m Model) View() string {
	var b strings.Builder
	frame := m.spinnerFrame()

	for _, r := range m.rows {
		b.WriteString(renderRow(r, frame))
		b.WriteString("\n")
	}

	if len(m.pending) > 0 {
		front := m.pending[0]
		b.WriteString(renderStateful(action.Stateful{Action: front.a, State: action.StatePending}, frame))
		b.WriteString("\n")
		b.WriteString(styles.DefaultStyles.Prompt.Render("Are you sure you want to do this? [y/n]"))
		b.WriteString("\n")
	}

	return b.String()
}
