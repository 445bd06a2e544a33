package tui

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/go-go-golems/remotehand/pkg/action"
	"github.com/go-go-golems/remotehand/pkg/tui/styles"
)

// row is one line of the viewport: either a tracked action or a plain
// informational line.
type row interface {
	isRow()
}

type actionRow struct {
	id uuid.UUID
	sa action.Stateful
}

type infoRow struct {
	text string
}

func (actionRow) isRow() {}
func (infoRow) isRow()   {}

// renderRow paints one row as a single line. spinnerFrame is the glyph
// currently shown for running rows.
func renderRow(r row, spinnerFrame string) string {
	theme := styles.DefaultStyles

	switch v := r.(type) {
	case infoRow:
		return theme.Banner.Render(v.text)
	case actionRow:
		return renderStateful(v.sa, spinnerFrame)
	default:
		return ""
	}
}

func renderStateful(sa action.Stateful, spinnerFrame string) string {
	theme := styles.DefaultStyles

	var state string
	switch sa.State {
	case action.StateRunning:
		// spinnerFrame arrives already styled.
		state = spinnerFrame
	case action.StateFinished:
		state = theme.Finished.Render(styles.IconFinished)
	case action.StateCanceled:
		state = theme.Canceled.Render(styles.IconCanceled)
	default:
		state = theme.Pending.Render(styles.IconPending)
	}

	var kind, content string
	switch a := sa.Action.(type) {
	case action.Command:
		kind = styles.IconCommand
		content = a.Command
	case action.Read:
		kind = styles.IconRead
		content = a.Path
	case action.Write:
		kind = styles.IconWrite
		content = fmt.Sprintf("%s %s", a.Path, a.Content)
	}

	if sa.State != action.StatePending {
		content = theme.Content.Render(content)
	}

	return state + theme.Separator.Render(styles.Separator) + theme.Kind.Render(kind) + " " + content
}
