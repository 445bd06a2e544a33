package styles

// State glyphs
const (
	IconFinished = "✔"
	IconCanceled = "✖"
	IconPending  = "?"
)

// Action kind glyphs
const (
	IconCommand = "> "
	IconRead    = "¶ "
	IconWrite   = "🖉 "
)

const Separator = " │ "

// SpinnerFrames animates rows that are still running.
var SpinnerFrames = []string{"⠇", "⠋", "⠙", "⠸", "⠴", "⠦"}
