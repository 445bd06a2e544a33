package session

import "github.com/pkg/errors"

var (
	// ErrNoSessionID means the relay closed or sent something other than
	// a session id as its first frame.
	ErrNoSessionID = errors.New("failed to obtain a session id")

	// ErrUnsupportedMessage flags a frame kind the protocol does not
	// carry. It is a per-frame error, never fatal to the session.
	ErrUnsupportedMessage = errors.New("unsupported message type")
)

// RefusalMessage is the result payload for actions the operator turned
// down. It must stay distinguishable from execution error messages.
const RefusalMessage = "the operator refused to run the action"
