package action

import "github.com/google/uuid"

// Notification is a lifecycle message sent from the session engine to the
// view through the mailbox. For any given ID, exactly one ConfirmAction or
// AddAction is sent, and StopAction always comes after it.
type Notification interface {
	isNotification()
}

// ConfirmAction asks the operator to approve an action before it runs.
// Ack receives exactly one boolean; closing it without a value counts as
// a refusal.
type ConfirmAction struct {
	ID     uuid.UUID
	Action Action
	Ack    chan<- bool
}

// AddAction announces an action already running (no-confirm mode).
type AddAction struct {
	ID     uuid.UUID
	Action Action
}

// StopAction announces that the action identified by ID has finished.
// The row may already have been evicted; that is fine.
type StopAction struct {
	ID uuid.UUID
}

// NewSession carries the session identifier banner.
type NewSession struct {
	SessionID string
}

func (ConfirmAction) isNotification() {}
func (AddAction) isNotification()    {}
func (StopAction) isNotification()   {}
func (NewSession) isNotification()   {}
