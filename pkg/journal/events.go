package journal

import (
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/remotehand/pkg/action"
)

const (
	TypeSessionStarted = "session.started"
	TypeActionAdmitted = "action.admitted"
	TypeActionRefused  = "action.refused"
	TypeActionFinished = "action.finished"
)

// Envelope wraps every journal event with its type, so the transcript
// stays self-describing.
type Envelope struct {
	Type    string          `json:"type"`
	At      time.Time       `json:"at"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type SessionStarted struct {
	SessionID string `json:"session_id"`
}

type ActionAdmitted struct {
	ID        uuid.UUID       `json:"id"`
	Action    json.RawMessage `json:"action"`
	Confirmed bool            `json:"confirmed"`
}

type ActionRefused struct {
	ID uuid.UUID `json:"id"`
}

type ActionFinished struct {
	ID    uuid.UUID `json:"id"`
	Error bool      `json:"error"`
}

// Journal publishes lifecycle events onto the bus. A nil Journal is a
// valid no-op publisher, so callers never have to branch.
type Journal struct {
	pub message.Publisher
}

func New(pub message.Publisher) *Journal {
	return &Journal{pub: pub}
}

func (j *Journal) SessionStarted(sessionID string) {
	j.publish(TypeSessionStarted, SessionStarted{SessionID: sessionID})
}

func (j *Journal) ActionAdmitted(id uuid.UUID, a action.Action, confirmed bool) {
	raw, err := action.Encode(a)
	if err != nil {
		log.Error().Err(err).Msg("journal: encode action")
		return
	}
	j.publish(TypeActionAdmitted, ActionAdmitted{ID: id, Action: raw, Confirmed: confirmed})
}

func (j *Journal) ActionRefused(id uuid.UUID) {
	j.publish(TypeActionRefused, ActionRefused{ID: id})
}

func (j *Journal) ActionFinished(id uuid.UUID, failed bool) {
	j.publish(TypeActionFinished, ActionFinished{ID: id, Error: failed})
}

func (j *Journal) publish(typ string, payload any) {
	if j == nil || j.pub == nil {
		return
	}
	b, err := marshalEnvelope(typ, payload)
	if err != nil {
		log.Error().Err(err).Str("type", typ).Msg("journal: marshal event")
		return
	}
	if err := j.pub.Publish(Topic, message.NewMessage(watermill.NewUUID(), b)); err != nil {
		log.Error().Err(err).Str("type", typ).Msg("journal: publish event")
	}
}

func marshalEnvelope(typ string, payload any) ([]byte, error) {
	if typ == "" {
		return nil, errors.New("empty event type")
	}
	p, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal event payload")
	}
	b, err := json.Marshal(Envelope{Type: typ, At: time.Now(), Payload: p})
	if err != nil {
		return nil, errors.Wrap(err, "marshal event envelope")
	}
	return b, nil
}
