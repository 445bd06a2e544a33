package session

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/go-go-golems/remotehand/pkg/action"
	"github.com/go-go-golems/remotehand/pkg/journal"
)

const (
	KeepaliveInterval = 20 * time.Second
	MaxConcurrency    = 100
)

var keepalivePayload = []byte("keepalive")

// Conn is the slice of a websocket connection the engine needs. The
// gorilla *websocket.Conn satisfies it; tests use an in-memory fake.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetPingHandler(h func(appData string) error)
	Close() error
}

type Options struct {
	Runner      action.Runner
	Journal     *journal.Journal
	MaxInFlight int64
	Keepalive   time.Duration
}

// Session is one established relay connection. It is single-use:
// ProcessMessages consumes it, and a dropped connection ends the run.
type Session struct {
	ID string

	conn Conn
	opts Options
}

// Dial connects to the relay and performs the session-id handshake.
func Dial(ctx context.Context, rawURL string, opts Options) (*Session, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse relay url")
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "connect to relay")
	}
	s, err := New(conn, opts)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already-open connection. The first inbound frame must be a
// text frame carrying the session id; anything else is fatal before any
// request is processed.
func New(conn Conn, opts Options) (*Session, error) {
	if opts.Runner == nil {
		opts.Runner = action.NewLocal()
	}
	if opts.MaxInFlight <= 0 {
		opts.MaxInFlight = MaxConcurrency
	}
	if opts.Keepalive <= 0 {
		opts.Keepalive = KeepaliveInterval
	}

	messageType, payload, err := conn.ReadMessage()
	if err != nil {
		return nil, ErrNoSessionID
	}
	if messageType != websocket.TextMessage {
		return nil, ErrNoSessionID
	}
	var hs handshake
	if err := json.Unmarshal(payload, &hs); err != nil {
		return nil, errors.Wrap(err, "parse session id")
	}
	if hs.SessionID == "" {
		return nil, ErrNoSessionID
	}

	return &Session{ID: hs.SessionID, conn: conn, opts: opts}, nil
}

// frame is one outbound websocket frame. Responses, pongs and keepalive
// pings all funnel through the same channel to keep a single writer.
type frame struct {
	messageType int
	data        []byte
}

// ProcessMessages runs the steady state: it consumes inbound frames,
// emits outbound frames and lifecycle notifications, and returns when the
// stream ends, the sink fails, or ctx is canceled. There is no restart.
func (s *Session) ProcessMessages(ctx context.Context, noConfirm bool, mailbox chan<- action.Notification) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	outbound := make(chan frame, 16)
	writeErr := make(chan error, 1)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case f := <-outbound:
				log.Info().Int("type", f.messageType).Str("payload", string(f.data)).Msg("sending message")
				if err := s.conn.WriteMessage(f.messageType, f.data); err != nil {
					writeErr <- err
					cancel()
					return
				}
			}
		}
	}()

	// Keepalives flow out independently of request traffic.
	go func() {
		ticker := time.NewTicker(s.opts.Keepalive)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				send(ctx, outbound, frame{websocket.PingMessage, keepalivePayload})
			}
		}
	}()

	// Echo pings through the outbound channel to preserve the single
	// writer.
	s.conn.SetPingHandler(func(appData string) error {
		send(ctx, outbound, frame{websocket.PongMessage, []byte(appData)})
		return nil
	})

	// Unblock the read loop when the context ends (operator quit).
	go func() {
		<-ctx.Done()
		_ = s.conn.Close()
	}()

	sem := semaphore.NewWeighted(s.opts.MaxInFlight)

	for {
		messageType, payload, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case werr := <-writeErr:
				return errors.Wrap(werr, "write to relay")
			default:
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return errors.Wrap(err, "read from relay")
		}

		switch messageType {
		case websocket.TextMessage:
			log.Info().Str("payload", string(payload)).Msg("received message")
			var req Request
			if err := json.Unmarshal(payload, &req); err != nil {
				log.Error().Err(err).Msg("error processing message")
				continue
			}
			// Admission happens in frame-read order; the read loop
			// stalls here when the cap is reached.
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			go func(req Request) {
				defer sem.Release(1)
				s.handleRequest(ctx, req, noConfirm, mailbox, outbound)
			}(req)
		default:
			// Pong and close frames never reach here; anything else is
			// unsupported but only poisons this one frame.
			log.Error().Err(ErrUnsupportedMessage).Int("type", messageType).Msg("error processing message")
		}
	}
}

func (s *Session) handleRequest(ctx context.Context, req Request, noConfirm bool, mailbox chan<- action.Notification, outbound chan<- frame) {
	id, admitted := s.confirm(ctx, req.Data, noConfirm, mailbox)

	var resp Response
	if !admitted {
		resp = Response{
			Data:      action.ErrorResult{Message: RefusalMessage},
			Error:     true,
			RequestID: req.RequestID,
		}
	} else {
		result, err := s.opts.Runner.Run(ctx, req.Data)

		// The view learns about completion before the response leaves.
		if !trySend(mailbox, action.StopAction{ID: id}) {
			log.Error().Str("id", id.String()).Msg("failed to send done event")
		}
		s.opts.Journal.ActionFinished(id, err != nil)

		if err != nil {
			resp = Response{
				Data:      action.ErrorResult{Message: err.Error()},
				Error:     true,
				RequestID: req.RequestID,
			}
		} else {
			resp = Response{Data: result, Error: false, RequestID: req.RequestID}
		}
	}

	b, err := json.Marshal(resp)
	if err != nil {
		log.Error().Err(err).Msg("error marshaling response")
		return
	}
	send(ctx, outbound, frame{websocket.TextMessage, b})
}

// confirm notifies the view of the action and, unless noConfirm is set,
// waits for the operator's decision. It returns the identifier issued for
// the action and whether execution may proceed.
func (s *Session) confirm(ctx context.Context, a action.Action, noConfirm bool, mailbox chan<- action.Notification) (uuid.UUID, bool) {
	id := uuid.New()

	if noConfirm {
		if !trySend(mailbox, action.AddAction{ID: id, Action: a}) {
			log.Error().Str("id", id.String()).Msg("error sending message")
			s.opts.Journal.ActionRefused(id)
			return uuid.Nil, false
		}
		s.opts.Journal.ActionAdmitted(id, a, false)
		return id, true
	}

	ack := make(chan bool, 1)
	if !trySend(mailbox, action.ConfirmAction{ID: id, Action: a, Ack: ack}) {
		log.Error().Str("id", id.String()).Msg("error sending message")
		s.opts.Journal.ActionRefused(id)
		return uuid.Nil, false
	}

	select {
	case confirmed, open := <-ack:
		if !open || !confirmed {
			s.opts.Journal.ActionRefused(id)
			return uuid.Nil, false
		}
		s.opts.Journal.ActionAdmitted(id, a, true)
		return id, true
	case <-ctx.Done():
		// The view ended while the decision was pending; treat as a
		// refusal rather than a hang.
		s.opts.Journal.ActionRefused(id)
		return uuid.Nil, false
	}
}

func trySend(mailbox chan<- action.Notification, n action.Notification) bool {
	select {
	case mailbox <- n:
		return true
	default:
		return false
	}
}

func send(ctx context.Context, outbound chan<- frame, f frame) {
	select {
	case outbound <- f:
	case <-ctx.Done():
	}
}
