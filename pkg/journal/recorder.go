package journal

import (
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/pkg/errors"
)

// Recorder appends one JSON line per event to a transcript writer.
// It validates that the payload is a well-formed envelope before writing
// so a corrupt publisher cannot corrupt the transcript.
type Recorder struct {
	mu sync.Mutex
	w  io.Writer
	c  io.Closer
}

func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

// OpenRecorder appends to the transcript file at path, creating it if
// needed.
func OpenRecorder(path string) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open transcript")
	}
	return &Recorder{w: f, c: f}, nil
}

// Register attaches the recorder to the bus.
func (r *Recorder) Register(bus *Bus) {
	bus.Subscribe("remotehand-transcript", func(msg *message.Message) error {
		defer msg.Ack()

		var env Envelope
		if err := json.Unmarshal(msg.Payload, &env); err != nil {
			// Not an envelope; skip rather than poison the transcript.
			return nil
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		if _, err := r.w.Write(append(msg.Payload, '\n')); err != nil {
			return errors.Wrap(err, "write transcript line")
		}
		return nil
	})
}

func (r *Recorder) Close() error {
	if r.c == nil {
		return nil
	}
	return r.c.Close()
}
