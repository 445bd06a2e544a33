package session

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/go-go-golems/remotehand/pkg/action"
)

// handshake is the first frame the relay sends on a fresh connection.
type handshake struct {
	SessionID string `json:"session_id"`
}

// Request is an inbound action request. The request id is chosen by the
// remote peer and echoed verbatim in the response.
type Request struct {
	Data      action.Action
	RequestID string
}

func (r *Request) UnmarshalJSON(b []byte) error {
	var aux struct {
		Data      json.RawMessage `json:"data"`
		RequestID string          `json:"request_id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return errors.Wrap(err, "parse request")
	}
	if len(aux.Data) == 0 {
		return errors.New("request without data")
	}
	a, err := action.Decode(aux.Data)
	if err != nil {
		return err
	}
	r.Data = a
	r.RequestID = aux.RequestID
	return nil
}

func (r Request) MarshalJSON() ([]byte, error) {
	data, err := action.Encode(r.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Data      json.RawMessage `json:"data"`
		RequestID string          `json:"request_id"`
	}{Data: data, RequestID: r.RequestID})
}

// Response correlates a result back to its request. Responses go out in
// completion order, not submission order.
type Response struct {
	Data      action.Result `json:"data"`
	Error     bool          `json:"error"`
	RequestID string        `json:"request_id"`
}
