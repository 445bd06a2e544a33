package action

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Action is one unit of work requested by the remote side. The concrete
// variants are Read, Command and Write; nothing else implements it.
type Action interface {
	isAction()
}

type Read struct {
	Path string `json:"path"`
}

type Command struct {
	Command string `json:"command"`
}

type Write struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func (Read) isAction()    {}
func (Command) isAction() {}
func (Write) isAction()   {}

const (
	kindRead    = "read"
	kindCommand = "command"
	kindWrite   = "write"
)

// envelope is the wire shape: a discriminant field plus the union of all
// variant fields.
type envelope struct {
	Kind    string `json:"action"`
	Path    string `json:"path,omitempty"`
	Command string `json:"command,omitempty"`
	Content string `json:"content,omitempty"`
}

// Encode serializes an action into its tagged wire form.
func Encode(a Action) ([]byte, error) {
	var env envelope
	switch v := a.(type) {
	case Read:
		env = envelope{Kind: kindRead, Path: v.Path}
	case Command:
		env = envelope{Kind: kindCommand, Command: v.Command}
	case Write:
		env = envelope{Kind: kindWrite, Path: v.Path, Content: v.Content}
	default:
		return nil, errors.Errorf("unknown action type %T", a)
	}
	b, err := json.Marshal(env)
	if err != nil {
		return nil, errors.Wrap(err, "marshal action")
	}
	return b, nil
}

// Decode parses the tagged wire form back into an action.
func Decode(b []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, errors.Wrap(err, "parse action")
	}
	switch env.Kind {
	case kindRead:
		return Read{Path: env.Path}, nil
	case kindCommand:
		return Command{Command: env.Command}, nil
	case kindWrite:
		return Write{Path: env.Path, Content: env.Content}, nil
	default:
		return nil, errors.Errorf("unknown action %q", env.Kind)
	}
}
