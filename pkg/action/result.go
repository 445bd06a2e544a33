package action

import "encoding/json"

// Result is what running an action produces. Results are serialized
// untagged: the receiving side knows which shape to expect from the
// request it sent.
type Result interface {
	isResult()
}

type ReadResult struct {
	Content string `json:"content"`
}

// CommandResult carries the captured output of a shell command.
// ReturnCode is nil when the process was terminated by a signal.
type CommandResult struct {
	ReturnCode *int   `json:"return_code"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
}

type WriteResult struct {
	Size int `json:"size"`
}

// ErrorResult reports a failed execution (or a refusal) to the remote
// side. It marshals as {"Error": message}.
type ErrorResult struct {
	Message string
}

func (ReadResult) isResult()    {}
func (CommandResult) isResult() {}
func (WriteResult) isResult()   {}
func (ErrorResult) isResult()   {}

func (e ErrorResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Error string `json:"Error"`
	}{Error: e.Message})
}
