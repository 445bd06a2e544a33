package action

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const DefaultShell = "/bin/bash"

// Runner executes a single action against the operating environment.
// A failed run is reported once and never retried.
type Runner interface {
	Run(ctx context.Context, a Action) (Result, error)
}

// Local runs actions on the local machine: commands through the shell,
// files through the filesystem. All text is UTF-8 or an error.
type Local struct {
	Shell string
}

func NewLocal() *Local {
	return &Local{Shell: DefaultShell}
}

func (l *Local) Run(ctx context.Context, a Action) (Result, error) {
	switch v := a.(type) {
	case Command:
		return l.runCommand(ctx, v.Command)
	case Read:
		return readFile(v.Path)
	case Write:
		return writeFile(v.Path, v.Content)
	default:
		return nil, errors.Errorf("unknown action type %T", a)
	}
}

func (l *Local) runCommand(ctx context.Context, command string) (Result, error) {
	shell := l.Shell
	if shell == "" {
		shell = DefaultShell
	}

	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Stdin = nil
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, errors.Wrap(err, "run command")
		}
		// A non-zero exit is still a completed command.
	}

	if !utf8.Valid(stdout.Bytes()) || !utf8.Valid(stderr.Bytes()) {
		return nil, errors.New("command output contains invalid characters")
	}

	var returnCode *int
	if code := cmd.ProcessState.ExitCode(); code >= 0 {
		returnCode = &code
	}

	return CommandResult{
		ReturnCode: returnCode,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
	}, nil
}

func readFile(path string) (Result, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}
	if !utf8.Valid(b) {
		return nil, errors.New("file contains invalid characters")
	}
	return ReadResult{Content: string(b)}, nil
}

func writeFile(path, content string) (Result, error) {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, errors.Wrap(err, "write file")
	}
	return WriteResult{Size: len(content)}, nil
}
