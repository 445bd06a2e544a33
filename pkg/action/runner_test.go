package action

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocal_Command_CapturesOutput(t *testing.T) {
	l := NewLocal()
	res, err := l.Run(context.Background(), Command{Command: "echo hi"})
	require.NoError(t, err)

	cr, ok := res.(CommandResult)
	require.True(t, ok)
	require.NotNil(t, cr.ReturnCode)
	require.Equal(t, 0, *cr.ReturnCode)
	require.Equal(t, "hi\n", cr.Stdout)
	require.Equal(t, "", cr.Stderr)
}

func TestLocal_Command_NonZeroExitIsStillAResult(t *testing.T) {
	l := NewLocal()
	res, err := l.Run(context.Background(), Command{Command: "echo oops >&2; exit 3"})
	require.NoError(t, err)

	cr, ok := res.(CommandResult)
	require.True(t, ok)
	require.NotNil(t, cr.ReturnCode)
	require.Equal(t, 3, *cr.ReturnCode)
	require.Equal(t, "oops\n", cr.Stderr)
}

func TestLocal_Command_InvalidUTF8OutputFails(t *testing.T) {
	l := NewLocal()
	_, err := l.Run(context.Background(), Command{Command: `printf '\xff\xfe'`})
	require.Error(t, err)
}

func TestLocal_Command_SpawnFailure(t *testing.T) {
	l := &Local{Shell: "/nonexistent/shell"}
	_, err := l.Run(context.Background(), Command{Command: "echo hi"})
	require.Error(t, err)
}

func TestLocal_WriteThenRead_Roundtrip(t *testing.T) {
	l := NewLocal()
	path := filepath.Join(t.TempDir(), "note.txt")
	content := "héllo wörld\n"

	res, err := l.Run(context.Background(), Write{Path: path, Content: content})
	require.NoError(t, err)
	wr, ok := res.(WriteResult)
	require.True(t, ok)
	// Byte length, not rune count.
	require.Equal(t, len([]byte(content)), wr.Size)

	res, err = l.Run(context.Background(), Read{Path: path})
	require.NoError(t, err)
	rr, ok := res.(ReadResult)
	require.True(t, ok)
	require.Equal(t, content, rr.Content)
}

func TestLocal_Write_Truncates(t *testing.T) {
	l := NewLocal()
	path := filepath.Join(t.TempDir(), "note.txt")

	_, err := l.Run(context.Background(), Write{Path: path, Content: "a long first version"})
	require.NoError(t, err)
	_, err = l.Run(context.Background(), Write{Path: path, Content: "short"})
	require.NoError(t, err)

	res, err := l.Run(context.Background(), Read{Path: path})
	require.NoError(t, err)
	require.Equal(t, "short", res.(ReadResult).Content)
}

func TestLocal_Read_MissingFile(t *testing.T) {
	l := NewLocal()
	_, err := l.Run(context.Background(), Read{Path: "/nonexistent/definitely/missing"})
	require.Error(t, err)
}
