package logging

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestLogger() (*ZerologLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).Level(zerolog.DebugLevel)
	return NewZerologLogger(l), &buf
}

func TestZerologLogger_Levels(t *testing.T) {
	log, buf := newTestLogger()
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	for _, want := range []string{
		`"level":"debug"`, `"message":"dbg"`, `"a":1`,
		`"level":"info"`, `"message":"inf"`, `"b":2`,
		`"level":"warn"`, `"message":"wrn"`, `"c":3`,
		`"level":"error"`, `"message":"err"`, `"d":4`,
	} {
		require.Contains(t, out, want)
	}
}

func TestZerologLogger_With(t *testing.T) {
	log, buf := newTestLogger()

	child := log.With("view", "feed")
	child.Info(context.Background(), "page loaded", "page", 2)

	out := buf.String()
	require.Contains(t, out, `"view":"feed"`)
	require.Contains(t, out, `"page":2`)
}

func TestZerologLogger_OddArgsDoNotPanic(t *testing.T) {
	log, buf := newTestLogger()

	log.Info(context.Background(), "odd", "only-key")

	require.Contains(t, buf.String(), `"message":"odd"`)
}

func TestPairs_NonStringKeysSkipped(t *testing.T) {
	m := pairs([]any{1, "x", "k", "v"})
	require.Equal(t, map[string]any{"k": "v"}, m)
}

func TestNop(t *testing.T) {
	var l Logger = Nop{}
	l.Info(context.Background(), "ignored")
	require.Equal(t, Nop{}, l.With("a", 1))
}

func TestNewFileLogger_EmptyPathDiscards(t *testing.T) {
	l, closeFn, err := NewFileLogger("", false)
	require.NoError(t, err)
	require.NotNil(t, l)
	require.NoError(t, closeFn())
	// must not panic when writing to the discard sink
	l.Info(context.Background(), "dropped")
}

func TestNewFileLogger_WritesFile(t *testing.T) {
	path := t.TempDir() + "/client.log"
	l, closeFn, err := NewFileLogger(path, true)
	require.NoError(t, err)

	l.Info(context.Background(), "hello")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `"message":"hello"`))
}
