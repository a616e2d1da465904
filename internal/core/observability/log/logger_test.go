package log

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":      LevelInfo,
		"debug": LevelDebug,
		"WARN":  LevelWarn,
		"error": LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLoggerWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	l := New(LevelDebug, WithOutputPaths(path))

	l.With(String("component", "test")).Info("hello",
		Int("n", 3),
		Float64("f", 1.5),
		Bool("b", true),
		Error(errors.New("boom")),
	)
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"hello"`)
	assert.Contains(t, out, `"component":"test"`)
	assert.Contains(t, out, `"n":3`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestSetLevelSharedWithDerived(t *testing.T) {
	l := New(LevelInfo, WithOutputPaths(filepath.Join(t.TempDir(), "x.log")))
	child := l.With(String("k", "v"))

	l.SetLevel(LevelError)
	assert.Equal(t, LevelError, child.GetLevel())
}

func TestNopAndProvide(t *testing.T) {
	n := Nop()
	n.Info("dropped")
	assert.NotNil(t, Provide())
}
