package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)
	l.Debugf("hidden %d", 1)
	l.Infof("loaded %d rows", 5)
	l.Warnf("dropped %d", 2)
	out := buf.String()
	assert.NotContains(t, out, "hidden", "debug line written at info level")
	assert.Contains(t, out, "[INFO] loaded 5 rows")
	assert.Contains(t, out, "[WARN] dropped 2")

	buf.Reset()
	l.SetLevel(LevelDebug)
	l.Debugf("now visible")
	assert.Contains(t, buf.String(), "[DEBUG] now visible")
}

func TestSetOutputRedirects(t *testing.T) {
	var first, second bytes.Buffer
	l := New(&first, LevelWarn)
	l.Warnf("one")
	l.SetOutput(&second)
	l.Warnf("two")
	assert.Contains(t, first.String(), "one")
	assert.NotContains(t, first.String(), "two")
	assert.Contains(t, second.String(), "[WARN] two")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"error": LevelError, "WARN": LevelWarn, "": LevelInfo, "debug": LevelDebug}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
