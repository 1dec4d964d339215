package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")

	l.Info("hidden")
	l.Warn("summary fetch failed", "seq", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "summary fetch failed")
	assert.Contains(t, out, "seq=3")
}

func TestUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "chatty")

	l.Debug("nope")
	l.Info("yes")
	assert.NotContains(t, buf.String(), "nope")
	assert.Contains(t, buf.String(), "yes")
}

func TestNopDiscards(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Error("ignored", "k", "v") })
}
