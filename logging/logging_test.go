package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogrusAdapterLevels(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	l := NewLogrus(logrus.NewEntry(logger)).WithField("component", "Link")

	tests := []struct {
		level Level
		want  logrus.Level
	}{
		{LevelDebug, logrus.DebugLevel},
		{LevelInfo, logrus.InfoLevel},
		{LevelWarn, logrus.WarnLevel},
		{LevelError, logrus.ErrorLevel},
		{Level(42), logrus.ErrorLevel},
	}

	for _, tt := range tests {
		hook.Reset()
		l.Log(tt.level, "message "+tt.level.String())

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, tt.want, entry.Level)
		assert.Equal(t, "message "+tt.level.String(), entry.Message)
		assert.Equal(t, "Link", entry.Data["component"])
	}
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, Nop{}, OrNop(nil))

	l := NewLogrus(nil)
	assert.Same(t, l, OrNop(l))

	assert.NotPanics(t, func() { Nop{}.Log(LevelError, "dropped") })
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("bogus"))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "unknown", Level(-1).String())
}
