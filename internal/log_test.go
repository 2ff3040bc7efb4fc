package internal

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	})
	return &buf
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, LogLevelError, ParseLogLevel(" ERROR "))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("loud"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel(""))
}

func TestLoggerFiltersByLevel(t *testing.T) {
	buf := captureLog(t)
	l := NewLogger(LogLevelWarn)

	l.Info("hidden %d", 1)
	l.Warn("shown %d", 2)
	assert.Equal(t, "[WARN] shown 2\n", buf.String())

	buf.Reset()
	l.SetLevel(LogLevelTrace)
	l.Trace("deep")
	assert.Equal(t, "[TRACE] deep\n", buf.String())
	assert.Equal(t, LogLevelTrace, l.GetLevel())
}
