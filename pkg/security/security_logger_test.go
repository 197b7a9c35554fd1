package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core))

	l.Log(Event{Type: EventUnauthorizedAccess, Subject: "user1", IP: "10.0.0.1", Reason: "invalid_token"})
	l.Log(Event{Type: EventAccountDeleted, Subject: "user1"})

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "unauthorized_access", fields["event"])
	assert.Equal(t, HashValue("user1"), fields["subject"])
	assert.Equal(t, "10.0.0.1", fields["ip"])
	assert.Equal(t, "invalid_token", fields["reason"])
	assert.NotContains(t, fields, "user_agent")

	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
}

func TestHashValue(t *testing.T) {
	assert.Len(t, HashValue("user1"), 16)
	assert.Equal(t, HashValue("user1"), HashValue("user1"))
	assert.NotEqual(t, HashValue("user1"), HashValue("user2"))
}

func TestDefaultIsUsableBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		Default().Log(Event{Type: EventRateLimitTriggered})
	})
}
