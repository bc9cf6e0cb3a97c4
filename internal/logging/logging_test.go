package logging

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type captureSink struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (c *captureSink) Send(payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payloads = append(c.payloads, payload)
}

func TestLoggerWritesSessionAndOrigin(t *testing.T) {
	sink := &captureSink{}
	log := New("session-123", sink)
	log.Info("endpoint completed")
	assert.NoError(t, log.Sync())

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if assert.Len(t, sink.payloads, 1) {
		assert.Contains(t, string(sink.payloads[0]), `"session_id":"session-123"`)
		assert.Contains(t, string(sink.payloads[0]), `"origin":"sdk_destination"`)
	}
}

func TestRemoteSinkNeverBlocksOrPanicsOnFailure(t *testing.T) {
	sink := NewHTTPRemoteSink("http://127.0.0.1:0/does-not-exist", nil)
	assert.NotPanics(t, func() {
		sink.Send([]byte(`{"level":"INFO"}`))
	})
}

func TestWithAddsFields(t *testing.T) {
	sink := &captureSink{}
	log := New("session-123", sink).With("warehouse_session_id", "wh-1")
	assert.NotPanics(t, func() {
		log.Warning("dangling transaction rolled back")
	})

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if assert.Len(t, sink.payloads, 1) {
		assert.Contains(t, string(sink.payloads[0]), `"warehouse_session_id":"wh-1"`)
		assert.Contains(t, string(sink.payloads[0]), `"level":"WARNING"`)
	}
}
