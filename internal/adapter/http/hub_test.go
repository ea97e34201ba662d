package http

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
)

func newTestHub() *Hub {
	return NewHub(observability.NewMetricsForTesting(), observability.DiscardLogger())
}

func selectionMsg(t *testing.T, id string) []byte {
	t.Helper()
	msg, err := json.Marshal(SelectionMessage{Type: "selection", Record: &domain.Record{ID: id}})
	require.NoError(t, err)
	return msg
}

func TestHub_BroadcastDuringConnectIsDelivered(t *testing.T) {
	h := newTestHub()
	c := &wsClient{send: make(chan []byte, sendBuffer)}

	reading := make(chan struct{})
	resume := make(chan struct{})
	added := make(chan bool)
	go func() {
		added <- h.addWithInitial(c, func() []byte {
			close(reading)
			<-resume
			return selectionMsg(t, "a")
		})
	}()
	<-reading

	broadcast := make(chan struct{})
	go func() {
		h.BroadcastSelection(&domain.Record{ID: "b"})
		close(broadcast)
	}()

	select {
	case <-broadcast:
		t.Fatal("broadcast finished before the client was registered")
	case <-time.After(20 * time.Millisecond):
	}
	close(resume)
	require.True(t, <-added)
	<-broadcast

	require.Len(t, c.send, 2)
	assert.JSONEq(t, string(selectionMsg(t, "a")), string(<-c.send))
	assert.JSONEq(t, string(selectionMsg(t, "b")), string(<-c.send))
	assert.Equal(t, 1, h.Clients())
}

func TestHub_ClosedRejectsClient(t *testing.T) {
	h := newTestHub()
	h.Close()
	c := &wsClient{send: make(chan []byte, sendBuffer)}

	called := false
	ok := h.addWithInitial(c, func() []byte {
		called = true
		return nil
	})

	assert.False(t, ok)
	assert.False(t, called)
	assert.Empty(t, c.send)
	assert.Zero(t, h.Clients())
}
