package server_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctchen222/Prompt-Benchmark/internal/testutil"
	"ctchen222/Prompt-Benchmark/pkg/proto"
)

func dialEvaluate(t *testing.T, h *harness, query string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h.handler)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/evaluate" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func exchange(t *testing.T, conn *websocket.Conn, msg any) proto.ServerToClientMessage {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
	var reply proto.ServerToClientMessage
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

func TestWebSocketEvaluate_Anonymous(t *testing.T) {
	h := newHarness(t)
	conn := dialEvaluate(t, h, "")

	reply := exchange(t, conn, map[string]any{"type": "evaluate", "prompt": "hello"})
	assert.Equal(t, proto.TypeResults, reply.Type)
	assert.False(t, reply.Persisted)
	require.Len(t, reply.Results, 2)
	assert.Equal(t, "Reverse: olleh", reply.Results[1].Response)

	reply = exchange(t, conn, map[string]any{"type": "evaluate", "prompt": "again"})
	assert.Equal(t, "Echo: again", reply.Results[0].Response)

	assert.Equal(t, 0, testutil.CountRows(t, h.db, "evaluations"))
}

func TestWebSocketEvaluate_WithQueryToken(t *testing.T) {
	h := newHarness(t)
	token := h.register("frank", false)
	conn := dialEvaluate(t, h, "?token="+token)

	reply := exchange(t, conn, map[string]any{"type": "evaluate", "prompt": "hi"})
	assert.Equal(t, proto.TypeResults, reply.Type)
	assert.True(t, reply.Persisted)

	assert.Equal(t, 2, testutil.CountRows(t, h.db, "evaluations"))
}

func TestWebSocketEvaluate_InvalidMessages(t *testing.T) {
	h := newHarness(t)
	conn := dialEvaluate(t, h, "")

	reply := exchange(t, conn, map[string]any{"type": "evaluate"})
	assert.Equal(t, proto.TypeError, reply.Type)
	assert.Contains(t, reply.Message, "Prompt is required")

	reply = exchange(t, conn, map[string]any{"type": "move", "prompt": "x"})
	assert.Equal(t, proto.TypeError, reply.Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
	var raw proto.ServerToClientMessage
	require.NoError(t, conn.ReadJSON(&raw))
	assert.Equal(t, "invalid message format", raw.Message)

	reply = exchange(t, conn, map[string]any{"type": "evaluate", "prompt": "still works"})
	assert.Equal(t, proto.TypeResults, reply.Type)
}
