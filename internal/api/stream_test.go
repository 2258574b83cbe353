package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type phxFrame struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

// realtimeBackend acks every join and pushes one notification insert.
func realtimeBackend(joins chan<- phxFrame, closed chan<- struct{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/realtime/v1/websocket" {
			http.NotFound(w, r)
			return
		}
		up := websocket.Upgrader{}
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer close(closed)
		defer conn.Close()
		for {
			var m phxFrame
			if err := conn.ReadJSON(&m); err != nil {
				return
			}
			if m.Event != "phx_join" {
				continue
			}
			joins <- m
			_ = conn.WriteJSON(map[string]any{
				"topic": m.Topic, "event": "phx_reply", "ref": m.Ref,
				"payload": map[string]any{"status": "ok", "response": map[string]any{}},
			})
			_ = conn.WriteJSON(map[string]any{
				"topic": m.Topic, "event": "postgres_changes", "ref": nil,
				"payload": map[string]any{"data": map[string]any{
					"schema": "public", "table": "notifications", "type": "INSERT",
					"record": map[string]any{"id": "n1", "message": "You have a new trade offer"},
				}},
			})
		}
	}
}

func TestNotificationStream(t *testing.T) {
	joins := make(chan phxFrame, 1)
	closed := make(chan struct{})
	srv := httptest.NewServer(newTestServer(t, realtimeBackend(joins, closed)))
	t.Cleanup(srv.Close)
	token := userToken(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/me/notifications/stream", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	select {
	case join := <-joins:
		assert.Equal(t, "realtime:notifs_user-1", join.Topic)
		var p struct {
			Config struct {
				PostgresChanges []map[string]string `json:"postgres_changes"`
			} `json:"config"`
			AccessToken string `json:"access_token"`
		}
		require.NoError(t, json.Unmarshal(join.Payload, &p))
		assert.Equal(t, token, p.AccessToken)
		require.Len(t, p.Config.PostgresChanges, 1)
		assert.Equal(t, "INSERT", p.Config.PostgresChanges[0]["event"])
		assert.Equal(t, "notifications", p.Config.PostgresChanges[0]["table"])
		assert.Equal(t, "user_id=eq.user-1", p.Config.PostgresChanges[0]["filter"])
	case <-time.After(5 * time.Second):
		t.Fatal("no channel join")
	}

	var event, data string
	sc := bufio.NewScanner(resp.Body)
	for (event == "" || data == "") && sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
	assert.Equal(t, "notification", event)
	assert.JSONEq(t, `{"id":"n1","message":"You have a new trade offer"}`, data)

	// leaving the stream tears the websocket down
	cancel()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("websocket still open after the client left")
	}
}

func TestNotificationStream_BackendDown(t *testing.T) {
	r := newTestServer(t, nil)
	w := doJSON(t, r, http.MethodGet, "/api/me/notifications/stream", nil, userToken(t))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
