package connection

import (
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

func TestFetchCodeFromMsg(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected uint8
		wantErr  bool
	}{
		{name: "attack", payload: `{"code":5,"payload":{"x":1,"y":2}}`, expected: CodeAttack},
		{name: "zero code", payload: `{"code":0}`, expected: CodeSessionID},
		{name: "missing code", payload: `{"payload":{}}`, wantErr: true},
		{name: "not json", payload: `attack!`, wantErr: true},
		{name: "code out of range", payload: `{"code":300}`, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			code, err := FetchCodeFromMsg([]byte(test.payload))
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, code)
		})
	}
}

func TestFindAndTerminateSession(t *testing.T) {
	bsm := NewBattleshipSessionManager(time.Minute)

	session := bsm.GenerateNewSession(nil)
	assert.NotEmpty(t, session.Id())
	assert.Empty(t, session.RemoteAddr())

	found, err := bsm.FindSession(session.Id())
	require.NoError(t, err)
	assert.Same(t, session, found)

	bsm.TerminateSession(session.Id())
	_, err = bsm.FindSession(session.Id())
	require.Error(t, err)

	var connErr ConnErr
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, ConnSessionNotFound, connErr.Code())

	err = bsm.Communicate(session.Id(), NewMessage[NoPayload](CodeAttacked))
	require.ErrorAs(t, err, &connErr)
}

func TestCleanupIdleSessions(t *testing.T) {
	bsm := NewBattleshipSessionManager(time.Minute)

	idle := bsm.GenerateNewSession(nil)
	busy := bsm.GenerateNewSession(nil)

	idle.mu.Lock()
	idle.lastActivity = time.Now().Add(-2 * time.Minute)
	idle.mu.Unlock()
	busy.touch()

	bsm.cleanup(time.Now())

	_, err := bsm.FindSession(idle.Id())
	assert.Error(t, err)
	_, err = bsm.FindSession(busy.Id())
	assert.NoError(t, err)
}

func TestSessionGameUuid(t *testing.T) {
	session := NewSession("id", nil)
	assert.Empty(t, session.GameUuid())

	session.SetGameUuid("game")
	assert.Equal(t, "game", session.GameUuid())
}

func TestWriteAndReadSessionConn(t *testing.T) {
	bsm := NewBattleshipSessionManager(time.Minute)
	upgrader := websocket.Upgrader{}
	done := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer close(done)
		session := bsm.GenerateNewSession(conn)
		defer conn.Close()

		msg := NewMessage[RespSessionId](CodeSessionID)
		msg.AddPayload(RespSessionId{SessionID: session.Id()})
		if err := bsm.WriteToSessionConn(session, msg); err != nil {
			return
		}

		// echo one raw message back
		_, payload, err := bsm.ReadFromSessionConn(session)
		if err != nil {
			return
		}
		_ = bsm.WriteToSessionConn(session, json.RawMessage(payload))
	}))
	defer server.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	var msg Message[RespSessionId]
	require.NoError(t, client.ReadJSON(&msg))
	assert.Equal(t, CodeSessionID, msg.Code)
	assert.NotEmpty(t, msg.Payload.SessionID)
	assert.Nil(t, msg.Error)

	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte(`{"code":0}`)))
	_, echoed, err := client.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":0}`, string(echoed))

	<-done
}
