package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/websocket"
	"github.com/saeidalz13/seabattle-backend/db/sqlc"
	cerr "github.com/saeidalz13/seabattle-backend/internal/error"
	mb "github.com/saeidalz13/seabattle-backend/models/battleship"
	mc "github.com/saeidalz13/seabattle-backend/models/connection"
	"github.com/sqlc-dev/pqtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFleetRows = []string{
	"1111000000",
	"0000000000",
	"1101100000",
	"0000000000",
	"1110111000",
	"0000000000",
	"1100000000",
	"0000000000",
	"1010101000",
	"0000000000",
}

func testFleet() mb.Grid {
	grid := mb.NewGrid()
	for x, row := range testFleetRows {
		for y, ch := range row {
			if ch == '1' {
				grid.Set(mb.NewCoordinates(uint8(x), uint8(y)), mb.PositionStateShip)
			}
		}
	}
	return grid
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	server, _ := newTestServerWithAnalytics(t, nil)
	return server
}

func newTestServerWithAnalytics(t *testing.T, analytics Analytics) (*httptest.Server, RequestProcessor) {
	t.Helper()

	processor := NewRequestProcessor(
		mc.NewBattleshipSessionManager(time.Minute),
		mb.NewBattleshipGameManager(mb.NewMemoryWaitingStore()),
		analytics,
	)
	server := httptest.NewServer(NewServer(processor).Handler())
	t.Cleanup(server.Close)
	return server, processor
}

type testClient struct {
	t         *testing.T
	conn      *websocket.Conn
	sessionId string
}

// dial connects and consumes the greeting: session id, then the
// current listing.
func dial(t *testing.T, server *httptest.Server) (*testClient, mc.RespAvailableGames) {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/battleship"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	c := &testClient{t: t, conn: conn}
	var session mc.RespSessionId
	c.expect(mc.CodeSessionID, &session)
	c.sessionId = session.SessionID

	var listing mc.RespAvailableGames
	c.expect(mc.CodeAvailableGames, &listing)
	return c, listing
}

func (c *testClient) send(code uint8, payload any) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteJSON(mc.Message[any]{Code: code, Payload: payload}))
}

func (c *testClient) read() mc.Message[json.RawMessage] {
	c.t.Helper()

	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg mc.Message[json.RawMessage]
	require.NoError(c.t, c.conn.ReadJSON(&msg))
	return msg
}

// expect reads the next message, checks its code and that it carries
// no error, and decodes its payload into dst.
func (c *testClient) expect(code uint8, dst any) {
	c.t.Helper()

	msg := c.read()
	require.Equal(c.t, code, msg.Code)
	require.Nil(c.t, msg.Error)
	if dst != nil {
		require.NoError(c.t, json.Unmarshal(msg.Payload, dst))
	}
}

func (c *testClient) expectErr(code uint8, errorDetails string) {
	c.t.Helper()

	msg := c.read()
	require.Equal(c.t, code, msg.Code)
	require.NotNil(c.t, msg.Error)
	assert.Equal(c.t, errorDetails, msg.Error.ErrorDetails)
}

// startGame lets host create a game with the test fleet and guest
// join it. It returns the client that fires first, then the other.
func startGame(t *testing.T, server *httptest.Server) (string, *testClient, *testClient) {
	t.Helper()

	host, listing := dial(t, server)
	assert.Empty(t, listing.Games)

	host.send(mc.CodeCreateGame, mc.ReqCreateGame{Grid: testFleet(), UserName: "alice"})
	var created mc.RespCreateGame
	host.expect(mc.CodeCreateGame, &created)
	require.NotEmpty(t, created.GameUuid)
	assert.Equal(t, testFleet(), created.Grid)

	guest, listing := dial(t, server)
	require.Len(t, listing.Games, 1)
	assert.Equal(t, created.GameUuid, listing.Games[0].GameUuid)
	assert.Equal(t, "alice", listing.Games[0].CreatorName)

	guest.send(mc.CodeJoinGame, mc.ReqJoinGame{GameUuid: created.GameUuid, Grid: testFleet(), UserName: "bob"})
	var guestStart, hostStart mc.RespStartGame
	guest.expect(mc.CodeJoinGame, &guestStart)
	host.expect(mc.CodeStartGame, &hostStart)

	assert.Equal(t, "alice", guestStart.OpponentName)
	assert.Equal(t, "bob", hostStart.OpponentName)
	assert.NotEqual(t, guestStart.IsTurn, hostStart.IsTurn)

	if hostStart.IsTurn {
		return created.GameUuid, host, guest
	}
	return created.GameUuid, guest, host
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK\n", string(body))
}

func TestListingHidesGrids(t *testing.T) {
	server := newTestServer(t)

	host, _ := dial(t, server)
	host.send(mc.CodeCreateGame, mc.ReqCreateGame{UserName: "alice"})
	host.expect(mc.CodeCreateGame, nil)

	host.send(mc.CodeAvailableGames, nil)
	msg := host.read()
	require.Equal(t, mc.CodeAvailableGames, msg.Code)
	assert.NotContains(t, string(msg.Payload), "grid")
}

func TestInvalidRequests(t *testing.T) {
	server := newTestServer(t)
	client, _ := dial(t, server)

	require.NoError(t, client.conn.WriteMessage(websocket.TextMessage, []byte(`{"payload":{}}`)))
	client.expectErr(mc.CodeSignalAbsent, cerr.CodeInputError)

	client.send(99, nil)
	client.expectErr(mc.CodeInvalidSignal, cerr.CodeInputError)

	client.send(mc.CodeCreateGame, mc.ReqCreateGame{Grid: mb.NewGrid()})
	client.expectErr(mc.CodeCreateGame, cerr.CodeInvalidFleet)

	client.send(mc.CodeCreateGame, mc.ReqCreateGame{Grid: mb.NewGrid()[:3]})
	client.expectErr(mc.CodeCreateGame, cerr.CodeMalformedGrid)

	client.send(mc.CodeJoinGame, mc.ReqJoinGame{GameUuid: "missing"})
	client.expectErr(mc.CodeJoinGame, cerr.CodeSessionNotFound)

	client.send(mc.CodeJoinGame, mc.ReqJoinGame{})
	client.expectErr(mc.CodeJoinGame, cerr.CodeInputError)
}

func TestPlayUntilWin(t *testing.T) {
	server := newTestServer(t)
	gameUuid, attacker, defender := startGame(t, server)

	defender.send(mc.CodeAttack, mc.ReqAttack{GameUuid: gameUuid, X: 0, Y: 0})
	defender.expectErr(mc.CodeAttack, cerr.CodeNotPlayersTurn)

	attacker.send(mc.CodeAttack, mc.ReqAttack{GameUuid: gameUuid, X: 10, Y: 0})
	attacker.expectErr(mc.CodeAttack, cerr.CodeInputError)

	targets := make([]mb.Coordinates, 0, mb.FleetOccupiedCells)
	for x, row := range testFleetRows {
		for y, ch := range row {
			if ch == '1' {
				targets = append(targets, mb.NewCoordinates(uint8(x), uint8(y)))
			}
		}
	}

	sunk := 0
	for i, c := range targets {
		attacker.send(mc.CodeAttack, mc.ReqAttack{GameUuid: gameUuid, X: c.X, Y: c.Y})

		var attack mc.RespAttack
		attacker.expect(mc.CodeAttack, &attack)
		assert.True(t, attack.Hit)
		assert.True(t, attack.IsTurn)
		assert.Equal(t, i == len(targets)-1, attack.Win)
		if attack.Sunk {
			sunk++
			assert.Len(t, attack.DefenderSunkenShipsCoords, attack.ShipSize)
		}

		var attacked mc.RespAttacked
		defender.expect(mc.CodeAttacked, &attacked)
		assert.Equal(t, c.X, attacked.X)
		assert.Equal(t, c.Y, attacked.Y)
		assert.True(t, attacked.Hit)
		assert.False(t, attacked.IsTurn)
	}
	assert.Equal(t, mb.FleetShipsCount, sunk)

	var attackerEnd, defenderEnd mc.RespEndGame
	attacker.expect(mc.CodeEndGame, &attackerEnd)
	defender.expect(mc.CodeEndGame, &defenderEnd)
	assert.Equal(t, mb.PlayerMatchStatusWon, attackerEnd.PlayerMatchStatus)
	assert.Equal(t, mb.PlayerMatchStatusLost, defenderEnd.PlayerMatchStatus)

	attacker.send(mc.CodeAttack, mc.ReqAttack{GameUuid: gameUuid, X: 9, Y: 9})
	attacker.expectErr(mc.CodeAttack, cerr.CodeGameOver)
}

func TestMissPassesTurn(t *testing.T) {
	server := newTestServer(t)
	gameUuid, attacker, defender := startGame(t, server)

	attacker.send(mc.CodeAttack, mc.ReqAttack{GameUuid: gameUuid, X: 9, Y: 9})
	var attack mc.RespAttack
	attacker.expect(mc.CodeAttack, &attack)
	assert.False(t, attack.Hit)
	assert.False(t, attack.IsTurn)

	var attacked mc.RespAttacked
	defender.expect(mc.CodeAttacked, &attacked)
	assert.True(t, attacked.IsTurn)

	attacker.send(mc.CodeAttack, mc.ReqAttack{GameUuid: gameUuid, X: 0, Y: 0})
	attacker.expectErr(mc.CodeAttack, cerr.CodeNotPlayersTurn)
}

func TestDisconnectAbortsGame(t *testing.T) {
	server := newTestServer(t)
	gameUuid, first, second := startGame(t, server)

	third, listing := dial(t, server)
	assert.Empty(t, listing.Games)
	third.send(mc.CodeJoinGame, mc.ReqJoinGame{GameUuid: gameUuid})
	third.expectErr(mc.CodeJoinGame, cerr.CodeSessionAlreadyFull)

	require.NoError(t, second.conn.Close())
	first.expectErr(mc.CodeOtherPlayerDisconnected, "OPPONENT_DISCONNECTED")

	first.send(mc.CodeAttack, mc.ReqAttack{GameUuid: gameUuid, X: 0, Y: 0})
	first.expectErr(mc.CodeAttack, cerr.CodeSessionNotFound)

	// the survivor is free to start over
	first.send(mc.CodeCreateGame, mc.ReqCreateGame{})
	first.expect(mc.CodeCreateGame, nil)
}

func TestLeaveWaitingGame(t *testing.T) {
	server := newTestServer(t)

	host, _ := dial(t, server)
	host.send(mc.CodeCreateGame, mc.ReqCreateGame{})
	var created mc.RespCreateGame
	host.expect(mc.CodeCreateGame, &created)

	host.send(mc.CodeCreateGame, mc.ReqCreateGame{})
	host.expectErr(mc.CodeCreateGame, cerr.CodeInputError)

	host.send(mc.CodeLeaveGame, mc.ReqLeaveGame{GameUuid: created.GameUuid})
	host.send(mc.CodeAvailableGames, nil)
	var listing mc.RespAvailableGames
	host.expect(mc.CodeAvailableGames, &listing)
	assert.Empty(t, listing.Games)
}

func TestAnalyticsRecorded(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	server, processor := newTestServerWithAnalytics(t, sqlc.NewDbManager(sqlc.New(db)).Analytics)
	serverIp := pqtype.Inet{IPNet: processor.GetIpNet(), Valid: true}

	mock.ExpectExec(`INSERT INTO game_server_analytics \(server_ip, games_created\)`).
		WithArgs(serverIp).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO game_server_analytics \(server_ip, games_finished\)`).
		WithArgs(serverIp).
		WillReturnResult(sqlmock.NewResult(0, 1))

	gameUuid, attacker, defender := startGame(t, server)
	for x, row := range testFleetRows {
		for y, ch := range row {
			if ch != '1' {
				continue
			}
			attacker.send(mc.CodeAttack, mc.ReqAttack{GameUuid: gameUuid, X: uint8(x), Y: uint8(y)})
			attacker.expect(mc.CodeAttack, nil)
			defender.expect(mc.CodeAttacked, nil)
		}
	}
	attacker.expect(mc.CodeEndGame, nil)
	defender.expect(mc.CodeEndGame, nil)

	require.Eventually(t, func() bool {
		return mock.ExpectationsWereMet() == nil
	}, 2*time.Second, 10*time.Millisecond)
}
