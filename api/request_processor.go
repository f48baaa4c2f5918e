package api

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/saeidalz13/seabattle-backend/db/sqlc"
	cerr "github.com/saeidalz13/seabattle-backend/internal/error"
	mb "github.com/saeidalz13/seabattle-backend/models/battleship"
	mc "github.com/saeidalz13/seabattle-backend/models/connection"
	"github.com/sqlc-dev/pqtype"
)

var (
	// allowedOrigins     = map[string]bool{
	// 	"https://www.allowed_url.com": true,
	// }
	upgrader = websocket.Upgrader{

		// good average time since this is not a high-latency operation such as video streaming
		HandshakeTimeout: time.Second * 5,

		// a 10x10 grid in json is well below this
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

// Analytics is the part of the analytics storage the processor
// writes to. Failures are only logged.
type Analytics interface {
	IncrementGamesCreatedCount(ctx context.Context, serverIpNet pqtype.Inet) error
	IncrementGamesFinishedCount(ctx context.Context, serverIpNet pqtype.Inet) error
}

type RequestProcessor struct {
	sessionManager mc.SessionManager
	gameManager    mb.GameManager
	analytics      Analytics
	ipnet          net.IPNet
}

// analytics may be nil when the server runs without a database.
func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager mb.GameManager,
	analytics Analytics,
) RequestProcessor {
	return RequestProcessor{
		sessionManager: sessionManager,
		gameManager:    gameManager,
		analytics:      analytics,
		ipnet:          serverIpNet(),
	}
}

// The first non-loopback IPv4 of the host; loopback if there is none.
func serverIpNet() net.IPNet {
	loopback := net.IPNet{IP: net.IPv4(127, 0, 0, 1).To4(), Mask: net.CIDRMask(32, 32)}

	ifaces, err := net.Interfaces()
	if err != nil {
		log.Println("failed to list network interfaces:", err)
		return loopback
	}

	for _, iface := range ifaces {
		// If the flag is down
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP

			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			if ip4 := ip.To4(); ip4 != nil && !ip4.IsLoopback() {
				return net.IPNet{IP: ip4, Mask: net.CIDRMask(32, 32)}
			}
		}
	}

	return loopback
}

// Expose this method to use it in testing
func (rp RequestProcessor) GetIpNet() net.IPNet {
	return rp.ipnet
}

func (rp RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	log.Println("a new connection established\tRemote Addr: ", conn.RemoteAddr().String())
	rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))
}

func (rp RequestProcessor) processSessionRequests(session *mc.Session) {
	sessionId := session.Id()
	ctx, cancel := context.WithCancel(context.Background())

	defer func() {
		rp.leaveGame(session)
		cancel()
		if session.Conn() != nil {
			session.Conn().Close()
		}
		rp.sessionManager.TerminateSession(sessionId)
		log.Println("connection closed:", session.RemoteAddr())
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.sessionManager.WriteToSessionConn(session, resp); err != nil {
		return
	}

	if err := rp.sessionManager.WriteToSessionConn(session, HandleAvailableGames(ctx, rp.gameManager)); err != nil {
		return
	}

sessionLoop:
	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// This error happens after retries. If it's not nil,
			// then something was wrong with the session connection
			// and couldn't be resolved
			break sessionLoop
		}

		code, err := mc.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError(cerr.CodeInputError, "incoming req payload must contain 'code' field")
			if err = rp.sessionManager.WriteToSessionConn(session, msg); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		switch code {

		case mc.CodeAvailableGames:
			if err := rp.sessionManager.WriteToSessionConn(session, HandleAvailableGames(ctx, rp.gameManager)); err != nil {
				break sessionLoop
			}

		// The creator waits in the listing until someone joins
		case mc.CodeCreateGame:
			respMsg := NewRequest(payload).HandleCreateGame(ctx, rp.gameManager, session)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg); err != nil {
				break sessionLoop
			}
			if respMsg.Error == nil {
				rp.recordAnalytics(ctx, Analytics.IncrementGamesCreatedCount)
			}

		// Joining starts the game. Each player gets their own grid
		// and whether they fire first.
		case mc.CodeJoinGame:
			game, respMsg := NewRequest(payload).HandleJoinGame(ctx, rp.gameManager, session)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg); err != nil {
				break sessionLoop
			}
			if respMsg.Error != nil {
				continue sessionLoop
			}

			host := game.FetchPlayer(true)
			respHost := mc.NewMessage[mc.RespStartGame](mc.CodeStartGame)
			respHost.AddPayload(mc.NewRespStartGame(game, host))
			if err := rp.sessionManager.Communicate(host.Uuid(), respHost); err != nil {
				log.Printf("failed to notify host %s of game start: %s\n", host.Uuid(), err)
				break sessionLoop
			}

		// After every attack the defender is told where the shot
		// landed. On a win both players get the end game message.
		case mc.CodeAttack:
			result, respMsg := NewRequest(payload).HandleAttack(rp.gameManager, session)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg); err != nil {
				break sessionLoop
			}

			// This means attack operation did not complete
			if respMsg.Error != nil {
				continue sessionLoop
			}

			respDefender := mc.NewMessage[mc.RespAttacked](mc.CodeAttacked)
			respDefender.AddPayload(mc.NewRespAttacked(result))
			if err := rp.sessionManager.Communicate(result.DefenderUuid, respDefender); err != nil {
				break sessionLoop
			}

			if result.Win {
				rp.endGame(ctx, session, result)
			}

		case mc.CodeLeaveGame:
			rp.leaveGame(session)

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError(cerr.CodeInputError, "invalid code in the incoming payload")
			if err := rp.sessionManager.WriteToSessionConn(session, respInvalidSignal); err != nil {
				break sessionLoop
			}
		}
	}
}

func (rp RequestProcessor) endGame(ctx context.Context, session *mc.Session, result mb.TurnResult) {
	rp.recordAnalytics(ctx, Analytics.IncrementGamesFinishedCount)

	respAttacker := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
	respAttacker.AddPayload(mc.RespEndGame{PlayerMatchStatus: mb.PlayerMatchStatusWon})
	if err := rp.sessionManager.WriteToSessionConn(session, respAttacker); err != nil {
		log.Println(err)
	}

	respDefender := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
	respDefender.AddPayload(mc.RespEndGame{PlayerMatchStatus: mb.PlayerMatchStatusLost})
	if err := rp.sessionManager.Communicate(result.DefenderUuid, respDefender); err != nil {
		log.Println(err)
	}

	// The finished game stays reachable for a while and answers with
	// GAME_OVER, but the players are free to create or join again.
	session.SetGameUuid("")
	if defender, err := rp.sessionManager.FindSession(result.DefenderUuid); err == nil {
		defender.SetGameUuid("")
	}
}

// leaveGame aborts whatever game the session is part of and tells the
// opponent, whose connection stays open.
func (rp RequestProcessor) leaveGame(session *mc.Session) {
	gameUuid := session.GameUuid()
	if gameUuid == "" {
		return
	}
	session.SetGameUuid("")

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	result, err := rp.gameManager.AbortGame(ctx, gameUuid, session.Id())
	if err != nil {
		log.Printf("failed to leave game %s: %s\n", gameUuid, err)
		return
	}
	if !result.Aborted {
		return
	}

	opponent, err := rp.sessionManager.FindSession(result.OpponentUuid)
	if err != nil {
		return
	}
	opponent.SetGameUuid("")

	msg := mc.NewMessage[mc.NoPayload](mc.CodeOtherPlayerDisconnected)
	msg.AddError("OPPONENT_DISCONNECTED", "Opponent disconnected, cannot continue.")
	if err := rp.sessionManager.WriteToSessionConn(opponent, msg); err != nil {
		log.Println(err)
	}
}

func (rp RequestProcessor) recordAnalytics(ctx context.Context, increment func(Analytics, context.Context, pqtype.Inet) error) {
	if rp.analytics == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, sqlc.QuerierCtxTimeout)
	defer cancel()

	// for now not killing the game for it
	if err := increment(rp.analytics, ctx, pqtype.Inet{IPNet: rp.ipnet, Valid: true}); err != nil {
		log.Println(err)
	}
}
