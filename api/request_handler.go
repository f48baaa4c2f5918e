package api

import (
	"context"
	"encoding/json"
	"log"

	cerr "github.com/saeidalz13/seabattle-backend/internal/error"
	mb "github.com/saeidalz13/seabattle-backend/models/battleship"
	mc "github.com/saeidalz13/seabattle-backend/models/connection"
)

type RequestHandler interface {
	HandleCreateGame(ctx context.Context, gm mb.GameManager, session *mc.Session) mc.Message[mc.RespCreateGame]
	HandleJoinGame(ctx context.Context, gm mb.GameManager, session *mc.Session) (*mb.Game, mc.Message[mc.RespStartGame])
	HandleAttack(gm mb.GameManager, session *mc.Session) (mb.TurnResult, mc.Message[mc.RespAttack])
}

// Every incoming valid request will have this structure
// The request then is handled in line with RequestHandler interface
type Request struct {
	payload []byte
}

// This tells the compiler that Request struct must be of type of RequestHandler
var _ RequestHandler = Request{}

func NewRequest(payload ...[]byte) Request {
	if len(payload) > 1 {
		log.Println("cannot accept more than one payload")
		return Request{}
	}

	var req Request
	if len(payload) != 0 {
		req.payload = payload[0]
	}
	return req
}

func decodePayload[T any](payload []byte) (T, error) {
	var msg mc.Message[T]
	if err := json.Unmarshal(payload, &msg); err != nil {
		return msg.Payload, cerr.ErrInvalidPayload(err)
	}
	return msg.Payload, nil
}

// ensureSessionIsFree rejects a player who still waits in or plays a
// game. A game that is over or was swept while waiting is forgotten.
func ensureSessionIsFree(ctx context.Context, gm mb.GameManager, session *mc.Session) error {
	gameUuid := session.GameUuid()
	if gameUuid == "" {
		return nil
	}

	inGame, err := gm.IsPlayerInGame(ctx, gameUuid, session.Id())
	if err != nil {
		return err
	}
	if inGame {
		return cerr.ErrPlayerAlreadyInGame(session.Id(), gameUuid)
	}

	log.Printf("session %s dropped stale game %s\n", session.Id(), gameUuid)
	session.SetGameUuid("")
	return nil
}

// A player who already waits in or plays a game has to leave it
// before creating another one.
func (r Request) HandleCreateGame(ctx context.Context, gm mb.GameManager, session *mc.Session) mc.Message[mc.RespCreateGame] {
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeCreateGame)

	if err := ensureSessionIsFree(ctx, gm, session); err != nil {
		resp.AddErr(err)
		return resp
	}

	req, err := decodePayload[mc.ReqCreateGame](r.payload)
	if err != nil {
		resp.AddErr(err)
		return resp
	}

	wg, err := gm.CreateGame(ctx, mb.PlayerParams{
		Uuid: session.Id(),
		Name: req.UserName,
		Addr: session.RemoteAddr(),
		Grid: req.Grid,
	})
	if err != nil {
		resp.AddErr(err)
		return resp
	}

	session.SetGameUuid(wg.Uuid)
	resp.AddPayload(mc.RespCreateGame{GameUuid: wg.Uuid, Grid: wg.Grid})
	return resp
}

// Join user sends the game uuid and if this game is still waiting,
// the game starts right away.
func (r Request) HandleJoinGame(ctx context.Context, gm mb.GameManager, session *mc.Session) (*mb.Game, mc.Message[mc.RespStartGame]) {
	resp := mc.NewMessage[mc.RespStartGame](mc.CodeJoinGame)

	if err := ensureSessionIsFree(ctx, gm, session); err != nil {
		resp.AddErr(err)
		return nil, resp
	}

	req, err := decodePayload[mc.ReqJoinGame](r.payload)
	if err != nil {
		resp.AddErr(err)
		return nil, resp
	}
	if req.GameUuid == "" {
		resp.AddErr(cerr.ErrGameUuidMissing())
		return nil, resp
	}

	game, err := gm.JoinGame(ctx, req.GameUuid, mb.PlayerParams{
		Uuid: session.Id(),
		Name: req.UserName,
		Addr: session.RemoteAddr(),
		Grid: req.Grid,
	})
	if err != nil {
		resp.AddErr(err)
		return nil, resp
	}

	session.SetGameUuid(game.Uuid())
	resp.AddPayload(mc.NewRespStartGame(game, game.FetchPlayer(false)))
	return game, resp
}

func (r Request) HandleAttack(gm mb.GameManager, session *mc.Session) (mb.TurnResult, mc.Message[mc.RespAttack]) {
	resp := mc.NewMessage[mc.RespAttack](mc.CodeAttack)

	req, err := decodePayload[mc.ReqAttack](r.payload)
	if err != nil {
		resp.AddErr(err)
		return mb.TurnResult{}, resp
	}

	result, err := gm.ApplyTurn(req.GameUuid, session.Id(), mb.NewCoordinates(req.X, req.Y))
	if err != nil {
		resp.AddErr(err)
		return mb.TurnResult{}, resp
	}

	resp.AddPayload(mc.NewRespAttack(result))
	return result, resp
}

// The listing never includes creator grids.
func HandleAvailableGames(ctx context.Context, gm mb.GameManager) mc.Message[mc.RespAvailableGames] {
	resp := mc.NewMessage[mc.RespAvailableGames](mc.CodeAvailableGames)

	games := make([]mc.AvailableGame, 0)
	for wg, err := range gm.WaitingGames(ctx) {
		if err != nil {
			resp.AddErr(err)
			return resp
		}
		games = append(games, mc.NewAvailableGame(wg))
	}

	resp.AddPayload(mc.RespAvailableGames{Games: games})
	return resp
}
