package sqlc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net"
	"time"

	"github.com/google/uuid"
	cerr "github.com/saeidalz13/seabattle-backend/internal/error"
	mb "github.com/saeidalz13/seabattle-backend/models/battleship"
	"github.com/sqlc-dev/pqtype"
)

// WaitingGameManager keeps waiting games in postgres. The creator grid
// is stored as jsonb and the creator address as inet.
type WaitingGameManager struct {
	queries Querier
}

var _ mb.WaitingStore = (*WaitingGameManager)(nil)

func NewWaitingGameManager(queries Querier) *WaitingGameManager {
	return &WaitingGameManager{queries: queries}
}

// InetFromAddr turns "host:port" or a bare host into a single host inet.
// Anything unparsable becomes a NULL inet.
func InetFromAddr(addr string) pqtype.Inet {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return pqtype.Inet{}
	}
	if ip4 := ip.To4(); ip4 != nil {
		return pqtype.Inet{IPNet: net.IPNet{IP: ip4, Mask: net.CIDRMask(32, 32)}, Valid: true}
	}
	return pqtype.Inet{IPNet: net.IPNet{IP: ip, Mask: net.CIDRMask(128, 128)}, Valid: true}
}

// The game_uuid column is a postgres uuid, which rejects any other text
// with a type error instead of an empty result.
func isGameUuid(gameUuid string) bool {
	_, err := uuid.Parse(gameUuid)
	return err == nil
}

func toWaitingGame(row WaitingGame) (mb.WaitingGame, error) {
	var grid mb.Grid
	if err := json.Unmarshal(row.Grid, &grid); err != nil {
		return mb.WaitingGame{}, cerr.ErrDatabase("decode waiting game grid", err)
	}

	wg := mb.WaitingGame{
		Uuid:        row.GameUuid,
		CreatorUuid: row.CreatorID,
		CreatorName: row.CreatorName,
		Grid:        grid,
		CreatedAt:   row.CreatedAt,
	}
	if row.CreatorAddr.Valid {
		wg.CreatorAddr = row.CreatorAddr.IPNet.IP.String()
	}
	return wg, nil
}

func (wgm *WaitingGameManager) InsertWaitingGame(ctx context.Context, wg mb.WaitingGame) error {
	grid, err := json.Marshal(wg.Grid)
	if err != nil {
		return cerr.ErrDatabase("encode waiting game grid", err)
	}

	err = wgm.queries.InsertWaitingGame(ctx, InsertWaitingGameParams{
		GameUuid:    wg.Uuid,
		CreatorID:   wg.CreatorUuid,
		CreatorName: wg.CreatorName,
		CreatorAddr: InetFromAddr(wg.CreatorAddr),
		Grid:        grid,
		CreatedAt:   wg.CreatedAt,
	})
	if err != nil {
		return cerr.ErrDatabase("insert waiting game", err)
	}
	return nil
}

func (wgm *WaitingGameManager) FetchWaitingGame(ctx context.Context, gameUuid string) (mb.WaitingGame, error) {
	if !isGameUuid(gameUuid) {
		return mb.WaitingGame{}, cerr.ErrGameNotExists(gameUuid)
	}

	row, err := wgm.queries.GetWaitingGame(ctx, gameUuid)
	if errors.Is(err, sql.ErrNoRows) {
		return mb.WaitingGame{}, cerr.ErrGameNotExists(gameUuid)
	}
	if err != nil {
		return mb.WaitingGame{}, cerr.ErrDatabase("get waiting game", err)
	}
	return toWaitingGame(row)
}

func (wgm *WaitingGameManager) ClaimWaitingGame(ctx context.Context, gameUuid string) (mb.WaitingGame, error) {
	if !isGameUuid(gameUuid) {
		return mb.WaitingGame{}, cerr.ErrGameNotExists(gameUuid)
	}

	row, err := wgm.queries.ClaimWaitingGame(ctx, gameUuid)
	if errors.Is(err, sql.ErrNoRows) {
		return mb.WaitingGame{}, cerr.ErrGameNotExists(gameUuid)
	}
	if err != nil {
		return mb.WaitingGame{}, cerr.ErrDatabase("claim waiting game", err)
	}
	return toWaitingGame(row)
}

func (wgm *WaitingGameManager) DeleteWaitingGame(ctx context.Context, gameUuid, creatorUuid string) (bool, error) {
	if !isGameUuid(gameUuid) {
		return false, nil
	}

	affected, err := wgm.queries.DeleteWaitingGame(ctx, DeleteWaitingGameParams{
		GameUuid:  gameUuid,
		CreatorID: creatorUuid,
	})
	if err != nil {
		return false, cerr.ErrDatabase("delete waiting game", err)
	}
	return affected > 0, nil
}

func (wgm *WaitingGameManager) ListWaitingGames(ctx context.Context) ([]mb.WaitingGame, error) {
	rows, err := wgm.queries.ListWaitingGames(ctx)
	if err != nil {
		return nil, cerr.ErrDatabase("list waiting games", err)
	}

	games := make([]mb.WaitingGame, 0, len(rows))
	for _, row := range rows {
		wg, err := toWaitingGame(row)
		if err != nil {
			return nil, err
		}
		games = append(games, wg)
	}
	return games, nil
}

func (wgm *WaitingGameManager) DeleteWaitingGamesBefore(ctx context.Context, t time.Time) (int64, error) {
	deleted, err := wgm.queries.DeleteWaitingGamesBefore(ctx, t)
	if err != nil {
		return 0, cerr.ErrDatabase("delete stale waiting games", err)
	}
	return deleted, nil
}
