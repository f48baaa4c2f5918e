package battleship

import (
	"context"
	"errors"
	"iter"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	cerr "github.com/saeidalz13/seabattle-backend/internal/error"
)

const (
	defaultCleanupInterval time.Duration = time.Minute * 20
	defaultWaitingGameTTL  time.Duration = time.Hour
	finishedGameRetention  time.Duration = time.Minute * 2
	assumedFinishedGames                 = 5
)

// PlayerParams describes a player entering a game. A nil Grid asks
// the server to generate one.
type PlayerParams struct {
	Uuid string
	Name string
	Addr string
	Grid Grid
}

type GameManager interface {
	CreateGame(ctx context.Context, creator PlayerParams) (WaitingGame, error)
	JoinGame(ctx context.Context, gameUuid string, joiner PlayerParams) (*Game, error)
	ApplyTurn(gameUuid, playerUuid string, c Coordinates) (TurnResult, error)
	AbortGame(ctx context.Context, gameUuid, playerUuid string) (AbortResult, error)
	WaitingGames(ctx context.Context) iter.Seq2[WaitingGame, error]
	FetchGame(gameUuid string) (*Game, error)
	IsPlayerInGame(ctx context.Context, gameUuid, playerUuid string) (bool, error)
	CleanupPeriodically(ctx context.Context)
}

// AbortResult tells the transport whom to notify after a player left.
type AbortResult struct {
	OpponentUuid string
	Aborted      bool
}

// BattleshipGameManager routes requests to games by uuid. The map lock
// only guards lookups and insert/remove; each Game serialises its own
// turns.
type BattleshipGameManager struct {
	store WaitingStore
	games map[string]*Game

	// Waiting games a joiner is claiming right now. An id stays here
	// until its Game is in games or the claim failed.
	claiming        map[string]struct{}
	cleanupInterval time.Duration
	waitingGameTTL  time.Duration
	mu              sync.RWMutex
}

var _ GameManager = (*BattleshipGameManager)(nil)

type GameManagerOption func(*BattleshipGameManager)

func WithCleanupInterval(d time.Duration) GameManagerOption {
	return func(bgm *BattleshipGameManager) {
		if d > 0 {
			bgm.cleanupInterval = d
		}
	}
}

func WithWaitingGameTTL(d time.Duration) GameManagerOption {
	return func(bgm *BattleshipGameManager) {
		if d > 0 {
			bgm.waitingGameTTL = d
		}
	}
}

func NewBattleshipGameManager(store WaitingStore, opts ...GameManagerOption) *BattleshipGameManager {
	bgm := &BattleshipGameManager{
		store:           store,
		games:           make(map[string]*Game, 10),
		claiming:        make(map[string]struct{}, 2),
		cleanupInterval: defaultCleanupInterval,
		waitingGameTTL:  defaultWaitingGameTTL,
	}
	for _, opt := range opts {
		opt(bgm)
	}
	return bgm
}

func prepareGrid(grid Grid) (Grid, error) {
	if grid == nil {
		return MustGenerateFleet(nil), nil
	}
	if err := ValidateGrid(grid); err != nil {
		return nil, err
	}
	return grid.Clone(), nil
}

func (bgm *BattleshipGameManager) CreateGame(ctx context.Context, creator PlayerParams) (WaitingGame, error) {
	grid, err := prepareGrid(creator.Grid)
	if err != nil {
		return WaitingGame{}, err
	}

	wg := WaitingGame{
		Uuid:        uuid.NewString(),
		CreatorUuid: creator.Uuid,
		CreatorName: creator.Name,
		CreatorAddr: creator.Addr,
		Grid:        grid,
		CreatedAt:   time.Now().UTC(),
	}
	if err := bgm.store.InsertWaitingGame(ctx, wg); err != nil {
		return WaitingGame{}, err
	}

	log.Printf("game created: %s\tcreator: %s\n", wg.Uuid, wg.CreatorUuid)
	return wg, nil
}

func (bgm *BattleshipGameManager) JoinGame(ctx context.Context, gameUuid string, joiner PlayerParams) (*Game, error) {
	if bgm.isTaken(gameUuid) {
		return nil, cerr.ErrGameAlreadyFull(gameUuid)
	}

	grid, err := prepareGrid(joiner.Grid)
	if err != nil {
		return nil, err
	}

	pending, err := bgm.store.FetchWaitingGame(ctx, gameUuid)
	if err != nil {
		return nil, bgm.joinLookupErr(gameUuid, err)
	}
	if pending.CreatorUuid == joiner.Uuid {
		return nil, cerr.ErrPlayerAlreadyInGame(joiner.Uuid, gameUuid)
	}

	if !bgm.reserve(gameUuid) {
		return nil, cerr.ErrGameAlreadyFull(gameUuid)
	}
	defer bgm.release(gameUuid)

	wg, err := bgm.store.ClaimWaitingGame(ctx, gameUuid)
	if err != nil {
		return nil, bgm.joinLookupErr(gameUuid, err)
	}

	host, err := NewPlayer(wg.CreatorUuid, wg.CreatorName, true, wg.Grid)
	if err != nil {
		return nil, err
	}
	join, err := NewPlayer(joiner.Uuid, joiner.Name, false, grid)
	if err != nil {
		return nil, err
	}

	game := NewGame(wg.Uuid, host, join, nil)

	bgm.mu.Lock()
	bgm.games[game.uuid] = game
	bgm.mu.Unlock()

	log.Printf("game started: %s\thost: %s\tjoin: %s\tfirst turn: %s\n", game.uuid, host.uuid, join.uuid, game.TurnOwner())
	return game, nil
}

// A waiting game that vanished between the fetch and the claim was
// most likely taken by another joiner.
func (bgm *BattleshipGameManager) joinLookupErr(gameUuid string, err error) error {
	if !errors.Is(err, cerr.ErrSessionNotFound) {
		return err
	}
	if bgm.isTaken(gameUuid) {
		return cerr.ErrGameAlreadyFull(gameUuid)
	}
	return err
}

// isTaken reports whether the game is active or being claimed.
func (bgm *BattleshipGameManager) isTaken(gameUuid string) bool {
	bgm.mu.RLock()
	defer bgm.mu.RUnlock()

	if _, prs := bgm.games[gameUuid]; prs {
		return true
	}
	_, prs := bgm.claiming[gameUuid]
	return prs
}

// reserve marks gameUuid as being claimed. It fails if the game is
// already active or another joiner holds the reservation.
func (bgm *BattleshipGameManager) reserve(gameUuid string) bool {
	bgm.mu.Lock()
	defer bgm.mu.Unlock()

	if _, prs := bgm.games[gameUuid]; prs {
		return false
	}
	if _, prs := bgm.claiming[gameUuid]; prs {
		return false
	}
	bgm.claiming[gameUuid] = struct{}{}
	return true
}

func (bgm *BattleshipGameManager) release(gameUuid string) {
	bgm.mu.Lock()
	delete(bgm.claiming, gameUuid)
	bgm.mu.Unlock()
}

func (bgm *BattleshipGameManager) FetchGame(gameUuid string) (*Game, error) {
	bgm.mu.RLock()
	game, prs := bgm.games[gameUuid]
	bgm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrGameNotExists(gameUuid)
	}

	return game, nil
}

// IsPlayerInGame reports whether playerUuid still plays the active game
// gameUuid or waits in it as the creator. Finished, aborted and swept
// games do not count.
func (bgm *BattleshipGameManager) IsPlayerInGame(ctx context.Context, gameUuid, playerUuid string) (bool, error) {
	if game, err := bgm.FetchGame(gameUuid); err == nil {
		if game.State() != GameStateInProgress {
			return false, nil
		}
		_, err := game.FindPlayer(playerUuid)
		return err == nil, nil
	}

	wg, err := bgm.store.FetchWaitingGame(ctx, gameUuid)
	if errors.Is(err, cerr.ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return wg.CreatorUuid == playerUuid, nil
}

func (bgm *BattleshipGameManager) ApplyTurn(gameUuid, playerUuid string, c Coordinates) (TurnResult, error) {
	game, err := bgm.FetchGame(gameUuid)
	if err != nil {
		return TurnResult{}, err
	}

	result, err := game.ApplyTurn(playerUuid, c)
	if err != nil {
		return TurnResult{}, err
	}
	if result.Win {
		log.Printf("game finished: %s\twinner: %s\n", gameUuid, result.AttackerUuid)
	}
	return result, nil
}

// AbortGame handles a player leaving. An active game is aborted and
// removed right away, so the other player can not reach it anymore. A
// waiting game is dropped if the leaver created it.
func (bgm *BattleshipGameManager) AbortGame(ctx context.Context, gameUuid, playerUuid string) (AbortResult, error) {
	game, err := bgm.FetchGame(gameUuid)
	if err == nil {
		opponent, aborted, err := game.Abort(playerUuid)
		if err != nil {
			return AbortResult{}, err
		}
		bgm.removeGame(gameUuid)

		if aborted {
			log.Printf("game aborted: %s\tleft: %s\n", gameUuid, playerUuid)
		}
		return AbortResult{OpponentUuid: opponent.uuid, Aborted: aborted}, nil
	}

	deleted, err := bgm.store.DeleteWaitingGame(ctx, gameUuid, playerUuid)
	if err != nil {
		return AbortResult{}, err
	}
	if !deleted {
		return AbortResult{}, cerr.ErrGameNotExists(gameUuid)
	}

	log.Printf("waiting game abandoned: %s\tcreator: %s\n", gameUuid, playerUuid)
	return AbortResult{}, nil
}

func (bgm *BattleshipGameManager) removeGame(gameUuid string) {
	bgm.mu.Lock()
	delete(bgm.games, gameUuid)
	bgm.mu.Unlock()
}

// WaitingGames is recomputed from the store every time it is ranged
// over. A store failure is yielded once and ends the sequence.
func (bgm *BattleshipGameManager) WaitingGames(ctx context.Context) iter.Seq2[WaitingGame, error] {
	return func(yield func(WaitingGame, error) bool) {
		games, err := bgm.store.ListWaitingGames(ctx)
		if err != nil {
			yield(WaitingGame{}, err)
			return
		}
		for _, wg := range games {
			if !yield(wg, nil) {
				return
			}
		}
	}
}

// To ensure that nobody waits forever and finished games do not pile
// up, the manager drops waiting games older than waitingGameTTL and
// games that ended more than finishedGameRetention ago.
func (bgm *BattleshipGameManager) CleanupPeriodically(ctx context.Context) {
	ticker := time.NewTicker(bgm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bgm.cleanup(ctx, time.Now())
		}
	}
}

func (bgm *BattleshipGameManager) cleanup(ctx context.Context, now time.Time) {
	deleted, err := bgm.store.DeleteWaitingGamesBefore(ctx, now.Add(-bgm.waitingGameTTL))
	if err != nil {
		log.Println("failed to clean up waiting games:", err)
	} else if deleted > 0 {
		log.Printf("removed %d stale waiting games\n", deleted)
	}

	toDelete := make([]string, 0, assumedFinishedGames)
	bgm.mu.RLock()
	for id, game := range bgm.games {
		if game.State() == GameStateInProgress {
			continue
		}
		if now.Sub(game.EndedAt()) > finishedGameRetention {
			toDelete = append(toDelete, id)
		}
	}
	bgm.mu.RUnlock()

	for _, id := range toDelete {
		bgm.removeGame(id)
		log.Printf("removed finished game: %s\n", id)
	}
}
