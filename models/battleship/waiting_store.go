package battleship

import (
	"context"
	"slices"
	"sync"
	"time"

	cerr "github.com/saeidalz13/seabattle-backend/internal/error"
)

// WaitingGame is a created game whose creator is still alone.
type WaitingGame struct {
	Uuid        string
	CreatorUuid string
	CreatorName string
	CreatorAddr string
	Grid        Grid
	CreatedAt   time.Time
}

// WaitingStore keeps games that wait for a second player. Entries go
// away as soon as the game is joined or abandoned.
type WaitingStore interface {
	InsertWaitingGame(ctx context.Context, wg WaitingGame) error
	FetchWaitingGame(ctx context.Context, gameUuid string) (WaitingGame, error)

	// Removes and returns the game in one step, so only one joiner
	// can ever get it.
	ClaimWaitingGame(ctx context.Context, gameUuid string) (WaitingGame, error)
	DeleteWaitingGame(ctx context.Context, gameUuid, creatorUuid string) (bool, error)
	ListWaitingGames(ctx context.Context) ([]WaitingGame, error)
	DeleteWaitingGamesBefore(ctx context.Context, t time.Time) (int64, error)
}

type MemoryWaitingStore struct {
	games map[string]WaitingGame
	mu    sync.Mutex
}

var _ WaitingStore = (*MemoryWaitingStore)(nil)

func NewMemoryWaitingStore() *MemoryWaitingStore {
	return &MemoryWaitingStore{
		games: make(map[string]WaitingGame, 10),
	}
}

func (ms *MemoryWaitingStore) InsertWaitingGame(_ context.Context, wg WaitingGame) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	wg.Grid = wg.Grid.Clone()
	ms.games[wg.Uuid] = wg
	return nil
}

func (ms *MemoryWaitingStore) FetchWaitingGame(_ context.Context, gameUuid string) (WaitingGame, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	wg, prs := ms.games[gameUuid]
	if !prs {
		return WaitingGame{}, cerr.ErrGameNotExists(gameUuid)
	}
	return wg, nil
}

func (ms *MemoryWaitingStore) ClaimWaitingGame(_ context.Context, gameUuid string) (WaitingGame, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	wg, prs := ms.games[gameUuid]
	if !prs {
		return WaitingGame{}, cerr.ErrGameNotExists(gameUuid)
	}
	delete(ms.games, gameUuid)
	return wg, nil
}

func (ms *MemoryWaitingStore) DeleteWaitingGame(_ context.Context, gameUuid, creatorUuid string) (bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	wg, prs := ms.games[gameUuid]
	if !prs || wg.CreatorUuid != creatorUuid {
		return false, nil
	}
	delete(ms.games, gameUuid)
	return true, nil
}

// ListWaitingGames returns the games oldest first.
func (ms *MemoryWaitingStore) ListWaitingGames(_ context.Context) ([]WaitingGame, error) {
	ms.mu.Lock()
	games := make([]WaitingGame, 0, len(ms.games))
	for _, wg := range ms.games {
		games = append(games, wg)
	}
	ms.mu.Unlock()

	slices.SortFunc(games, func(a, b WaitingGame) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return games, nil
}

func (ms *MemoryWaitingStore) DeleteWaitingGamesBefore(_ context.Context, t time.Time) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var deleted int64
	for id, wg := range ms.games {
		if wg.CreatedAt.Before(t) {
			delete(ms.games, id)
			deleted++
		}
	}
	return deleted, nil
}
