package battleship

import (
	"math/rand/v2"
	"sync"
	"time"

	cerr "github.com/saeidalz13/seabattle-backend/internal/error"
)

type GameState uint8

const (
	GameStateWaiting GameState = iota
	GameStateInProgress
	GameStateFinished
	GameStateAborted
)

func (s GameState) String() string {
	switch s {
	case GameStateWaiting:
		return "WAITING"
	case GameStateInProgress:
		return "IN_PROGRESS"
	case GameStateFinished:
		return "FINISHED"
	case GameStateAborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

// TurnResult is what the attacker learns from one shot.
type TurnResult struct {
	Coordinates     Coordinates
	Hit             bool
	Sunk            bool
	ShipSize        int
	SunkCoordinates []Coordinates
	Win             bool

	AttackerUuid  string
	DefenderUuid  string
	TurnOwnerUuid string
}

// Game is the combat state of one matched pair of players. Every
// exported method takes mu, so turns of a single game never interleave.
type Game struct {
	mu        sync.Mutex
	uuid      string
	host      *Player
	join      *Player
	turnOwner *Player
	state     GameState
	startedAt time.Time
	endedAt   time.Time
}

// NewGame starts the game with a first turn owner picked uniformly at
// random. rng may be nil.
func NewGame(uuid string, host, join *Player, rng *rand.Rand) *Game {
	pick := rand.IntN
	if rng != nil {
		pick = rng.IntN
	}

	game := &Game{
		uuid:      uuid,
		host:      host,
		join:      join,
		state:     GameStateInProgress,
		startedAt: time.Now(),
	}

	game.turnOwner = host
	if pick(2) == 1 {
		game.turnOwner = join
	}
	return game
}

func (g *Game) Uuid() string {
	return g.uuid
}

func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Game) TurnOwner() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.turnOwner.uuid
}

func (g *Game) EndedAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.endedAt
}

// FetchPlayer returns the host if isHost, the join player otherwise.
func (g *Game) FetchPlayer(isHost bool) *Player {
	if isHost {
		return g.host
	}
	return g.join
}

func (g *Game) FindPlayer(playerUuid string) (*Player, error) {
	switch playerUuid {
	case g.host.uuid:
		return g.host, nil
	case g.join.uuid:
		return g.join, nil
	default:
		return nil, cerr.ErrPlayerNotExist(playerUuid)
	}
}

func (g *Game) GetOtherPlayer(player *Player) *Player {
	if player == g.host {
		return g.join
	}
	return g.host
}

// ApplyTurn fires the attacker's shot at the opponent's fleet. A hit
// keeps the turn with the attacker and a miss hands it over.
func (g *Game) ApplyTurn(attackerUuid string, c Coordinates) (TurnResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != GameStateInProgress {
		return TurnResult{}, cerr.ErrGameFinished(g.uuid)
	}

	attacker, err := g.FindPlayer(attackerUuid)
	if err != nil {
		return TurnResult{}, err
	}
	if attacker != g.turnOwner {
		return TurnResult{}, cerr.ErrNotTurnForAttacker(attackerUuid)
	}
	if !c.InBound() {
		return TurnResult{}, cerr.ErrXorYOutOfGridBound(c.X, c.Y)
	}

	defender := g.GetOtherPlayer(attacker)
	strike := defender.receiveStrike(c)

	if !strike.Hit {
		g.turnOwner = defender
	}

	result := TurnResult{
		Coordinates:     c,
		Hit:             strike.Hit,
		Sunk:            strike.Sunk,
		ShipSize:        strike.ShipSize,
		SunkCoordinates: strike.SunkCoordinates,
		Win:             strike.Defeated,
		AttackerUuid:    attacker.uuid,
		DefenderUuid:    defender.uuid,
		TurnOwnerUuid:   g.turnOwner.uuid,
	}

	if strike.Defeated {
		attacker.setMatchStatus(PlayerMatchStatusWon)
		defender.setMatchStatus(PlayerMatchStatusLost)
		g.finish(GameStateFinished)
	}

	return result, nil
}

// Abort ends an in progress game because playerUuid left and returns
// the player who stayed. A game that already ended keeps its state.
func (g *Game) Abort(playerUuid string) (*Player, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	leaver, err := g.FindPlayer(playerUuid)
	if err != nil {
		return nil, false, err
	}

	if g.state != GameStateInProgress {
		return g.GetOtherPlayer(leaver), false, nil
	}
	g.finish(GameStateAborted)
	return g.GetOtherPlayer(leaver), true, nil
}

func (g *Game) finish(state GameState) {
	g.state = state
	g.endedAt = time.Now()
}
