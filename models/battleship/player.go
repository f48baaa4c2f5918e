package battleship

const (
	PlayerMatchStatusLost      = -1
	PlayerMatchStatusUndefined = 0
	PlayerMatchStatusWon       = 1
)

// Player keeps its grid to itself. The opponent only ever learns the
// outcome of the positions it fires at.
type Player struct {
	uuid        string
	name        string
	isHost      bool
	matchStatus int
	grid        Grid
	fleet       *FleetIndex
}

func NewPlayer(uuid, name string, isHost bool, grid Grid) (*Player, error) {
	fleet, err := NewFleetIndex(grid)
	if err != nil {
		return nil, err
	}

	return &Player{
		uuid:        uuid,
		name:        name,
		isHost:      isHost,
		matchStatus: PlayerMatchStatusUndefined,
		grid:        grid.Clone(),
		fleet:       fleet,
	}, nil
}

func (p *Player) Uuid() string {
	return p.uuid
}

func (p *Player) Name() string {
	return p.name
}

func (p *Player) IsHost() bool {
	return p.isHost
}

func (p *Player) MatchStatus() int {
	return p.matchStatus
}

// Grid returns a copy of the player's own grid. Only the owner
// should ever be sent this.
func (p *Player) Grid() Grid {
	return p.grid.Clone()
}

func (p *Player) AliveShips() int {
	return p.fleet.AliveShips()
}

func (p *Player) IsLoser() bool {
	return p.fleet.AliveShips() == 0
}

func (p *Player) receiveStrike(c Coordinates) StrikeResult {
	return p.fleet.Strike(c)
}

func (p *Player) setMatchStatus(status int) {
	p.matchStatus = status
}
