package battleship

const (
	MaxShipLength = 4

	// 1·4 + 2·3 + 3·2 + 4·1
	FleetOccupiedCells = 20
	FleetShipsCount    = 10
)

// FleetComposition is the required number of ships per ship length.
var FleetComposition = map[int]int{
	4: 1,
	3: 2,
	2: 3,
	1: 4,
}

// Lengths in the order the generator places them.
var fleetPlacementOrder = [MaxShipLength]int{4, 3, 2, 1}

type Ship struct {
	coordinates []Coordinates
	remaining   int
}

func NewShip(coordinates []Coordinates) *Ship {
	return &Ship{
		coordinates: coordinates,
		remaining:   len(coordinates),
	}
}

func (sh *Ship) Length() int {
	return len(sh.coordinates)
}

func (sh *Ship) Remaining() int {
	return sh.remaining
}

func (sh *Ship) Coordinates() []Coordinates {
	return append([]Coordinates(nil), sh.coordinates...)
}

// GotHit takes one section off the ship and reports whether it sank.
func (sh *Ship) GotHit() bool {
	if sh.remaining > 0 {
		sh.remaining--
	}
	return sh.IsSunk()
}

func (sh *Ship) IsSunk() bool {
	return sh.remaining == 0
}
