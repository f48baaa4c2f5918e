package battleship

import (
	"slices"
)

// FleetIndex resolves hits against one player's fleet. A coordinate is
// present in sections only while its ship still has sections left.
type FleetIndex struct {
	ships      []*Ship
	sections   map[Coordinates]*Ship
	aliveShips int
}

// StrikeResult is the outcome of one shot at a FleetIndex.
type StrikeResult struct {
	Hit      bool
	Sunk     bool
	ShipSize int

	// Coordinates of the ship that just sank
	SunkCoordinates []Coordinates
	Defeated        bool
}

// NewFleetIndex splits the grid into straight ships. Runs are followed
// along the 4 edge directions only, so diagonal neighbours end up as
// separate ships. A cell already claimed by an earlier ship stops a run,
// which keeps every section owned by exactly one ship even for grids
// that are not made of straight lines.
func NewFleetIndex(grid Grid) (*FleetIndex, error) {
	if err := checkShape(grid); err != nil {
		return nil, err
	}

	fi := &FleetIndex{
		ships:    make([]*Ship, 0, FleetShipsCount),
		sections: make(map[Coordinates]*Ship, FleetOccupiedCells),
	}

	for x := uint8(0); x < GridSize; x++ {
		for y := uint8(0); y < GridSize; y++ {
			seed := NewCoordinates(x, y)
			if !grid.IsShip(seed) {
				continue
			}
			if fi.isAssigned(seed) {
				continue
			}

			coordinates := []Coordinates{seed}
			for _, o := range EdgeOffsets {
				next, ok := seed.Step(o)
				for ok && grid.IsShip(next) && !fi.isAssigned(next) {
					coordinates = append(coordinates, next)
					next, ok = next.Step(o)
				}
			}
			slices.SortFunc(coordinates, compareCoordinates)

			ship := NewShip(coordinates)
			fi.ships = append(fi.ships, ship)
			for _, c := range coordinates {
				fi.sections[c] = ship
			}
			fi.aliveShips++
		}
	}

	return fi, nil
}

func (fi *FleetIndex) isAssigned(c Coordinates) bool {
	_, assigned := fi.sections[c]
	return assigned
}

func compareCoordinates(a, b Coordinates) int {
	if a.X != b.X {
		return int(a.X) - int(b.X)
	}
	return int(a.Y) - int(b.Y)
}

func (fi *FleetIndex) AliveShips() int {
	return fi.aliveShips
}

func (fi *FleetIndex) Ships() []*Ship {
	return fi.ships
}

// ShipAt returns the live ship covering c, if any.
func (fi *FleetIndex) ShipAt(c Coordinates) (*Ship, bool) {
	ship, prs := fi.sections[c]
	return ship, prs
}

// CountBySize buckets every indexed ship by its length.
func (fi *FleetIndex) CountBySize() map[int]int {
	buckets := make(map[int]int, MaxShipLength)
	for _, ship := range fi.ships {
		buckets[ship.Length()]++
	}
	return buckets
}

// Strike fires at c. A position with no live section is a miss, which
// also covers firing again at a section that was already destroyed.
func (fi *FleetIndex) Strike(c Coordinates) StrikeResult {
	ship, prs := fi.sections[c]
	if !prs {
		return StrikeResult{}
	}

	delete(fi.sections, c)
	result := StrikeResult{Hit: true}
	if !ship.GotHit() {
		return result
	}

	for _, sc := range ship.coordinates {
		delete(fi.sections, sc)
	}
	fi.aliveShips--

	result.Sunk = true
	result.ShipSize = ship.Length()
	result.SunkCoordinates = ship.Coordinates()
	result.Defeated = fi.aliveShips == 0
	return result
}
