package battleship

import "encoding/json"

const GridSize = 10

const (
	ValidLowerBound uint8 = 0
	ValidUpperBound uint8 = GridSize - 1
)

const (
	PositionStateEmpty uint8 = iota
	PositionStateShip
)

type Coordinates struct {
	X uint8 `json:"x"`
	Y uint8 `json:"y"`
}

func NewCoordinates(x, y uint8) Coordinates {
	return Coordinates{X: x, Y: y}
}

func (c Coordinates) InBound() bool {
	return c.X <= ValidUpperBound && c.Y <= ValidUpperBound
}

// Offset is a (row, col) step relative to a coordinate.
type Offset struct {
	DX int
	DY int
}

var (
	// Used to walk along a ship
	EdgeOffsets = [4]Offset{{-1, 0}, {0, -1}, {0, 1}, {1, 0}}

	// The one-cell buffer around every generated ship
	HaloOffsets = [8]Offset{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	}
)

// Step returns c moved by o. ok is false if the result
// falls outside the grid.
func (c Coordinates) Step(o Offset) (Coordinates, bool) {
	x, y := int(c.X)+o.DX, int(c.Y)+o.DY
	if x < 0 || x >= GridSize || y < 0 || y >= GridSize {
		return Coordinates{}, false
	}
	return NewCoordinates(uint8(x), uint8(y)), true
}

// Neighbours lists the in-bound positions around c for the given offsets.
func (c Coordinates) Neighbours(offsets []Offset) []Coordinates {
	neighbours := make([]Coordinates, 0, len(offsets))
	for _, o := range offsets {
		if n, ok := c.Step(o); ok {
			neighbours = append(neighbours, n)
		}
	}
	return neighbours
}

// Grid is a player's private occupancy grid. It is a slice of
// slices so that client supplied grids of the wrong shape can be
// decoded and rejected by ValidateGrid.
type Grid [][]uint8

// Creates a new default grid
// All indexes are zero/PositionStateEmpty
func NewGrid() Grid {
	grid := make(Grid, GridSize)
	for i := range grid {
		grid[i] = make([]uint8, GridSize)
	}
	return grid
}

func (g Grid) IsWellFormed() bool {
	if len(g) != GridSize {
		return false
	}
	for _, row := range g {
		if len(row) != GridSize {
			return false
		}
	}
	return true
}

// At reports the state at c. Anything outside the grid reads as empty.
func (g Grid) At(c Coordinates) uint8 {
	if int(c.X) >= len(g) || int(c.Y) >= len(g[c.X]) {
		return PositionStateEmpty
	}
	return g[c.X][c.Y]
}

func (g Grid) IsShip(c Coordinates) bool {
	return g.At(c) == PositionStateShip
}

// Set writes state at c and reports whether c was inside the grid.
func (g Grid) Set(c Coordinates, state uint8) bool {
	if int(c.X) >= len(g) || int(c.Y) >= len(g[c.X]) {
		return false
	}
	g[c.X][c.Y] = state
	return true
}

func (g Grid) Clone() Grid {
	clone := make(Grid, len(g))
	for i, row := range g {
		clone[i] = append([]uint8(nil), row...)
	}
	return clone
}

// MarshalJSON writes every row as an array of numbers. A plain
// []uint8 would come out as a base64 string.
func (g Grid) MarshalJSON() ([]byte, error) {
	if g == nil {
		return []byte("null"), nil
	}

	rows := make([][]int, len(g))
	for i, row := range g {
		rows[i] = make([]int, len(row))
		for j, cell := range row {
			rows[i][j] = int(cell)
		}
	}
	return json.Marshal(rows)
}

func (g Grid) OccupiedCount() int {
	count := 0
	for _, row := range g {
		for _, cell := range row {
			if cell == PositionStateShip {
				count++
			}
		}
	}
	return count
}
