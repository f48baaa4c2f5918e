package battleship

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Fleet with a known layout:
// row 0: length 4 at cols 0-3
// row 2: length 2 at cols 0-1 and 3-4
// row 4: length 3 at cols 0-2 and 4-6
// row 6: length 2 at cols 0-1
// row 8: length 1 at cols 0, 2, 4, 6
var fixedFleetRows = []string{
	"1111000000",
	"0000000000",
	"1101100000",
	"0000000000",
	"1110111000",
	"0000000000",
	"1100000000",
	"0000000000",
	"1010101000",
	"0000000000",
}

func gridFromRows(t *testing.T, rows []string) Grid {
	t.Helper()

	grid := make(Grid, len(rows))
	for i, row := range rows {
		grid[i] = make([]uint8, len(row))
		for j, ch := range row {
			require.Contains(t, "01", string(ch))
			grid[i][j] = uint8(ch - '0')
		}
	}
	return grid
}

func fixedFleetGrid(t *testing.T) Grid {
	return gridFromRows(t, fixedFleetRows)
}

func filledGrid(state uint8) Grid {
	grid := NewGrid()
	for _, row := range grid {
		for j := range row {
			row[j] = state
		}
	}
	return grid
}

func shipCoordinates(grid Grid) []Coordinates {
	var coords []Coordinates
	for x := uint8(0); x < GridSize; x++ {
		for y := uint8(0); y < GridSize; y++ {
			if grid.IsShip(NewCoordinates(x, y)) {
				coords = append(coords, NewCoordinates(x, y))
			}
		}
	}
	return coords
}
