package battleship

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	cerr "github.com/saeidalz13/seabattle-backend/internal/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFleetComposition(t *testing.T) {
	for seed := uint64(0); seed < 200; seed++ {
		grid, err := GenerateFleet(rand.New(rand.NewPCG(seed, seed*31+7)))
		require.NoError(t, err)

		require.True(t, grid.IsWellFormed())
		require.Equal(t, FleetOccupiedCells, grid.OccupiedCount())

		fi, err := NewFleetIndex(grid)
		require.NoError(t, err)
		require.Equal(t, FleetComposition, fi.CountBySize(), "seed %d", seed)
		require.Equal(t, FleetShipsCount, fi.AliveShips())

		require.NoError(t, ValidateGrid(grid), "seed %d", seed)
	}
}

func TestGenerateFleetKeepsHalo(t *testing.T) {
	for seed := uint64(0); seed < 100; seed++ {
		grid := MustGenerateFleet(rand.New(rand.NewPCG(seed, 1)))
		fi, err := NewFleetIndex(grid)
		require.NoError(t, err)

		for _, ship := range fi.Ships() {
			for _, c := range ship.Coordinates() {
				for _, n := range c.Neighbours(HaloOffsets[:]) {
					other, prs := fi.ShipAt(n)
					if prs {
						assert.Same(t, ship, other, "seed %d: ships touch at %v and %v", seed, c, n)
					}
				}
			}
		}
	}
}

func TestGenerateFleetIsDeterministicForSeed(t *testing.T) {
	a := MustGenerateFleet(rand.New(rand.NewPCG(42, 42)))
	b := MustGenerateFleet(rand.New(rand.NewPCG(42, 42)))

	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed produced different grids (-a +b):\n%s", diff)
	}
}

func TestGenerateFleetWithoutRng(t *testing.T) {
	grid, err := GenerateFleet(nil)
	require.NoError(t, err)
	assert.True(t, IsValidGrid(grid))
}

func TestFindRunExhausted(t *testing.T) {
	excluded := make(map[Coordinates]struct{}, GridSize*GridSize)
	for _, c := range shipCoordinates(filledGrid(PositionStateShip)) {
		excluded[c] = struct{}{}
	}

	_, err := findRun(rand.New(rand.NewPCG(1, 2)), 1, excluded)
	require.ErrorIs(t, err, cerr.ErrPlacementExhausted)
}
