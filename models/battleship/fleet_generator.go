package battleship

import (
	"math/rand/v2"

	cerr "github.com/saeidalz13/seabattle-backend/internal/error"
)

// Upper bound of candidate runs tried for a single ship. The standard
// fleet on a 10x10 board needs a few dozen at worst.
const maxPlacementAttempts = 10_000

// GenerateFleet lays out the standard fleet at random, keeping a
// one-cell halo free around every ship. rng may be nil.
func GenerateFleet(rng *rand.Rand) (Grid, error) {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	grid := NewGrid()
	// occupied-or-halo; thrown away once the grid is done
	excluded := make(map[Coordinates]struct{}, GridSize*GridSize)

	for _, length := range fleetPlacementOrder {
		for placed := 0; placed < FleetComposition[length]; placed++ {
			run, err := findRun(rng, length, excluded)
			if err != nil {
				return nil, err
			}

			for _, c := range run {
				grid.Set(c, PositionStateShip)
				excluded[c] = struct{}{}
				for _, n := range c.Neighbours(HaloOffsets[:]) {
					excluded[n] = struct{}{}
				}
			}
		}
	}

	return grid, nil
}

// MustGenerateFleet panics if the placement attempts run out.
func MustGenerateFleet(rng *rand.Rand) Grid {
	grid, err := GenerateFleet(rng)
	if err != nil {
		panic(err)
	}
	return grid
}

func findRun(rng *rand.Rand, length int, excluded map[Coordinates]struct{}) ([]Coordinates, error) {
	run := make([]Coordinates, 0, length)

candidateLoop:
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		run = run[:0]

		sign := 1
		if rng.IntN(2) == 0 {
			sign = -1
		}
		step := Offset{DX: sign}
		if rng.IntN(2) == 0 {
			step = Offset{DY: sign}
		}

		c := NewCoordinates(uint8(rng.IntN(GridSize)), uint8(rng.IntN(GridSize)))
		for {
			if _, taken := excluded[c]; taken {
				continue candidateLoop
			}
			run = append(run, c)
			if len(run) == length {
				return run, nil
			}

			var ok bool
			if c, ok = c.Step(step); !ok {
				continue candidateLoop
			}
		}
	}

	return nil, cerr.ErrPlacementAttempts(length, maxPlacementAttempts)
}
