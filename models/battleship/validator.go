package battleship

import (
	cerr "github.com/saeidalz13/seabattle-backend/internal/error"
)

func checkShape(grid Grid) error {
	if len(grid) != GridSize {
		return cerr.ErrGridRowsCount(len(grid))
	}
	for i, row := range grid {
		if len(row) != GridSize {
			return cerr.ErrGridColsCount(i, len(row))
		}
	}
	return nil
}

// ValidateGrid checks a client supplied grid against the standard
// fleet. The halo between ships is not checked here; only the
// generator enforces it.
func ValidateGrid(grid Grid) error {
	if err := checkShape(grid); err != nil {
		return err
	}
	for x, row := range grid {
		for y, cell := range row {
			if cell != PositionStateEmpty && cell != PositionStateShip {
				return cerr.ErrGridCellValue(x, y, cell)
			}
		}
	}

	fi, err := NewFleetIndex(grid)
	if err != nil {
		return err
	}

	buckets := fi.CountBySize()
	for size := range buckets {
		if size > MaxShipLength {
			return cerr.ErrShipTooLong(size)
		}
	}
	for size := 1; size <= MaxShipLength; size++ {
		if buckets[size] != FleetComposition[size] {
			return cerr.ErrFleetComposition(size, FleetComposition[size], buckets[size])
		}
	}
	return nil
}

func IsValidGrid(grid Grid) bool {
	return ValidateGrid(grid) == nil
}
