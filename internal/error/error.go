package error

import (
	"errors"
	"fmt"
)

// Wire codes sent back in RespErr.ErrorDetails
const (
	CodeMalformedGrid      = "MALFORMED_GRID"
	CodeInvalidFleet       = "INVALID_FLEET"
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeSessionAlreadyFull = "SESSION_ALREADY_FULL"
	CodeNotPlayersTurn     = "NOT_PLAYERS_TURN"
	CodeGameOver           = "GAME_OVER"
	CodeInputError         = "INPUT_ERROR"
	CodeDbError            = "DB_ERROR"
	CodeInternalError      = "INTERNAL_ERROR"
)

var (
	ErrMalformedGrid      = errors.New("malformed grid")
	ErrInvalidFleet       = errors.New("invalid fleet")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionAlreadyFull = errors.New("session already full")
	ErrNotPlayersTurn     = errors.New("not player's turn")
	ErrGameOver           = errors.New("game over")
	ErrInput              = errors.New("invalid input")
	ErrDb                 = errors.New("database error")

	// Only returned by the fleet generator. Means the placement
	// configuration is broken, not that a client sent bad input.
	ErrPlacementExhausted = errors.New("fleet placement attempts exhausted")
)

// Code maps err to the wire code the transport layer reports.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrMalformedGrid):
		return CodeMalformedGrid
	case errors.Is(err, ErrInvalidFleet):
		return CodeInvalidFleet
	case errors.Is(err, ErrSessionNotFound):
		return CodeSessionNotFound
	case errors.Is(err, ErrSessionAlreadyFull):
		return CodeSessionAlreadyFull
	case errors.Is(err, ErrNotPlayersTurn):
		return CodeNotPlayersTurn
	case errors.Is(err, ErrGameOver):
		return CodeGameOver
	case errors.Is(err, ErrInput):
		return CodeInputError
	case errors.Is(err, ErrDb):
		return CodeDbError
	default:
		return CodeInternalError
	}
}

func ErrGridRowsCount(rows int) error {
	return fmt.Errorf("%w: grid must have 10 rows, got: %d", ErrMalformedGrid, rows)
}

func ErrGridColsCount(row, cols int) error {
	return fmt.Errorf("%w: row %d must have 10 columns, got: %d", ErrMalformedGrid, row, cols)
}

func ErrGridCellValue(x, y int, value uint8) error {
	return fmt.Errorf("%w: invalid cell value\tx: %d\ty: %d\tvalue: %d", ErrMalformedGrid, x, y, value)
}

func ErrFleetComposition(size, expected, got int) error {
	return fmt.Errorf("%w: ships of size %d expected: %d\tgot: %d", ErrInvalidFleet, size, expected, got)
}

func ErrShipTooLong(size int) error {
	return fmt.Errorf("%w: ship of size %d is longer than allowed", ErrInvalidFleet, size)
}

func ErrGameNotExists(gameUuid string) error {
	return fmt.Errorf("%w: game with this uuid does not exist, uuid: %s", ErrSessionNotFound, gameUuid)
}

func ErrGameAlreadyFull(gameUuid string) error {
	return fmt.Errorf("%w: game already has two players, uuid: %s", ErrSessionAlreadyFull, gameUuid)
}

func ErrNotTurnForAttacker(playerUuid string) error {
	return fmt.Errorf("%w: player uuid: %s", ErrNotPlayersTurn, playerUuid)
}

func ErrGameFinished(gameUuid string) error {
	return fmt.Errorf("%w: game is not in progress anymore, uuid: %s", ErrGameOver, gameUuid)
}

func ErrPlayerNotExist(playerUuid string) error {
	return fmt.Errorf("%w: player with this uuid does not exist, uuid: %s", ErrInput, playerUuid)
}

func ErrPlayerAlreadyInGame(playerUuid, gameUuid string) error {
	return fmt.Errorf("%w: player %s is already part of game %s", ErrInput, playerUuid, gameUuid)
}

func ErrXorYOutOfGridBound(x, y uint8) error {
	return fmt.Errorf("%w: incoming x or y is out of game grid bound\tx: %d\ty: %d", ErrInput, x, y)
}

func ErrGameUuidMissing() error {
	return fmt.Errorf("%w: game uuid not specified", ErrInput)
}

func ErrDatabase(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDb, op, err)
}

func ErrPlacementAttempts(size, attempts int) error {
	return fmt.Errorf("%w: ship of size %d not placed after %d attempts", ErrPlacementExhausted, size, attempts)
}

func ErrInvalidPayload(err error) error {
	return fmt.Errorf("%w: could not decode payload: %v", ErrInput, err)
}
