package connection

import (
	"time"

	mb "github.com/saeidalz13/seabattle-backend/models/battleship"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type AvailableGame struct {
	GameUuid    string    `json:"game_uuid"`
	CreatorName string    `json:"creator_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Creator grids are never part of the listing
func NewAvailableGame(wg mb.WaitingGame) AvailableGame {
	return AvailableGame{
		GameUuid:    wg.Uuid,
		CreatorName: wg.CreatorName,
		CreatedAt:   wg.CreatedAt,
	}
}

type RespAvailableGames struct {
	Games []AvailableGame `json:"games"`
}

type RespCreateGame struct {
	GameUuid string  `json:"game_uuid"`
	Grid     mb.Grid `json:"grid"`
}

// Sent to each player with their own grid only
type RespStartGame struct {
	GameUuid     string  `json:"game_uuid"`
	IsTurn       bool    `json:"is_turn"`
	Grid         mb.Grid `json:"grid"`
	OpponentName string  `json:"opponent_name,omitempty"`
}

func NewRespStartGame(game *mb.Game, player *mb.Player) RespStartGame {
	return RespStartGame{
		GameUuid:     game.Uuid(),
		IsTurn:       game.TurnOwner() == player.Uuid(),
		Grid:         player.Grid(),
		OpponentName: game.GetOtherPlayer(player).Name(),
	}
}

type RespAttack struct {
	X                         uint8            `json:"x"`
	Y                         uint8            `json:"y"`
	Hit                       bool             `json:"hit"`
	Sunk                      bool             `json:"sunk,omitempty"`
	ShipSize                  int              `json:"ship_size,omitempty"`
	DefenderSunkenShipsCoords []mb.Coordinates `json:"defender_sunken_ships_coords,omitempty"`
	Win                       bool             `json:"win"`
	IsTurn                    bool             `json:"is_turn"`
}

func NewRespAttack(result mb.TurnResult) RespAttack {
	return RespAttack{
		X:                         result.Coordinates.X,
		Y:                         result.Coordinates.Y,
		Hit:                       result.Hit,
		Sunk:                      result.Sunk,
		ShipSize:                  result.ShipSize,
		DefenderSunkenShipsCoords: result.SunkCoordinates,
		Win:                       result.Win,
		IsTurn:                    result.TurnOwnerUuid == result.AttackerUuid,
	}
}

type RespAttacked struct {
	X        uint8 `json:"x"`
	Y        uint8 `json:"y"`
	Hit      bool  `json:"hit"`
	Sunk     bool  `json:"sunk,omitempty"`
	ShipSize int   `json:"ship_size,omitempty"`
	IsTurn   bool  `json:"is_turn"`
}

func NewRespAttacked(result mb.TurnResult) RespAttacked {
	return RespAttacked{
		X:        result.Coordinates.X,
		Y:        result.Coordinates.Y,
		Hit:      result.Hit,
		Sunk:     result.Sunk,
		ShipSize: result.ShipSize,
		IsTurn:   result.TurnOwnerUuid == result.DefenderUuid,
	}
}

type RespEndGame struct {
	PlayerMatchStatus int `json:"player_match_status"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
