package connection

import (
	mb "github.com/saeidalz13/seabattle-backend/models/battleship"
)

// A missing grid means the server places the fleet.
type ReqCreateGame struct {
	Grid     mb.Grid `json:"grid,omitempty"`
	UserName string  `json:"user_name"`
}

type ReqJoinGame struct {
	GameUuid string  `json:"game_uuid"`
	Grid     mb.Grid `json:"grid,omitempty"`
	UserName string  `json:"user_name"`
}

type ReqAttack struct {
	GameUuid string `json:"game_uuid"`
	X        uint8  `json:"x"`
	Y        uint8  `json:"y"`
}

type ReqLeaveGame struct {
	GameUuid string `json:"game_uuid"`
}
