package connection

const (
	CodeSessionID uint8 = iota

	// Sent on connect and on request: games waiting for a second player
	CodeAvailableGames
	CodeCreateGame
	CodeJoinGame

	// Sent to both players once the second player joined
	CodeStartGame
	CodeAttack

	// Tells the defender where the attacker fired
	CodeAttacked
	CodeEndGame

	// Player leaves a game without closing the connection
	CodeLeaveGame
	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent

	CodeOtherPlayerDisconnected
)
