package player

import "github.com/KirkDiggler/lottery/internal/models"

// CreatePlayerInput contains parameters for creating a player
type CreatePlayerInput struct {
	Player *models.Player
}

// SavePlayerInput contains parameters for saving a player
type SavePlayerInput struct {
	Player *models.Player
}

// GetPlayerInput contains parameters for retrieving a player
type GetPlayerInput struct {
	PlayerID string
}

// GetPlayersInput contains parameters for retrieving several players
type GetPlayersInput struct {
	PlayerIDs []string
}

// GetPlayersOutput maps player ID to player
type GetPlayersOutput struct {
	Players map[string]*models.Player
}
