package player

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/lottery/internal/repositories/player Repository

import (
	"context"

	"github.com/KirkDiggler/lottery/internal/models"
)

// Repository defines the interface for player data persistence
type Repository interface {
	// CreatePlayer persists a new player, failing with ErrPlayerExists when
	// the ID is already taken
	CreatePlayer(ctx context.Context, input *CreatePlayerInput) error

	// SavePlayer persists a player
	SavePlayer(ctx context.Context, input *SavePlayerInput) error

	// GetPlayer retrieves a player by ID
	GetPlayer(ctx context.Context, input *GetPlayerInput) (*models.Player, error)

	// GetPlayers retrieves several players at once, skipping unknown IDs
	GetPlayers(ctx context.Context, input *GetPlayersInput) (*GetPlayersOutput, error)
}
