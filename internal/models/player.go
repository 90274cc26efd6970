package models

import "time"

// Player is a Discord user known to the lottery
type Player struct {
	// ID is the Discord user ID, also the ledger account and entrant identity
	ID string

	// Name is the display name at last contact
	Name string

	// JoinedAt is when the player was first seen
	JoinedAt time.Time

	// LastSeenAt is when the player last used a command
	LastSeenAt time.Time
}
