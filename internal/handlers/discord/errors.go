package discord

// DiscordError is a custom error type for bot setup and command errors
type DiscordError string

// Error implements the error interface
func (e DiscordError) Error() string {
	return string(e)
}

const (
	ErrNilConfig          DiscordError = "config cannot be nil"
	ErrEmptyToken         DiscordError = "token cannot be empty"
	ErrEmptyChannelID     DiscordError = "channel ID cannot be empty"
	ErrNilLottery         DiscordError = "lottery service cannot be nil"
	ErrNilMessaging       DiscordError = "messaging service cannot be nil"
	ErrNilLedgerRepo      DiscordError = "ledger repository cannot be nil"
	ErrNilPlayerRepo      DiscordError = "player repository cannot be nil"
	ErrNilSender          DiscordError = "sender cannot be nil"
	ErrNilPublisher       DiscordError = "publisher cannot be nil"
	ErrInvalidEntranceFee DiscordError = "entrance fee must be positive"
	ErrUnknownSubcommand  DiscordError = "unknown subcommand"
)
