// Package discord exposes the lottery to a Discord guild: players enter and
// check balances with /lottery, and an announcer posts round events to a
// channel.
package discord

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/KirkDiggler/lottery/internal/common/clock"
	"github.com/KirkDiggler/lottery/internal/repositories/ledger"
	"github.com/KirkDiggler/lottery/internal/repositories/player"
	"github.com/KirkDiggler/lottery/internal/services/events"
	"github.com/KirkDiggler/lottery/internal/services/lottery"
	"github.com/KirkDiggler/lottery/internal/services/messaging"
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// Bot represents the Discord bot instance
type Bot struct {
	session    *discordgo.Session
	config     *Config
	logger     logrus.FieldLogger
	command    *LotteryCommand
	announcer  *Announcer
	mu         sync.Mutex
	commands   map[string]CommandHandler
	commandIDs map[string]string // Maps command name to command ID
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// ChannelID receives announcements. Empty disables the announcer.
	ChannelID string

	// StartingBalance is credited to new players
	StartingBalance *big.Int

	// EntranceFee is debited per entry
	EntranceFee *big.Int

	LotteryService   lottery.Service
	MessagingService messaging.Service
	LedgerRepo       ledger.Repository
	PlayerRepo       player.Repository
	Publisher        events.Publisher
	Clock            clock.Clock
	Logger           logrus.FieldLogger
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Token == "" {
		return nil, ErrEmptyToken
	}

	if cfg.LotteryService == nil {
		return nil, ErrNilLottery
	}

	if cfg.MessagingService == nil {
		return nil, ErrNilMessaging
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger = logger.WithField("component", "discord")

	wallet, err := NewWallet(&WalletConfig{
		Lottery:         cfg.LotteryService,
		LedgerRepo:      cfg.LedgerRepo,
		PlayerRepo:      cfg.PlayerRepo,
		Clock:           cfg.Clock,
		EntranceFee:     cfg.EntranceFee,
		StartingBalance: cfg.StartingBalance,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}

	// Create a new Discord session
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	bot := &Bot{
		session:    session,
		config:     cfg,
		logger:     logger,
		command:    NewLotteryCommand(cfg.LotteryService, wallet, cfg.MessagingService, cfg.Clock, logger),
		commands:   make(map[string]CommandHandler),
		commandIDs: make(map[string]string),
	}

	if cfg.ChannelID != "" {
		bot.announcer, err = NewAnnouncer(&AnnouncerConfig{
			ChannelID:  cfg.ChannelID,
			Sender:     session,
			Publisher:  cfg.Publisher,
			Messaging:  cfg.MessagingService,
			PlayerRepo: cfg.PlayerRepo,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
	}

	// Register the interaction handler
	session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Start initializes the Discord connection and registers commands
func (b *Bot) Start() error {
	// Open the websocket connection to Discord
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if err := b.RegisterCommand(b.command); err != nil {
		return fmt.Errorf("failed to register lottery command: %w", err)
	}

	if b.announcer != nil {
		if err := b.announcer.Start(); err != nil {
			return fmt.Errorf("failed to start announcer: %w", err)
		}
	}

	b.logger.Info("bot is running")
	return nil
}

// Stop removes registered commands and closes the connection
func (b *Bot) Stop() error {
	appID := b.appID()

	b.mu.Lock()
	defer b.mu.Unlock()

	for cmdName, cmdID := range b.commandIDs {
		log := b.logger.WithFields(logrus.Fields{"command": cmdName, "command_id": cmdID})
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			log.WithError(err).Warn("failed to delete command")
		} else {
			log.Info("deleted command")
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord. Commands are registered
// for GuildID when set, globally otherwise.
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID := b.appID()

	createdCmd, err := b.session.ApplicationCommandCreate(appID, b.config.GuildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.mu.Lock()
	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	b.mu.Unlock()

	b.logger.WithFields(logrus.Fields{
		"command":    cmd.GetName(),
		"command_id": createdCmd.ID,
		"guild_id":   b.config.GuildID,
	}).Info("registered command")

	return nil
}

func (b *Bot) appID() string {
	if b.config.ApplicationID != "" {
		return b.config.ApplicationID
	}
	// Fall back to session user ID if application ID is not provided
	return b.session.State.User.ID
}

// handleInteraction dispatches slash commands
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name

	b.mu.Lock()
	h, ok := b.commands[name]
	b.mu.Unlock()
	if !ok {
		return
	}

	if err := h.Handle(s, i); err != nil {
		b.logger.WithError(err).WithField("command", name).Error("error handling command")
	}
}
