package discord

import (
	"context"

	"github.com/KirkDiggler/lottery/internal/models"
	"github.com/KirkDiggler/lottery/internal/repositories/player"
	"github.com/KirkDiggler/lottery/internal/services/events"
	"github.com/KirkDiggler/lottery/internal/services/messaging"
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// Sender posts embeds to a channel. *discordgo.Session satisfies it.
type Sender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

const (
	colorInfo    = 0x3498db
	colorWinner  = 0xf1c40f
	colorSuccess = 0x00ff00
	colorError   = 0xff0000
)

// AnnouncerConfig holds configuration for the announcer
type AnnouncerConfig struct {
	ChannelID  string
	Sender     Sender
	Publisher  events.Publisher
	Messaging  messaging.Service
	PlayerRepo player.Repository
	Logger     logrus.FieldLogger
}

// Announcer posts lottery events to a channel
type Announcer struct {
	channelID  string
	sender     Sender
	publisher  events.Publisher
	messaging  messaging.Service
	playerRepo player.Repository
	logger     logrus.FieldLogger
}

// NewAnnouncer creates an announcer
func NewAnnouncer(cfg *AnnouncerConfig) (*Announcer, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.ChannelID == "" {
		return nil, ErrEmptyChannelID
	}
	if cfg.Sender == nil {
		return nil, ErrNilSender
	}
	if cfg.Publisher == nil {
		return nil, ErrNilPublisher
	}
	if cfg.Messaging == nil {
		return nil, ErrNilMessaging
	}
	if cfg.PlayerRepo == nil {
		return nil, ErrNilPlayerRepo
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Announcer{
		channelID:  cfg.ChannelID,
		sender:     cfg.Sender,
		publisher:  cfg.Publisher,
		messaging:  cfg.Messaging,
		playerRepo: cfg.PlayerRepo,
		logger:     logger.WithField("component", "announcer"),
	}, nil
}

// Start subscribes to every lottery event type
func (a *Announcer) Start() error {
	for _, eventType := range []models.EventType{
		models.EventTypeEntered,
		models.EventTypeWinnerRequested,
		models.EventTypeWinnerPicked,
	} {
		if err := a.publisher.Subscribe(eventType, a.handle); err != nil {
			return err
		}
	}
	return nil
}

func (a *Announcer) handle(event *models.Event) {
	ctx := context.Background()

	embed, err := a.render(ctx, event)
	if err != nil {
		a.logger.WithError(err).WithField("event_type", event.Type).Error("failed to render announcement")
		return
	}
	if embed == nil {
		return
	}

	if _, err := a.sender.ChannelMessageSendEmbed(a.channelID, embed); err != nil {
		a.logger.WithError(err).WithField("event_type", event.Type).Warn("failed to send announcement")
	}
}

func (a *Announcer) render(ctx context.Context, event *models.Event) (*discordgo.MessageEmbed, error) {
	switch event.Type {
	case models.EventTypeEntered:
		out, err := a.messaging.GetEnteredMessage(ctx, &messaging.GetEnteredMessageInput{
			PlayerName:   a.displayName(ctx, event.Participant),
			EntrantCount: event.EntrantCount,
			Pool:         event.Pool,
		})
		if err != nil {
			return nil, err
		}
		return &discordgo.MessageEmbed{Title: out.Title, Description: out.Message, Color: colorInfo}, nil

	case models.EventTypeWinnerRequested:
		out, err := a.messaging.GetWinnerRequestedMessage(ctx, &messaging.GetWinnerRequestedMessageInput{
			Round:        event.Round,
			EntrantCount: event.EntrantCount,
			Pool:         event.Pool,
		})
		if err != nil {
			return nil, err
		}
		return &discordgo.MessageEmbed{Title: "Drawing a Winner", Description: out.Message, Color: colorInfo}, nil

	case models.EventTypeWinnerPicked:
		out, err := a.messaging.GetWinnerPickedMessage(ctx, &messaging.GetWinnerPickedMessageInput{
			WinnerName: a.displayName(ctx, event.Winner),
			Prize:      event.Prize,
			Round:      event.Round,
		})
		if err != nil {
			return nil, err
		}
		return &discordgo.MessageEmbed{Title: out.Title, Description: out.Message, Color: colorWinner}, nil
	}

	return nil, nil
}

// displayName falls back to the raw ID for participants who never used the bot
func (a *Announcer) displayName(ctx context.Context, playerID string) string {
	p, err := a.playerRepo.GetPlayer(ctx, &player.GetPlayerInput{PlayerID: playerID})
	if err != nil || p.Name == "" {
		return playerID
	}
	return p.Name
}
