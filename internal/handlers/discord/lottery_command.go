package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KirkDiggler/lottery/internal/common/clock"
	"github.com/KirkDiggler/lottery/internal/common/ether"
	"github.com/KirkDiggler/lottery/internal/models"
	"github.com/KirkDiggler/lottery/internal/repositories/ledger"
	"github.com/KirkDiggler/lottery/internal/services/lottery"
	"github.com/KirkDiggler/lottery/internal/services/messaging"
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

const (
	historyLimit   = 5
	statementLimit = 5
)

// LotteryCommand handles the /lottery command
type LotteryCommand struct {
	BaseCommand
	lottery   lottery.Service
	wallet    *Wallet
	messaging messaging.Service
	clock     clock.Clock
	logger    logrus.FieldLogger
}

// NewLotteryCommand creates a new lottery command handler
func NewLotteryCommand(lotteryService lottery.Service, wallet *Wallet, messagingService messaging.Service, c clock.Clock, logger logrus.FieldLogger) *LotteryCommand {
	if c == nil {
		c = clock.New()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &LotteryCommand{
		BaseCommand: BaseCommand{
			Name:        "lottery",
			Description: "Recurring lottery commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "enter",
					Description: "Buy a ticket for the current round",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show the current round",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "balance",
					Description: "Show your balance",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "history",
					Description: "Show recent winners",
				},
			},
		},
		lottery:   lotteryService,
		wallet:    wallet,
		messaging: messagingService,
		clock:     c,
		logger:    logger.WithField("command", "lottery"),
	}
}

// Handle processes a Discord interaction for the lottery command
func (c *LotteryCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name || len(data.Options) == 0 {
		return nil
	}

	ctx := context.Background()
	userID, username := caller(i)

	switch data.Options[0].Name {
	case "enter":
		return c.handleEnter(ctx, s, i, userID, username)
	case "status":
		return c.handleStatus(ctx, s, i)
	case "balance":
		return c.handleBalance(ctx, s, i, userID, username)
	case "history":
		return c.handleHistory(ctx, s, i)
	default:
		return ErrUnknownSubcommand
	}
}

func (c *LotteryCommand) handleEnter(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID, username string) error {
	output, err := c.wallet.Enter(ctx, userID, username)
	if err != nil {
		c.logger.WithError(err).WithField("participant", userID).Info("entry rejected")

		msg, msgErr := c.messaging.GetEntryErrorMessage(ctx, &messaging.GetEntryErrorMessageInput{
			PlayerName:  username,
			ErrorType:   entryErrorType(err),
			EntranceFee: c.wallet.EntranceFee(),
		})
		if msgErr != nil {
			return RespondWithError(s, i, "", fmt.Sprintf("Failed to enter: %v", err))
		}
		return RespondWithError(s, i, msg.Title, msg.Message)
	}

	balance, err := c.wallet.Balance(ctx, userID)
	if err != nil {
		return RespondWithError(s, i, "", fmt.Sprintf("Entered, but failed to read your balance: %v", err))
	}

	return RespondWithEphemeralEmbed(s, i, "You're In!",
		fmt.Sprintf("Ticket %d in round %d.", output.EntrantCount, output.Round),
		[]*discordgo.MessageEmbedField{
			{Name: "Pot", Value: ether.Format(output.Pool) + " ETH", Inline: true},
			{Name: "Your Balance", Value: ether.Format(balance) + " ETH", Inline: true},
		})
}

func (c *LotteryCommand) handleStatus(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	status, err := c.lottery.GetStatus(ctx, &lottery.GetStatusInput{})
	if err != nil {
		return RespondWithError(s, i, "", fmt.Sprintf("Failed to get status: %v", err))
	}

	msg, err := c.messaging.GetStatusMessage(ctx, &messaging.GetStatusMessageInput{
		State:         status.State,
		Round:         status.Round,
		EntrantCount:  status.EntrantCount,
		Pool:          status.Pool,
		EntranceFee:   status.EntranceFee,
		RecentWinner:  status.RecentWinner,
		TimeUntilDraw: status.LastTimestamp.Add(status.Interval).Sub(c.clock.Now()),
	})
	if err != nil {
		return RespondWithError(s, i, "", fmt.Sprintf("Failed to describe status: %v", err))
	}

	return RespondWithEmbed(s, i, "Lottery Status", msg.Message, []*discordgo.MessageEmbedField{
		{Name: "State", Value: string(status.State), Inline: true},
		{Name: "Entrance Fee", Value: ether.Format(status.EntranceFee) + " ETH", Inline: true},
		{Name: "Interval", Value: status.Interval.String(), Inline: true},
	})
}

func (c *LotteryCommand) handleBalance(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID, username string) error {
	if _, err := c.wallet.EnsurePlayer(ctx, userID, username); err != nil {
		return RespondWithError(s, i, "", fmt.Sprintf("Failed to load your account: %v", err))
	}

	balance, err := c.wallet.Balance(ctx, userID)
	if err != nil {
		return RespondWithError(s, i, "", fmt.Sprintf("Failed to read your balance: %v", err))
	}

	var fields []*discordgo.MessageEmbedField
	entries, err := c.wallet.Statement(ctx, userID, statementLimit)
	if err != nil {
		c.logger.WithError(err).WithField("participant", userID).Warn("Failed to load statement")
	} else if len(entries) > 0 {
		var sb strings.Builder
		for _, entry := range entries {
			sign := "+"
			if entry.Kind == models.LedgerEntryDebit {
				sign = "-"
			}
			fmt.Fprintf(&sb, "%s%s ETH (%s)\n", sign, ether.Format(entry.Amount), entry.Reference)
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Recent Activity", Value: sb.String()})
	}

	return RespondWithEphemeralEmbed(s, i, "Balance",
		fmt.Sprintf("%s, you have %s ETH.", username, ether.Format(balance)), fields)
}

func (c *LotteryCommand) handleHistory(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	output, err := c.lottery.ListResults(ctx, &lottery.ListResultsInput{Limit: historyLimit})
	if err != nil {
		return RespondWithError(s, i, "", fmt.Sprintf("Failed to list results: %v", err))
	}

	if len(output.Results) == 0 {
		return RespondWithEmbed(s, i, "Recent Winners", "No rounds have been drawn yet.", nil)
	}

	var sb strings.Builder
	for _, result := range output.Results {
		fmt.Fprintf(&sb, "Round %d: <@%s> won %s ETH (%d entries, %s)\n",
			result.Number, result.Winner, ether.Format(result.Prize), result.EntrantCount,
			result.CompletedAt.Format(time.RFC822))
	}

	return RespondWithEmbed(s, i, "Recent Winners", sb.String(), nil)
}

// entryErrorType maps entry failures onto messaging categories
func entryErrorType(err error) messaging.EntryErrorType {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return messaging.EntryErrorInsufficientFunds
	case errors.Is(err, ledger.ErrAccountFrozen):
		return messaging.EntryErrorAccountFrozen
	case errors.Is(err, lottery.ErrLotteryNotOpen):
		return messaging.EntryErrorNotOpen
	case errors.Is(err, lottery.ErrInsufficientPayment):
		return messaging.EntryErrorInsufficientPayment
	default:
		return messaging.EntryErrorUnknown
	}
}
