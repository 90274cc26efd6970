package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/KirkDiggler/lottery/internal/common/ether"
	"github.com/KirkDiggler/lottery/internal/models"
	"github.com/KirkDiggler/lottery/internal/repositories/ledger"
	"github.com/KirkDiggler/lottery/internal/repositories/player"
	"github.com/KirkDiggler/lottery/internal/repositories/round"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const statementLimit = 10

var (
	statusResults int
	statusAccount string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the persisted round, recent winners and an optional balance",
	Example: `  lottery status
  lottery status --results 10
  lottery status --account 123456789012345678`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		roundRepo, err := round.NewRedis(&round.Config{RedisClient: redisClient})
		if err != nil {
			return err
		}

		current, err := roundRepo.GetRound(ctx, &round.GetRoundInput{LotteryID: cfg.LotteryID})
		if errors.Is(err, round.ErrRoundNotFound) {
			fmt.Fprintf(cmd.OutOrStdout(), "lottery %q has no rounds yet\n", cfg.LotteryID)
			return nil
		}
		if err != nil {
			return err
		}

		results, err := roundRepo.ListResults(ctx, &round.ListResultsInput{
			LotteryID: cfg.LotteryID,
			Limit:     statusResults,
		})
		if err != nil {
			return err
		}

		playerRepo, err := player.NewRedis(&player.Config{RedisClient: redisClient})
		if err != nil {
			return err
		}
		winners := make([]string, 0, len(results.Results))
		for _, result := range results.Results {
			winners = append(winners, result.Winner)
		}
		known, err := playerRepo.GetPlayers(ctx, &player.GetPlayersInput{PlayerIDs: winners})
		if err != nil {
			return err
		}

		printStatus(cmd.OutOrStdout(), current, cfg.Interval, results.Results, known.Players)

		if statusAccount != "" {
			ledgerRepo, err := ledger.NewRedis(&ledger.Config{RedisClient: redisClient})
			if err != nil {
				return err
			}
			balance, err := ledgerRepo.GetBalance(ctx, &ledger.GetBalanceInput{AccountID: statusAccount})
			if err != nil {
				return err
			}
			statement, err := ledgerRepo.ListEntries(ctx, &ledger.ListEntriesInput{
				AccountID: statusAccount,
				Limit:     statementLimit,
			})
			if err != nil {
				return err
			}
			printAccount(cmd.OutOrStdout(), statusAccount, balance, statement.Entries)
		}

		return nil
	},
}

func init() {
	statusCmd.Flags().IntVar(&statusResults, "results", 5, "number of recent results to show (0 for all)")
	statusCmd.Flags().StringVar(&statusAccount, "account", "", "ledger account to show the balance of")
}

func printStatus(w io.Writer, r *models.Round, interval time.Duration, results []*models.RoundResult, players map[string]*models.Player) {
	fmt.Fprintf(w, "lottery:        %s\n", r.LotteryID)
	fmt.Fprintf(w, "round:          %d\n", r.Number)
	fmt.Fprintf(w, "state:          %s\n", r.State)
	fmt.Fprintf(w, "entrants:       %d\n", len(r.Entrants))
	fmt.Fprintf(w, "pool:           %s ETH\n", ether.Format(r.Pool))
	fmt.Fprintf(w, "started:        %s\n", r.LastTimestamp.Format(time.RFC3339))
	fmt.Fprintf(w, "draw due:       %s\n", r.LastTimestamp.Add(interval).Format(time.RFC3339))
	if r.PendingRequest != nil {
		fmt.Fprintf(w, "pending req:    %s (since %s)\n", r.PendingRequest.RequestID, r.PendingRequest.RequestedAt.Format(time.RFC3339))
	}
	if r.RecentWinner != "" {
		fmt.Fprintf(w, "recent winner:  %s\n", r.RecentWinner)
	}

	if len(results) == 0 {
		return
	}

	fmt.Fprintln(w, "\nrecent results:")
	for _, result := range results {
		fmt.Fprintf(w, "  #%d  %s won %s ETH of %d entries at %s (request %s)\n",
			result.Number, winnerName(result.Winner, players), ether.Format(result.Prize), result.EntrantCount,
			result.CompletedAt.Format(time.RFC3339), result.RequestID)
	}
}

func winnerName(id string, players map[string]*models.Player) string {
	if p, ok := players[id]; ok && p.Name != "" {
		return fmt.Sprintf("%s (%s)", p.Name, id)
	}
	return id
}

func printAccount(w io.Writer, accountID string, balance *big.Int, entries []*models.LedgerEntry) {
	fmt.Fprintf(w, "\nbalance of %s: %s ETH\n", accountID, ether.Format(balance))
	for _, entry := range entries {
		sign := "+"
		if entry.Kind == models.LedgerEntryDebit {
			sign = "-"
		}
		fmt.Fprintf(w, "  %s  %s%s ETH  %s\n",
			entry.Timestamp.Format(time.RFC3339), sign, ether.Format(entry.Amount), entry.Reference)
	}
}
