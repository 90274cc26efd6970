package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/lottery/internal/common/clock"
	"github.com/KirkDiggler/lottery/internal/common/ether"
	"github.com/KirkDiggler/lottery/internal/common/uuid"
	"github.com/KirkDiggler/lottery/internal/config"
	"github.com/KirkDiggler/lottery/internal/handlers/discord"
	"github.com/KirkDiggler/lottery/internal/metrics"
	"github.com/KirkDiggler/lottery/internal/repositories/ledger"
	"github.com/KirkDiggler/lottery/internal/repositories/player"
	"github.com/KirkDiggler/lottery/internal/repositories/round"
	"github.com/KirkDiggler/lottery/internal/services/events"
	"github.com/KirkDiggler/lottery/internal/services/keeper"
	"github.com/KirkDiggler/lottery/internal/services/lottery"
	"github.com/KirkDiggler/lottery/internal/services/messaging"
	"github.com/KirkDiggler/lottery/internal/vrf"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the lottery, keeper, local coordinator and Discord bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return run(ctx, cfg, logger)
	},
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	log := logger.WithFields(logrus.Fields{
		"network":    cfg.Network,
		"lottery_id": cfg.LotteryID,
	})

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	// Initialize repositories
	ledgerRepo, err := ledger.NewRedis(&ledger.Config{RedisClient: redisClient})
	if err != nil {
		return fmt.Errorf("failed to create ledger repository: %w", err)
	}

	roundRepo, err := round.NewRedis(&round.Config{RedisClient: redisClient})
	if err != nil {
		return fmt.Errorf("failed to create round repository: %w", err)
	}

	playerRepo, err := player.NewRedis(&player.Config{RedisClient: redisClient})
	if err != nil {
		return fmt.Errorf("failed to create player repository: %w", err)
	}

	m := metrics.New()
	bus := events.New(&events.Config{Logger: logger})
	defer bus.Close()

	coordinator, subscriptionID, err := startCoordinator(ctx, cfg, logger)
	if err != nil {
		return err
	}

	lotterySvc, err := lottery.New(ctx, &lottery.Config{
		LotteryID:            cfg.LotteryID,
		EntranceFee:          cfg.EntranceFee,
		Interval:             cfg.Interval,
		KeyHash:              cfg.KeyHash,
		SubscriptionID:       subscriptionID,
		RequestConfirmations: cfg.RequestConfirmations,
		CallbackGasLimit:     cfg.CallbackGasLimit,
		NumWords:             cfg.NumWords,
		ConsumerID:           cfg.ConsumerID,
		Coordinator:          coordinator,
		LedgerRepo:           ledgerRepo,
		RoundRepo:            roundRepo,
		Publisher:            bus,
		Clock:                clock.New(),
		UUID:                 uuid.New(),
		Metrics:              m,
		Logger:               logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create lottery service: %w", err)
	}

	err = coordinator.AddConsumer(ctx, &vrf.AddConsumerInput{
		SubscriptionID: subscriptionID,
		ConsumerID:     cfg.ConsumerID,
		Consumer:       lotterySvc,
	})
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		if err := coordinator.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("coordinator stopped")
		}
	}()

	upkeep, err := keeper.New(&keeper.Config{
		Schedule: cfg.KeeperSchedule,
		Lottery:  lotterySvc,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create keeper: %w", err)
	}
	if err := upkeep.Start(ctx); err != nil {
		return err
	}
	defer upkeep.Stop()

	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metricsMux(m),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("metrics server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.WithField("addr", cfg.MetricsAddr).Info("serving metrics")
	}

	if cfg.Discord.Token != "" {
		messagingSvc, err := messaging.NewService(&messaging.ServiceConfig{})
		if err != nil {
			return err
		}

		bot, err := discord.New(&discord.Config{
			Token:            cfg.Discord.Token,
			ApplicationID:    cfg.Discord.ApplicationID,
			GuildID:          cfg.Discord.GuildID,
			ChannelID:        cfg.Discord.ChannelID,
			StartingBalance:  cfg.Discord.StartingBalance,
			EntranceFee:      cfg.EntranceFee,
			LotteryService:   lotterySvc,
			MessagingService: messagingSvc,
			LedgerRepo:       ledgerRepo,
			PlayerRepo:       playerRepo,
			Publisher:        bus,
			Logger:           logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create Discord bot: %w", err)
		}
		if err := bot.Start(); err != nil {
			return err
		}
		defer func() {
			if err := bot.Stop(); err != nil {
				log.WithError(err).Warn("failed to stop Discord bot")
			}
		}()
	} else {
		log.Info("DISCORD_TOKEN not set, running without the bot")
	}

	log.WithFields(logrus.Fields{
		"entrance_fee": ether.Format(cfg.EntranceFee),
		"interval":     cfg.Interval,
	}).Info("lottery running")

	<-ctx.Done()
	log.Info("shutting down")
	return nil
}

// startCoordinator creates the local coordinator with a funded subscription
func startCoordinator(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*vrf.LocalCoordinator, uint64, error) {
	coordinator, err := vrf.NewLocal(&vrf.LocalConfig{
		BaseFee:      cfg.Coordinator.BaseFee,
		GasPriceLink: cfg.Coordinator.GasPriceLink,
		FulfillDelay: cfg.Coordinator.FulfillDelay,
		PollInterval: cfg.Coordinator.PollInterval,
		Logger:       logger.WithField("component", "coordinator"),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create coordinator: %w", err)
	}

	sub, err := coordinator.CreateSubscription(ctx)
	if err != nil {
		return nil, 0, err
	}
	if cfg.SubscriptionID != 0 && cfg.SubscriptionID != sub.SubscriptionID {
		logger.WithFields(logrus.Fields{
			"configured":      cfg.SubscriptionID,
			"subscription_id": sub.SubscriptionID,
		}).Warn("configured subscription id ignored by the local coordinator")
	}

	if cfg.Coordinator.FundAmount != nil && cfg.Coordinator.FundAmount.Sign() > 0 {
		err := coordinator.FundSubscription(ctx, &vrf.FundSubscriptionInput{
			SubscriptionID: sub.SubscriptionID,
			Amount:         cfg.Coordinator.FundAmount,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("failed to fund subscription: %w", err)
		}
	}

	return coordinator, sub.SubscriptionID, nil
}

func metricsMux(m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}
