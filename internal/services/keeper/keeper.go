// Package keeper polls the lottery for upkeep on a cron schedule and
// performs it when the round is ready for a draw.
package keeper

import (
	"context"
	"errors"
	"sync"

	"github.com/KirkDiggler/lottery/internal/services/lottery"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// KeeperError is a custom error type for keeper errors
type KeeperError string

// Error implements the error interface
func (e KeeperError) Error() string {
	return string(e)
}

const (
	ErrNilConfig      KeeperError = "config cannot be nil"
	ErrNilLottery     KeeperError = "lottery service cannot be nil"
	ErrEmptySchedule  KeeperError = "schedule cannot be empty"
	ErrAlreadyStarted KeeperError = "keeper already started"
)

// Parser accepts standard five field specs, an optional seconds field and
// descriptors such as "@every 1s"
var Parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Config holds configuration for the keeper
type Config struct {
	// Schedule is a cron spec, e.g. "@every 1s" or "*/5 * * * * *"
	Schedule string

	Lottery lottery.Service
	Logger  logrus.FieldLogger
}

// Keeper drives upkeep for one lottery
type Keeper struct {
	schedule cron.Schedule
	lottery  lottery.Service
	logger   logrus.FieldLogger

	mu   sync.Mutex
	cron *cron.Cron
}

// New creates a keeper. The schedule is parsed up front so a bad spec fails
// at startup.
func New(cfg *Config) (*Keeper, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Lottery == nil {
		return nil, ErrNilLottery
	}
	if cfg.Schedule == "" {
		return nil, ErrEmptySchedule
	}

	schedule, err := Parser.Parse(cfg.Schedule)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Keeper{
		schedule: schedule,
		lottery:  cfg.Lottery,
		logger:   logger.WithField("component", "keeper"),
	}, nil
}

// Start runs Tick on the schedule until Stop is called. Overlapping ticks
// are skipped.
func (k *Keeper) Start(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.cron != nil {
		return ErrAlreadyStarted
	}

	cronLogger := cron.PrintfLogger(k.logger)
	k.cron = cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	k.cron.Schedule(k.schedule, cron.FuncJob(func() {
		if _, err := k.Tick(ctx); err != nil {
			k.logger.WithError(err).Error("upkeep failed")
		}
	}))
	k.cron.Start()

	k.logger.Info("keeper started")
	return nil
}

// Stop halts the schedule and waits for a running tick to finish
func (k *Keeper) Stop() {
	k.mu.Lock()
	c := k.cron
	k.cron = nil
	k.mu.Unlock()

	if c == nil {
		return
	}

	<-c.Stop().Done()
	k.logger.Info("keeper stopped")
}

// Tick checks for upkeep once and performs it if needed. It reports whether
// a randomness request was issued.
func (k *Keeper) Tick(ctx context.Context) (bool, error) {
	check, err := k.lottery.CheckUpkeep(ctx, &lottery.CheckUpkeepInput{})
	if err != nil {
		return false, err
	}
	if !check.UpkeepNeeded {
		return false, nil
	}

	output, err := k.lottery.PerformUpkeep(ctx, &lottery.PerformUpkeepInput{
		PerformData: check.PerformData,
	})
	if errors.Is(err, lottery.ErrUpkeepNotNeeded) {
		// another caller got there first
		k.logger.WithError(err).Debug("upkeep no longer needed")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	k.logger.WithField("request_id", output.RequestID).Info("upkeep performed")
	return true, nil
}
