// Package config assembles the immutable deployment configuration.
//
// Sources are layered, later ones overriding earlier ones: the network
// preset, an optional TOML file, an optional .env file and finally the
// process environment.
package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/KirkDiggler/lottery/internal/common/ether"
	"github.com/joho/godotenv"
)

// Config holds everything the binary needs to wire the lottery
type Config struct {
	Network   string
	LotteryID string

	// EntranceFee is the minimum entry payment, in wei
	EntranceFee *big.Int

	// Interval is the minimum round duration
	Interval time.Duration

	// Randomness request parameters
	KeyHash              string
	SubscriptionID       uint64
	RequestConfirmations uint16
	CallbackGasLimit     uint32
	NumWords             uint32
	ConsumerID           string

	Coordinator CoordinatorConfig

	// KeeperSchedule is a cron spec for upkeep checks
	KeeperSchedule string

	Redis   RedisConfig
	Discord DiscordConfig
	Log     LogConfig

	// MetricsAddr is where /metrics is served. Empty disables it.
	MetricsAddr string
}

// CoordinatorConfig configures the local randomness coordinator
type CoordinatorConfig struct {
	BaseFee      *big.Int
	GasPriceLink *big.Int

	// FundAmount is put on the subscription at startup
	FundAmount *big.Int

	FulfillDelay time.Duration
	PollInterval time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DiscordConfig struct {
	Token         string
	ApplicationID string
	GuildID       string

	// ChannelID receives announcements
	ChannelID string

	// StartingBalance is credited to a player's ledger account on first use
	StartingBalance *big.Int
}

type LogConfig struct {
	Level  string
	Format string
}

// LoadInput selects the configuration sources
type LoadInput struct {
	// Network picks the preset. Empty means development.
	Network string

	// File is an optional TOML file
	File string

	// EnvFile is an optional dotenv file
	EnvFile string

	// Lookup reads the environment. Defaults to os.LookupEnv.
	Lookup func(key string) (string, bool)
}

// fileConfig mirrors Config in the TOML file. Amounts are ether strings and
// durations are Go duration strings.
type fileConfig struct {
	LotteryID            string `toml:"lottery_id"`
	EntranceFee          string `toml:"entrance_fee"`
	Interval             string `toml:"interval"`
	KeyHash              string `toml:"key_hash"`
	SubscriptionID       uint64 `toml:"subscription_id"`
	RequestConfirmations uint16 `toml:"request_confirmations"`
	CallbackGasLimit     uint32 `toml:"callback_gas_limit"`
	NumWords             uint32 `toml:"num_words"`
	ConsumerID           string `toml:"consumer_id"`
	KeeperSchedule       string `toml:"keeper_schedule"`
	MetricsAddr          string `toml:"metrics_addr"`

	Coordinator struct {
		BaseFee      string `toml:"base_fee"`
		GasPriceLink string `toml:"gas_price_link"`
		FundAmount   string `toml:"fund_amount"`
		FulfillDelay string `toml:"fulfill_delay"`
		PollInterval string `toml:"poll_interval"`
	} `toml:"coordinator"`

	Redis struct {
		Addr string `toml:"addr"`
		DB   int    `toml:"db"`
	} `toml:"redis"`

	Discord struct {
		ApplicationID   string `toml:"application_id"`
		GuildID         string `toml:"guild_id"`
		ChannelID       string `toml:"channel_id"`
		StartingBalance string `toml:"starting_balance"`
	} `toml:"discord"`

	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`
}

// Load builds and validates a Config
func Load(input *LoadInput) (*Config, error) {
	if input == nil {
		input = &LoadInput{}
	}

	lookup := input.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var dotenv map[string]string
	if input.EnvFile != "" {
		values, err := godotenv.Read(input.EnvFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file %s: %w", input.EnvFile, err)
		}
		dotenv = values
	}

	// the process environment wins over the dotenv file
	env := func(key string) (string, bool) {
		if value, ok := lookup(key); ok && value != "" {
			return value, true
		}
		value, ok := dotenv[key]
		return value, ok && value != ""
	}

	network := input.Network
	if network == "" {
		network, _ = env("LOTTERY_NETWORK")
	}
	if network == "" {
		network = NetworkDevelopment
	}

	cfg, err := preset(network)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, network)
	}

	if input.File != "" {
		var file fileConfig
		if _, err := toml.DecodeFile(input.File, &file); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", input.File, err)
		}
		if err := cfg.applyFile(&file); err != nil {
			return nil, fmt.Errorf("config file %s: %w", input.File, err)
		}
	}

	if err := cfg.applyEnv(env); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the invariants the lottery relies on
func (c *Config) Validate() error {
	if c.LotteryID == "" {
		return ErrMissingLotteryID
	}
	if c.EntranceFee == nil || c.EntranceFee.Sign() <= 0 {
		return ErrInvalidEntranceFee
	}
	if c.Interval <= 0 {
		return ErrInvalidInterval
	}
	if c.CallbackGasLimit == 0 {
		return ErrInvalidCallbackGasLimit
	}
	if c.NumWords == 0 {
		return ErrInvalidNumWords
	}
	if c.KeyHash == "" {
		return ErrMissingKeyHash
	}
	if c.ConsumerID == "" {
		return ErrMissingConsumerID
	}
	if c.KeeperSchedule == "" {
		return ErrInvalidSchedule
	}
	return nil
}

func (c *Config) applyFile(f *fileConfig) error {
	setString(&c.LotteryID, f.LotteryID)
	setString(&c.KeyHash, f.KeyHash)
	setString(&c.ConsumerID, f.ConsumerID)
	setString(&c.KeeperSchedule, f.KeeperSchedule)
	setString(&c.MetricsAddr, f.MetricsAddr)
	setString(&c.Redis.Addr, f.Redis.Addr)
	setString(&c.Discord.ApplicationID, f.Discord.ApplicationID)
	setString(&c.Discord.GuildID, f.Discord.GuildID)
	setString(&c.Discord.ChannelID, f.Discord.ChannelID)
	setString(&c.Log.Level, f.Log.Level)
	setString(&c.Log.Format, f.Log.Format)

	if f.SubscriptionID != 0 {
		c.SubscriptionID = f.SubscriptionID
	}
	if f.RequestConfirmations != 0 {
		c.RequestConfirmations = f.RequestConfirmations
	}
	if f.CallbackGasLimit != 0 {
		c.CallbackGasLimit = f.CallbackGasLimit
	}
	if f.NumWords != 0 {
		c.NumWords = f.NumWords
	}
	if f.Redis.DB != 0 {
		c.Redis.DB = f.Redis.DB
	}

	amounts := []struct {
		name  string
		value string
		dst   **big.Int
	}{
		{"entrance_fee", f.EntranceFee, &c.EntranceFee},
		{"coordinator.base_fee", f.Coordinator.BaseFee, &c.Coordinator.BaseFee},
		{"coordinator.gas_price_link", f.Coordinator.GasPriceLink, &c.Coordinator.GasPriceLink},
		{"coordinator.fund_amount", f.Coordinator.FundAmount, &c.Coordinator.FundAmount},
		{"discord.starting_balance", f.Discord.StartingBalance, &c.Discord.StartingBalance},
	}
	for _, a := range amounts {
		if err := setAmount(a.dst, a.value); err != nil {
			return fmt.Errorf("%s: %w", a.name, err)
		}
	}

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"interval", f.Interval, &c.Interval},
		{"coordinator.fulfill_delay", f.Coordinator.FulfillDelay, &c.Coordinator.FulfillDelay},
		{"coordinator.poll_interval", f.Coordinator.PollInterval, &c.Coordinator.PollInterval},
	}
	for _, d := range durations {
		if err := setDuration(d.dst, d.value); err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
	}

	return nil
}

func (c *Config) applyEnv(env func(string) (string, bool)) error {
	get := func(key string) string {
		value, _ := env(key)
		return value
	}

	setString(&c.LotteryID, get("LOTTERY_ID"))
	setString(&c.KeyHash, get("LOTTERY_KEY_HASH"))
	setString(&c.ConsumerID, get("LOTTERY_CONSUMER_ID"))
	setString(&c.KeeperSchedule, get("LOTTERY_KEEPER_SCHEDULE"))
	setString(&c.MetricsAddr, get("LOTTERY_METRICS_ADDR"))
	setString(&c.Log.Level, get("LOTTERY_LOG_LEVEL"))
	setString(&c.Log.Format, get("LOTTERY_LOG_FORMAT"))
	setString(&c.Redis.Addr, get("REDIS_ADDR"))
	setString(&c.Redis.Password, get("REDIS_PASSWORD"))
	setString(&c.Discord.Token, get("DISCORD_TOKEN"))
	setString(&c.Discord.ApplicationID, get("DISCORD_APPLICATION_ID"))
	setString(&c.Discord.GuildID, get("DISCORD_GUILD_ID"))
	setString(&c.Discord.ChannelID, get("DISCORD_CHANNEL_ID"))

	if err := setAmount(&c.EntranceFee, get("LOTTERY_ENTRANCE_FEE")); err != nil {
		return fmt.Errorf("LOTTERY_ENTRANCE_FEE: %w", err)
	}
	if err := setAmount(&c.Discord.StartingBalance, get("DISCORD_STARTING_BALANCE")); err != nil {
		return fmt.Errorf("DISCORD_STARTING_BALANCE: %w", err)
	}
	if err := setDuration(&c.Interval, get("LOTTERY_INTERVAL")); err != nil {
		return fmt.Errorf("LOTTERY_INTERVAL: %w", err)
	}

	if value := get("LOTTERY_SUBSCRIPTION_ID"); value != "" {
		id, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("LOTTERY_SUBSCRIPTION_ID: %w", err)
		}
		c.SubscriptionID = id
	}
	if value := get("LOTTERY_CALLBACK_GAS_LIMIT"); value != "" {
		limit, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fmt.Errorf("LOTTERY_CALLBACK_GAS_LIMIT: %w", err)
		}
		c.CallbackGasLimit = uint32(limit)
	}
	if value := get("REDIS_DB"); value != "" {
		db, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Redis.DB = db
	}

	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func setAmount(dst **big.Int, value string) error {
	if value == "" {
		return nil
	}
	wei, err := ether.Parse(value)
	if err != nil {
		return err
	}
	*dst = wei
	return nil
}

func setDuration(dst *time.Duration, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
