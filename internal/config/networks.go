package config

import (
	"time"

	"github.com/KirkDiggler/lottery/internal/common/ether"
)

const (
	// NetworkDevelopment runs against the in-process coordinator
	NetworkDevelopment = "development"

	// NetworkSepolia mirrors the public testnet parameters
	NetworkSepolia = "sepolia"

	gasLane = "0xd89b2bf150e3b9e13446986e571fb9cab24b13cea0a43ea20a6049a85cc807cc"
)

// preset returns the defaults for a network
func preset(network string) (*Config, error) {
	base := &Config{
		Network:              network,
		LotteryID:            "raffle",
		Interval:             30 * time.Second,
		KeyHash:              gasLane,
		RequestConfirmations: 3,
		CallbackGasLimit:     500_000,
		NumWords:             1,
		ConsumerID:           "raffle",
		KeeperSchedule:       "@every 1s",
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		MetricsAddr: ":9090",
	}

	switch network {
	case NetworkDevelopment:
		base.EntranceFee = ether.MustParse("1")
		base.Coordinator = CoordinatorConfig{
			BaseFee:      ether.MustParse("0.25"),
			GasPriceLink: ether.MustParse("1000000000wei"),
			FundAmount:   ether.MustParse("2"),
			FulfillDelay: time.Second,
			PollInterval: 500 * time.Millisecond,
		}
		base.Discord.StartingBalance = ether.MustParse("10")
	case NetworkSepolia:
		base.EntranceFee = ether.MustParse("0.01")
		base.Coordinator = CoordinatorConfig{
			BaseFee:      ether.MustParse("0.25"),
			GasPriceLink: ether.MustParse("1000000000wei"),
			FundAmount:   ether.MustParse("2"),
			FulfillDelay: 36 * time.Second,
			PollInterval: time.Second,
		}
		base.Discord.StartingBalance = ether.MustParse("0.1")
	default:
		return nil, ErrUnknownNetwork
	}

	return base, nil
}
