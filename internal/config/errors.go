package config

// ConfigError is returned for invalid configuration
type ConfigError string

func (e ConfigError) Error() string {
	return string(e)
}

const (
	ErrUnknownNetwork          ConfigError = "unknown network"
	ErrInvalidEntranceFee      ConfigError = "entrance fee must be positive"
	ErrInvalidInterval         ConfigError = "interval must be positive"
	ErrInvalidCallbackGasLimit ConfigError = "callback gas limit must be positive"
	ErrInvalidNumWords         ConfigError = "num words must be at least 1"
	ErrMissingKeyHash          ConfigError = "gas lane key hash is required"
	ErrMissingConsumerID       ConfigError = "consumer id is required"
	ErrMissingLotteryID        ConfigError = "lottery id is required"
	ErrInvalidSchedule         ConfigError = "keeper schedule is required"
)
