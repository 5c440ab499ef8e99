package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel    string      `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort    string      `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort  string      `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	RoomID      string      `yaml:"room-id" env:"ROOM_ID"`
	PlayerID    string      `yaml:"player-id" env:"PLAYER_ID"`
	Redis       Redis       `yaml:"redis"`
	Rules       Rules       `yaml:"rules"`
	Replication Replication `yaml:"replication"`

	// Roster seeds the room when it has neither a saved game nor a stored roster.
	Roster []Seat `yaml:"roster"`
}

type Seat struct {
	Name       string `yaml:"name"`
	Color      string `yaml:"color"`
	Icon       string `yaml:"icon"`
	ExternalID string `yaml:"external-id"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Rules are the tunable constants of the rules engine.
type Rules struct {
	StartingCash            int           `yaml:"starting-cash" env-default:"1500"`
	PassStartBonus          int           `yaml:"pass-start-bonus" env-default:"200"`
	SingleStartBonus        bool          `yaml:"single-start-bonus"`
	JailFine                int           `yaml:"jail-fine" env-default:"50"`
	MaxJailTurns            int           `yaml:"max-jail-turns" env-default:"3"`
	BidIncrement            int           `yaml:"bid-increment" env-default:"20"`
	AuctionDuration         time.Duration `yaml:"auction-duration" env-default:"30s"`
	AuctionMinRemaining     time.Duration `yaml:"auction-min-remaining" env-default:"10s"`
	TradeExpiry             time.Duration `yaml:"trade-expiry" env-default:"2m"`
	MortgageInterestPercent int           `yaml:"mortgage-interest-percent" env-default:"10"`
	LogCapacity             int           `yaml:"log-capacity" env-default:"100"`
	ManualLiquidation       bool          `yaml:"manual-liquidation"`
}

type Replication struct {
	MaxRetries    uint64        `yaml:"max-retries" env-default:"3"`
	RetryInterval time.Duration `yaml:"retry-interval" env-default:"200ms"`
	SweepInterval time.Duration `yaml:"sweep-interval" env-default:"1s"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// DefaultRules returns the rules with every env-default applied.
func DefaultRules() Rules {
	var rules Rules
	if err := cleanenv.ReadEnv(&rules); err != nil {
		panic(fmt.Errorf("unable to read default rules: %w", err))
	}

	return rules
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
