package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/KirkDiggler/foresight/internal/scoring"
	"github.com/KirkDiggler/foresight/internal/services/messaging"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of both the validator and the miner
type Config struct {
	Redis     RedisConfig     `yaml:"redis"`
	Discord   DiscordConfig   `yaml:"discord"`
	Validator ValidatorConfig `yaml:"validator"`
	Miner     MinerConfig     `yaml:"miner"`
	Contest   ContestConfig   `yaml:"contest"`
	Frames    FramesConfig    `yaml:"frames"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	HTTP      HTTPConfig      `yaml:"http"`
	Log       LogConfig       `yaml:"log"`
	Workers   WorkersConfig   `yaml:"workers"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DiscordConfig holds the bot credentials and the contest channel
type DiscordConfig struct {
	Token         string `yaml:"token"`
	ChannelID     string `yaml:"channel_id"`
	ApplicationID string `yaml:"application_id"`
	GuildID       string `yaml:"guild_id"`
	MaxPages      int    `yaml:"max_pages"`
}

// ValidatorConfig identifies the validator on the channel
type ValidatorConfig struct {
	// Account is the validator's author ID
	Account string `yaml:"account"`

	// AutoApprove skips the confirmation prompt before transitions
	AutoApprove bool `yaml:"auto_approve"`
}

// MinerConfig identifies a miner
type MinerConfig struct {
	Account string `yaml:"account"`
	Wallet  string `yaml:"wallet"`
}

// ContestConfig holds the scoring and payout rules
type ContestConfig struct {
	Strategy        string  `yaml:"strategy"`
	StrategyVersion string  `yaml:"strategy_version"`
	TieEpsilon      float64 `yaml:"tie_epsilon"`
	MinParticipants int     `yaml:"min_participants"`
	MaxGuessLength  int     `yaml:"max_guess_length"`
	PlatformFee     float64 `yaml:"platform_fee"`
	Currency        string  `yaml:"currency"`
	Disclosure      string  `yaml:"disclosure"`
}

// FramesConfig selects where target frames are archived. An empty bucket keeps frames on local disk.
type FramesConfig struct {
	S3Bucket        string `yaml:"s3_bucket"`
	S3Region        string `yaml:"s3_region"`
	S3Endpoint      string `yaml:"s3_endpoint"`
	S3Prefix        string `yaml:"s3_prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PublicBaseURL   string `yaml:"public_base_url"`
}

// EmbeddingConfig selects the similarity provider. An empty endpoint uses the hashed development provider.
type EmbeddingConfig struct {
	Endpoint   string        `yaml:"endpoint"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout"`
	Dimensions int           `yaml:"dimensions"`
}

// HTTPConfig holds the read API settings
type HTTPConfig struct {
	Address string `yaml:"address"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// WorkersConfig holds poll intervals
type WorkersConfig struct {
	CollectInterval time.Duration `yaml:"collect_interval"`
	WatchInterval   time.Duration `yaml:"watch_interval"`
	AutoClose       bool          `yaml:"auto_close"`
}

// Default returns the settings used when nothing is configured
func Default() *Config {
	return &Config{
		Redis:   RedisConfig{Addr: "localhost:6379"},
		Discord: DiscordConfig{MaxPages: 10},
		Contest: ContestConfig{
			Strategy:        scoring.StrategyRawSimilarity,
			TieEpsilon:      scoring.DefaultTieEpsilon,
			MinParticipants: scoring.DefaultMinParticipants,
			MaxGuessLength:  scoring.DefaultMaxGuessLength,
			Currency:        "TAO",
			Disclosure:      string(messaging.DisclosureSilent),
		},
		Embedding: EmbeddingConfig{Timeout: 30 * time.Second, Dimensions: 256},
		HTTP:      HTTPConfig{Address: ":8080"},
		Log:       LogConfig{Level: "info", Format: "text"},
		Workers: WorkersConfig{
			CollectInterval: time.Minute,
			WatchInterval:   30 * time.Second,
		},
	}
}

// LoadConfig reads path over the defaults, then a .env file, then the environment.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	// Variables already set in the environment win over .env
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	vars := map[string]*string{
		"REDIS_ADDR":             &c.Redis.Addr,
		"REDIS_PASSWORD":         &c.Redis.Password,
		"DISCORD_TOKEN":          &c.Discord.Token,
		"DISCORD_CHANNEL_ID":     &c.Discord.ChannelID,
		"DISCORD_APPLICATION_ID": &c.Discord.ApplicationID,
		"DISCORD_GUILD_ID":       &c.Discord.GuildID,
		"VALIDATOR_ACCOUNT":      &c.Validator.Account,
		"MINER_ACCOUNT":          &c.Miner.Account,
		"MINER_WALLET":           &c.Miner.Wallet,
		"FRAMES_S3_BUCKET":       &c.Frames.S3Bucket,
		"FRAMES_S3_REGION":       &c.Frames.S3Region,
		"EMBEDDING_ENDPOINT":     &c.Embedding.Endpoint,
		"EMBEDDING_API_KEY":      &c.Embedding.APIKey,
		"HTTP_ADDRESS":           &c.HTTP.Address,
		"LOG_LEVEL":              &c.Log.Level,
		"LOG_FORMAT":             &c.Log.Format,
	}
	for name, field := range vars {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB value: %w", err)
		}
		c.Redis.DB = db
	}
	if v := os.Getenv("CONTEST_TIE_EPSILON"); v != "" {
		eps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid CONTEST_TIE_EPSILON value: %w", err)
		}
		c.Contest.TieEpsilon = eps
	}
	return nil
}

// Validate checks ranges and names
func (c *Config) Validate() error {
	if c.Redis.Addr == "" {
		return errors.New("redis.addr is required")
	}
	if c.Contest.PlatformFee < 0 || c.Contest.PlatformFee >= 1 {
		return fmt.Errorf("contest.platform_fee must be in [0, 1), got %g", c.Contest.PlatformFee)
	}
	if c.Contest.TieEpsilon < 0 {
		return fmt.Errorf("contest.tie_epsilon must not be negative, got %g", c.Contest.TieEpsilon)
	}
	if c.Contest.MinParticipants < scoring.DefaultMinParticipants {
		return fmt.Errorf("contest.min_participants must be at least %d", scoring.DefaultMinParticipants)
	}
	if _, err := scoring.DefaultRegistry().Lookup(c.Contest.Strategy, c.Contest.StrategyVersion); err != nil {
		return fmt.Errorf("contest.strategy: %w", err)
	}
	if !messaging.DisclosurePolicy(c.Contest.Disclosure).Valid() {
		return fmt.Errorf("contest.disclosure must be %q or %q", messaging.DisclosureSilent, messaging.DisclosureListExcluded)
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
