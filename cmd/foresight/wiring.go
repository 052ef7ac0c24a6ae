package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/KirkDiggler/foresight/internal/commitment"
	"github.com/KirkDiggler/foresight/internal/common/clock"
	"github.com/KirkDiggler/foresight/internal/config"
	"github.com/KirkDiggler/foresight/internal/confirm"
	"github.com/KirkDiggler/foresight/internal/framestore"
	"github.com/KirkDiggler/foresight/internal/lifecycle"
	"github.com/KirkDiggler/foresight/internal/metrics"
	entryRepo "github.com/KirkDiggler/foresight/internal/repositories/entry"
	ledgerRepo "github.com/KirkDiggler/foresight/internal/repositories/ledger"
	playerRepo "github.com/KirkDiggler/foresight/internal/repositories/player"
	roundRepo "github.com/KirkDiggler/foresight/internal/repositories/round"
	"github.com/KirkDiggler/foresight/internal/scoring"
	"github.com/KirkDiggler/foresight/internal/services/messaging"
	"github.com/KirkDiggler/foresight/internal/services/miner"
	"github.com/KirkDiggler/foresight/internal/services/round"
	"github.com/KirkDiggler/foresight/internal/similarity"
	"github.com/KirkDiggler/foresight/internal/transport"
	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel"
)

// stack holds everything built from the configuration that both roles share
type stack struct {
	cfg      *config.Config
	logger   *slog.Logger
	clock    clock.Clock
	redis    *redis.Client
	registry *prometheus.Registry
	metrics  *metrics.Prometheus
	session  *discordgo.Session
	in       io.Reader
	out      io.Writer
}

// newStack loads configuration and connects to Redis
func newStack(c *cli.Context) (*stack, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Log.NewLogger(c.App.ErrWriter)
	slog.SetDefault(logger)

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(c.Context, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return buildStack(cfg, logger, client, c.App.Reader, c.App.Writer)
}

func buildStack(cfg *config.Config, logger *slog.Logger, client *redis.Client, in io.Reader, out io.Writer) (*stack, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec, err := metrics.NewPrometheus(registry)
	if err != nil {
		return nil, err
	}

	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	return &stack{
		cfg:      cfg,
		logger:   logger,
		clock:    clock.New(),
		redis:    client,
		registry: registry,
		metrics:  rec,
		in:       in,
		out:      out,
	}, nil
}

// Close releases the Redis connection
func (s *stack) Close() error {
	return s.redis.Close()
}

// discord returns the shared bot session, creating it on first use.
// No gateway connection is opened; REST calls work without one.
func (s *stack) discord() (*discordgo.Session, error) {
	if s.session != nil {
		return s.session, nil
	}
	if s.cfg.Discord.Token == "" {
		return nil, errors.New("discord token is not configured")
	}
	session, err := discordgo.New("Bot " + s.cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent
	s.session = session
	return session, nil
}

// discordTransport returns a transport on the contest channel and the account it posts as.
// An empty account is resolved to the bot's own user ID.
func (s *stack) discordTransport(account string) (transport.Adapter, string, error) {
	session, err := s.discord()
	if err != nil {
		return nil, "", err
	}
	adapter, err := transport.NewDiscord(&transport.DiscordConfig{
		Session:   session,
		ChannelID: s.cfg.Discord.ChannelID,
		MaxPages:  s.cfg.Discord.MaxPages,
	})
	if err != nil {
		return nil, "", err
	}

	if account == "" {
		me, err := session.User("@me")
		if err != nil {
			return nil, "", fmt.Errorf("failed to resolve bot account: %w", err)
		}
		account = me.ID
	}
	return adapter, account, nil
}

func (s *stack) similarity() (similarity.Provider, error) {
	if s.cfg.Embedding.Endpoint == "" {
		s.logger.Warn("no embedding endpoint configured, using hashed similarity")
		return similarity.NewHashed(s.cfg.Embedding.Dimensions), nil
	}
	return similarity.NewHTTP(&similarity.HTTPConfig{
		Endpoint: s.cfg.Embedding.Endpoint,
		APIKey:   s.cfg.Embedding.APIKey,
		Timeout:  s.cfg.Embedding.Timeout,
	})
}

func (s *stack) frames(ctx context.Context) (framestore.Store, error) {
	f := s.cfg.Frames
	if f.S3Bucket == "" {
		return framestore.NewLocal(s.clock), nil
	}
	return framestore.NewS3(ctx, &framestore.S3Config{
		Bucket:          f.S3Bucket,
		Region:          f.S3Region,
		Endpoint:        f.S3Endpoint,
		AccessKeyID:     f.AccessKeyID,
		SecretAccessKey: f.SecretAccessKey,
		PublicBaseURL:   f.PublicBaseURL,
		Prefix:          f.S3Prefix,
		Clock:           s.clock,
	})
}

func (s *stack) confirmer() confirm.Confirmer {
	if s.cfg.Validator.AutoApprove {
		return confirm.AutoApprove()
	}
	return confirm.NewPrompt(s.in, s.out)
}

func (s *stack) messaging() (messaging.Service, error) {
	return messaging.NewService(&messaging.ServiceConfig{
		Disclosure: messaging.DisclosurePolicy(s.cfg.Contest.Disclosure),
	})
}

// roundService wires the validator side on top of tr, posting as validatorID
func (s *stack) roundService(ctx context.Context, tr transport.Adapter, validatorID string, confirmer confirm.Confirmer) (round.Service, error) {
	rounds, err := roundRepo.NewRedis(&roundRepo.Config{RedisClient: s.redis})
	if err != nil {
		return nil, err
	}
	players, err := playerRepo.NewRedis(&playerRepo.Config{RedisClient: s.redis})
	if err != nil {
		return nil, err
	}
	ledger, err := ledgerRepo.NewRedis(&ledgerRepo.Config{RedisClient: s.redis})
	if err != nil {
		return nil, err
	}

	msgs, err := s.messaging()
	if err != nil {
		return nil, err
	}
	provider, err := s.similarity()
	if err != nil {
		return nil, err
	}
	frames, err := s.frames(ctx)
	if err != nil {
		return nil, err
	}

	contest := s.cfg.Contest
	strategy, err := scoring.DefaultRegistry().Lookup(contest.Strategy, contest.StrategyVersion)
	if err != nil {
		return nil, err
	}
	engine, err := scoring.NewEngine(&scoring.Config{
		Strategy:        strategy,
		Provider:        provider,
		TieEpsilon:      &contest.TieEpsilon,
		MinParticipants: contest.MinParticipants,
		MaxGuessLength:  contest.MaxGuessLength,
	})
	if err != nil {
		return nil, err
	}

	machine, err := lifecycle.NewMachine(&lifecycle.Config{
		Transport:  tr,
		Confirmer:  confirmer,
		Repository: rounds,
		Messaging:  msgs,
		Frames:     frames,
		Engine:     engine,
		Verifier:   commitment.New(nil),
		Ledger:     ledger,
		Clock:      s.clock,
		Logger:     s.logger,
		Metrics:    s.metrics,
		Tracer:     otel.Tracer("foresight/lifecycle"),
	})
	if err != nil {
		return nil, err
	}

	return round.NewService(&round.Config{
		Machine:     machine,
		Transport:   tr,
		RoundRepo:   rounds,
		PlayerRepo:  players,
		LedgerRepo:  ledger,
		Messaging:   msgs,
		ValidatorID: validatorID,
		Currency:    contest.Currency,
		Clock:       s.clock,
		Logger:      s.logger,
	})
}

// minerService wires the miner side on top of tr, posting as account
func (s *stack) minerService(tr transport.Adapter, account, validatorID, wallet string) (miner.Service, error) {
	entries, err := entryRepo.NewRedis(&entryRepo.Config{RedisClient: s.redis})
	if err != nil {
		return nil, err
	}
	return miner.NewService(&miner.Config{
		Transport:      tr,
		EntryRepo:      entries,
		Generator:      commitment.New(nil),
		Account:        account,
		ValidatorID:    validatorID,
		Wallet:         wallet,
		MaxGuessLength: s.cfg.Contest.MaxGuessLength,
		Clock:          s.clock,
		Logger:         s.logger,
	})
}

// validator builds the round service on the Discord channel
func (s *stack) validator(ctx context.Context) (round.Service, string, error) {
	tr, account, err := s.discordTransport(s.cfg.Validator.Account)
	if err != nil {
		return nil, "", err
	}
	svc, err := s.roundService(ctx, tr, account, s.confirmer())
	if err != nil {
		return nil, "", err
	}
	return svc, account, nil
}

// miner builds the miner service on the Discord channel
func (s *stack) miner() (miner.Service, error) {
	if s.cfg.Validator.Account == "" {
		return nil, errors.New("validator account must be configured for the miner")
	}
	tr, account, err := s.discordTransport(s.cfg.Miner.Account)
	if err != nil {
		return nil, err
	}
	return s.minerService(tr, account, s.cfg.Validator.Account, s.cfg.Miner.Wallet)
}
