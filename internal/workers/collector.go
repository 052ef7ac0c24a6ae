package workers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KirkDiggler/foresight/internal/common/clock"
	"github.com/KirkDiggler/foresight/internal/models"
	"github.com/KirkDiggler/foresight/internal/services/round"
)

// CollectorConfig holds the dependencies of a Collector
type CollectorConfig struct {
	Rounds round.Service

	// AutoClose closes open phases whose deadline has passed
	AutoClose bool

	Clock  clock.Clock
	Logger *slog.Logger
}

// Collector keeps the validator's records in step with the channel
type Collector struct {
	rounds    round.Service
	autoClose bool
	clock     clock.Clock
	logger    *slog.Logger
}

// CollectorResult reports one pass over the active rounds
type CollectorResult struct {
	Collected int
	Closed    int
	Failed    int
}

// NewCollector creates a Collector
func NewCollector(cfg *CollectorConfig) (*Collector, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Rounds == nil {
		return nil, errors.New("round service cannot be nil")
	}

	c := &Collector{
		rounds:    cfg.Rounds,
		autoClose: cfg.AutoClose,
		clock:     cfg.Clock,
		logger:    cfg.Logger,
	}
	if c.clock == nil {
		c.clock = clock.New()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// RunOnce collects replies for every open round. One round failing does not
// stop the others.
func (c *Collector) RunOnce(ctx context.Context) (*CollectorResult, error) {
	active, err := c.rounds.ListRounds(ctx, &round.ListRoundsInput{ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	result := &CollectorResult{}
	for _, r := range active.Rounds {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !r.Phase.AcceptsCommitments() && !r.Phase.AcceptsReveals() {
			continue
		}

		if c.autoClose && c.pastDeadline(r) {
			if err := c.close(ctx, r); err != nil {
				result.Failed++
				c.logger.ErrorContext(ctx, "failed to close phase",
					"round_id", r.ID, "phase", r.Phase, "error", err)
				continue
			}
			result.Closed++
			continue
		}

		out, err := c.rounds.Collect(ctx, &round.CollectInput{RoundID: r.ID})
		if err != nil {
			result.Failed++
			c.logger.ErrorContext(ctx, "failed to collect",
				"round_id", r.ID, "phase", r.Phase, "error", err)
			continue
		}
		result.Collected++
		if out.Result != nil && out.Result.Changed() {
			c.logger.InfoContext(ctx, "collected submissions",
				"round_id", r.ID, "added", out.Result.Added, "updated", out.Result.Updated)
		}
	}
	return result, nil
}

// Task adapts RunOnce for the Scheduler
func (c *Collector) Task() Task {
	return func(ctx context.Context) error {
		_, err := c.RunOnce(ctx)
		return err
	}
}

func (c *Collector) pastDeadline(r *models.Round) bool {
	deadline := r.CommitmentDeadline
	if r.Phase.AcceptsReveals() {
		deadline = r.RevealDeadline
	}
	return deadline != nil && !c.clock.Now().Before(*deadline)
}

// close collects one last time and closes the phase
func (c *Collector) close(ctx context.Context, r *models.Round) error {
	input := &round.TransitionInput{RoundID: r.ID}
	if r.Phase.AcceptsReveals() {
		_, err := c.rounds.CloseReveals(ctx, input)
		return err
	}
	_, err := c.rounds.CloseCommitments(ctx, input)
	return err
}
