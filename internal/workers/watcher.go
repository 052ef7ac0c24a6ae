package workers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KirkDiggler/foresight/internal/services/miner"
)

// Watcher polls the validator's announcements on behalf of a miner and
// reveals as soon as reveals open
type Watcher struct {
	miner  miner.Service
	logger *slog.Logger
	last   string
}

// NewWatcher creates a Watcher
func NewWatcher(m miner.Service, logger *slog.Logger) (*Watcher, error) {
	if m == nil {
		return nil, errors.New("miner service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{miner: m, logger: logger}, nil
}

// RunOnce polls once
func (w *Watcher) RunOnce(ctx context.Context) (*miner.PollOutput, error) {
	out, err := w.miner.Poll(ctx)
	if err != nil {
		return nil, err
	}

	if out.Tags != nil {
		seen := out.Tags.RoundID + "/" + string(out.Tags.Phase)
		if seen != w.last {
			w.logger.InfoContext(ctx, "validator announcement",
				"round_id", out.Tags.RoundID, "phase", out.Tags.Phase)
			w.last = seen
		}
	}
	if out.Revealed {
		w.logger.InfoContext(ctx, "revealed", "round_id", out.Entry.RoundID)
	}
	return out, nil
}

// Task adapts RunOnce for the Scheduler
func (w *Watcher) Task() Task {
	return func(ctx context.Context) error {
		_, err := w.RunOnce(ctx)
		return err
	}
}
