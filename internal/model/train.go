package model

import (
	"context"
	"fmt"
	"time"

	"github.com/KaramelBytes/classify-cli/internal/dataset"
)

// DefaultTrainingDelay stands in for training time before metrics appear.
const DefaultTrainingDelay = 2 * time.Second

// TrainerOption configures a Trainer.
type TrainerOption func(*Trainer)

// WithDelay sets the simulated training time. Zero disables the wait.
func WithDelay(d time.Duration) TrainerOption {
	return func(t *Trainer) {
		if d >= 0 {
			t.delay = d
		}
	}
}

// Trainer simulates model training: it waits out a fixed delay and then
// asks the Generator for metrics.
type Trainer struct {
	gen   *Generator
	delay time.Duration
}

// NewTrainer builds a Trainer around gen.
func NewTrainer(gen *Generator, opts ...TrainerOption) *Trainer {
	if gen == nil {
		gen = NewGenerator(nil)
	}
	t := &Trainer{gen: gen, delay: DefaultTrainingDelay}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Delay reports the configured training time.
func (t *Trainer) Delay() time.Duration { return t.delay }

// Train waits for the training delay, honoring ctx, then generates metrics.
func (t *Trainer) Train(ctx context.Context, ds *dataset.Dataset) (*Metrics, error) {
	if t.delay > 0 {
		timer := time.NewTimer(t.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("training cancelled: %w", ctx.Err())
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("training cancelled: %w", err)
	}
	return t.gen.Generate(ds)
}
