// Package session holds the state of one workbench session: the current
// dataset, the metrics derived from it and the prediction log.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/KaramelBytes/classify-cli/internal/dataset"
	"github.com/KaramelBytes/classify-cli/internal/model"
	"github.com/KaramelBytes/classify-cli/pkg/logger"
	"github.com/KaramelBytes/classify-cli/pkg/metrics"
	"github.com/google/uuid"
)

var (
	// ErrStale is returned when a training finishes after a newer dataset
	// (or a reset) replaced the one it was started for. Its result is dropped.
	ErrStale = errors.New("training result is stale")
	// ErrNoDataset indicates no dataset has been loaded.
	ErrNoDataset = errors.New("no dataset loaded")
	// ErrNotTrained indicates metrics are not available yet.
	ErrNotTrained = errors.New("model has not finished training")
)

// Option configures a Session.
type Option func(*Session)

// WithTopK sets how many top features the playground asks for.
func WithTopK(k int) Option {
	return func(s *Session) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithMetrics attaches a metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Session) { s.metrics = m }
}

// WithLogger overrides the session logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// Snapshot is a read-only view handed to renderers.
type Snapshot struct {
	ID          string
	Dataset     *dataset.Dataset
	Metrics     *model.Metrics
	Predictions []model.Prediction
}

// TrainResult is delivered once a training started by Start finishes.
type TrainResult struct {
	Metrics *model.Metrics
	Err     error
}

// Session owns dataset, metrics and predictions. State is only ever
// replaced whole, under mu.
type Session struct {
	trainer   *model.Trainer
	predictor *model.Predictor
	topK      int
	metrics   *metrics.Manager
	log       logger.Logger

	mu          sync.Mutex
	id          string
	generation  uint64
	cancel      context.CancelFunc
	dataset     *dataset.Dataset
	result      *model.Metrics
	predictions []model.Prediction
}

// New creates an empty session.
func New(trainer *model.Trainer, predictor *model.Predictor, opts ...Option) *Session {
	if trainer == nil {
		trainer = model.NewTrainer(nil)
	}
	if predictor == nil {
		predictor = model.NewPredictor(nil)
	}
	s := &Session{
		trainer:   trainer,
		predictor: predictor,
		topK:      model.DefaultTopK,
		log:       logger.Named("session"),
		id:        uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID identifies the current dataset session; it changes on Load and Reset.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Start replaces the dataset, clears metrics and predictions, and trains in
// the background. Any training still running for an older dataset is
// cancelled. The returned channel yields exactly one result.
func (s *Session) Start(ctx context.Context, ds *dataset.Dataset) <-chan TrainResult {
	out := make(chan TrainResult, 1)
	if ds == nil {
		out <- TrainResult{Err: ErrNoDataset}
		return out
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	gen := s.generation
	tctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.id = uuid.NewString()
	s.dataset = ds
	s.result = nil
	s.predictions = nil
	s.mu.Unlock()

	s.log.Debug(ctx, "training started",
		logger.String("dataset", ds.FileLabel),
		logger.Int("rows", ds.RowCount),
		logger.Int("features", len(ds.Features)),
		logger.Any("delay", s.trainer.Delay()))

	go func() {
		defer cancel()
		began := time.Now()
		m, err := s.trainer.Train(tctx, ds)
		out <- s.finish(ctx, gen, m, err, time.Since(began))
	}()
	return out
}

// Load is Start followed by waiting for its result.
func (s *Session) Load(ctx context.Context, ds *dataset.Dataset) (*model.Metrics, error) {
	res := <-s.Start(ctx, ds)
	return res.Metrics, res.Err
}

func (s *Session) finish(ctx context.Context, gen uint64, m *model.Metrics, err error, took time.Duration) TrainResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.metrics.TrainingDiscarded()
		s.log.Debug(ctx, "discarding stale training", logger.Int("generation", int(gen)))
		return TrainResult{Err: ErrStale}
	}
	s.cancel = nil
	if err != nil {
		s.log.Warn(ctx, "training failed", logger.Error(err))
		return TrainResult{Err: err}
	}
	s.result = m
	s.metrics.TrainingCompleted(took)
	s.log.Info(ctx, "training finished",
		logger.Float64("accuracy", m.Accuracy),
		logger.Float64("f1", m.F1Score))
	return TrainResult{Metrics: m}
}

// Reset drops the dataset, metrics and predictions and cancels any training.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	s.id = uuid.NewString()
	s.dataset = nil
	s.result = nil
	s.predictions = nil
}

// Dataset returns the current dataset, or nil.
func (s *Session) Dataset() *dataset.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dataset
}

// Metrics returns the current metrics, or nil while training or before a load.
func (s *Session) Metrics() *model.Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// TopFeatures returns the features the playground collects inputs for.
func (s *Session) TopFeatures() []model.FeatureImportance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.TopFeatures(s.result, s.topK)
}

// Predict fabricates a prediction from inputs and appends it to the log.
func (s *Session) Predict(ctx context.Context, inputs map[string]string) (model.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dataset == nil {
		return model.Prediction{}, ErrNoDataset
	}
	if s.result == nil {
		return model.Prediction{}, ErrNotTrained
	}
	rec, err := s.predictor.Predict(model.TopFeatures(s.result, s.topK), inputs, s.dataset.Classes)
	if err != nil {
		return model.Prediction{}, err
	}
	s.predictions = append(s.predictions, *rec)
	s.metrics.PredictionMade(rec.PredictedClass)
	s.log.Debug(ctx, "prediction recorded",
		logger.String("class", rec.PredictedClass),
		logger.Float64("confidence", rec.Confidence))
	return *rec, nil
}

// Predictions returns the full prediction log, oldest first.
func (s *Session) Predictions() []model.Prediction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Prediction, len(s.predictions))
	copy(out, s.predictions)
	return out
}

// Recent returns up to n predictions, newest first.
func (s *Session) Recent(n int) []model.Prediction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 || n > len(s.predictions) {
		n = len(s.predictions)
	}
	out := make([]model.Prediction, 0, n)
	for i := len(s.predictions) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.predictions[i])
	}
	return out
}

// Snapshot returns the current state for rendering.
func (s *Session) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dataset == nil {
		return Snapshot{}, ErrNoDataset
	}
	if s.result == nil {
		return Snapshot{}, ErrNotTrained
	}
	preds := make([]model.Prediction, len(s.predictions))
	copy(preds, s.predictions)
	return Snapshot{ID: s.id, Dataset: s.dataset, Metrics: s.result, Predictions: preds}, nil
}
