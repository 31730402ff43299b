package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTopK is how many of the most important features a prediction asks for.
	DefaultTopK = 3

	classJitter       = 0.3
	confidenceFloor   = 70.0
	confidenceJitter  = 25.0
	confidenceDecimal = 1
)

// ErrNoClasses is returned when there is no class to predict.
var ErrNoClasses = errors.New("no classes to predict")

// MissingInputError lists top features that have no value yet. Prediction is
// not permitted until every top feature has a non-empty input.
type MissingInputError struct {
	Features []string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing input for: %s", strings.Join(e.Features, ", "))
}

// Prediction is one fabricated playground result. Records are immutable once
// created; the session appends them to its history.
type Prediction struct {
	ID             string            `json:"id"`
	Inputs         map[string]string `json:"inputs"`
	PredictedClass string            `json:"prediction"`
	Confidence     float64           `json:"confidence"`
	Timestamp      time.Time         `json:"timestamp"`
}

// PredictorOption configures a Predictor.
type PredictorOption func(*Predictor)

// WithClock overrides the time source used for prediction timestamps.
func WithClock(now func() time.Time) PredictorOption {
	return func(p *Predictor) {
		if now != nil {
			p.now = now
		}
	}
}

// Predictor fabricates a class and confidence from user inputs.
type Predictor struct {
	mu  sync.Mutex
	src Source
	now func() time.Time
}

// NewPredictor builds a Predictor. A nil src falls back to a time-seeded one.
func NewPredictor(src Source, opts ...PredictorOption) *Predictor {
	if src == nil {
		src = NewSource(0)
	}
	p := &Predictor{src: src, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Predict picks one of classes for the given top features and inputs.
//
// Draw order: one per top feature (score += importance*u), one for the class
// jitter, one for the confidence. Only the top features' inputs are recorded.
func (p *Predictor) Predict(top []FeatureImportance, inputs map[string]string, classes []string) (*Prediction, error) {
	if len(classes) == 0 {
		return nil, ErrNoClasses
	}
	var missing []string
	recorded := make(map[string]string, len(top))
	for _, f := range top {
		v := strings.TrimSpace(inputs[f.Feature])
		if v == "" {
			missing = append(missing, f.Feature)
			continue
		}
		recorded[f.Feature] = v
	}
	if len(missing) > 0 {
		return nil, &MissingInputError{Features: missing}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	score := 0.0
	for _, f := range top {
		score += f.Importance * p.src.Float64()
	}
	n := len(classes)
	idx := int(math.Floor(uniform(p.src, score, classJitter)*float64(n))) % n
	if idx < 0 {
		idx += n
	}
	conf := roundTo(uniform(p.src, confidenceFloor, confidenceJitter), confidenceDecimal)

	return &Prediction{
		ID:             uuid.NewString(),
		Inputs:         recorded,
		PredictedClass: classes[idx],
		Confidence:     clamp(conf, confidenceFloor, confidenceFloor+confidenceJitter),
		Timestamp:      p.now().UTC(),
	}, nil
}
