package model

import (
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/KaramelBytes/classify-cli/internal/dataset"
)

// Generation constants.
const (
	baseAccuracyFloor   = 0.6
	accuracyPerFeature  = 0.02
	accuracyJitter      = 0.2
	maxBaseAccuracy     = 0.95
	precisionOffset     = -0.02
	precisionJitter     = 0.04
	recallOffset        = -0.01
	recallJitter        = 0.02
	importanceJitter    = 0.8
	importanceBase      = 0.1
	importanceDecayStep = 0.05
)

// ErrNilDataset is returned when Generate is called without a dataset.
var ErrNilDataset = errors.New("dataset is nil")

// FeatureImportance pairs a feature with its fabricated importance in [0,1].
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// Metrics is the fabricated evaluation of a dataset. Percentages carry one
// decimal place. Confusion rows are actual classes, columns predicted ones.
type Metrics struct {
	Accuracy           float64             `json:"accuracy"`
	Precision          float64             `json:"precision"`
	Recall             float64             `json:"recall"`
	F1Score            float64             `json:"f1Score"`
	ConfusionMatrix    [][]int             `json:"confusionMatrix"`
	FeatureImportances []FeatureImportance `json:"featureImportances"`
}

// Generator derives Metrics from a dataset using draws from its Source.
//
// Draws happen in a fixed order: base accuracy, precision, recall, then one
// per feature in column order. Seeded sources therefore give stable output.
type Generator struct {
	mu  sync.Mutex
	src Source
}

// NewGenerator builds a Generator. A nil src falls back to a time-seeded one.
func NewGenerator(src Source) *Generator {
	if src == nil {
		src = NewSource(0)
	}
	return &Generator{src: src}
}

// Generate fabricates metrics for ds. It does not modify ds.
func (g *Generator) Generate(ds *dataset.Dataset) (*Metrics, error) {
	if ds == nil {
		return nil, ErrNilDataset
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	nFeatures := float64(len(ds.Features))
	base := math.Min(maxBaseAccuracy, uniform(g.src, baseAccuracyFloor+accuracyPerFeature*nFeatures, accuracyJitter))

	precision := percent1(uniform(g.src, base+precisionOffset, precisionJitter))
	recall := percent1(uniform(g.src, base+recallOffset, recallJitter))

	m := &Metrics{
		Accuracy:  clamp(percent1(base), 0, 100),
		Precision: clamp(precision, 0, 100),
		Recall:    clamp(recall, 0, 100),
		F1Score:   clamp(F1(precision, recall), 0, 100),
	}
	m.ConfusionMatrix = ConfusionMatrix(len(ds.Classes), ds.RowCount, base)
	m.FeatureImportances = g.importances(ds.Features)
	return m, nil
}

// F1 returns the harmonic mean of two percentages as a one-decimal percentage.
func F1(precision, recall float64) float64 {
	p, r := precision/100, recall/100
	if p+r == 0 {
		return 0
	}
	return percent1(2 * p * r / (p + r))
}

// ConfusionMatrix spreads rowCount evenly over the classes, putting an
// accuracy share of each class on the diagonal and splitting the rest
// evenly across the other columns. A single class yields [[rowCount]] and
// no classes yield an empty matrix.
func ConfusionMatrix(classes, rowCount int, accuracy float64) [][]int {
	if classes <= 0 {
		return [][]int{}
	}
	if classes == 1 {
		return [][]int{{rowCount}}
	}
	perClass := float64(rowCount / classes)
	diag := int(math.Floor(perClass * accuracy))
	off := int(math.Floor(perClass * (1 - accuracy) / float64(classes-1)))
	if diag < 0 {
		diag = 0
	}
	if off < 0 {
		off = 0
	}
	mat := make([][]int, classes)
	for i := range mat {
		mat[i] = make([]int, classes)
		for j := range mat[i] {
			if i == j {
				mat[i][j] = diag
			} else {
				mat[i][j] = off
			}
		}
	}
	return mat
}

// importances draws one value per feature, decaying with column position.
// Later columns can come out negative; those are clamped to zero.
func (g *Generator) importances(features []string) []FeatureImportance {
	out := make([]FeatureImportance, len(features))
	for i, f := range features {
		v := roundTo(uniform(g.src, importanceBase-importanceDecayStep*float64(i), importanceJitter), 2)
		out[i] = FeatureImportance{Feature: f, Importance: clamp(v, 0, 1)}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Importance > out[b].Importance })
	return out
}

// TopFeatures returns the k most important features. k <= 0 selects DefaultTopK.
func TopFeatures(m *Metrics, k int) []FeatureImportance {
	if m == nil {
		return nil
	}
	if k <= 0 {
		k = DefaultTopK
	}
	if k > len(m.FeatureImportances) {
		k = len(m.FeatureImportances)
	}
	out := make([]FeatureImportance, k)
	copy(out, m.FeatureImportances[:k])
	return out
}
