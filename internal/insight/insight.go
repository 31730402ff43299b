// Package insight turns a dataset and its simulated metrics into short,
// human-readable observations for the terminal and the reports.
package insight

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/classify-cli/internal/dataset"
	"github.com/KaramelBytes/classify-cli/internal/model"
	"github.com/KaramelBytes/classify-cli/internal/profile"
)

// ModelType is the label shown wherever the model is named.
const ModelType = "Simulated XGBoost Classifier"

// Insight kinds.
const (
	KindSuccess = "success"
	KindGood    = "good"
	KindWarning = "warning"
	KindInfo    = "info"
)

const (
	excellentAccuracy = 90
	goodAccuracy      = 75
	imbalanceRatio    = 3
)

// Insight is one observation.
type Insight struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Tier names the accuracy band: Excellent, Good or Needs Improvement.
func Tier(accuracy float64) string {
	switch {
	case accuracy >= excellentAccuracy:
		return "Excellent"
	case accuracy >= goodAccuracy:
		return "Good"
	default:
		return "Needs Improvement"
	}
}

// Generate returns the insights for ds and m in display order:
// performance, key driver, class balance, misclassification pattern.
// Observations that have nothing to say are omitted.
func Generate(ds *dataset.Dataset, m *model.Metrics) []Insight {
	if ds == nil || m == nil {
		return nil
	}
	out := []Insight{Performance(m)}
	if in, ok := KeyDriver(m); ok {
		out = append(out, in)
	}
	if in, ok := ClassBalance(ds); ok {
		out = append(out, in)
	}
	if in, ok := Misclassification(ds, m); ok {
		out = append(out, in)
	}
	return out
}

// Performance grades the accuracy.
func Performance(m *model.Metrics) Insight {
	acc := num(m.Accuracy)
	switch {
	case m.Accuracy >= excellentAccuracy:
		return Insight{KindSuccess, "Excellent Performance",
			fmt.Sprintf("The model achieved outstanding %s%% accuracy, indicating strong predictive capability.", acc)}
	case m.Accuracy >= goodAccuracy:
		return Insight{KindGood, "Good Performance",
			fmt.Sprintf("With %s%% accuracy, the model shows solid predictive performance.", acc)}
	default:
		return Insight{KindWarning, "Room for Improvement",
			fmt.Sprintf("At %s%% accuracy, consider feature engineering or gathering more data.", acc)}
	}
}

// KeyDriver names the most important feature. ok is false when there are
// no features.
func KeyDriver(m *model.Metrics) (Insight, bool) {
	top, ok := topFeature(m)
	if !ok {
		return Insight{}, false
	}
	return Insight{KindInfo, "Key Driver",
		fmt.Sprintf("%s is the most important feature with %.1f%% importance, driving most predictions.",
			top.Feature, top.Importance*100)}, true
}

// ClassBalance compares the largest and smallest class. ok is false when
// there are no classes or a class has no rows, where the ratio is undefined.
func ClassBalance(ds *dataset.Dataset) (Insight, bool) {
	counts := profile.ClassDistribution(ds)
	if len(counts) == 0 {
		return Insight{}, false
	}
	lo, hi := counts[0].Count, counts[0].Count
	for _, c := range counts[1:] {
		lo = min(lo, c.Count)
		hi = max(hi, c.Count)
	}
	if lo == 0 {
		return Insight{}, false
	}
	ratio := float64(hi) / float64(lo)
	if ratio > imbalanceRatio {
		return Insight{KindWarning, "Class Imbalance",
			fmt.Sprintf("Dataset shows class imbalance (%.1f:1 ratio). Consider balancing techniques for better performance.", ratio)}, true
	}
	return Insight{KindGood, "Balanced Classes",
		"Dataset has good class distribution, which helps model performance across all categories."}, true
}

// Misclassification names the actual/predicted pair with the largest
// off-diagonal count. ok is false when every off-diagonal cell is zero.
func Misclassification(ds *dataset.Dataset, m *model.Metrics) (Insight, bool) {
	best, bi, bj := 0, -1, -1
	for i, row := range m.ConfusionMatrix {
		for j, v := range row {
			if i != j && v > best {
				best, bi, bj = v, i, j
			}
		}
	}
	if best == 0 || bi >= len(ds.Classes) || bj >= len(ds.Classes) {
		return Insight{}, false
	}
	return Insight{KindInfo, "Misclassification Pattern",
		fmt.Sprintf("Most confusion occurs between %s and %s classes. These may share similar characteristics.",
			ds.Classes[bi], ds.Classes[bj])}, true
}

// Highlights are the one-line insights printed in the PDF report.
func Highlights(m *model.Metrics, predictions int) []string {
	lines := []string{
		fmt.Sprintf("Performance: %s (%s%% accuracy)", Tier(m.Accuracy), num(m.Accuracy)),
	}
	if top, ok := topFeature(m); ok {
		lines = append(lines, fmt.Sprintf("Key Driver: %s is the most important feature", top.Feature))
	}
	return append(lines,
		fmt.Sprintf("Predictions Made: %d predictions in this session", predictions),
		"Model Type: "+ModelType,
	)
}

// Summary is the executive summary paragraph.
func Summary(ds *dataset.Dataset, m *model.Metrics) string {
	s := fmt.Sprintf("This machine learning analysis processed %d samples with %d features to classify %d different classes. "+
		"The model achieved %s%% accuracy with %s%% precision.",
		ds.RowCount, len(ds.Features), len(ds.Classes), num(m.Accuracy), num(m.Precision))
	if top, ok := topFeature(m); ok {
		s += fmt.Sprintf(" The %s feature was identified as the most predictive factor.", top.Feature)
	}
	return s + " This simulation demonstrates the potential performance of a real classification model on your dataset."
}

func topFeature(m *model.Metrics) (model.FeatureImportance, bool) {
	if m == nil || len(m.FeatureImportances) == 0 {
		return model.FeatureImportance{}, false
	}
	return m.FeatureImportances[0], true
}

// num prints a percentage the way it is stored: one decimal at most, no
// trailing zero.
func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
