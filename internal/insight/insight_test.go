package insight_test

import (
	"strings"
	"testing"

	"github.com/KaramelBytes/classify-cli/internal/dataset"
	"github.com/KaramelBytes/classify-cli/internal/insight"
	"github.com/KaramelBytes/classify-cli/internal/model"
)

func ingest(t *testing.T, raw, target string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Ingest(raw, target)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	return ds
}

func TestPerformanceTiers(t *testing.T) {
	cases := []struct {
		acc   float64
		title string
		tier  string
		kind  string
	}{
		{95, "Excellent Performance", "Excellent", insight.KindSuccess},
		{90, "Excellent Performance", "Excellent", insight.KindSuccess},
		{89.9, "Good Performance", "Good", insight.KindGood},
		{75, "Good Performance", "Good", insight.KindGood},
		{74.9, "Room for Improvement", "Needs Improvement", insight.KindWarning},
	}
	for _, c := range cases {
		in := insight.Performance(&model.Metrics{Accuracy: c.acc})
		if in.Title != c.title || in.Kind != c.kind {
			t.Fatalf("acc %v: got %+v", c.acc, in)
		}
		if got := insight.Tier(c.acc); got != c.tier {
			t.Fatalf("tier(%v) = %q, want %q", c.acc, got, c.tier)
		}
	}
	in := insight.Performance(&model.Metrics{Accuracy: 82.5})
	if !strings.Contains(in.Text, "82.5% accuracy") {
		t.Fatalf("unexpected text: %q", in.Text)
	}
}

func TestClassBalance(t *testing.T) {
	balanced := ingest(t, "x,y\n1,a\n2,b\n3,a\n4,b\n", "y")
	in, ok := insight.ClassBalance(balanced)
	if !ok || in.Title != "Balanced Classes" {
		t.Fatalf("expected balanced, got %+v ok=%v", in, ok)
	}

	skewed := ingest(t, "x,y\n1,a\n2,a\n3,a\n4,a\n5,b\n", "y")
	in, ok = insight.ClassBalance(skewed)
	if !ok || in.Title != "Class Imbalance" || !strings.Contains(in.Text, "4.0:1") {
		t.Fatalf("expected imbalance 4.0:1, got %+v", in)
	}

	exactlyThree := ingest(t, "x,y\n1,a\n2,a\n3,a\n4,b\n", "y")
	if in, _ := insight.ClassBalance(exactlyThree); in.Title != "Balanced Classes" {
		t.Fatalf("ratio 3 should still count as balanced, got %q", in.Title)
	}

	noClasses := ingest(t, "x,y\n1,\n2,\n", "y")
	if _, ok := insight.ClassBalance(noClasses); ok {
		t.Fatalf("no classes should skip the balance insight")
	}
}

func TestMisclassificationAndKeyDriver(t *testing.T) {
	ds := ingest(t, "f,g,y\n1,2,cat\n3,4,dog\n5,6,fox\n", "y")
	m := &model.Metrics{
		Accuracy:        80,
		Precision:       79.1,
		ConfusionMatrix: [][]int{{5, 1, 0}, {0, 5, 3}, {2, 0, 5}},
		FeatureImportances: []model.FeatureImportance{
			{Feature: "g", Importance: 0.45},
			{Feature: "f", Importance: 0.3},
		},
	}

	in, ok := insight.Misclassification(ds, m)
	if !ok || !strings.Contains(in.Text, "between dog and fox") {
		t.Fatalf("unexpected misclassification insight: %+v", in)
	}

	kd, ok := insight.KeyDriver(m)
	if !ok || !strings.Contains(kd.Text, "g is the most important feature with 45.0% importance") {
		t.Fatalf("unexpected key driver: %+v", kd)
	}

	all := insight.Generate(ds, m)
	if len(all) != 4 {
		t.Fatalf("expected 4 insights, got %d", len(all))
	}

	perfect := &model.Metrics{Accuracy: 95, ConfusionMatrix: [][]int{{1, 0}, {0, 1}}}
	if _, ok := insight.Misclassification(ds, perfect); ok {
		t.Fatalf("zero off-diagonal should skip the pattern insight")
	}
	if _, ok := insight.KeyDriver(perfect); ok {
		t.Fatalf("no importances should skip the key driver")
	}
}

func TestSummaryAndHighlights(t *testing.T) {
	ds := ingest(t, "f,g,y\n1,2,cat\n3,4,dog\n", "y")
	m := &model.Metrics{
		Accuracy:           76,
		Precision:          75.2,
		FeatureImportances: []model.FeatureImportance{{Feature: "f", Importance: 0.6}},
	}
	s := insight.Summary(ds, m)
	for _, want := range []string{
		"processed 2 samples with 2 features to classify 2 different classes",
		"76% accuracy with 75.2% precision",
		"The f feature was identified",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("summary missing %q: %s", want, s)
		}
	}

	h := insight.Highlights(m, 3)
	if len(h) != 4 || h[0] != "Performance: Good (76% accuracy)" || h[3] != "Model Type: Simulated XGBoost Classifier" {
		t.Fatalf("unexpected highlights: %v", h)
	}
	if !strings.Contains(h[2], "3 predictions") {
		t.Fatalf("unexpected prediction count line: %q", h[2])
	}
}
