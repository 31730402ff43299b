package profile_test

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/KaramelBytes/classify-cli/internal/dataset"
	"github.com/KaramelBytes/classify-cli/internal/profile"
)

const harvest = "plot,alpha,moisture,grade\n" +
	"A1,12.5,74,high\n" +
	"A1,11.8,71,high\n" +
	"B3,10.2,,low\n" +
	"C2,9.9,68,low\n" +
	"B3,12.1,70,high\n"

func ingest(t *testing.T, raw, target string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.IngestNamed("hop_harvest", raw, target, dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	return ds
}

func TestKind(t *testing.T) {
	ds := ingest(t, harvest, "grade")
	cases := []struct {
		feature string
		want    string
	}{
		{"alpha", profile.KindNumeric},
		{"plot", profile.KindCategorical},
		{"moisture", profile.KindCategorical}, // empty value in the sample
	}
	for _, c := range cases {
		if got := profile.Kind(ds, c.feature); got != c.want {
			t.Errorf("%s: got %s want %s", c.feature, got, c.want)
		}
	}
}

func TestKind_OnlyFirstTenRows(t *testing.T) {
	var b strings.Builder
	b.WriteString("x,y\n")
	for i := 0; i < 10; i++ {
		b.WriteString("1,a\n")
	}
	b.WriteString("oops,b\n")
	ds := ingest(t, b.String(), "y")
	if got := profile.Kind(ds, "x"); got != profile.KindNumeric {
		t.Fatalf("got %s, want numeric", got)
	}
}

func TestSuggestions(t *testing.T) {
	ds := ingest(t, harvest, "grade")
	if got := profile.Suggestions(ds, "plot"); !reflect.DeepEqual(got, []string{"A1", "B3", "C2"}) {
		t.Fatalf("suggestions = %v", got)
	}

	var b strings.Builder
	b.WriteString("v,y\n")
	for i := 0; i < 15; i++ {
		b.WriteString(string(rune('a'+i)) + ",k\n")
	}
	many := ingest(t, b.String(), "y")
	if got := profile.Suggestions(many, "v"); len(got) != 10 {
		t.Fatalf("expected 10 suggestions, got %d", len(got))
	}
}

func TestClassDistribution(t *testing.T) {
	ds := ingest(t, harvest, "grade")
	want := []profile.ClassCount{{Value: "high", Count: 3}, {Value: "low", Count: 2}}
	if got := profile.ClassDistribution(ds); !reflect.DeepEqual(got, want) {
		t.Fatalf("distribution = %v", got)
	}
}

func TestSummarizeMarkdown(t *testing.T) {
	ds := ingest(t, harvest, "grade")
	md := profile.Summarize(ds, profile.DefaultOptions()).Markdown()
	for _, want := range []string{
		"[DATASET OVERVIEW]",
		"File: hop_harvest",
		"Samples: 5",
		"Features: 3",
		"Classes: 2",
		"alpha: numeric",
		"moisture: numeric (non-null 4, missing 20.0%)",
		"grade (target): categorical",
		"- high: 3 (60.0%)",
		"[HEAD AND SAMPLE ROWS]",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q in:\n%s", want, md)
		}
	}
}

func TestSummarize_Warnings(t *testing.T) {
	ds := ingest(t, "a,a,y\n1,2,only\n", "y")
	rep := profile.Summarize(ds, profile.Options{SampleRows: 0})
	if len(rep.Samples) != 0 {
		t.Fatalf("expected no samples")
	}
	if len(rep.Warnings) != 2 {
		t.Fatalf("warnings = %v", rep.Warnings)
	}
}

func TestMarkdown_TruncatesLongValuesOnRunes(t *testing.T) {
	long := strings.Repeat("é", 100)
	ds := ingest(t, "note,y\n"+long+",a\n", "y")
	md := profile.Summarize(ds, profile.DefaultOptions()).Markdown()
	want := strings.Repeat("é", 77) + "..."
	if !strings.Contains(md, "| "+want+" |") {
		t.Fatalf("expected rune-safe truncation in:\n%s", md)
	}
	if !utf8.ValidString(md) {
		t.Fatalf("markdown is not valid UTF-8")
	}
}
