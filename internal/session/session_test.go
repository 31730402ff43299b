package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KaramelBytes/classify-cli/internal/dataset"
	"github.com/KaramelBytes/classify-cli/internal/model"
	"github.com/KaramelBytes/classify-cli/internal/session"
	"github.com/KaramelBytes/classify-cli/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

const flowers = "sepal,petal,color,species\n" +
	"5.1,1.4,white,setosa\n" +
	"7.0,4.7,purple,versicolor\n" +
	"6.3,6.0,blue,virginica\n" +
	"4.9,1.5,white,setosa\n"

func newSession(delay time.Duration, opts ...session.Option) *session.Session {
	tr := model.NewTrainer(model.NewGenerator(model.NewSource(5)), model.WithDelay(delay))
	return session.New(tr, model.NewPredictor(model.NewSource(9)), opts...)
}

func mustIngest(t *testing.T, label, raw, target string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.IngestNamed(label, raw, target, dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	return ds
}

func fullInputs(s *session.Session) map[string]string {
	in := map[string]string{}
	for _, f := range s.TopFeatures() {
		in[f.Feature] = "1"
	}
	return in
}

func TestSession_LoadAndPredict(t *testing.T) {
	ds := mustIngest(t, "flowers", flowers, "species")
	ctx := context.Background()

	Convey("Given an empty session", t, func() {
		s := newSession(0)

		Convey("Predicting before any load is rejected", func() {
			_, err := s.Predict(ctx, map[string]string{})
			So(errors.Is(err, session.ErrNoDataset), ShouldBeTrue)
			_, err = s.Snapshot()
			So(errors.Is(err, session.ErrNoDataset), ShouldBeTrue)
		})

		Convey("When a dataset is loaded", func() {
			firstID := s.ID()
			m, err := s.Load(ctx, ds)
			So(err, ShouldBeNil)
			So(m, ShouldNotBeNil)
			So(s.Metrics(), ShouldEqual, m)
			So(s.ID(), ShouldNotEqual, firstID)
			So(s.TopFeatures(), ShouldHaveLength, 3)

			Convey("Then predictions need every top feature", func() {
				_, err := s.Predict(ctx, map[string]string{})
				var mie *model.MissingInputError
				So(errors.As(err, &mie), ShouldBeTrue)
				So(s.Predictions(), ShouldBeEmpty)
			})

			Convey("And predictions accumulate in order", func() {
				for i := 0; i < 7; i++ {
					rec, err := s.Predict(ctx, fullInputs(s))
					So(err, ShouldBeNil)
					So(ds.Classes, ShouldContain, rec.PredictedClass)
				}
				all := s.Predictions()
				So(all, ShouldHaveLength, 7)
				recent := s.Recent(5)
				So(recent, ShouldHaveLength, 5)
				So(recent[0].ID, ShouldEqual, all[6].ID)
				So(recent[4].ID, ShouldEqual, all[2].ID)

				snap, err := s.Snapshot()
				So(err, ShouldBeNil)
				So(snap.Predictions, ShouldHaveLength, 7)
				So(snap.Dataset, ShouldEqual, ds)
			})

			Convey("And loading a new dataset clears the history", func() {
				_, err := s.Predict(ctx, fullInputs(s))
				So(err, ShouldBeNil)
				other := mustIngest(t, "other", "a,b,y\n1,2,p\n3,4,q\n", "y")
				_, err = s.Load(ctx, other)
				So(err, ShouldBeNil)
				So(s.Predictions(), ShouldBeEmpty)
				So(s.Dataset(), ShouldEqual, other)
			})

			Convey("And reset drops everything", func() {
				s.Reset()
				So(s.Dataset(), ShouldBeNil)
				So(s.Metrics(), ShouldBeNil)
				So(s.Predictions(), ShouldBeEmpty)
			})
		})
	})
}

func TestSession_StaleTrainingIsDiscarded(t *testing.T) {
	first := mustIngest(t, "first", flowers, "species")
	second := mustIngest(t, "second", "a,b,y\n1,2,p\n3,4,q\n", "y")
	ctx := context.Background()

	Convey("Given a session with a slow trainer", t, func() {
		mm := metrics.New()
		s := newSession(100*time.Millisecond, session.WithMetrics(mm))

		Convey("When a second dataset is loaded while the first still trains", func() {
			pending := s.Start(ctx, first)
			m, err := s.Load(ctx, second)
			So(err, ShouldBeNil)

			stale := <-pending

			Convey("Then the first result is discarded", func() {
				So(errors.Is(stale.Err, session.ErrStale), ShouldBeTrue)
				So(stale.Metrics, ShouldBeNil)
			})

			Convey("And the session keeps the newer dataset and metrics", func() {
				So(s.Dataset(), ShouldEqual, second)
				So(s.Metrics(), ShouldEqual, m)
				So(m.ConfusionMatrix, ShouldHaveLength, len(second.Classes))
			})
		})

		Convey("When the session is reset mid-training", func() {
			pending := s.Start(ctx, first)
			s.Reset()
			res := <-pending
			So(errors.Is(res.Err, session.ErrStale), ShouldBeTrue)
			So(s.Metrics(), ShouldBeNil)
		})
	})
}

func TestSession_TrainingCancelled(t *testing.T) {
	ds := mustIngest(t, "flowers", flowers, "species")

	Convey("Given a cancelled context", t, func() {
		s := newSession(time.Minute)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := s.Load(ctx, ds)
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
		So(s.Metrics(), ShouldBeNil)

		_, err = s.Predict(context.Background(), map[string]string{})
		So(errors.Is(err, session.ErrNotTrained), ShouldBeTrue)
	})
}

func TestSession_SingleClass(t *testing.T) {
	ds := mustIngest(t, "one", "x,y\n1,only\n2,only\n3,only\n", "y")

	Convey("Given a single-class dataset", t, func() {
		s := newSession(0, session.WithTopK(1))
		m, err := s.Load(context.Background(), ds)
		So(err, ShouldBeNil)
		So(m.ConfusionMatrix, ShouldResemble, [][]int{{3}})

		rec, err := s.Predict(context.Background(), map[string]string{"x": "4"})
		So(err, ShouldBeNil)
		So(rec.PredictedClass, ShouldEqual, "only")
	})
}

func TestSession_DegenerateDatasets(t *testing.T) {
	ctx := context.Background()

	Convey("Given a dataset whose only column is the target", t, func() {
		ds := mustIngest(t, "only", "label\ncat\ndog\ncat\n", "label")
		s := newSession(0)
		m, err := s.Load(ctx, ds)
		So(err, ShouldBeNil)

		Convey("Then training succeeds with no importances", func() {
			So(m.FeatureImportances, ShouldBeEmpty)
			So(m.ConfusionMatrix, ShouldHaveLength, 2)
			So(s.TopFeatures(), ShouldBeEmpty)
		})

		Convey("And a prediction needs no inputs", func() {
			rec, err := s.Predict(ctx, map[string]string{})
			So(err, ShouldBeNil)
			So(ds.Classes, ShouldContain, rec.PredictedClass)
			So(rec.Inputs, ShouldBeEmpty)
			So(s.Predictions(), ShouldHaveLength, 1)
		})
	})

	Convey("Given a dataset whose target column is always empty", t, func() {
		ds := mustIngest(t, "blank", "x,y\n1,\n2,\n", "y")
		s := newSession(0)
		m, err := s.Load(ctx, ds)
		So(err, ShouldBeNil)

		Convey("Then training succeeds with an empty confusion matrix", func() {
			So(ds.Classes, ShouldBeEmpty)
			So(m.ConfusionMatrix, ShouldBeEmpty)
			So(m.Accuracy, ShouldBeBetweenOrEqual, 60, 95)
		})

		Convey("And predicting reports there is nothing to predict", func() {
			_, err := s.Predict(ctx, map[string]string{"x": "1"})
			So(errors.Is(err, model.ErrNoClasses), ShouldBeTrue)
			So(s.Predictions(), ShouldBeEmpty)
		})
	})
}
