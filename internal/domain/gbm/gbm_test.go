package gbm_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/okian/whalerisk/internal/domain/gbm"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given a model artifact on disk", t, func() {
		path := filepath.Join("testdata", "model.json")

		Convey("When loading it", func() {
			m, err := gbm.Load(path)

			Convey("Then it should load and report its ensemble size", func() {
				So(err, ShouldBeNil)
				So(m, ShouldNotBeNil)
				So(m.TreeCount(), ShouldEqual, 3)
			})
		})

		Convey("When loading a missing file", func() {
			m, err := gbm.Load(filepath.Join("testdata", "no_such_model.json"))

			Convey("Then it should fail with a load error", func() {
				So(m, ShouldBeNil)
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, gbm.ErrLoadModel)
			})
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given raw artifact JSON", t, func() {
		Convey("When the JSON is malformed", func() {
			m, err := gbm.Parse([]byte(`{"trees": [`))

			Convey("Then it should be rejected as invalid", func() {
				So(m, ShouldBeNil)
				So(err, ShouldWrap, gbm.ErrInvalidModel)
			})
		})

		Convey("When the feature list is wrong", func() {
			m, err := gbm.Parse([]byte(`{
				"features": ["latitude", "longitude"],
				"learning_rate": 0.1,
				"trees": [{"nodes": [{"leaf": true, "value": 0.5}]}]
			}`))

			Convey("Then it should be rejected as invalid", func() {
				So(m, ShouldBeNil)
				So(err, ShouldWrap, gbm.ErrInvalidModel)
			})
		})

		Convey("When the learning rate is missing", func() {
			m, err := gbm.Parse([]byte(`{
				"features": ["latitude", "longitude", "month"],
				"trees": [{"nodes": [{"leaf": true, "value": 0.5}]}]
			}`))

			Convey("Then it should be rejected as invalid", func() {
				So(m, ShouldBeNil)
				So(err, ShouldWrap, gbm.ErrInvalidModel)
			})
		})

		Convey("When the ensemble is empty", func() {
			m, err := gbm.Parse([]byte(`{
				"features": ["latitude", "longitude", "month"],
				"learning_rate": 0.1,
				"trees": []
			}`))

			Convey("Then it should be rejected as invalid", func() {
				So(m, ShouldBeNil)
				So(err, ShouldWrap, gbm.ErrInvalidModel)
			})
		})

		Convey("When a node points at an out-of-range child", func() {
			m, err := gbm.Parse([]byte(`{
				"features": ["latitude", "longitude", "month"],
				"learning_rate": 0.1,
				"trees": [{"nodes": [
					{"feature": 0, "threshold": 40, "left": 1, "right": 9},
					{"leaf": true, "value": 0.5}
				]}]
			}`))

			Convey("Then it should be rejected as invalid", func() {
				So(m, ShouldBeNil)
				So(err, ShouldWrap, gbm.ErrInvalidModel)
			})
		})

		Convey("When a node points backwards, which could form a cycle", func() {
			m, err := gbm.Parse([]byte(`{
				"features": ["latitude", "longitude", "month"],
				"learning_rate": 0.1,
				"trees": [{"nodes": [
					{"feature": 0, "threshold": 40, "left": 1, "right": 2},
					{"feature": 1, "threshold": 0, "left": 0, "right": 2},
					{"leaf": true, "value": 0.5}
				]}]
			}`))

			Convey("Then it should be rejected as invalid", func() {
				So(m, ShouldBeNil)
				So(err, ShouldWrap, gbm.ErrInvalidModel)
			})
		})

		Convey("When a node uses an unknown feature index", func() {
			m, err := gbm.Parse([]byte(`{
				"features": ["latitude", "longitude", "month"],
				"learning_rate": 0.1,
				"trees": [{"nodes": [
					{"feature": 7, "threshold": 40, "left": 1, "right": 2},
					{"leaf": true, "value": 0.5},
					{"leaf": true, "value": -0.5}
				]}]
			}`))

			Convey("Then it should be rejected as invalid", func() {
				So(m, ShouldBeNil)
				So(err, ShouldWrap, gbm.ErrInvalidModel)
			})
		})
	})
}

func TestScore(t *testing.T) {
	Convey("Given a loaded model", t, func() {
		m, err := gbm.Load(filepath.Join("testdata", "model.json"))
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("When scoring a northern summer feeding ground", func() {
			p, err := m.Score(ctx, 48, -125, 7)

			Convey("Then probability should be high", func() {
				So(err, ShouldBeNil)
				// raw = 1.2 + 1.0 + 0.3 = 2.5
				So(p, ShouldAlmostEqual, 0.924142, 0.000001)
			})
		})

		Convey("When scoring a southern winter location", func() {
			p, err := m.Score(ctx, 33, -120, 12)

			Convey("Then probability should be low", func() {
				So(err, ShouldBeNil)
				// raw = -1.0 - 0.8 + 0.3 = -1.5
				So(p, ShouldAlmostEqual, 0.182426, 0.000001)
			})
		})

		Convey("When scoring any location", func() {
			points := []struct{ lat, lon float64; month int }{
				{0, 0, 1},
				{90, 180, 12},
				{-90, -180, 6},
				{1234, -9999, 42}, // out-of-range inputs pass through
			}

			Convey("Then probability should always stay within [0,1]", func() {
				for _, pt := range points {
					p, err := m.Score(ctx, pt.lat, pt.lon, pt.month)
					So(err, ShouldBeNil)
					So(p, ShouldBeBetweenOrEqual, 0, 1)
				}
			})
		})

		Convey("When scoring the same input twice", func() {
			p1, err1 := m.Score(ctx, 45, -124, 5)
			p2, err2 := m.Score(ctx, 45, -124, 5)

			Convey("Then the result should be deterministic", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(p1, ShouldEqual, p2)
			})
		})

		Convey("When the context is already cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := m.Score(cancelled, 48, -125, 7)

			Convey("Then scoring should fail with a score error", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, gbm.ErrScore)
			})
		})
	})
}
