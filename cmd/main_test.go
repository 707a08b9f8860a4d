package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/okian/whalerisk/internal/adapters/http/api"
	"github.com/okian/whalerisk/internal/adapters/http/docs"
	app "github.com/okian/whalerisk/internal/app"
	"github.com/okian/whalerisk/internal/config"
	"github.com/okian/whalerisk/pkg/logger"
	"github.com/okian/whalerisk/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("WHALERISK_ADDR", ":8080")
			_ = os.Setenv("WHALERISK_MAX_ROUTE_WAYPOINTS", "250")
			defer func() {
				_ = os.Unsetenv("WHALERISK_ADDR")
				_ = os.Unsetenv("WHALERISK_MAX_ROUTE_WAYPOINTS")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxRouteWaypoints, convey.ShouldEqual, 250)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := app.New(
					app.WithModelPath("model/whale_risk_model.json"),
					app.WithScoreCacheSize(128),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc := app.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then HTTP server should be creatable", func() {
				server := api.NewServer(svc, 1000)
				convey.So(server, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				registry := prometheus.NewRegistry()
				manager := metrics.NewManager(metrics.WithPrometheusRegistry(registry))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should stop when the context expires", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateSystemMetrics()
				}, convey.ShouldNotPanic)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given main application integration", t, func() {
		convey.Convey("When testing full application setup", func() {
			_ = os.Setenv("WHALERISK_ADDR", ":8080")
			_ = os.Setenv("WHALERISK_MODEL_PATH", "../model/whale_risk_model.json")
			defer func() {
				_ = os.Unsetenv("WHALERISK_ADDR")
				_ = os.Unsetenv("WHALERISK_MODEL_PATH")
			}()

			convey.Convey("Then all components should work together", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)

				svc := app.New(
					app.WithModelPath(cfg.ModelPath),
					app.WithScoreCacheSize(cfg.ScoreCacheSize),
				)
				convey.So(svc, convey.ShouldNotBeNil)
				convey.So(svc.Start(ctx), convey.ShouldBeNil)

				server := api.NewServer(svc, cfg.MaxRouteWaypoints)
				convey.So(server, convey.ShouldNotBeNil)

				mux := http.NewServeMux()
				convey.So(mux, convey.ShouldNotBeNil)

				server.Register(ctx, mux)
				docs.Register(ctx, mux)

				svc.Stop()
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("WHALERISK_ADDR", "")
			defer func() { _ = os.Unsetenv("WHALERISK_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When testing startup with a missing artifact", func() {
			convey.Convey("Then service start should fail", func() {
				svc := app.New(app.WithModelPath("does/not/exist.json"))
				convey.So(svc, convey.ShouldNotBeNil)
				convey.So(svc.Start(context.Background()), convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationResourceCleanup(t *testing.T) {
	convey.Convey("Given main application resource cleanup", t, func() {
		convey.Convey("When testing service creation without starting", func() {
			svc := app.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then stats should be available before start", func() {
				stats := svc.GetStats()
				convey.So(stats, convey.ShouldNotBeNil)
				convey.So(stats["started"], convey.ShouldBeFalse)
			})
		})

		convey.Convey("When testing multiple service creation cycles", func() {
			convey.Convey("Then multiple services should be created successfully", func() {
				for i := 0; i < 3; i++ {
					svc := app.New()
					convey.So(svc, convey.ShouldNotBeNil)

					stats := svc.GetStats()
					convey.So(stats, convey.ShouldNotBeNil)
				}
			})
		})
	})
}
