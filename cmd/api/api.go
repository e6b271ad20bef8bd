package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chronosphere777/chronosphere/docs"
	"github.com/chronosphere777/chronosphere/internal/overpass"
	"github.com/chronosphere777/chronosphere/internal/queue"
	"github.com/chronosphere777/chronosphere/internal/ratelimiter"
	"github.com/chronosphere777/chronosphere/internal/repo"
	"github.com/chronosphere777/chronosphere/internal/service"
	"github.com/chronosphere777/chronosphere/internal/store/mongo"
	"github.com/chronosphere777/chronosphere/internal/worker"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config           config
	logger           *zap.SugaredLogger
	rateLimiter      ratelimiter.Limiter
	storage          *mongo.Storage
	broker           queue.Broker
	shopRepo         repo.ShopRepository
	directoryService *service.DirectoryService
	catalogService   *service.CatalogService
	searchService    *service.SearchService
	roadsClient      *overpass.Client
	syncWorker       *worker.DirectorySyncWorker
}

type config struct {
	addr        string
	env         string
	apiURL      string
	rateLimiter ratelimiter.Config
	mongo       mongoConfig
	rabbitMQ    rabbitMQConfig
	googleCreds string
	mainSheetID string
}

type mongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type rabbitMQConfig struct {
	URL           string
	MaxRetries    int
	RetryDelay    time.Duration
	PrefetchCount int
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)

		r.Get("/cities", app.getCitiesHandler)
		r.Get("/categories", app.getCategoriesHandler)
		r.Get("/categories/{city}", app.getCategoriesHandler)
		r.Get("/shops", app.getAllShopsHandler)
		r.Get("/shops/{city}", app.getShopsByCityHandler)
		r.Get("/shop/{shop_id}", app.getShopHandler)
		r.Get("/shop/{shop_id}/catalog", app.getShopCatalogHandler)
		r.Get("/wholesale-shops", app.getWholesaleShopsHandler)

		r.Get("/search-products", app.searchProductsHandler)
		r.Get("/cache-status", app.getCacheStatusHandler)

		r.Post("/roads", app.roadsQueryHandler)
		r.Get("/roads/cache/stats", app.getRoadsCacheStatsHandler)
		r.Post("/roads/cache/clear", app.clearRoadsCacheHandler)
		r.Post("/roads/warmup", app.roadsWarmupHandler)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/shops", app.addShopHandler)
			r.Delete("/shops/{shop_id}", app.deleteShopHandler)
			r.Post("/sync", app.createSyncTaskHandler)
			r.Get("/sync/{task_id}", app.getSyncTaskHandler)
			r.Post("/clear-cache", app.clearCacheHandler)
		})

		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))
	})

	return r
}

func (app *application) RateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.config.rateLimiter.Enabled {
			if allow, retryAfter := app.rateLimiter.Allow(r.RemoteAddr); !allow {
				app.rateLimitExceededResponse(w, r, retryAfter.String())
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (app *application) run(mux http.Handler) error {
	// docs
	docs.SwaggerInfo.Title = "Chronosphere"
	docs.SwaggerInfo.Description = "Shop directory and product catalog API"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/api/v1"

	// workers
	if app.syncWorker != nil {
		if err := app.syncWorker.Start(); err != nil {
			return fmt.Errorf("failed to start sync worker: %w", err)
		}
	}

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		if app.syncWorker != nil {
			app.syncWorker.Stop()
		}

		if app.storage != nil {
			if err := app.storage.Close(ctx); err != nil {
				app.logger.Errorw("error closing MongoDB", "error", err)
			} else {
				app.logger.Info("MongoDB connection closed gracefully")
			}
		}

		if app.broker != nil {
			if err := app.broker.Close(); err != nil {
				app.logger.Errorw("error closing RabbitMQ", "error", err)
			} else {
				app.logger.Info("RabbitMQ connection closed gracefully")
			}
		}

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server have started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
