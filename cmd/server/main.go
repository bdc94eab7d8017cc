package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"vaxcard/internal/card"
	cardhandler "vaxcard/internal/card/handler"
	"vaxcard/internal/person"
	personhandler "vaxcard/internal/person/handler"
	"vaxcard/internal/platform/config"
	"vaxcard/internal/platform/httpserver"
	"vaxcard/internal/platform/logger"
	"vaxcard/internal/platform/metrics"
	"vaxcard/internal/platform/middleware"
	platformredis "vaxcard/internal/platform/redis"
	"vaxcard/internal/storage/memory"
	storepg "vaxcard/internal/storage/postgres"
	"vaxcard/internal/vaccination"
	vaccinationhandler "vaxcard/internal/vaccination/handler"
	"vaxcard/internal/vaccine"
	vaccinehandler "vaxcard/internal/vaccine/handler"
	"vaxcard/pkg/platform/audit"
	auditmemory "vaxcard/pkg/platform/audit/store/memory"
	auditpostgres "vaxcard/pkg/platform/audit/store/postgres"
	auditworker "vaxcard/pkg/platform/audit/worker"
)

const auditBufferSize = 256

// main wires stores, services, and transport. Business rules live in the
// internal packages; this file only connects them.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	m := metrics.New()

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		log.Info("card cache enabled", "redis_url", cfg.RedisURL)
	}
	cardCache := card.NewCache(redisClient, log)

	var (
		db               *sql.DB
		personStore      person.Store
		vaccineStore     vaccine.Store
		vaccinationStore vaccination.Store
		vaccinationTx    vaccination.Tx
		auditStore       audit.Store
	)
	if cfg.DatabaseURL != "" {
		db, err = storepg.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = storepg.EnsureSchema(ctx, db)
		cancel()
		if err != nil {
			return err
		}

		personStore = storepg.NewPersonStore(db)
		vaccineStore = storepg.NewVaccineStore(db)
		vaccinationStore = storepg.NewVaccinationStore(db)
		vaccinationTx = storepg.NewVaccinationTx(db)
		auditStore = auditpostgres.New(db)
		log.Info("using postgres stores")
	} else {
		mem := memory.NewDB()
		personStore = memory.NewPersonStore(mem)
		vaccineStore = memory.NewVaccineStore(mem)
		vaccinationStore = memory.NewVaccinationStore(mem)
		vaccinationTx = memory.NewVaccinationTx(mem)
		auditStore = auditmemory.NewInMemoryStore()
		log.Info("using in-memory stores")
	}

	publisher := audit.NewChannelPublisher(auditBufferSize, log)
	worker := auditworker.NewWorker(auditStore, publisher.Inbox(), log)

	personService := person.NewService(personStore,
		person.WithLogger(log),
		person.WithMetrics(m),
		person.WithAuditPublisher(publisher),
		person.WithCardInvalidator(cardCache),
	)
	vaccineService := vaccine.NewService(vaccineStore,
		vaccine.WithLogger(log),
		vaccine.WithMetrics(m),
		vaccine.WithAuditPublisher(publisher),
		vaccine.WithCardInvalidator(cardCache),
	)
	vaccinationService := vaccination.NewService(vaccinationTx, vaccinationStore, personService, vaccineService,
		vaccination.WithLogger(log),
		vaccination.WithMetrics(m),
		vaccination.WithAuditPublisher(publisher),
		vaccination.WithCardInvalidator(cardCache),
		vaccination.WithFutureDateRejection(cfg.RejectFutureDates),
	)
	cardService := card.NewService(personService, vaccineService, vaccinationStore,
		card.WithLogger(log),
		card.WithMetrics(m),
		card.WithCache(cardCache),
	)

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Timeout(cfg.RequestTimeout))

	router.Get("/health", healthHandler(db, redisClient))
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.Group(func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)
		if cfg.APIKey != "" {
			api.Use(middleware.RequireAPIKey(cfg.APIKey, log))
		}
		personhandler.New(personService, log).Register(api)
		vaccinehandler.New(vaccineService, log).Register(api)
		vaccinationhandler.New(vaccinationService, log).Register(api)
		cardhandler.New(cardService, log).Register(api)
	})

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return worker.Run(ctx)
	})

	g.Go(func() error {
		log.Info("starting vaxcard", "addr", cfg.Addr, "auth", cfg.APIKey != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shutdown complete")
	return nil
}

// healthHandler reports liveness; degraded dependencies are listed but do not
// fail the probe since the in-memory fallback keeps the API serving.
func healthHandler(db *sql.DB, redisClient *platformredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				status["database"] = "unreachable"
			}
		}
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				status["cache"] = "unreachable"
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(status)
	}
}
