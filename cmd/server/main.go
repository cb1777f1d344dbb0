package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"dossier/internal/audit"
	"dossier/internal/authtoken"
	"dossier/internal/casefile/store/cases"
	"dossier/internal/fingerprint"
	httpapi "dossier/internal/http"
	"dossier/internal/platform/config"
	"dossier/internal/platform/httpserver"
	"dossier/internal/platform/logger"
	platformredis "dossier/internal/platform/redis"
	"dossier/internal/validation"
	"dossier/internal/validation/handler"
	"dossier/internal/validation/metrics"
	"dossier/internal/validation/ports"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	var health []httpapi.HealthChecker

	var caseStore ports.CaseStore = cases.NewMemory()
	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("pgx", cfg.Postgres.DSN)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		pg := cases.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Error("ensure postgres schema", "error", err)
			os.Exit(1)
		}
		caseStore = pg
		health = append(health, dbHealth{db})
	}

	var fingerprints ports.FingerprintStore = fingerprint.NewMemoryStore()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		fingerprints = fingerprint.NewRedisStore(redisClient.Client, cfg.Redis.RetentionTTL)
		health = append(health, redisClient)
	}

	auditStore := audit.NewMemoryStore()
	publishers := audit.FanOut{audit.NewStorePublisher(auditStore)}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPub, err := audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := kafkaPub.Close(closeCtx); err != nil {
				log.Error("close kafka publisher", "error", err)
			}
		}()
		publishers = append(publishers, kafkaPub)
	}

	svc, err := validation.New(caseStore,
		validation.WithLogger(log),
		validation.WithMetrics(metrics.New()),
		validation.WithAuditPublisher(publishers),
		validation.WithFingerprintStore(fingerprints),
	)
	if err != nil {
		log.Error("build validation service", "error", err)
		os.Exit(1)
	}

	tokens := authtoken.NewService(cfg.Server.JWTSigningKey, "dossier", "dossier-api")
	h := handler.New(svc, log)
	router := httpapi.NewRouter(h, httpapi.RouterConfig{
		Validator:         tokens,
		OperatorTokenHash: cfg.Server.OperatorTokenHash,
		Logger:            log,
		Health:            health,
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	log.Info("starting dossier", "addr", cfg.Server.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
