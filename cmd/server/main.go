package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"plangate/internal/access"
	"plangate/internal/adminmetrics"
	"plangate/internal/assignment"
	astore "plangate/internal/assignment/store"
	"plangate/internal/auditlog"
	auditstore "plangate/internal/auditlog/store"
	jwttoken "plangate/internal/jwt_token"
	"plangate/internal/plan"
	pstore "plangate/internal/plan/store"
	"plangate/internal/platform/config"
	"plangate/internal/platform/httpserver"
	"plangate/internal/platform/logger"
	"plangate/internal/platform/postgres"
	"plangate/internal/platform/redis"
	"plangate/internal/ports"
	httptransport "plangate/internal/transport/http"
	"plangate/internal/usage"
)

// main wires dependencies and owns the server lifecycle. Business logic
// lives in the internal service packages.
func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	repos, err := buildStores(ctx, db)
	if err != nil {
		return err
	}

	var meter access.UsageReader
	if redisClient != nil {
		meter = usage.NewRedisMeter(redisClient.Client)
	} else {
		meter = usage.NewMemoryMeter()
	}

	planSvc, err := plan.NewService(repos.plans, plan.WithLogger(log))
	if err != nil {
		return err
	}
	assignSvc, err := assignment.New(repos.plans, repos.assignments, assignment.WithLogger(log))
	if err != nil {
		return err
	}
	auditSvc, err := auditlog.New(repos.audit, auditlog.WithLogger(log))
	if err != nil {
		return err
	}
	sink, err := auditlog.NewDecisionSink(repos.audit)
	if err != nil {
		return err
	}
	engine, err := access.NewEngine(meter, sink, access.WithLogger(log))
	if err != nil {
		return err
	}
	accessSvc, err := access.NewService(repos.plans, repos.assignments, engine, access.WithServiceLogger(log))
	if err != nil {
		return err
	}
	metricsBuilder, err := adminmetrics.New(repos.auditRead, adminmetrics.WithLogger(log))
	if err != nil {
		return err
	}

	jwtService := jwttoken.NewJWTService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience)

	router := httptransport.NewRouter(httptransport.Deps{
		Access:    httptransport.NewAccessHandler(accessSvc, log),
		Plans:     httptransport.NewPlansHandler(planSvc, assignSvc, log),
		Audit:     httptransport.NewAuditHandler(auditSvc, log),
		Admin:     httptransport.NewAdminHandler(metricsBuilder, log),
		Validator: jwttoken.NewJWTServiceAdapter(jwtService),
		Logger:    log,
	})

	srv := httpserver.New(cfg.Server, router)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Info("plangate listening", "addr", cfg.Server.Addr, "postgres", db != nil, "redis", redisClient != nil)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("plangate stopped")
	return nil
}

// stores bundles the selected persistence adapters. The audit store doubles
// as the aggregation read side.
type stores struct {
	plans       ports.PlanRepository
	assignments ports.AssignmentRepository
	audit       auditlog.Store
	auditRead   auditlog.ReadRepository
}

// buildStores selects the persistence adapters. With no database configured
// everything runs on the in-memory reference adapters.
func buildStores(ctx context.Context, db *sql.DB) (*stores, error) {
	if db == nil {
		audit := auditstore.NewMemory()
		return &stores{
			plans:       pstore.NewMemory(),
			assignments: astore.NewMemory(),
			audit:       audit,
			auditRead:   audit,
		}, nil
	}

	plans := pstore.NewPostgres(db)
	if err := plans.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	assignments := astore.NewPostgres(db)
	if err := assignments.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	audit := auditstore.NewPostgres(db)
	if err := audit.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return &stores{
		plans:       plans,
		assignments: assignments,
		audit:       audit,
		auditRead:   audit,
	}, nil
}
