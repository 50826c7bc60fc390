package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	migrations "victorygoals/db"
	"victorygoals/internal/adapter/eventbus/inprocess"
	httpadapter "victorygoals/internal/adapter/http"
	"victorygoals/internal/adapter/metrics"
	metricsinmem "victorygoals/internal/adapter/metrics/inmemory"
	metricsprom "victorygoals/internal/adapter/metrics/prom"
	gormrepo "victorygoals/internal/adapter/repo/gorm"
	memrepo "victorygoals/internal/adapter/repo/memory"
	luascript "victorygoals/internal/adapter/script/lua"
	worldmemory "victorygoals/internal/adapter/world/memory"
	"victorygoals/internal/app/ports"
	"victorygoals/internal/app/tracker"
	"victorygoals/internal/domain/victory"
	"victorygoals/internal/platform/config"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		config.Exitf("config: %v", err)
	}
	logger, err := config.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		config.Exitf("config: %v", err)
	}
	slog.SetDefault(logger)

	if err := run(context.Background(), cfg, logger); err != nil {
		config.Exitf("victory server: %v", err)
	}
}

func run(ctx context.Context, cfg config.Server, logger *slog.Logger) error {
	world, err := worldmemory.LoadFile(cfg.WorldFile)
	if err != nil {
		return err
	}
	regs, err := luascript.Loader{World: world}.LoadFile(cfg.GoalsFile)
	if err != nil {
		return err
	}
	transitions, txManager, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	kpiRecorder := metricsinmem.NewRecorder()

	tr, err := tracker.New(tracker.Deps{
		World:       world,
		Events:      inprocess.NewBus(),
		Handlers:    victory.NewEventHandlers(),
		Transitions: transitions,
		TxManager:   txManager,
		Metrics:     metrics.Tee{kpiRecorder, metricsprom.NewRecorder(reg)},
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer tr.Close()
	if err := registerGoals(ctx, tr, regs); err != nil {
		return err
	}

	h := httpadapter.Handler{
		Tracker: tr,
		World:   world,
		KPI:     kpiRecorder,
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),

		CORSOrigin: cfg.CORSOrigin,
	}
	s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	h.RegisterRoutes(s)

	logger.Info("victory goal server listening", "addr", cfg.HTTPAddr, "goals", len(regs), "turn", world.Turn())
	s.Spin()
	return nil
}

// buildStore keeps transitions in Postgres when a DSN is configured and in
// memory otherwise.
func buildStore(ctx context.Context, cfg config.Server, logger *slog.Logger) (ports.TransitionRepository, ports.TxManager, error) {
	if cfg.DBDSN == "" {
		logger.Warn("VICTORY_DB_DSN not set, goal transitions are kept in memory")
		store := memrepo.NewStore()
		return memrepo.NewTransitionRepo(store), memrepo.NewTxManager(store), nil
	}
	db, err := gormrepo.OpenPostgres(ctx, cfg.DBDSN)
	if err != nil {
		return nil, nil, err
	}
	source := migrations.Migrations()
	if cfg.Migrations != "" {
		source = os.DirFS(cfg.Migrations)
	}
	applied, err := gormrepo.ApplyMigrations(ctx, db, source)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("transition store ready", "migrations_applied", applied)
	return gormrepo.NewTransitionRepo(db), gormrepo.NewTxManager(db), nil
}

type goalRegistrar interface {
	Register(ctx context.Context, req tracker.RegisterRequest) (tracker.RegisterResponse, error)
}

func registerGoals(ctx context.Context, tr goalRegistrar, regs []luascript.Registration) error {
	for i, r := range regs {
		_, err := tr.Register(ctx, tracker.RegisterRequest{
			Player:   r.Player,
			Goal:     r.Goal,
			Name:     r.Name,
			Deadline: r.Deadline,
		})
		if err != nil {
			return fmt.Errorf("register goal %d for player %d: %w", i, r.Player, err)
		}
	}
	return nil
}
