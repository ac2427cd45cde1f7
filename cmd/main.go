// Package main wires the HTTP server for the PR risk analysis service.
package main

import (
	"context"
	"os/signal"
	"syscall"

	handlers_fiber "pr-risk-analyzer/internal/transport/http/server/handlers-fiber"
	"pr-risk-analyzer/internal/usecase"
	"pr-risk-analyzer/internal/usecase/domain"

	"pr-risk-analyzer/config"
	"pr-risk-analyzer/internal/analysis"
	"pr-risk-analyzer/internal/bitbucket"
	"pr-risk-analyzer/internal/comments"
	"pr-risk-analyzer/internal/mapper"
	"pr-risk-analyzer/internal/remote"
	"pr-risk-analyzer/internal/repository"
	"pr-risk-analyzer/internal/storage"
	"pr-risk-analyzer/internal/transport/http/middleware"
	"pr-risk-analyzer/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}

	repo, err := repository.New(ctx, cfg.Storage.Backend, log, cfg)
	if err != nil {
		log.Errorw("repository initialization error", "error", err)
		return
	}
	if err := repo.OnStart(ctx); err != nil {
		log.Errorw("repository start error", "error", err)
		return
	}
	defer func() {
		_ = repo.OnStop(context.Background())
	}()

	caller := remote.NewCaller(log, cfg.Retry)
	bb := bitbucket.New(log, caller, cfg.Bitbucket)

	timeout := cfg.HTTP.RequestTimeout
	uc := usecase.New(log, ctx, domain.Dependencies{
		Normalizer: mapper.NewNormalizer(log),
		Remote:     bb,
		Gate:       storage.NewGate(log, repo),
		Store:      storage.NewStore(log, repo, cfg.Analysis),
		Reconciler: comments.NewReconciler(log, bb),
		Diff:       analysis.NewDiffAnalyzer(cfg.Analysis),
		Process:    analysis.NewProcessAnalyzer(cfg.Analysis),
		Engine:     analysis.NewEngine(cfg.Analysis),
	}, timeout)

	serv := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTP.RequestTimeout,
		WriteTimeout: cfg.HTTP.RequestTimeout,
	})
	serv.Use(recover.New())
	serv.Use(requestid.New())
	serv.Use(middleware.RequestLogger(log))

	serv.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	handlers_fiber.NewHandler(log, uc).RegisterRoutes(serv)

	go func() {
		if err := serv.Listen(cfg.ServerAddr()); err != nil {
			log.Errorw("failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = serv.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warnw("server shutdown timeout", "timeout", cfg.Server.ShutdownTimeout)
	}
}
