package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/llmarena/backend/conf"
	backendhttp "github.com/llmarena/backend/http"
	"github.com/llmarena/backend/judge"
	"github.com/llmarena/backend/problem"
	"github.com/llmarena/backend/subm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file, relying on environment")
	}

	cfg, err := conf.Load("config.toml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	problems := problem.NewFsRepo(cfg.Problems.Dir)
	judgeClient := judge.NewClient(cfg.Judge.Url)
	submSrvc := subm.NewSubmissionSrvc(judgeClient, problems, cfg.Workers.QueueSize)
	submSrvc.StartWorkers(ctx, cfg.Workers.Count)

	httpServer := backendhttp.NewHttpServer(submSrvc, problems, cfg.Http.AllowedOrigins)

	go func() {
		slog.Info("starting server", "address", cfg.Http.Address)
		if err := httpServer.Start(cfg.Http.Address); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", "error", err)
	}

	// workers stop at their next blocking wait; queued submissions
	// that no worker claimed are dropped
	submSrvc.Wait()
	slog.Info("all workers stopped")
}
