package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/llmarena/backend/gen"
	"github.com/llmarena/backend/problem"
)

func main() {
	problemID := flag.String("problem", "", "problem id, e.g. latam2023/B")
	serverURL := flag.String("server", "http://localhost:8000", "backend base URL")
	contestsDir := flag.String("contests", "Contests", "contests directory")
	model := flag.String("model", "o3-mini", "model name for the completion endpoint")
	flag.Parse()

	if *problemID == "" {
		slog.Error("missing -problem flag")
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file, relying on environment")
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		slog.Error("OPENAI_API_KEY is not set")
		os.Exit(1)
	}
	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	problems := problem.NewFsRepo(*contestsDir)
	statement, err := problems.Statement(*problemID)
	if err != nil {
		slog.Error("failed to read problem statement", "error", err)
		os.Exit(1)
	}
	lim, err := problems.Limits(*problemID)
	if err != nil {
		slog.Error("failed to read problem limits", "error", err)
		os.Exit(1)
	}

	provider := gen.NewOpenAIProvider(baseURL, apiKey, *model)
	agent := gen.NewAgent(provider, *serverURL)

	v, err := agent.Run(ctx, gen.Task{
		ProblemID:   *problemID,
		Statement:   statement,
		TimeLimit:   lim.TimeLimit,
		MemoryLimit: lim.MemoryLimit,
	})
	if err != nil {
		slog.Error("agent run failed", "error", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(v, "", "  ")
	os.Stdout.Write(append(out, '\n'))
}
