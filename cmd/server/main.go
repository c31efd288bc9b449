package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"triage-chatbot/internal/core"
	"triage-chatbot/internal/db"
	httpserver "triage-chatbot/internal/http"
	"triage-chatbot/internal/llm"

	_ "github.com/lib/pq"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger, err := zap.NewProductionConfig().Build()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL must be set")
	}

	dbConn, err := sql.Open("postgres", dbURL)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbConn.PingContext(ctx); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}
	if err := db.Migrate(context.Background(), dbConn); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	repo := db.NewRepository(dbConn)

	client, err := buildNLUClient(logger)
	if err != nil {
		logger.Fatal("failed to construct NLU client", zap.Error(err))
	}

	// Admission control shared across requests; defaults to one NLU-bound
	// request per second, matching the provider's free-tier quota.
	rps := 1.0
	if v := os.Getenv("TRIAGE_RPS"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			rps = parsed
		}
	}
	limiter := rate.NewLimiter(rate.Limit(rps), 1)

	triage := core.NewTriage(client, repo, limiter, logger)
	srv := httpserver.NewServer(triage, dbConn.Ping, logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	logger.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

// buildNLUClient selects exactly one provider at startup. Everything past
// this point talks to the llm.Client interface and never branches on
// provider identity.
func buildNLUClient(logger *zap.Logger) (llm.Client, error) {
	provider := os.Getenv("LLM_PROVIDER")
	switch provider {
	case "gemini":
		logger.Info("using Gemini model")
		return llm.NewGeminiClient(context.Background(),
			os.Getenv("GEMINI_API_KEY"), os.Getenv("GEMINI_MODEL"))
	case "openai", "":
		logger.Info("using OpenAI model")
		return llm.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_MODEL")), nil
	default:
		logger.Warn("unknown LLM_PROVIDER, falling back to OpenAI", zap.String("provider", provider))
		return llm.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_MODEL")), nil
	}
}
