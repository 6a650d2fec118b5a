package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/figtools/compdiff/internal/api"
	"github.com/figtools/compdiff/internal/codegen"
	"github.com/figtools/compdiff/internal/config"
	"github.com/figtools/compdiff/internal/figma"
	"github.com/figtools/compdiff/internal/gitsink"
	"github.com/figtools/compdiff/internal/llm"
	"github.com/figtools/compdiff/internal/match"
	"github.com/figtools/compdiff/internal/pipeline"
	"github.com/figtools/compdiff/internal/registry"
	"github.com/joho/godotenv"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load a local .env if present; real deployments set the environment.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	figmaClient := figma.NewClient(cfg.FigmaAPIURL, cfg.FigmaToken)
	llmClient := llm.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	generator := codegen.NewGenerator(llmClient)

	var registryClient *registry.Client
	var sink *gitsink.Client
	var registrySource pipeline.RegistrySource
	if cfg.RegistryEnabled() {
		registryClient = registry.NewClient(cfg.GithubAPIURL, cfg.GithubToken, cfg.GithubRepo)
		registrySource = registryClient
		sink = gitsink.NewClient(cfg.GithubAPIURL, cfg.GithubToken, cfg.GithubRepo, cfg.GithubBaseBranch)
	} else {
		log.Warn("no github credentials; registry checks disabled, all components will report as new")
	}

	var oracle match.Oracle
	if cfg.FuzzyMatchEnabled {
		oracle = match.NewLLMOracle(llmClient)
	}
	matcher := match.NewMatcher(oracle)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(pipeline.Config{
		WorkerCount:  cfg.WorkerCount,
		MaxQueueSize: cfg.MaxQueueSize,
		JobTTL:       cfg.JobTTL,
		Thresholds:   cfg.Thresholds(),
	}, figmaClient, registrySource, matcher, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, llmClient, generator, sink, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		llmClient.Close()
		figmaClient.Close()
		if registryClient != nil {
			registryClient.Close()
		}
		if sink != nil {
			sink.Close()
		}
	}()

	log.Info("starting compdiff", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
