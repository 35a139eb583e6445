package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dgallion1/docforma/internal/api"
	"github.com/dgallion1/docforma/internal/assemble"
	"github.com/dgallion1/docforma/internal/config"
	"github.com/dgallion1/docforma/internal/docspec"
	"github.com/dgallion1/docforma/internal/generate"
	"github.com/dgallion1/docforma/internal/normalize"
	"github.com/dgallion1/docforma/internal/partition"
	"github.com/dgallion1/docforma/internal/pathstore"
	"github.com/dgallion1/docforma/internal/pipeline"
	"github.com/dgallion1/docforma/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded", "error", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		log.Error("invalid profile", "path", cfg.ProfilePath, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize storage and clients.
	st, err := openStore(cfg)
	if err != nil {
		log.Error("open store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	llm := generate.NewOpenAIClient(generate.OpenAIConfig{
		APIKey:    cfg.LLMAPIKey,
		BaseURL:   cfg.LLMBaseURL,
		Model:     cfg.LLMModel,
		MaxTokens: cfg.LLMMaxTokens,
		Timeout:   cfg.LLMTimeout,
	}, log)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, pipeline.Deps{
		Store:       st,
		LLM:         llm,
		Polisher:    generate.NewPolisher(profile.Cliches),
		Partitioner: partition.Partitioner{Keywords: profile.PartitionKeywords},
		Defaults:    profile.Defaults,
		Assembler:   assemble.New(assemble.Options{Labels: profile.Labels}, log),
		Log:         log,
	})
	orch.Start(ctx)

	// Initialize HTTP server.
	norm := normalize.New(normalize.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext}, log)
	ext := docspec.NewExtractor(profile.Defaults, log)
	srv := api.NewServer(orch, norm, ext, llm, log, cfg)

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

		// Drain HTTP first so no handler submits into a stopped pipeline.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", "error", err)
		}

		orch.Stop()
		st.Close()
	}()

	log.Info("starting docforma",
		"port", cfg.Port,
		"store", cfg.StoreBackend,
		"model", cfg.LLMModel,
		"language", profile.Language)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func openStore(cfg config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		return store.OpenSQLite(cfg.SQLitePath)
	case config.BackendPathstore:
		return store.NewPathstore(pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey), ""), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
