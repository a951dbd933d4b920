// Command api serves the pipeline's HTTP trigger surface.
package main

import (
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"

	"github.com/ahrav/rai-eval/internal/api"
	"github.com/ahrav/rai-eval/internal/configuration"
	"github.com/ahrav/rai-eval/internal/llm"
	"github.com/ahrav/rai-eval/internal/store"
	"github.com/ahrav/rai-eval/internal/synthesis"
	"github.com/ahrav/rai-eval/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := configuration.FromEnv()
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	temporalClient, err := client.Dial(client.Options{
		HostPort:  cfg.TemporalHostPort,
		Namespace: cfg.TemporalNamespace,
	})
	if err != nil {
		logger.Error("failed to dial temporal", "error", err)
		os.Exit(1)
	}
	defer temporalClient.Close()

	scenarios := synthesis.NewService(st, synthesis.NewSynthesizer(llm.NewClient(cfg.LLM())))
	server := api.NewServer(st, worker.NewTemporalLauncher(temporalClient), scenarios)

	logger.Info("api starting", "addr", cfg.HTTPAddr)
	if err := server.Router().Run(cfg.HTTPAddr); err != nil {
		logger.Error("api stopped", "error", err)
		os.Exit(1)
	}
}
