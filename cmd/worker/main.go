// Command worker hosts the Temporal worker that executes question
// synthesis and evaluation runs.
package main

import (
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/ahrav/rai-eval/internal/configuration"
	"github.com/ahrav/rai-eval/internal/llm"
	"github.com/ahrav/rai-eval/internal/store"
	"github.com/ahrav/rai-eval/internal/worker"
	"github.com/ahrav/rai-eval/internal/workflow"
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

	w := sdkworker.New(temporalClient, workflow.TaskQueue, sdkworker.Options{})
	worker.RegisterAll(w, worker.NewActivities(st, llm.NewClient(cfg.LLM())))

	logger.Info("worker starting", "task_queue", workflow.TaskQueue)
	if err := w.Run(sdkworker.InterruptCh()); err != nil {
		logger.Error("worker stopped", "error", err)
		os.Exit(1)
	}
}
