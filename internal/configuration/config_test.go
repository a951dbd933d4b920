package configuration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/rai-eval/internal/llm"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RAI_HTTP_ADDR", "RAI_DB_PATH", "TEMPORAL_HOSTPORT", "TEMPORAL_NAMESPACE",
		"MODEL_ENDPOINT", "AWS_REGION", "MODEL_API_KEY", "MODEL_ID",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv(t *testing.T) {
	t.Run("defaults derive the endpoint from the region", func(t *testing.T) {
		clearEnv(t)

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, "data/rai-eval.db", cfg.DBPath)
		assert.Equal(t, "localhost:7233", cfg.TemporalHostPort)
		assert.Equal(t, "default", cfg.TemporalNamespace)
		assert.Equal(t, "https://bedrock-runtime.us-east-1.amazonaws.com", cfg.ModelEndpoint)
		assert.Equal(t, llm.DefaultModel, cfg.ModelID)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RAI_HTTP_ADDR", ":9999")
		t.Setenv("RAI_DB_PATH", "/tmp/eval.db")
		t.Setenv("AWS_REGION", "eu-west-1")
		t.Setenv("MODEL_ID", "custom-model")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, ":9999", cfg.HTTPAddr)
		assert.Equal(t, "/tmp/eval.db", cfg.DBPath)
		assert.Equal(t, "https://bedrock-runtime.eu-west-1.amazonaws.com", cfg.ModelEndpoint)
		assert.Equal(t, "custom-model", cfg.ModelID)
	})

	t.Run("explicit endpoint wins over region derivation", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MODEL_ENDPOINT", "https://proxy.internal/bedrock")
		t.Setenv("AWS_REGION", "eu-west-1")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, "https://proxy.internal/bedrock", cfg.ModelEndpoint)
	})

	t.Run("rejects an invalid endpoint", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MODEL_ENDPOINT", "not a url")

		_, err := FromEnv()
		assert.Error(t, err)
	})
}

func TestLLMConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("MODEL_API_KEY", "secret")

	cfg, err := FromEnv()
	require.NoError(t, err)

	llmCfg := cfg.LLM()
	assert.Equal(t, cfg.ModelEndpoint, llmCfg.Endpoint)
	assert.Equal(t, "secret", llmCfg.APIKey)
	assert.Equal(t, cfg.ModelID, llmCfg.Model)
	assert.Equal(t, llm.DefaultConfig().Retry, llmCfg.Retry)
}
