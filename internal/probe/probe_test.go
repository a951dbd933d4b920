package probe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/rai-eval/internal/domain"
)

func testTarget(endpoint string) domain.TargetConfig {
	return domain.TargetConfig{
		Endpoint:  endpoint,
		InputKey:  "prompt",
		OutputKey: "completion",
	}
}

func TestProbe(t *testing.T) {
	ctx := context.Background()

	t.Run("extracts the answer from the output key", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			_ = json.NewEncoder(w).Encode(map[string]string{
				"completion": "echo: " + body["prompt"].(string),
			})
		}))
		defer srv.Close()

		p := NewProberWithClient(srv.Client())
		res := p.Probe(ctx, testTarget(srv.URL), "is this safe?")
		assert.Equal(t, "is this safe?", res.Question)
		assert.Equal(t, "echo: is this safe?", res.Answer)
	})

	t.Run("injects the question into the body template", func(t *testing.T) {
		var got map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_ = json.NewEncoder(w).Encode(map[string]string{"completion": "ok"})
		}))
		defer srv.Close()

		target := testTarget(srv.URL)
		target.BodyTemplate = map[string]any{"session": "abc", "prompt": "overwritten"}
		p := NewProberWithClient(srv.Client())
		p.Probe(ctx, target, "the question")

		assert.Equal(t, "abc", got["session"])
		assert.Equal(t, "the question", got["prompt"])
	})

	t.Run("sends configured headers", func(t *testing.T) {
		var auth, contentType string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			contentType = r.Header.Get("Content-Type")
			_ = json.NewEncoder(w).Encode(map[string]string{"completion": "ok"})
		}))
		defer srv.Close()

		target := testTarget(srv.URL)
		target.Headers = map[string]string{"Authorization": "Bearer tok"}
		NewProberWithClient(srv.Client()).Probe(ctx, target, "q")

		assert.Equal(t, "Bearer tok", auth)
		assert.Equal(t, "application/json", contentType)
	})

	t.Run("missing output key becomes a sentinel answer", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"other": "value", "completion": 42})
		}))
		defer srv.Close()

		res := NewProberWithClient(srv.Client()).Probe(ctx, testTarget(srv.URL), "q")
		assert.Equal(t, "No response available in key: completion", res.Answer)
	})

	t.Run("unreachable target is captured, not returned", func(t *testing.T) {
		res := NewProber().Probe(ctx, testTarget("http://127.0.0.1:1"), "q")
		assert.Equal(t, "q", res.Question)
		assert.Contains(t, res.Answer, "Error calling endpoint: ")
	})

	t.Run("non-JSON response is captured", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>oops</html>"))
		}))
		defer srv.Close()

		res := NewProberWithClient(srv.Client()).Probe(ctx, testTarget(srv.URL), "q")
		assert.Contains(t, res.Answer, "Error calling endpoint: ")
	})
}
