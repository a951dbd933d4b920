package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ahrav/rai-eval/internal/llm/llmerrors"
)

// ProviderName identifies the provider adapter in errors and logs.
const ProviderName = "bedrock-anthropic"

// anthropicVersion is the version tag the messages-format invoke body
// carries.
const anthropicVersion = "bedrock-2023-05-31"

// providerHandler is the terminal transport handler: it builds the
// provider HTTP request, executes it, and parses the response into the
// normalized form.
type providerHandler struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewProviderHandler returns the terminal handler for the configured
// provider endpoint.
func NewProviderHandler(cfg *Config) Handler {
	return &providerHandler{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		httpClient: cfg.httpClient(),
	}
}

// invokeBody is the messages-format request body. Field order and defaults
// follow the provider's invoke-model contract.
type invokeBody struct {
	AnthropicVersion string    `json:"anthropic_version"`
	Messages         []Message `json:"messages"`
	MaxTokens        int       `json:"max_tokens"`
	Temperature      float64   `json:"temperature"`
	TopP             float64   `json:"top_p"`
	TopK             int       `json:"top_k"`
}

func (p *providerHandler) Handle(ctx context.Context, req *Request) (*Response, error) {
	endpoint := fmt.Sprintf("%s/model/%s/invoke", p.endpoint, url.PathEscape(req.Model))

	body := invokeBody{
		AnthropicVersion: anthropicVersion,
		Messages:         req.Messages,
		MaxTokens:        req.MaxTokens,
		Temperature:      req.Temperature,
		TopP:             req.TopP,
		TopK:             req.TopK,
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "*/*")
	if p.apiKey != "" {
		httpReq.Header.Set("x-api-key", p.apiKey)
	}

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, &llmerrors.ProviderError{
			Provider: ProviderName,
			Message:  err.Error(),
			Type:     llmerrors.ErrorTypeProvider,
		}
	}
	defer httpResp.Body.Close()

	return parseResponse(httpResp)
}

func parseResponse(httpResp *http.Response) (*Response, error) {
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, parseProviderError(httpResp.StatusCode, body)
	}

	var resp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		StopReason string `json:"stop_reason"`
		Usage      struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, &llmerrors.ProviderError{
			Provider: ProviderName,
			Message:  "response contained no content blocks",
			Type:     llmerrors.ErrorTypeValidation,
		}
	}

	return &Response{
		Content:      resp.Content[0].Text,
		StopReason:   resp.StopReason,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}

// parseProviderError converts non-200 responses to a typed ProviderError.
// Both the native {"type","message"} shape and the gateway {"__type",
// "message"} shape are recognized.
func parseProviderError(statusCode int, body []byte) error {
	var errResp struct {
		Type     string `json:"type"`
		AltType  string `json:"__type"`
		Message  string `json:"message"`
		ErrorObj *struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}

	code := ""
	message := string(body)
	if err := json.Unmarshal(body, &errResp); err == nil {
		switch {
		case errResp.ErrorObj != nil && errResp.ErrorObj.Message != "":
			code, message = errResp.ErrorObj.Type, errResp.ErrorObj.Message
		case errResp.Message != "":
			message = errResp.Message
			code = errResp.Type
			if code == "" {
				code = errResp.AltType
			}
		}
	}

	return &llmerrors.ProviderError{
		Provider:   ProviderName,
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
		Type:       llmerrors.ClassifyStatus(statusCode, code),
	}
}
