package llm

import "context"

// Message is one turn of a model conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the normalized model invocation passed through the handler
// chain. The client fills provider-level defaults (max tokens, top_k)
// before the request reaches the transport.
type Request struct {
	Messages    []Message
	Model       string
	Temperature float64
	TopP        float64
	TopK        int
	MaxTokens   int
}

// Response is the normalized model output. Content is the text of the
// first content block in the provider response.
type Response struct {
	Content      string
	StopReason   string
	InputTokens  int
	OutputTokens int
}

// Handler processes a model request, typically terminating in an HTTP call
// to the provider.
type Handler interface {
	Handle(ctx context.Context, req *Request) (*Response, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

// Handle calls f(ctx, req).
func (f HandlerFunc) Handle(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Middleware wraps a Handler with additional behavior such as retries.
type Middleware func(Handler) Handler

// Chain composes middleware around a terminal handler. The first
// middleware in the list becomes the outermost wrapper.
func Chain(h Handler, middleware ...Middleware) Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}
