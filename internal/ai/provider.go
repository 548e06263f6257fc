package ai

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolCall is a structured function invocation requested by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name string `json:"name"`
	// Arguments is the JSON-encoded argument object as returned by the model.
	Arguments string `json:"arguments"`
}

// Completion is a single chat-completion result.
type Completion struct {
	Content   string
	ToolCalls []ToolCall
	// Raw is the provider response body, kept for diagnostics.
	Raw string
}

type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// ToolProvider is an optional interface. Providers may accept tool
// definitions and surface the model's tool calls.
type ToolProvider interface {
	ChatWithTools(ctx context.Context, messages []Message, tools []ToolDefinition) (*Completion, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
