// ABOUTME: Descriptor types for the static tool/resource/prompt catalog.
// ABOUTME: Tools carry schemas and handlers; resources and prompts carry content producers.

package catalog

import "context"

// ToolHandler executes a tool against already-validated arguments.
// Errors returned here are domain failures, not protocol failures.
type ToolHandler func(ctx context.Context, args map[string]any) (any, error)

// Tool describes one invocable capability. The name is the stable
// identifier clients use with tools/call.
type Tool struct {
	Name         string
	Title        string
	Description  string
	InputSchema  *Schema
	OutputSchema *Schema
	Annotations  map[string]any
	Handler      ToolHandler
}

// Resource describes a URI-addressed static document.
type Resource struct {
	URI         string
	Name        string
	Description string
	MimeType    string

	// Content produces the resource body.
	Content func() string
}

// PromptArgument describes one named argument of a prompt template.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// PromptContent is the content part of a rendered prompt message.
type PromptContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// PromptMessage is one role-tagged message produced by rendering a prompt.
type PromptMessage struct {
	Role    string        `json:"role"`
	Content PromptContent `json:"content"`
}

// Prompt describes a named template producing role-tagged messages.
type Prompt struct {
	Name        string
	Description string
	Arguments   []PromptArgument

	// Render interpolates the supplied arguments into the template.
	// Required arguments are checked by the caller before Render runs.
	Render func(args map[string]string) []PromptMessage
}
