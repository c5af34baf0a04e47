// ABOUTME: MCP-compatible HTTP server exposing the pet catalog to LLM clients.
// ABOUTME: Implements JSON-RPC 2.0 dispatch with session management over HTTP POST.

package mcp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/2389/pet-gateway/internal/catalog"
)

// protocolVersion is the version advertised in initialize responses.
const protocolVersion = "2025-06-18"

// MaxRequestBodySize is the maximum allowed size for request bodies (1MB).
const MaxRequestBodySize = 1 << 20

// JSON-RPC 2.0 types

// JSONRPCRequest represents a JSON-RPC 2.0 request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC 2.0 response.
type JSONRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// JSONRPCError represents a JSON-RPC 2.0 error object.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Standard JSON-RPC error codes
const (
	JSONRPCParseError     = -32700
	JSONRPCInvalidRequest = -32600
	JSONRPCMethodNotFound = -32601
	JSONRPCInvalidParams  = -32602
	JSONRPCInternalError  = -32603
)

// ContentItem is one entry in a tool or resource result.
type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// CallToolParams are the params for tools/call.
type CallToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// CallToolResult is the result for tools/call. IsError is always
// serialized so clients can branch on it without a presence check.
type CallToolResult struct {
	Content           []ContentItem `json:"content"`
	IsError           bool          `json:"isError"`
	StructuredContent any           `json:"structuredContent,omitempty"`
}

// ReadResourceParams are the params for resources/read.
type ReadResourceParams struct {
	URI string `json:"uri"`
}

// GetPromptParams are the params for prompts/get.
type GetPromptParams struct {
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments,omitempty"`
}

// SetLevelParams are the params for logging/setLevel.
type SetLevelParams struct {
	Level string `json:"level"`
}

// mcpLevels maps the protocol's syslog-style level names onto slog levels.
var mcpLevels = map[string]slog.Level{
	"debug":     slog.LevelDebug,
	"info":      slog.LevelInfo,
	"notice":    slog.LevelInfo,
	"warning":   slog.LevelWarn,
	"error":     slog.LevelError,
	"critical":  slog.LevelError,
	"alert":     slog.LevelError,
	"emergency": slog.LevelError,
}

// mcpSession tracks an active MCP client session.
type mcpSession struct {
	id              string
	protocolVersion string
	clientName      string
	clientVersion   string
	initialized     bool
	createdAt       time.Time
}

// sessionStore manages active MCP sessions (in-memory).
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*mcpSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*mcpSession)}
}

func (s *sessionStore) create(clientName, clientVersion, clientProto string) *mcpSession {
	sess := &mcpSession{
		id:              uuid.New().String(),
		protocolVersion: clientProto,
		clientName:      clientName,
		clientVersion:   clientVersion,
		createdAt:       time.Now(),
	}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	return sess
}

func (s *sessionStore) get(id string) (*mcpSession, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	return sess, ok
}

func (s *sessionStore) markInitialized(id string) {
	s.mu.Lock()
	if sess, ok := s.sessions[id]; ok {
		sess.initialized = true
	}
	s.mu.Unlock()
}

func (s *sessionStore) delete(id string) bool {
	s.mu.Lock()
	_, existed := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	return existed
}

// Config holds configuration for the MCP server.
type Config struct {
	Registry *catalog.Registry
	Logger   *slog.Logger
	LogLevel *slog.LevelVar // adjusted by logging/setLevel; optional
	Version  string         // reported in serverInfo
}

// Server implements the MCP endpoint over HTTP.
type Server struct {
	registry *catalog.Registry
	logger   *slog.Logger
	logLevel *slog.LevelVar
	version  string
	sessions *sessionStore
}

// NewServer creates a new MCP server with the given configuration.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		return nil, errors.New("registry is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	return &Server{
		registry: cfg.Registry,
		logger:   logger,
		logLevel: cfg.LogLevel,
		version:  version,
		sessions: newSessionStore(),
	}, nil
}

// RegisterRoutes registers the MCP endpoint on the given ServeMux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/mcp", s.handleMCP)
}

func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handlePost(w, r)
	case http.MethodDelete:
		s.handleDelete(w, r)
	default:
		w.Header().Set("Allow", "POST, DELETE")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleDelete terminates a session.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get("Mcp-Session-Id")
	if sessionID == "" {
		http.Error(w, "Bad Request: missing Mcp-Session-Id", http.StatusBadRequest)
		return
	}
	if !s.sessions.delete(sessionID) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	s.logger.Info("MCP session terminated", "session_id", sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// handlePost processes JSON-RPC messages sent via HTTP POST.
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize+1))
	if err != nil {
		s.sendError(w, nil, JSONRPCParseError, "failed to read request body", nil)
		return
	}
	if int64(len(body)) > MaxRequestBodySize {
		s.sendError(w, nil, JSONRPCInvalidRequest, "request body too large", nil)
		return
	}

	var req JSONRPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.sendError(w, nil, JSONRPCParseError, "invalid JSON", nil)
		return
	}

	if req.JSONRPC != "2.0" {
		s.sendError(w, req.ID, JSONRPCInvalidRequest, "invalid JSON-RPC version", nil)
		return
	}

	// params, when present, must be an object.
	if len(req.Params) > 0 {
		trimmed := bytes.TrimSpace(req.Params)
		if !bytes.Equal(trimmed, []byte("null")) && (len(trimmed) == 0 || trimmed[0] != '{') {
			s.sendError(w, req.ID, JSONRPCInvalidParams, "params must be an object", nil)
			return
		}
	}

	sessionID := r.Header.Get("Mcp-Session-Id")
	isNotification := len(req.ID) == 0 || string(req.ID) == "null"

	s.logger.Debug("MCP request",
		"method", req.Method,
		"is_notification", isNotification,
		"session_id", sessionID,
	)

	// Methods with session-dependent semantics warn when no valid session
	// exists but still execute.
	switch req.Method {
	case "tools/call", "resources/read", "prompts/get":
		if sess, ok := s.sessions.get(sessionID); !ok || !sess.initialized {
			s.logger.Warn("MCP method called before initialized notification",
				"method", req.Method,
				"session_id", sessionID,
			)
		}
	}

	// Notifications get no JSON-RPC body, just HTTP 202.
	if isNotification {
		if req.Method == "initialized" || req.Method == "notifications/initialized" {
			s.sessions.markInitialized(sessionID)
			s.logger.Debug("MCP session initialized", "session_id", sessionID)
		} else if !strings.HasPrefix(req.Method, "notifications/") {
			s.logger.Warn("received notification for non-notification method", "method", req.Method)
		}
		w.WriteHeader(http.StatusAccepted)
		return
	}

	// Handler panics must not escape to the transport.
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("panic in MCP handler", "method", req.Method, "panic", rec)
			s.sendError(w, req.ID, JSONRPCInternalError, "internal error", nil)
		}
	}()

	switch req.Method {
	case "initialize":
		s.handleInitialize(w, req)
	case "initialized", "notifications/initialized":
		// Sent with an id by nonconforming clients; acknowledge anyway.
		s.sessions.markInitialized(sessionID)
		s.sendResult(w, req.ID, map[string]any{})
	case "tools/list":
		s.handleToolsList(w, req)
	case "tools/call":
		s.handleToolsCall(w, r, req)
	case "resources/list":
		s.handleResourcesList(w, req)
	case "resources/read":
		s.handleResourcesRead(w, req)
	case "prompts/list":
		s.handlePromptsList(w, req)
	case "prompts/get":
		s.handlePromptsGet(w, req)
	case "logging/setLevel":
		s.handleSetLevel(w, req)
	default:
		s.sendError(w, req.ID, JSONRPCMethodNotFound, "method not found", nil)
	}
}

// handleInitialize handles the MCP initialize handshake and creates a session.
// The server always declares its own protocol version rather than negotiating.
func (s *Server) handleInitialize(w http.ResponseWriter, req JSONRPCRequest) {
	var params struct {
		ProtocolVersion string `json:"protocolVersion"`
		ClientInfo      struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"clientInfo"`
	}
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.sendError(w, req.ID, JSONRPCInvalidParams, "invalid params", nil)
			return
		}
	}

	sess := s.sessions.create(params.ClientInfo.Name, params.ClientInfo.Version, params.ProtocolVersion)

	s.logger.Info("MCP session created",
		"session_id", sess.id,
		"client_name", sess.clientName,
		"client_protocol_version", sess.protocolVersion,
	)

	w.Header().Set("Mcp-Session-Id", sess.id)

	s.sendResult(w, req.ID, map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]any{
			"tools":     map[string]any{},
			"resources": map[string]any{},
			"prompts":   map[string]any{},
			"logging":   map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    "pet-gateway",
			"version": s.version,
		},
	})
}

// toolDescriptor is the wire shape of one tools/list entry.
type toolDescriptor struct {
	Name         string          `json:"name"`
	Title        string          `json:"title,omitempty"`
	Description  string          `json:"description"`
	InputSchema  *catalog.Schema `json:"inputSchema"`
	OutputSchema *catalog.Schema `json:"outputSchema,omitempty"`
	Annotations  map[string]any  `json:"annotations,omitempty"`
}

func (s *Server) handleToolsList(w http.ResponseWriter, req JSONRPCRequest) {
	tools := s.registry.Tools()
	descriptors := make([]toolDescriptor, len(tools))
	for i, tool := range tools {
		descriptors[i] = toolDescriptor{
			Name:         tool.Name,
			Title:        tool.Title,
			Description:  tool.Description,
			InputSchema:  tool.InputSchema,
			OutputSchema: tool.OutputSchema,
			Annotations:  tool.Annotations,
		}
	}

	s.logger.Debug("tools/list", "count", len(tools))
	s.sendResult(w, req.ID, map[string]any{"tools": descriptors})
}

// handleToolsCall runs the tool invocation pipeline. Tool-level failures
// (unknown tool, bad arguments, domain errors) are reported inside a
// success envelope with isError set, never as JSON-RPC errors.
func (s *Server) handleToolsCall(w http.ResponseWriter, r *http.Request, req JSONRPCRequest) {
	var params CallToolParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.sendError(w, req.ID, JSONRPCInvalidParams, "invalid params", nil)
			return
		}
	}
	if params.Name == "" {
		s.sendError(w, req.ID, JSONRPCInvalidParams, "tool name is required", nil)
		return
	}
	if params.Arguments == nil {
		params.Arguments = map[string]any{}
	}

	requestID := uuid.New().String()

	tool, ok := s.registry.Tool(params.Name)
	if !ok {
		s.logger.Debug("tools/call unknown tool", "tool_name", params.Name, "request_id", requestID)
		s.sendResult(w, req.ID, errorResult(fmt.Sprintf("Unknown tool: %s", params.Name)))
		return
	}

	if err := tool.InputSchema.Validate(params.Arguments); err != nil {
		s.logger.Debug("tools/call invalid arguments",
			"tool_name", params.Name,
			"request_id", requestID,
			"error", err,
		)
		s.sendResult(w, req.ID, errorResult(err.Error()))
		return
	}

	s.logger.Debug("tools/call", "tool_name", params.Name, "request_id", requestID)

	result, err := s.invoke(r, tool, params.Arguments)
	if err != nil {
		s.logger.Warn("tool execution failed",
			"tool_name", params.Name,
			"request_id", requestID,
			"error", err,
		)
		s.sendResult(w, req.ID, errorResult("Error: "+err.Error()))
		return
	}

	text, err := json.Marshal(result)
	if err != nil {
		s.logger.Error("failed to serialize tool result",
			"tool_name", params.Name,
			"request_id", requestID,
			"error", err,
		)
		s.sendResult(w, req.ID, errorResult("Error: failed to serialize tool result"))
		return
	}

	s.logger.Debug("tools/call complete", "tool_name", params.Name, "request_id", requestID)

	s.sendResult(w, req.ID, CallToolResult{
		Content:           []ContentItem{{Type: "text", Text: string(text)}},
		IsError:           false,
		StructuredContent: result,
	})
}

// invoke runs a tool handler, converting panics into errors so an internal
// fault stays on the isError channel.
func (s *Server) invoke(r *http.Request, tool *catalog.Tool, args map[string]any) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("panic in tool handler", "tool_name", tool.Name, "panic", rec)
			result = nil
			err = fmt.Errorf("internal fault in tool %s", tool.Name)
		}
	}()
	return tool.Handler(r.Context(), args)
}

func errorResult(message string) CallToolResult {
	return CallToolResult{
		Content: []ContentItem{{Type: "text", Text: message}},
		IsError: true,
	}
}

// resourceDescriptor is the wire shape of one resources/list entry.
type resourceDescriptor struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

func (s *Server) handleResourcesList(w http.ResponseWriter, req JSONRPCRequest) {
	resources := s.registry.Resources()
	descriptors := make([]resourceDescriptor, len(resources))
	for i, res := range resources {
		descriptors[i] = resourceDescriptor{
			URI:         res.URI,
			Name:        res.Name,
			Description: res.Description,
			MimeType:    res.MimeType,
		}
	}
	s.sendResult(w, req.ID, map[string]any{"resources": descriptors})
}

// handleResourcesRead reads a static resource. Resources are a closed set,
// so an unknown URI is a protocol error rather than a domain result.
func (s *Server) handleResourcesRead(w http.ResponseWriter, req JSONRPCRequest) {
	var params ReadResourceParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.sendError(w, req.ID, JSONRPCInvalidParams, "invalid params", nil)
			return
		}
	}
	if params.URI == "" {
		s.sendError(w, req.ID, JSONRPCInvalidParams, "resource uri is required", nil)
		return
	}

	res, ok := s.registry.Resource(params.URI)
	if !ok {
		s.sendError(w, req.ID, JSONRPCInvalidParams, fmt.Sprintf("Resource not found: %s", params.URI), nil)
		return
	}

	s.sendResult(w, req.ID, map[string]any{
		"contents": []map[string]any{
			{
				"uri":      res.URI,
				"mimeType": res.MimeType,
				"text":     res.Content(),
			},
		},
	})
}

// promptDescriptor is the wire shape of one prompts/list entry.
type promptDescriptor struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	Arguments   []catalog.PromptArgument `json:"arguments,omitempty"`
}

func (s *Server) handlePromptsList(w http.ResponseWriter, req JSONRPCRequest) {
	prompts := s.registry.Prompts()
	descriptors := make([]promptDescriptor, len(prompts))
	for i, p := range prompts {
		descriptors[i] = promptDescriptor{
			Name:        p.Name,
			Description: p.Description,
			Arguments:   p.Arguments,
		}
	}
	s.sendResult(w, req.ID, map[string]any{"prompts": descriptors})
}

func (s *Server) handlePromptsGet(w http.ResponseWriter, req JSONRPCRequest) {
	var params GetPromptParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.sendError(w, req.ID, JSONRPCInvalidParams, "invalid params", nil)
			return
		}
	}
	if params.Name == "" {
		s.sendError(w, req.ID, JSONRPCInvalidParams, "prompt name is required", nil)
		return
	}

	prompt, ok := s.registry.Prompt(params.Name)
	if !ok {
		s.sendError(w, req.ID, JSONRPCInvalidParams, fmt.Sprintf("Unknown prompt: %s", params.Name), nil)
		return
	}

	for _, arg := range prompt.Arguments {
		if arg.Required {
			if v, ok := params.Arguments[arg.Name]; !ok || v == "" {
				s.sendError(w, req.ID, JSONRPCInvalidParams,
					fmt.Sprintf("missing required argument: %s", arg.Name), nil)
				return
			}
		}
	}

	if params.Arguments == nil {
		params.Arguments = map[string]string{}
	}

	s.sendResult(w, req.ID, map[string]any{
		"description": prompt.Description,
		"messages":    prompt.Render(params.Arguments),
	})
}

func (s *Server) handleSetLevel(w http.ResponseWriter, req JSONRPCRequest) {
	var params SetLevelParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.sendError(w, req.ID, JSONRPCInvalidParams, "invalid params", nil)
			return
		}
	}

	level, ok := mcpLevels[params.Level]
	if !ok {
		s.sendError(w, req.ID, JSONRPCInvalidParams, fmt.Sprintf("invalid logging level: %q", params.Level), nil)
		return
	}

	if s.logLevel != nil {
		s.logLevel.Set(level)
	}
	s.logger.Info("logging level changed", "level", params.Level)
	s.sendResult(w, req.ID, map[string]any{})
}

// sendResult sends a successful JSON-RPC response.
func (s *Server) sendResult(w http.ResponseWriter, id json.RawMessage, result any) {
	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("failed to encode JSON-RPC response", "error", err)
	}
}

// sendError sends a JSON-RPC error response.
func (s *Server) sendError(w http.ResponseWriter, id json.RawMessage, code int, message string, data any) {
	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &JSONRPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("failed to encode JSON-RPC error response", "error", err)
	}
}
