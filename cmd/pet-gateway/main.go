// ABOUTME: Entry point for the pet-gateway adoption server
// ABOUTME: Serves the REST API and MCP endpoint over a shared SQLite store

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/2389/pet-gateway/internal/api"
	"github.com/2389/pet-gateway/internal/config"
	"github.com/2389/pet-gateway/internal/mcp"
	"github.com/2389/pet-gateway/internal/store"
	"github.com/2389/pet-gateway/internal/tools"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
             _                     _
 _ __   ___| |_       __ _  __ _| |_ _____      ____ _ _   _
| '_ \ / _ \ __|____ / _' |/ _' | __/ _ \ \ /\ / / _' | | | |
| |_) |  __/ ||_____| (_| | (_| | ||  __/\ V  V / (_| | |_| |
| .__/ \___|\__|     \__, |\__,_|\__\___| \_/\_/ \__,_|\__, |
|_|                  |___/                             |___/
`

// getConfigPath returns the path to the gateway config file.
// Priority: PET_GATEWAY_CONFIG env var > XDG_CONFIG_HOME/pet-gateway/config.yaml > ~/.config/pet-gateway/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("PET_GATEWAY_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "pet-gateway", "config.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: pet-gateway <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve    Start the adoption server")
		fmt.Println("  init     Create a config file with defaults")
		fmt.Println("  seed     Insert the sample pets into the database")
		fmt.Println("  health   Check server health")
		fmt.Println("  tools    List the MCP tool catalog of a running server")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "seed":
		err = runSeed(ctx)
	case "health":
		err = runHealth(ctx)
	case "tools":
		err = runTools(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := new(slog.LevelVar)
	logger := setupLogger(cfg.Logging, level)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Database:  %s\n", cfg.Database.Path)
	fmt.Println()

	logger.Info("starting pet-gateway",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"database", cfg.Database.Path,
	)

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	if cfg.Seed.Enabled {
		added, err := store.Seed(ctx, s)
		if err != nil {
			return fmt.Errorf("seeding store: %w", err)
		}
		if added > 0 {
			logger.Info("seeded sample pets", "count", added)
		}
	}

	mux, err := buildMux(s, logger, level)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	// The original context is already canceled; use a fresh one for shutdown.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildMux assembles the REST and MCP surfaces onto one ServeMux.
func buildMux(s store.Store, logger *slog.Logger, level *slog.LevelVar) (*http.ServeMux, error) {
	registry, err := tools.NewRegistry(s, logger)
	if err != nil {
		return nil, fmt.Errorf("building tool registry: %w", err)
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		Registry: registry,
		Logger:   logger,
		LogLevel: level,
		Version:  version,
	})
	if err != nil {
		return nil, fmt.Errorf("creating MCP server: %w", err)
	}

	docs := map[string]string{}
	for _, res := range registry.Resources() {
		if res.MimeType == "text/markdown" {
			name := strings.TrimSuffix(strings.TrimPrefix(res.URI, "file://"), ".md")
			docs[name] = res.Content()
		}
	}

	mux := http.NewServeMux()
	mcpServer.RegisterRoutes(mux)
	api.NewServer(s, logger, docs).RegisterRoutes(mux)
	return mux, nil
}

func setupLogger(cfg config.LoggingConfig, level *slog.LevelVar) *slog.Logger {
	switch cfg.Level {
	case "debug":
		level.Set(slog.LevelDebug)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = &colorHandler{level: level}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
// The level is shared with the MCP logging/setLevel handler, so changes
// made by clients take effect immediately.
type colorHandler struct {
	mu    sync.Mutex
	level *slog.LevelVar
	attrs []slog.Attr
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Print(buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{level: h.level, attrs: newAttrs}
}

func (h *colorHandler) WithGroup(_ string) slog.Handler {
	return h
}

// runInit writes a default config file if one does not already exist.
func runInit() error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config already exists: %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	dbPath := filepath.Join(filepath.Dir(configPath), "pets.db")
	configContent := fmt.Sprintf(`# pet-gateway configuration
# Generated by pet-gateway init

server:
  http_addr: ":8080"
  shutdown_timeout: "10s"

database:
  path: "%s"

logging:
  level: "info"
  format: "text"

seed:
  enabled: true
`, dbPath)

	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("  ✓ Created config: %s\n", configPath)
	return nil
}

// runSeed inserts the sample pets into the configured database.
func runSeed(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	added, err := store.Seed(ctx, s)
	if err != nil {
		return fmt.Errorf("seeding store: %w", err)
	}

	fmt.Printf("seeded %d pets\n", added)
	return nil
}

func runHealth(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	base := cfg.Server.HTTPAddr
	if strings.HasPrefix(base, ":") {
		base = "localhost" + base
	}
	url := fmt.Sprintf("http://%s/healthz", base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}

// runTools performs an MCP handshake against a running server and prints
// the tool catalog.
func runTools(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	base := cfg.Server.HTTPAddr
	if strings.HasPrefix(base, ":") {
		base = "localhost" + base
	}
	endpoint := fmt.Sprintf("http://%s/mcp", base)

	sessionID, err := mcpInitialize(ctx, endpoint)
	if err != nil {
		return err
	}

	body, err := mcpPost(ctx, endpoint, sessionID,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	if err != nil {
		return err
	}

	var resp struct {
		Result struct {
			Tools []struct {
				Name        string `json:"name"`
				Description string `json:"description"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decoding tools/list response: %w", err)
	}

	cyan := color.New(color.FgCyan)
	for _, tool := range resp.Result.Tools {
		cyan.Printf("%-22s", tool.Name)
		fmt.Printf("  %s\n", tool.Description)
	}
	fmt.Printf("\n%d tools\n", len(resp.Result.Tools))
	return nil
}

func mcpInitialize(ctx context.Context, endpoint string) (string, error) {
	body := fmt.Sprintf(
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-06-18","clientInfo":{"name":"pet-gateway-cli","version":%q}}}`,
		version)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("initialize failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	sessionID := resp.Header.Get("Mcp-Session-Id")
	if sessionID == "" {
		return "", fmt.Errorf("server did not return a session id")
	}
	return sessionID, nil
}

func mcpPost(ctx context.Context, endpoint, sessionID, body string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Mcp-Session-Id", sessionID)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}
