package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/caldera-labs/agentgraph/internal/metrics"
)

// Backend is the one-shot text-completion contract consumed by agent
// nodes. Implementations must be safe for concurrent use.
type Backend interface {
	// Generate performs a single blocking completion request.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
	// ListModels returns the models the backend currently serves.
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// GenerateRequest is a one-shot completion request.
type GenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// GenerateResponse carries the raw completion text.
type GenerateResponse struct {
	Response string `json:"response"`
}

// ModelInfo describes one model served by the backend.
type ModelInfo struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// Config configures the HTTP backend client.
type Config struct {
	// Host is the backend base URL, e.g. http://localhost:11434.
	Host string `yaml:"host" json:"host"`
	// Timeout bounds a single completion request.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// DefaultConfig returns the default backend client configuration.
func DefaultConfig() Config {
	return Config{
		Host:    "http://localhost:11434",
		Timeout: 60 * time.Second,
	}
}

// Client is the HTTP implementation of Backend against an Ollama-style
// completion service.
type Client struct {
	cfg     Config
	client  *http.Client
	metrics *metrics.Collector
	logger  *zap.Logger
}

// NewClient creates a backend client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Host == "" {
		cfg.Host = DefaultConfig().Host
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With(zap.String("component", "llm_client")),
	}
}

// WithMetrics attaches a collector that receives per-request latency and
// status. A nil collector leaves recording disabled.
func (c *Client) WithMetrics(m *metrics.Collector) *Client {
	c.metrics = m
	return c
}

func (c *Client) recordRequest(model, status string, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordLLMRequest(model, status, elapsed)
}

// Generate performs one non-streaming completion call.
func (c *Client) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	body := GenerateRequest{
		Model:  req.Model,
		Prompt: req.Prompt,
		Stream: false,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/generate", strings.TrimRight(c.cfg.Host, "/"))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.recordRequest(req.Model, "error", time.Since(start))
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.recordRequest(req.Model, "error", time.Since(start))
		return nil, fmt.Errorf("backend returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.recordRequest(req.Model, "error", time.Since(start))
		return nil, fmt.Errorf("decode generate response: %w", err)
	}
	c.recordRequest(req.Model, "success", time.Since(start))

	c.logger.Debug("completion finished",
		zap.String("model", req.Model),
		zap.Duration("latency", time.Since(start)),
		zap.Int("response_len", len(out.Response)),
	)

	return &out, nil
}

// tagsResponse mirrors the backend's model-tag listing payload.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ListModels queries the backend for its model roster.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	endpoint := fmt.Sprintf("%s/api/tags", strings.TrimRight(c.cfg.Host, "/"))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build tags request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decode tags response: %w", err)
	}

	models := make([]ModelInfo, 0, len(tags.Models))
	for _, m := range tags.Models {
		models = append(models, ModelInfo{Name: m.Name, Available: true})
	}
	return models, nil
}
