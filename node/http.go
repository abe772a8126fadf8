package node

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

	"github.com/caldera-labs/agentgraph/types"
)

// HTTPRequestNode performs one blocking HTTP call. URL and body support
// {{key}} placeholder substitution against the current state. A non-2xx/3xx
// response is still a successful outcome; only transport and protocol
// failures (timeout, DNS, connection refusal) produce success=false.
type HTTPRequestNode struct {
	id     string
	config map[string]any
	client *http.Client
	logger *zap.Logger
}

// NewHTTPRequestNode creates an HTTP request node from its definition.
func NewHTTPRequestNode(def types.NodeDefinition, logger *zap.Logger) *HTTPRequestNode {
	timeout := time.Duration(configFloat(def.Config, "timeout", 30) * float64(time.Second))

	return &HTTPRequestNode{
		id:     def.ID,
		config: def.Config,
		client: &http.Client{Timeout: timeout},
		logger: logger.With(zap.String("component", "http_node"), zap.String("node_id", def.ID)),
	}
}

func (n *HTTPRequestNode) ID() string           { return n.id }
func (n *HTTPRequestNode) Kind() types.NodeKind { return types.NodeKindHTTPRequest }

func (n *HTTPRequestNode) Execute(ctx context.Context, state map[string]any) types.Outcome {
	method := strings.ToUpper(configString(n.config, "method", http.MethodGet))
	url := replaceVariables(configString(n.config, "url", ""), state)
	headers := configMap(n.config, "headers")
	rawBody := configMap(n.config, "body")
	if rawBody == nil {
		rawBody = map[string]any{}
	}
	body := replaceVariablesDeep(rawBody, state)

	var reqBody io.Reader
	switch method {
	case http.MethodGet, http.MethodDelete:
		// No request body.
	case http.MethodPost, http.MethodPut:
		payload, err := json.Marshal(body)
		if err != nil {
			return types.FailureOutcome(fmt.Sprintf("marshal request body: %v", err))
		}
		reqBody = bytes.NewReader(payload)
	default:
		return types.FailureOutcome(fmt.Sprintf("Unsupported HTTP method: %s", method))
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return types.FailureOutcome(err.Error())
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, fmt.Sprintf("%v", v))
	}

	start := time.Now()
	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("url", url),
			zap.Error(err),
		)
		return types.FailureOutcome(err.Error())
	}
	defer resp.Body.Close()

	respHeaders := make(map[string]any, len(resp.Header))
	for k := range resp.Header {
		respHeaders[k] = resp.Header.Get(k)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.FailureOutcome(err.Error())
	}

	var respBody any = string(raw)
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		var parsed any
		if err := json.Unmarshal(raw, &parsed); err == nil {
			respBody = parsed
		}
	}

	n.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	return types.Outcome{
		Success: resp.StatusCode < 400,
		Result: map[string]any{
			"status_code": resp.StatusCode,
			"headers":     respHeaders,
			"body":        respBody,
		},
	}
}

// replaceVariables substitutes {{key}} placeholders in text with the
// stringified state values.
func replaceVariables(text string, state map[string]any) string {
	for k, v := range state {
		text = strings.ReplaceAll(text, "{{"+k+"}}", fmt.Sprintf("%v", v))
	}
	return text
}

// replaceVariablesDeep applies placeholder substitution recursively
// through maps, slices, and strings.
func replaceVariablesDeep(obj any, state map[string]any) any {
	switch v := obj.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = replaceVariablesDeep(item, state)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = replaceVariablesDeep(item, state)
		}
		return out
	case string:
		return replaceVariables(v, state)
	default:
		return obj
	}
}
