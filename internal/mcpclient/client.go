// Package mcpclient implements the Model Context Protocol client used by the
// tool-execution activity to reach external MCP servers. It follows the
// protocol's context-manager discipline described for the tool layer:
// connections are not pooled across calls, each operation opens, uses, and
// closes its own client.
package mcpclient

import (
	"context"
	"fmt"
	"time"

	"github.com/retroryan/durable-ai-agent/internal/telemetry"
)

// Transport names a supported MCP wire transport.
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportHTTP  Transport = "http"
)

// ServerConfig describes one MCP server this process can talk to. Multiple
// tool sets may reference the same server by Name.
type ServerConfig struct {
	Name      string
	Transport Transport

	// Stdio fields.
	Command string
	Args    []string
	Env     map[string]string

	// HTTP fields.
	URL string
}

// ToolDescriptor is the wire shape of one tool advertised by an MCP server's
// tools/list response.
type ToolDescriptor struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// DefaultTimeout and DefaultMaxRetries match the tool-execution activity's
// documented execute_tool defaults.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
)

// Client is the operation surface the tool-execution activity uses to reach
// MCP servers. Every method opens a fresh connection, performs one
// request/response cycle, and tears the connection down -- no client-side
// pooling.
type Client interface {
	// ListTools enumerates the tools a server advertises.
	ListTools(ctx context.Context, server ServerConfig) ([]ToolDescriptor, error)
	// GetResource fetches a server-hosted resource by URI.
	GetResource(ctx context.Context, server ServerConfig, uri string) (string, error)
	// ExecuteTool invokes name on server with args, retrying transient
	// failures up to maxRetries times with exponential backoff. A timeout of
	// zero uses DefaultTimeout; maxRetries of zero uses DefaultMaxRetries. A
	// non-nil onProgress is called with a human-readable status message
	// before each attempt and before each retry backoff, matching the
	// original's progress-handler callback; a nil onProgress does not mean
	// progress goes unreported, ExecuteTool falls back to logging it via
	// telemetry.
	ExecuteTool(ctx context.Context, server ServerConfig, name string, args map[string]any, timeout time.Duration, maxRetries int, onProgress func(message string)) (string, error)
}

// client dispatches to the stdio or HTTP transport per call based on
// server.Transport.
type client struct{}

// New returns a Client that dials stdio or HTTP MCP servers per call.
func New() Client {
	return client{}
}

func (client) ListTools(ctx context.Context, server ServerConfig) ([]ToolDescriptor, error) {
	switch server.Transport {
	case TransportStdio:
		return listToolsStdio(ctx, server)
	case TransportHTTP, "":
		return listToolsHTTP(ctx, server)
	default:
		return nil, fmt.Errorf("mcpclient: unsupported transport %q", server.Transport)
	}
}

func (client) GetResource(ctx context.Context, server ServerConfig, uri string) (string, error) {
	switch server.Transport {
	case TransportStdio:
		return getResourceStdio(ctx, server, uri)
	case TransportHTTP, "":
		return getResourceHTTP(ctx, server, uri)
	default:
		return "", fmt.Errorf("mcpclient: unsupported transport %q", server.Transport)
	}
}

func (c client) ExecuteTool(ctx context.Context, server ServerConfig, name string, args map[string]any, timeout time.Duration, maxRetries int, onProgress func(message string)) (string, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	if onProgress == nil {
		onProgress = func(message string) {
			telemetry.NewClueLogger().Info(ctx, message)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := backoffFor(attempt)
			onProgress(fmt.Sprintf("retrying %s on %s (attempt %d/%d) after: %v", name, server.Name, attempt, maxRetries, lastErr))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		} else {
			onProgress(fmt.Sprintf("calling %s on %s", name, server.Name))
		}

		callCtx, cancel := context.WithTimeout(ctx, timeout)
		var result string
		var err error
		switch server.Transport {
		case TransportStdio:
			result, err = callToolStdio(callCtx, server, name, args)
		case TransportHTTP, "":
			result, err = callToolHTTP(callCtx, server, name, args)
		default:
			err = fmt.Errorf("mcpclient: unsupported transport %q", server.Transport)
		}
		cancel()

		if err == nil {
			return result, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return "", &RetryableError{Prompt: BuildRepairPrompt(name, err.Error(), "", ""), Cause: err}
		}
	}
	return "", fmt.Errorf("mcpclient: %s on %s exhausted %d retries: %w", name, server.Name, maxRetries, lastErr)
}

// backoffFor returns 1s, 2s, 4s, ... capped at 10s, matching the 1->10s
// backoff window documented for retryable reasoning calls and reused here
// for tool execution retries.
func backoffFor(attempt int) time.Duration {
	d := time.Duration(1<<uint(attempt-1)) * time.Second
	if d > 10*time.Second {
		d = 10 * time.Second
	}
	return d
}
