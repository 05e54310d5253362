package mcpclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type jsonRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type jsonRPCResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Result  any           `json:"result,omitempty"`
	Error   *jsonRPCError `json:"error,omitempty"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// httpRequest sends one JSON-RPC request over HTTP and decodes the response,
// falling back to reading a single event out of an SSE stream when the
// server responds with text/event-stream, per the streamable-http variant of
// the protocol.
func httpRequest(ctx context.Context, server ServerConfig, method string, params any) (*jsonRPCResponse, error) {
	body, err := json.Marshal(jsonRPCRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("mcpclient: marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, server.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("mcpclient: build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	httpClient := &http.Client{}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mcpclient: %s request to %s: %w", method, server.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("mcpclient: %s on %s returned HTTP %d: %s", method, server.Name, resp.StatusCode, string(data))
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "text/event-stream") {
		return readSSEResponse(resp.Body)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("mcpclient: read %s response from %s: %w", method, server.Name, err)
	}
	var rpcResp jsonRPCResponse
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return nil, fmt.Errorf("mcpclient: decode %s response from %s: %w", method, server.Name, err)
	}
	return &rpcResp, nil
}

// readSSEResponse reads the first complete JSON-RPC message out of an
// event-stream body.
func readSSEResponse(body io.Reader) (*jsonRPCResponse, error) {
	reader := bufio.NewReader(body)
	var data strings.Builder
	for {
		line, err := reader.ReadBytes('\n')
		trimmed := strings.TrimSpace(string(line))
		if trimmed == "" && data.Len() > 0 {
			var resp jsonRPCResponse
			if decodeErr := json.Unmarshal([]byte(data.String()), &resp); decodeErr == nil {
				return &resp, nil
			}
			data.Reset()
		} else if strings.HasPrefix(trimmed, "data:") {
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(trimmed, "data:")))
		}
		if err != nil {
			break
		}
	}
	if data.Len() > 0 {
		var resp jsonRPCResponse
		if decodeErr := json.Unmarshal([]byte(data.String()), &resp); decodeErr == nil {
			return &resp, nil
		}
	}
	return nil, fmt.Errorf("mcpclient: sse stream ended without a complete message")
}

func listToolsHTTP(ctx context.Context, server ServerConfig) ([]ToolDescriptor, error) {
	if _, err := httpRequest(ctx, server, "initialize", map[string]any{
		"protocolVersion": "2024-11-05",
		"clientInfo":      map[string]any{"name": "durable-ai-agent", "version": "1.0.0"},
		"capabilities":    map[string]any{},
	}); err != nil {
		return nil, fmt.Errorf("mcpclient: initialize %s: %w", server.Name, err)
	}

	resp, err := httpRequest(ctx, server, "tools/list", nil)
	if err != nil {
		return nil, fmt.Errorf("mcpclient: list tools on %s: %w", server.Name, err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("mcpclient: list tools on %s: %s", server.Name, resp.Error.Message)
	}

	resultMap, ok := resp.Result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("mcpclient: unexpected tools/list result shape from %s", server.Name)
	}
	toolsList, _ := resultMap["tools"].([]any)
	descriptors := make([]ToolDescriptor, 0, len(toolsList))
	for _, raw := range toolsList {
		toolMap, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name, _ := toolMap["name"].(string)
		desc, _ := toolMap["description"].(string)
		schema, _ := toolMap["inputSchema"].(map[string]any)
		descriptors = append(descriptors, ToolDescriptor{Name: name, Description: desc, InputSchema: schema})
	}
	return descriptors, nil
}

func getResourceHTTP(ctx context.Context, server ServerConfig, uri string) (string, error) {
	resp, err := httpRequest(ctx, server, "resources/read", map[string]any{"uri": uri})
	if err != nil {
		return "", fmt.Errorf("mcpclient: read resource %s on %s: %w", uri, server.Name, err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("mcpclient: read resource %s on %s: %s", uri, server.Name, resp.Error.Message)
	}
	resultMap, ok := resp.Result.(map[string]any)
	if !ok {
		return "", fmt.Errorf("mcpclient: unexpected resources/read result shape from %s", server.Name)
	}
	contents, _ := resultMap["contents"].([]any)
	for _, c := range contents {
		if cm, ok := c.(map[string]any); ok {
			if text, ok := cm["text"].(string); ok {
				return text, nil
			}
		}
	}
	return "", fmt.Errorf("mcpclient: resource %s on %s returned no text content", uri, server.Name)
}

func callToolHTTP(ctx context.Context, server ServerConfig, name string, args map[string]any) (string, error) {
	resp, err := httpRequest(ctx, server, "tools/call", map[string]any{"name": name, "arguments": args})
	if err != nil {
		return "", fmt.Errorf("mcpclient: call %s on %s: %w", name, server.Name, err)
	}
	if resp.Error != nil {
		// -32602 is JSON-RPC's invalid-params code; any other error code is
		// treated as a transient failure and retried.
		if resp.Error.Code == -32602 {
			return "", &invalidParamsError{message: resp.Error.Message}
		}
		return "", fmt.Errorf("mcpclient: call %s on %s: JSON-RPC error %d: %s", name, server.Name, resp.Error.Code, resp.Error.Message)
	}

	resultMap, ok := resp.Result.(map[string]any)
	if !ok {
		return fmt.Sprint(resp.Result), nil
	}
	if isError, _ := resultMap["isError"].(bool); isError {
		if content, ok := resultMap["content"].([]any); ok {
			for _, c := range content {
				if cm, ok := c.(map[string]any); ok {
					if text, ok := cm["text"].(string); ok {
						return "", &invalidParamsError{message: text}
					}
				}
			}
		}
		return "", &invalidParamsError{message: "mcp tool call reported an unspecified error"}
	}

	var texts []string
	if content, ok := resultMap["content"].([]any); ok {
		for _, c := range content {
			if cm, ok := c.(map[string]any); ok && cm["type"] == "text" {
				if text, ok := cm["text"].(string); ok {
					texts = append(texts, text)
				}
			}
		}
	}
	if len(texts) == 0 {
		return "", nil
	}
	return texts[0], nil
}
