package mcpclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// dialStdio starts a fresh subprocess MCP client, completes the
// initialize handshake, and returns it ready for one request. The caller is
// responsible for closing it -- there is no shared, long-lived subprocess.
func dialStdio(ctx context.Context, server ServerConfig) (*client.Client, error) {
	mcpClient, err := client.NewStdioMCPClient(server.Command, envSlice(server.Env), server.Args...)
	if err != nil {
		return nil, fmt.Errorf("mcpclient: start stdio server %s: %w", server.Name, err)
	}

	if err := mcpClient.Start(ctx); err != nil {
		mcpClient.Close()
		return nil, fmt.Errorf("mcpclient: start stdio client %s: %w", server.Name, err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "durable-ai-agent",
		Version: "1.0.0",
	}
	initReq.Params.ProtocolVersion = "2024-11-05"

	if _, err := mcpClient.Initialize(ctx, initReq); err != nil {
		mcpClient.Close()
		return nil, fmt.Errorf("mcpclient: initialize stdio server %s: %w", server.Name, err)
	}
	return mcpClient, nil
}

func listToolsStdio(ctx context.Context, server ServerConfig) ([]ToolDescriptor, error) {
	mcpClient, err := dialStdio(ctx, server)
	if err != nil {
		return nil, err
	}
	defer mcpClient.Close()

	resp, err := mcpClient.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("mcpclient: list tools on %s: %w", server.Name, err)
	}

	descriptors := make([]ToolDescriptor, 0, len(resp.Tools))
	for _, t := range resp.Tools {
		descriptors = append(descriptors, ToolDescriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: convertSchema(t.InputSchema),
		})
	}
	return descriptors, nil
}

func getResourceStdio(ctx context.Context, server ServerConfig, uri string) (string, error) {
	mcpClient, err := dialStdio(ctx, server)
	if err != nil {
		return "", err
	}
	defer mcpClient.Close()

	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	resp, err := mcpClient.ReadResource(ctx, req)
	if err != nil {
		return "", fmt.Errorf("mcpclient: read resource %s on %s: %w", uri, server.Name, err)
	}
	for _, content := range resp.Contents {
		if text, ok := content.(mcp.TextResourceContents); ok {
			return text.Text, nil
		}
	}
	return "", fmt.Errorf("mcpclient: resource %s on %s returned no text content", uri, server.Name)
}

func callToolStdio(ctx context.Context, server ServerConfig, name string, args map[string]any) (string, error) {
	mcpClient, err := dialStdio(ctx, server)
	if err != nil {
		return "", err
	}
	defer mcpClient.Close()

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	resp, err := mcpClient.CallTool(ctx, req)
	if err != nil {
		return "", fmt.Errorf("mcpclient: call %s on %s: %w", name, server.Name, err)
	}
	return parseToolResult(resp)
}

func parseToolResult(resp *mcp.CallToolResult) (string, error) {
	if resp.IsError {
		for _, content := range resp.Content {
			if text, ok := content.(mcp.TextContent); ok {
				return "", &invalidParamsError{message: text.Text}
			}
		}
		return "", &invalidParamsError{message: "mcp tool call reported an unspecified error"}
	}
	var texts []string
	for _, content := range resp.Content {
		if text, ok := content.(mcp.TextContent); ok {
			texts = append(texts, text.Text)
		}
	}
	if len(texts) == 0 {
		return "", nil
	}
	return texts[0], nil
}

func convertSchema(schema mcp.ToolInputSchema) map[string]any {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil
	}
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return result
}

func envSlice(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out
}
