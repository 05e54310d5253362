// Command worker runs the Temporal worker that hosts the conversation
// workflow, the agentic sub-workflow, and their backing activities.
//
// # Configuration
//
// Environment variables (see internal/config for the full table):
//
//	TEMPORAL_HOST      - Temporal frontend address (default: "localhost:7233")
//	TEMPORAL_NAMESPACE - Temporal namespace (default: "default")
//	WORKER_TASK_QUEUE  - task queue name (default: "durable-ai-agent-tasks")
//	ANTHROPIC_API_KEY  - LLM provider key, required unless TOOLS_MOCK=true
//	TOOLS_MOCK         - use the mock LLM client and build the tool set with
//	                     mock executors; MCP tools are still dispatched
//	                     through the MCP client
//	TOOL_SET           - named tool set to build from the registry
package main

import (
	"context"
	"fmt"
	"os"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
	"goa.design/clue/log"

	"github.com/retroryan/durable-ai-agent/internal/activities"
	"github.com/retroryan/durable-ai-agent/internal/config"
	"github.com/retroryan/durable-ai-agent/internal/conversation"
	"github.com/retroryan/durable-ai-agent/internal/llm"
	"github.com/retroryan/durable-ai-agent/internal/mcpclient"
	"github.com/retroryan/durable-ai-agent/internal/reactagent"
	"github.com/retroryan/durable-ai-agent/internal/telemetry"
	"github.com/retroryan/durable-ai-agent/internal/tools"
)

func main() {
	format := log.FormatJSON
	if log.IsTerminal() {
		format = log.FormatTerminal
	}
	ctx := log.Context(context.Background(), log.WithFormat(format))
	if os.Getenv("LOG_DEBUG") != "" {
		ctx = log.Context(ctx, log.WithDebug())
	}
	if err := run(ctx); err != nil {
		log.Fatal(ctx, fmt.Errorf("worker: %w", err))
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var tracer interceptor.Interceptor
	tracer, err = temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{})
	if err != nil {
		return fmt.Errorf("worker: configure tracing interceptor: %w", err)
	}

	clientOpts := client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	}
	clientOpts.Interceptors = append(clientOpts.Interceptors, tracer)

	c, err := client.Dial(clientOpts)
	if err != nil {
		return err
	}
	defer c.Close()

	registry, err := tools.NewRegistryForToolSetOrManifest(cfg.Tools.Set, cfg.Tools.Mock)
	if err != nil {
		return err
	}

	llmClient, err := newLLMClient(cfg)
	if err != nil {
		return err
	}

	mcpServers := mcpclient.NewServerRegistry(cfg.MCP.UseProxy)
	for name := range cfg.MCP.Servers {
		svc := cfg.MCP.Servers[name]
		var hosted []string
		for _, def := range registry.Definitions() {
			if def.IsMCP && def.MCPServer == name {
				hosted = append(hosted, def.Name)
			}
		}
		mcpServers.AddServer(mcpclient.ServerConfig{
			Name:      name,
			Transport: mcpclient.TransportHTTP,
			URL:       svc.URL,
		}, hosted...)
	}

	reactActivities := &activities.ReactActivities{Registry: registry, LLM: llmClient}
	toolActivities := &activities.ToolActivities{
		Registry: registry,
		MCP:      mcpclient.New(),
		Servers:  mcpServers,
		Metrics:  telemetry.NewClueMetrics(),
		Tracer:   telemetry.NewClueTracer(),
	}

	workerOpts := worker.Options{}
	workerOpts.Interceptors = append(workerOpts.Interceptors, tracer)
	w := worker.New(c, cfg.Worker.TaskQueue, workerOpts)

	w.RegisterWorkflowWithOptions(conversation.ConversationWorkflow, workflow.RegisterOptions{Name: "ConversationWorkflow"})
	w.RegisterWorkflowWithOptions(reactagent.AgenticSubWorkflow, workflow.RegisterOptions{Name: "AgenticSubWorkflow"})

	w.RegisterActivityWithOptions(reactActivities.ReactStep, activity.RegisterOptions{Name: reactagent.ActivityReactStep})
	w.RegisterActivityWithOptions(toolActivities.ToolExecute, activity.RegisterOptions{Name: reactagent.ActivityToolExecute})
	w.RegisterActivityWithOptions(reactActivities.ExtractFinal, activity.RegisterOptions{Name: reactagent.ActivityExtractFinal})

	log.Printf(ctx, "worker starting: task_queue=%s", cfg.Worker.TaskQueue)
	return w.Run(worker.InterruptCh())
}

func newLLMClient(cfg *config.Config) (llm.Client, error) {
	if cfg.Tools.Mock {
		return &llm.MockClient{}, nil
	}
	return llm.NewAnthropicClient(cfg.LLM.APIKey, llm.AnthropicOptions{
		DefaultModel: cfg.LLM.Model,
		MaxTokens:    cfg.LLM.MaxTokens,
		Temperature:  cfg.LLM.Temperature,
	})
}
