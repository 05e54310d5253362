// Command apiserver runs the thin HTTP façade in front of the conversation
// workflow: it starts or signals a workflow per chat message and relays its
// query handlers, matching the §6 HTTP surface (provided for reference by
// this spec; the façade itself is a minimal implementation of it).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
	"goa.design/clue/log"

	"github.com/retroryan/durable-ai-agent/internal/config"
	"github.com/retroryan/durable-ai-agent/internal/workflowservice"
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
		log.Fatal(ctx, fmt.Errorf("apiserver: %w", err))
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
		return fmt.Errorf("apiserver: configure tracing interceptor: %w", err)
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

	svc := workflowservice.New(c, cfg.Worker.TaskQueue)
	mux := newMux(svc)

	addr := ":8080"
	log.Printf(ctx, "apiserver listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func newMux(svc *workflowservice.Service) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /chat", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Message    string `json:"message"`
			WorkflowID string `json:"workflow_id"`
			UserName   string `json:"user_name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		state, err := svc.ProcessMessage(r.Context(), req.Message, req.WorkflowID, req.UserName)
		writeJSON(w, state, err)
	})

	mux.HandleFunc("GET /workflow/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		state, err := svc.GetState(r.Context(), r.PathValue("id"))
		writeJSON(w, state, err)
	})

	mux.HandleFunc("GET /workflow/{id}/ai-state", func(w http.ResponseWriter, r *http.Request) {
		details, err := svc.GetWorkflowDetails(r.Context(), r.PathValue("id"))
		writeJSON(w, details, err)
	})

	mux.HandleFunc("GET /workflow/{id}/ai-trajectory", func(w http.ResponseWriter, r *http.Request) {
		trajectories, err := svc.GetTrajectories(r.Context(), r.PathValue("id"))
		writeJSON(w, trajectories, err)
	})

	mux.HandleFunc("GET /workflow/{id}/ai-tools", func(w http.ResponseWriter, r *http.Request) {
		toolNames, err := svc.GetTools(r.Context(), r.PathValue("id"))
		writeJSON(w, toolNames, err)
	})

	mux.HandleFunc("GET /history", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("workflow_id")
		history, err := svc.GetHistory(r.Context(), id)
		writeJSON(w, history, err)
	})

	mux.HandleFunc("POST /workflow/{id}/end", func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.End(r.Context(), r.PathValue("id"))
		writeJSON(w, result, err)
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Healthcheck(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, payload any, err error) {
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
