package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/node"
)

// NodeState is one entry of the /nodes response.
type NodeState struct {
	ID     string      `json:"id"`
	Kind   node.Kind   `json:"kind"`
	Title  string      `json:"title,omitempty"`
	Status node.Status `json:"status"`
	Busy   bool        `json:"busy"`
	Error  string      `json:"error,omitempty"`
}

// NodeStates reports the live status of every node, in canvas order.
func (a *App) NodeStates(ctx context.Context) []NodeState {
	nodes := a.live.AllNodes(ctx)
	out := make([]NodeState, 0, len(nodes))
	for _, n := range nodes {
		st := NodeState{
			ID:     n.ID,
			Kind:   n.Kind,
			Title:  n.Title,
			Status: a.live.NodeStatus(ctx, n.ID),
			Busy:   a.live.Busy(ctx, n.ID),
		}
		if err := a.live.NodeError(ctx, n.ID); err != nil {
			st.Error = err.Error()
		}
		out = append(out, st)
	}
	return out
}

// healthHandler creates an http.Handler that logs requests to the provided logger.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(a.ctx)
	logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (a *App) nodesHandler(w http.ResponseWriter, r *http.Request) {
	body, err := sonic.Marshal(a.NodeStates(r.Context()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (a *App) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/nodes", a.nodesHandler)
	return mux
}

// healthCheckServer initializes and runs the health check HTTP server.
func (a *App) healthCheckServer() {
	logger := ctxlog.FromContext(a.ctx)
	logger.Debug("Configuring health check server.")
	if a.config.HealthcheckPort <= 0 {
		logger.Debug("Health check server not started: disabled")
		return
	}

	addr := fmt.Sprintf(":%d", a.config.HealthcheckPort)
	a.httpServer = &http.Server{
		Addr:              addr,
		Handler:           a.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		// ListenAndServe returns ErrServerClosed on graceful shutdown.
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
}

func (a *App) closeHealthCheckServer() error {
	logger := ctxlog.FromContext(a.ctx)
	if a.httpServer == nil {
		logger.Debug("Health check server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()

	logger.Info("🩺 Shutting down health check server...")
	err := a.httpServer.Shutdown(ctx)
	a.httpServer = nil
	if err != nil {
		logger.Error("Health check server shutdown failed", "error", err)
		return err
	}
	logger.Debug("Health check server shut down gracefully.")
	return nil
}
