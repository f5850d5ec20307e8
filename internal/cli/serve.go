package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/plantops/internal/app"
	"github.com/example/plantops/internal/core/calendar"
	"github.com/example/plantops/internal/ports/primary"
	"github.com/example/plantops/internal/scheduler"
	"github.com/example/plantops/internal/wire"
)

const shutdownTimeout = 15 * time.Second

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the optimizer on a schedule and serve the HTTP API",
		Long: `Serve runs the optimizer on the configured cron schedule and exposes:

  POST /optimizer/run[?date=YYYY-MM-DD]   trigger a run
  GET  /healthz                           liveness
  GET  /metrics                           Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := wire.Config()
			logger := wire.Logger()
			optimizer := wire.OptimizerService()

			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = cfg.Server.Addr
			}
			schedule, _ := cmd.Flags().GetString("schedule")
			if schedule == "" {
				schedule = cfg.Server.Schedule
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sched, err := scheduler.New(schedule, time.Local, func(ctx context.Context) {
				if _, err := optimizer.RunOnce(ctx, time.Time{}); err != nil {
					logger.Error("Scheduled optimizer run failed", slog.String("error", err.Error()))
				}
			}, logger)
			if err != nil {
				return err
			}

			mux := http.NewServeMux()
			mux.Handle("POST /optimizer/run", RunHandler(optimizer, logger))
			mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("ok\n"))
			})
			mux.Handle("GET /metrics", wire.Metrics().Handler())

			srv := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}

			serveErr := make(chan error, 1)
			go func() {
				logger.Info("HTTP server listening", slog.String("addr", addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()
			sched.Start()

			select {
			case <-ctx.Done():
				logger.Info("Shutting down")
			case err := <-serveErr:
				if err != nil {
					_ = sched.Stop(context.Background())
					return fmt.Errorf("http server failed: %w", err)
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("HTTP shutdown incomplete", slog.String("error", err.Error()))
			}
			if err := sched.Stop(shutdownCtx); err != nil {
				logger.Warn("Scheduled run still active at shutdown", slog.String("error", err.Error()))
			}
			wire.Shutdown(cfg.Optimizer.NotifyDrainTimeout)
			return nil
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default from config)")
	cmd.Flags().String("schedule", "", "Cron schedule for the daily run (default from config)")
	return cmd
}

// runResponse is the JSON body returned by the run endpoint.
type runResponse struct {
	Outcome        string              `json:"outcome,omitempty"`
	ReferenceDate  string              `json:"reference_date,omitempty"`
	CandidateTasks int                 `json:"candidate_tasks"`
	Assigned       int                 `json:"assigned"`
	Skipped        map[string]int      `json:"skipped,omitempty"`
	TaskErrors     []primary.TaskError `json:"task_errors,omitempty"`
	Message        string              `json:"message,omitempty"`
	Error          string              `json:"error,omitempty"`
}

// RunHandler triggers an optimizer run. The run is detached from the request
// so a disconnecting client does not abort it.
func RunHandler(optimizer primary.OptimizerService, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ref time.Time
		if q := r.URL.Query().Get("date"); q != "" {
			d, err := calendar.ParseDate(q)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, runResponse{Error: err.Error()})
				return
			}
			ref = d
		}

		summary, err := optimizer.RunOnce(context.WithoutCancel(r.Context()), ref)
		if errors.Is(err, primary.ErrRunInProgress) {
			writeJSON(w, http.StatusConflict, runResponse{Error: err.Error()})
			return
		}

		resp := runResponse{}
		if summary != nil {
			resp = runResponse{
				Outcome:        summary.Outcome,
				ReferenceDate:  summary.ReferenceDate,
				CandidateTasks: summary.CandidateTasks,
				Assigned:       summary.AssignedCount,
				Skipped:        summary.Skipped,
				TaskErrors:     summary.Errors,
				Message:        app.SummaryMessage(summary),
			}
		}

		status := http.StatusOK
		if err != nil {
			logger.Error("Optimizer run failed", slog.String("error", err.Error()))
			resp.Error = err.Error()
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, resp)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
