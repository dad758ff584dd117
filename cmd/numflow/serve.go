package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/ahrav/go-numflow/internal/domain"
	"github.com/ahrav/go-numflow/internal/metrics"
	"github.com/ahrav/go-numflow/internal/telemetry"
	"github.com/ahrav/go-numflow/internal/trigger"
	"github.com/ahrav/go-numflow/internal/worker"
	"github.com/ahrav/go-numflow/internal/workflow"
)

func newServeCmd(a *app) *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP trigger",
		Long: `Serves GET / which starts one execution per request and answers {"done": true}.
With --local, executions run in-process instead of on Temporal.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			tp, shutdownTracing, err := telemetry.Setup(ctx, a.telemetryConfig())
			if err != nil {
				return err
			}
			defer func() { _ = shutdownTracing(context.Background()) }()

			m := metrics.New()

			defaults := domain.ExecutionInput{
				MaxNumber:     a.cfg.Trigger.MaxNumber,
				NumberToCheck: a.cfg.Trigger.NumberToCheck,
			}
			if err := defaults.Validate(); err != nil {
				return fmt.Errorf("trigger defaults: %w", err)
			}

			var starter trigger.Starter
			if local {
				sink, closeSink, err := worker.InitializeEventSink(ctx, a.cfg.Events)
				if err != nil {
					return err
				}
				defer func() { _ = closeSink() }()

				runCtx, cancelRuns := context.WithCancel(context.Background())
				ls := trigger.NewLocalStarter(runCtx, workflow.Definition(),
					worker.Tasks(worker.Deps{EventSink: sink, Recorder: m}),
					a.logger, nil)
				defer func() {
					cancelRuns()
					ls.Wait()
				}()
				starter = ls
			} else {
				c, err := worker.NewClient(a.cfg.Temporal, a.logger)
				if err != nil {
					return err
				}
				defer c.Close()
				starter = trigger.NewTemporalStarter(c, trigger.TemporalOptions{
					TaskQueue:        a.cfg.Temporal.TaskQueue,
					IDPrefix:         a.cfg.Workflow.IDPrefix,
					ExecutionTimeout: a.cfg.Workflow.ExecutionTimeout,
				})
			}

			opts := []trigger.Option{
				trigger.WithLogger(a.logger),
				trigger.WithMetrics(m),
				trigger.WithDefaultInput(defaults),
				trigger.WithTracer(telemetry.Tracer(tp)),
			}
			if a.cfg.Trigger.RateLimit > 0 {
				opts = append(opts, trigger.WithRateLimiter(
					rate.NewLimiter(rate.Limit(a.cfg.Trigger.RateLimit), max(a.cfg.Trigger.Burst, 1))))
			}

			srv := &http.Server{
				Addr:              a.cfg.Trigger.Addr,
				Handler:           trigger.NewRouter(starter, opts...),
				ReadHeaderTimeout: 5 * time.Second,
			}

			serverErrors := make(chan error, 1)
			go func() {
				a.logger.Info("trigger listening", "addr", srv.Addr, "local", local)
				serverErrors <- srv.ListenAndServe()
			}()

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("trigger server: %w", err)
			case <-ctx.Done():
				a.logger.Info("shutting down trigger")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Trigger.ShutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					_ = srv.Close()
					return fmt.Errorf("graceful shutdown did not complete in %v: %w", a.cfg.Trigger.ShutdownTimeout, err)
				}
				return nil
			}
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "Run executions in-process instead of on Temporal")
	return cmd
}
