package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/ahrav/go-numflow/internal/metrics"
	"github.com/ahrav/go-numflow/internal/telemetry"
	"github.com/ahrav/go-numflow/internal/worker"
)

func newWorkerCmd(a *app) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run a Temporal worker for the random-number workflow",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			_, shutdownTracing, err := telemetry.Setup(ctx, a.telemetryConfig())
			if err != nil {
				return err
			}
			defer func() { _ = shutdownTracing(context.Background()) }()

			sink, closeSink, err := worker.InitializeEventSink(ctx, a.cfg.Events)
			if err != nil {
				return err
			}
			defer func() { _ = closeSink() }()

			c, err := worker.NewClient(a.cfg.Temporal, a.logger)
			if err != nil {
				return err
			}
			defer c.Close()

			m := metrics.New()
			if metricsAddr != "" {
				srv := &http.Server{Addr: metricsAddr, Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						a.logger.Error("metrics server failed", "error", err)
					}
				}()
				defer func() { _ = srv.Close() }()
			}

			w := worker.New(c, a.cfg.Temporal, worker.Deps{
				EventSink: sink,
				Recorder:  m,
				Workflow:  a.workflowOptions(),
			})

			a.logger.Info("worker starting",
				"host_port", a.cfg.Temporal.HostPort,
				"namespace", a.cfg.Temporal.Namespace,
				"task_queue", a.cfg.Temporal.TaskQueue,
				"event_sink", a.cfg.Events.Sink)
			return w.Run(sdkworker.InterruptCh())
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	return cmd
}

func (a *app) telemetryConfig() telemetry.Config {
	return telemetry.Config{
		Endpoint:    a.cfg.Telemetry.Endpoint,
		Insecure:    a.cfg.Telemetry.Insecure,
		ServiceName: a.cfg.Telemetry.ServiceName,
		SampleRatio: a.cfg.Telemetry.SampleRatio,
	}
}
