package main

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ahrav/go-numflow/internal/domain"
	"github.com/ahrav/go-numflow/internal/generation"
	"github.com/ahrav/go-numflow/internal/statemachine"
	"github.com/ahrav/go-numflow/internal/worker"
	"github.com/ahrav/go-numflow/internal/workflow"
	"github.com/ahrav/go-numflow/pkg/activity"
	"github.com/ahrav/go-numflow/pkg/events"
)

type simulation struct {
	Run    int                  `json:"run"`
	Path   []string             `json:"path"`
	Result *domain.BranchResult `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
	Events int                  `json:"events"`
}

func newSimulateCmd(a *app) *cobra.Command {
	var (
		in    = domain.ExecutionInput{}
		draw  int
		count int
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run executions in-process without Temporal",
		Long: `Runs the workflow definition locally, including the one second wait, and
prints one JSON line per execution.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("max-number") {
				in.MaxNumber = a.cfg.Trigger.MaxNumber
			}
			if !cmd.Flags().Changed("number-to-check") {
				in.NumberToCheck = a.cfg.Trigger.NumberToCheck
			}
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			if draw != 0 && (draw < 1 || draw > in.MaxNumber) {
				return fmt.Errorf("--draw must be within [1, %d]", in.MaxNumber)
			}

			configured, closeSink, err := worker.InitializeEventSink(cmd.Context(), a.cfg.Events)
			if err != nil {
				return err
			}
			defer func() { _ = closeSink() }()

			sink := events.NewMemorySink()
			deps := worker.Deps{EventSink: events.NewFanOutSink(sink, configured)}
			if draw != 0 {
				deps.Source = func() (generation.Source, error) { return generation.FixedSource(draw - 1), nil }
			}
			tasks := worker.Tasks(deps)

			input, err := statemachine.DataFrom(in)
			if err != nil {
				return err
			}

			results := make([]simulation, count)
			var wg sync.WaitGroup
			for i := range count {
				wg.Go(func() {
					runID := uuid.NewString()
					ctx := activity.WithLocalRun(cmd.Context(), runID)
					exec, err := workflow.Definition().RunLocal(ctx, tasks, input)

					sim := simulation{Run: i + 1}
					if exec != nil {
						sim.Path = exec.Path
					}
					if err != nil {
						sim.Error = err.Error()
					} else {
						var out domain.BranchResult
						if err := exec.Output.Decode(&out); err != nil {
							sim.Error = err.Error()
						} else {
							sim.Result = &out
						}
					}
					for _, e := range sink.Events() {
						if e.RunID == runID {
							sim.Events++
						}
					}
					results[i] = sim
				})
			}
			wg.Wait()

			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, r := range results {
				if err := enc.Encode(r); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&in.MaxNumber, "max-number", domain.DefaultMaxNumber, "Inclusive upper bound of the generated number")
	cmd.Flags().StringVar(&in.NumberToCheck, "number-to-check", domain.DefaultNumberToCheck, "Comparison target")
	cmd.Flags().IntVar(&draw, "draw", 0, "Force the generated number (0 draws randomly)")
	cmd.Flags().IntVar(&count, "count", 1, "Number of concurrent executions")
	return cmd
}
