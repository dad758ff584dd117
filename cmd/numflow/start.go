package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-numflow/internal/domain"
	"github.com/ahrav/go-numflow/internal/trigger"
	"github.com/ahrav/go-numflow/internal/worker"
)

func newStartCmd(a *app) *cobra.Command {
	var (
		wait bool
		in   = domain.ExecutionInput{}
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start one execution on Temporal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("max-number") {
				in.MaxNumber = a.cfg.Trigger.MaxNumber
			}
			if !cmd.Flags().Changed("number-to-check") {
				in.NumberToCheck = a.cfg.Trigger.NumberToCheck
			}
			if err := in.Validate(); err != nil {
				return err
			}

			c, err := worker.NewClient(a.cfg.Temporal, a.logger)
			if err != nil {
				return err
			}
			defer c.Close()

			starter := trigger.NewTemporalStarter(c, trigger.TemporalOptions{
				TaskQueue:        a.cfg.Temporal.TaskQueue,
				IDPrefix:         a.cfg.Workflow.IDPrefix,
				ExecutionTimeout: a.cfg.Workflow.ExecutionTimeout,
			})
			ref, err := starter.StartExecution(ctx, in)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !wait {
				return enc.Encode(ref)
			}

			var result domain.BranchResult
			if err := c.GetWorkflow(ctx, ref.WorkflowID, ref.RunID).Get(ctx, &result); err != nil {
				return fmt.Errorf("execution %s failed: %w", ref.WorkflowID, err)
			}
			return enc.Encode(struct {
				domain.ExecutionRef
				Result domain.BranchResult `json:"result"`
			}{ref, result})
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for the execution result")
	cmd.Flags().IntVar(&in.MaxNumber, "max-number", domain.DefaultMaxNumber, "Inclusive upper bound of the generated number")
	cmd.Flags().StringVar(&in.NumberToCheck, "number-to-check", domain.DefaultNumberToCheck, "Comparison target")
	return cmd
}
