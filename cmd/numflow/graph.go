package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-numflow/internal/workflow"
)

func newGraphCmd(_ *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the workflow topology",
		Long:  `Prints the state machine as a Mermaid flowchart or as YAML.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			def := workflow.Definition()
			switch format {
			case "mermaid":
				_, err := fmt.Fprint(cmd.OutOrStdout(), def.Mermaid())
				return err
			case "yaml":
				raw, err := def.EncodeYAML()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(raw)
				return err
			default:
				return fmt.Errorf("unknown format %q (want mermaid or yaml)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "mermaid", "Output format: mermaid or yaml")
	return cmd
}
