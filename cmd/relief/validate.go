package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/relief/pkg/stl"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <model.stl>",
		Short: "Check an ASCII STL file and print a report",
		Long: "validate checks the structure of an ASCII STL file and prints the\n" +
			"report as YAML. The exit status is 1 when the file is invalid.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := stl.ValidateFile(args[0])
			if err != nil {
				return err
			}
			logReport(args[0], report)

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(report); err != nil {
				return fmt.Errorf("encode report: %w", err)
			}
			if err := enc.Close(); err != nil {
				return fmt.Errorf("encode report: %w", err)
			}

			if !report.Valid {
				return errInvalidModel
			}
			return nil
		},
	}
}
