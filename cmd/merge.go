package cmd

import (
	"fmt"

	"github.com/pivolan/bandwidth_insights/merge"
	"github.com/spf13/cobra"
)

func newMergeCmd(a *app) *cobra.Command {
	var xlsxFile, sheet, out string
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge the corporate and retail tables of an XLSX sheet into one CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = a.cfg.DataFile
			}
			merged, err := merge.File(xlsxFile, sheet, out)
			if err != nil {
				return err
			}
			a.log.Infow("tables merged", "xlsx", xlsxFile, "sheet", sheet, "rows", len(merged.Rows), "out", out)
			fmt.Fprintf(cmd.OutOrStdout(), "Merged %d rows into %s\n", len(merged.Rows), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&xlsxFile, "xlsx", "x", "", "source workbook (required)")
	cmd.Flags().StringVarP(&sheet, "sheet", "s", merge.DefaultSheet, "sheet holding both tables")
	cmd.Flags().StringVarP(&out, "out", "o", "", "CSV to write (defaults to --data)")
	cmd.MarkFlagRequired("xlsx")
	return cmd
}
