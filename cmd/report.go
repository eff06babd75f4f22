package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pivolan/bandwidth_insights/export"
	"github.com/pivolan/bandwidth_insights/report"
	"github.com/spf13/cobra"
)

func newSummaryCmd(a *app) *cobra.Command {
	var exclusions int
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print aggregate metrics as tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession()
			if err != nil {
				return err
			}
			rep := sess.Report()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d rows read, %d accepted, %d excluded, %d blank, %d client type conflicts\n\n",
				sess.Source(), rep.RowsRead, rep.RowsAccepted, rep.ExcludedCount(), rep.BlankRows, rep.Conflicts)

			snap := sess.Snapshot(sess.Apply(a.filter), reportTitle, a.cfg.TopN)
			fmt.Fprintln(out, report.Text(snap))
			if exclusions != 0 && rep.ExcludedCount() > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, report.ExclusionsTable(rep, exclusions))
			}
			return nil
		},
	}
	a.addFilterFlags(cmd)
	cmd.Flags().IntVar(&exclusions, "exclusions", 0, "list up to this many excluded rows, -1 for all")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered CSV, the full cleaned CSV and an XLSX workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession()
			if err != nil {
				return err
			}
			paths, err := export.WriteFiles(a.cfg.ExportDir, sess, a.filter, reportTitle, a.cfg.TopN)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			a.log.Infow("exports written", "dir", a.cfg.ExportDir, "files", len(paths))
			return nil
		},
	}
	a.addFilterFlags(cmd)
	cmd.Flags().StringVarP(&a.cfg.ExportDir, "out", "o", a.cfg.ExportDir, "output directory")
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the PDF insights report",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession()
			if err != nil {
				return err
			}
			pdf, err := report.PDF(sess.Snapshot(sess.Apply(a.filter), reportTitle, a.cfg.TopN))
			if err != nil {
				return err
			}
			if dir := filepath.Dir(a.cfg.ReportFile); dir != "." {
				if err := os.MkdirAll(dir, os.ModePerm); err != nil {
					return err
				}
			}
			if err := os.WriteFile(a.cfg.ReportFile, pdf, 0644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "PDF report generated and saved as %s\n", a.cfg.ReportFile)
			return nil
		},
	}
	a.addFilterFlags(cmd)
	cmd.Flags().StringVarP(&a.cfg.ReportFile, "out", "o", a.cfg.ReportFile, "PDF file to write")
	return cmd
}
