package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pivolan/bandwidth_insights/report"
	"github.com/pivolan/bandwidth_insights/store"
	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	var batch string
	var list bool
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store the cleaned records in the database",
		Long: `Store the cleaned records in the client_records table. DB_DRIVER selects
mysql (any server speaking the MySQL protocol) or sqlite. Importing the same
batch twice replaces the earlier rows.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(a.cfg.DbDriver, a.cfg.DbDsn, a.log)
			if err != nil {
				return err
			}
			defer db.Close()

			if list {
				batches, err := db.Batches()
				if err != nil {
					return err
				}
				t := table.NewWriter()
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"Batch", "Records", "Bandwidth", "Imported"})
				for _, b := range batches {
					t.AppendRow(table.Row{b.Batch, b.Records, report.Mbps(b.Bandwidth), b.ImportedAt.Format("2006-01-02 15:04")})
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.Render())
				return nil
			}

			sess, err := a.openSession()
			if err != nil {
				return err
			}
			if batch == "" {
				batch = sess.ID()
			}
			n, err := db.Import(batch, sess.Records())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records as batch %s\n", n, batch)
			return nil
		},
	}
	cmd.Flags().StringVar(&a.cfg.DbDriver, "driver", a.cfg.DbDriver, "database driver: mysql or sqlite")
	cmd.Flags().StringVar(&a.cfg.DbDsn, "dsn", a.cfg.DbDsn, "database DSN")
	cmd.Flags().StringVar(&batch, "batch", "", "batch name (defaults to a new session id)")
	cmd.Flags().BoolVar(&list, "list", false, "list stored batches instead of importing")
	return cmd
}
