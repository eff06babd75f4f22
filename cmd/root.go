package cmd

import (
	"fmt"
	"os"

	"github.com/pivolan/bandwidth_insights/config"
	"github.com/pivolan/bandwidth_insights/domain/models"
	"github.com/pivolan/bandwidth_insights/loader"
	"github.com/pivolan/bandwidth_insights/logging"
	"github.com/pivolan/bandwidth_insights/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const reportTitle = "Bandwidth Insights"

// app carries what every command shares: configuration, the logger and the
// filter flags.
type app struct {
	cfg      config.Config
	log      *zap.SugaredLogger
	logLevel string
	filter   models.Filter
}

func NewRootCmd() *cobra.Command {
	a := &app{cfg: *config.GetConfig()}

	root := &cobra.Command{
		Use:   "bandwidth-insights",
		Short: "Clean a merged client dataset and report bandwidth metrics",
		Long: `bandwidth-insights loads the merged corporate and retail client list,
normalizes client types and statuses, and reports bandwidth per region, state,
status and client type as tables, CSV, XLSX, PDF, a web dashboard or a Telegram bot.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			logger, err := logging.New(a.logLevel)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			a.log = logger.Sugar()
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				a.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfg.DataFile, "data", "d", a.cfg.DataFile, "merged client CSV (.csv, .gz, .lz4 or .zip)")
	flags.IntVar(&a.cfg.TopN, "top", a.cfg.TopN, "number of top subscriptions and companies to report")
	flags.StringVar(&a.logLevel, "log-level", a.cfg.LogLevel, "log level: debug, info, warn, error")

	root.AddCommand(
		newSummaryCmd(a),
		newExportCmd(a),
		newReportCmd(a),
		newMergeCmd(a),
		newServeCmd(a),
		newBotCmd(a),
		newImportCmd(a),
	)
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// addFilterFlags registers the record filter on commands that report on a subset.
func (a *app) addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&a.filter.Regions, "region", nil, "only these regions")
	cmd.Flags().StringSliceVar(&a.filter.States, "state", nil, "only these states")
	cmd.Flags().StringSliceVar(&a.filter.Statuses, "status", nil, "only these statuses (Active, Inactive, Unknown)")
	cmd.Flags().StringSliceVar(&a.filter.ClientTypes, "client-type", nil, "only these client types (Corporate, Retail, Unknown)")
}

func (a *app) openSession() (*session.Session, error) {
	return session.Open(a.cfg.DataFile, loader.New(a.log))
}
