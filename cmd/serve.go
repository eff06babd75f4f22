package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pivolan/bandwidth_insights/bot"
	"github.com/pivolan/bandwidth_insights/dashboard"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession()
			if err != nil {
				return err
			}

			gin.SetMode(a.cfg.GinMode)
			srv := &http.Server{
				Addr:    a.cfg.HTTPAddr,
				Handler: dashboard.NewRouter(sess, dashboard.Options{Title: reportTitle, TopN: a.cfg.TopN, Log: a.log}),
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.log.Infow("dashboard listening", "addr", a.cfg.HTTPAddr, "session", sess.ID())
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			a.log.Infow("shutting down dashboard")
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&a.cfg.HTTPAddr, "addr", a.cfg.HTTPAddr, "listen address")
	return cmd
}

func newBotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot that answers uploaded CSV files with insights",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.TgToken == "" {
				return errors.New("telegram token is not set, use TG_TOKEN or --token")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return bot.Run(ctx, a.cfg.TgToken, a.log, reportTitle, a.cfg.TopN)
		},
	}
	cmd.Flags().StringVar(&a.cfg.TgToken, "token", a.cfg.TgToken, "Telegram bot token")
	return cmd
}
