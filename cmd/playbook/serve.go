package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kalens/playbook/internal/httpapi"
)

const shutdownGrace = 5 * time.Second

func (c *cli) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the assignments API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := c.loadSnapshot()
			if err != nil {
				return err
			}
			generator, err := c.generator(snap)
			if err != nil {
				return err
			}
			api := httpapi.New(generator, snap.Accounts, c.log)
			server := &http.Server{
				Addr:    c.cfg.HTTPAddr,
				Handler: api.Router(),
			}

			errc := make(chan error, 1)
			go func() {
				c.log.Info("serving assignments api",
					zap.String("addr", c.cfg.HTTPAddr),
					zap.Int("accounts", len(snap.Accounts)))
				if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
			}()

			sigc := make(chan os.Signal, 1)
			signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errc:
				return err
			case <-sigc:
			}
			ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			return server.Shutdown(ctx)
		},
	}
}
