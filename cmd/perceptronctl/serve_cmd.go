package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"perceptron/internal/configio"
	"perceptron/internal/metrics"
	"perceptron/internal/nn"
	"perceptron/internal/server"
	"perceptron/internal/session"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr       string
		createConf bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions over HTTP",
		Long: `Serve predictions over HTTP. The configuration is loaded at start-up and can
be reloaded with POST /configuration/reload. A configuration that fails to load
disables prediction until a later reload succeeds; the server keeps running.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if cmd.Flags().Changed("addr") {
				a.settings.HTTP.Addr = addr
			}
			if createConf && a.settings.Store.Record == "" {
				created, err := configio.EnsureSampleConfiguration(a.settings.ConfigPath)
				if err != nil {
					return err
				}
				if created {
					a.logger.WithField("path", a.settings.ConfigPath).Info("sample configuration created")
				}
			}
			act, err := nn.ParseActivation(a.settings.Activation)
			if err != nil {
				return err
			}

			src, closeSrc, err := a.source(ctx)
			if err != nil {
				return err
			}
			defer closeSrc()

			holder := session.NewHolder(a.logger)
			_, err = holder.Reload(ctx, src)
			metrics.ObserveReload(err)

			if a.settings.HTTP.Mode != "" {
				gin.SetMode(a.settings.HTTP.Mode)
			}
			srv := server.New(server.Config{
				Holder:            holder,
				Source:            src,
				DefaultActivation: act,
				Logger:            a.logger,
			})
			return srv.Run(ctx, a.settings.HTTP.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&createConf, "init", false, "create the sample configuration file first if it is missing")
	return cmd
}
