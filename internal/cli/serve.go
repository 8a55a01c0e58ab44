package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"yashubustudio/sleepsurvey/internal/server"
	"yashubustudio/sleepsurvey/internal/source"
	"yashubustudio/sleepsurvey/survey"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		flags   pipelineFlags
		host    string
		port    int
		metrics bool
		cors    bool
	)
	cmd := &cobra.Command{
		Use:   "serve [file|url]",
		Short: "Start the HTTP API over a live export",
		Long: `Start an HTTP server that loads the export on demand, caches it for
source.refreshSeconds and serves enriched rows, summaries and outcomes.

Endpoints:
  GET  /api/v1/responses[?faculty=...]
  GET  /api/v1/summary[?faculty=...]
  GET  /api/v1/outcomes
  POST /api/v1/refresh
  GET  /health
  GET  /metrics`,
		Example: `
  survey-cli serve responses.csv
  survey-cli serve https://docs.google.com/.../pub?output=csv --host 0.0.0.0 --port 9000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &cfg); err != nil {
				return err
			}
			loc, err := location(cfg, args)
			if err != nil {
				return err
			}
			cfg.Source.Location = loc

			loader, err := source.New(cfg.Source, source.WithLogger(a.logger))
			if err != nil {
				return err
			}
			svc, err := a.newService(cfg, survey.WithMetrics(survey.NewMetrics()))
			if err != nil {
				return err
			}

			config := server.ConfigFrom(cfg.Server)
			if cmd.Flags().Changed("host") {
				config.Host = host
			}
			if cmd.Flags().Changed("port") {
				config.Port = port
			}
			if cmd.Flags().Changed("metrics") {
				config.EnableMetrics = metrics
			}
			if cmd.Flags().Changed("cors") {
				config.EnableCORS = cors
			}

			srv, err := server.New(config, svc, loader, server.WithLogger(a.logger))
			if err != nil {
				return err
			}
			// Warm the cache so a broken source fails at startup.
			if _, err := loader.Load(cmd.Context()); err != nil {
				return fmt.Errorf("load %s: %w", loc, err)
			}

			if !a.quiet {
				out := cmd.ErrOrStderr()
				fmt.Fprintf(out, "Survey server listening on http://%s\n", srv.GetAddr())
				fmt.Fprintf(out, "  API:     http://%s/api/v1/responses\n", srv.GetAddr())
				if config.EnableMetrics {
					fmt.Fprintf(out, "  Metrics: http://%s/metrics\n", srv.GetAddr())
				}
			}
			return srv.StartWithGracefulShutdown()
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&host, "host", "localhost", "server host")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "server port")
	cmd.Flags().BoolVar(&metrics, "metrics", true, "enable Prometheus metrics endpoint")
	cmd.Flags().BoolVar(&cors, "cors", true, "enable CORS headers")
	return cmd
}
