package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"yashubustudio/sleepsurvey/internal/source"
	"yashubustudio/sleepsurvey/survey"
)

// pipelineFlags are shared by commands that run the enrichment pipeline.
type pipelineFlags struct {
	convention string
	tables     string
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.convention, "convention", "", `duration convention ("academic" or "sleep-pattern")`)
	cmd.Flags().StringVar(&f.tables, "tables", "", "lookup tables override file (YAML or JSON)")
}

// apply overrides cfg with flags the user set explicitly.
func (f *pipelineFlags) apply(cmd *cobra.Command, cfg *survey.Config) error {
	if cmd.Flags().Changed("convention") {
		cfg.DurationConvention = survey.DurationConvention(f.convention)
	}
	if cmd.Flags().Changed("tables") {
		cfg.TablesFile = f.tables
	}
	return cfg.Validate()
}

// location picks the input from the first argument or source.location.
func location(cfg survey.Config, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Source.Location != "" {
		return cfg.Source.Location, nil
	}
	return "", errors.New("no input: pass a file or URL, or set source.location")
}

// loadTable reads the export named by loc. "-" reads CSV from stdin.
func (a *app) loadTable(ctx context.Context, stdin io.Reader, cfg survey.Config, loc string) (*survey.Table, error) {
	if loc == "-" {
		t, err := survey.ReadCSV(stdin, ',')
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return t, nil
	}
	sc := cfg.Source
	sc.Location = loc
	loader, err := source.New(sc, source.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	return loader.Load(ctx)
}

func (a *app) newService(cfg survey.Config, opts ...survey.Option) (*survey.Service, error) {
	opts = append([]survey.Option{survey.WithLogger(a.logger)}, opts...)
	return survey.NewService(cfg, opts...)
}

// enrichInput resolves configuration and runs the pipeline over the input.
func (a *app) enrichInput(cmd *cobra.Command, flags *pipelineFlags, args []string) (*survey.Service, *survey.Result, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, nil, err
	}
	if err := flags.apply(cmd, &cfg); err != nil {
		return nil, nil, err
	}
	loc, err := location(cfg, args)
	if err != nil {
		return nil, nil, err
	}
	svc, err := a.newService(cfg)
	if err != nil {
		return nil, nil, err
	}
	raw, err := a.loadTable(cmd.Context(), cmd.InOrStdin(), cfg, loc)
	if err != nil {
		return nil, nil, err
	}
	res, err := svc.Enrich(raw)
	if err != nil {
		return nil, nil, err
	}
	return svc, res, nil
}
