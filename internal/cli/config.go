package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"yashubustudio/sleepsurvey/survey"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create, show or validate configuration",
	}
	cmd.AddCommand(newConfigInitCmd(a), newConfigShowCmd(a), newConfigValidateCmd(a))
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := survey.DefaultConfigFile
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			var cfg survey.Config
			cfg.ApplyDefaults()
			if err := survey.SaveConfig(path, cfg); err != nil {
				return err
			}
			if !a.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration after file and environment overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), cfg, nil)
		},
	}
}

func newConfigValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Check a config file and the tables file it references",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := survey.DefaultConfigFile
			if len(args) > 0 {
				path = args[0]
			}
			cfg, err := survey.LoadConfig(path)
			if err != nil {
				return err
			}
			if _, err := survey.LoadTables(cfg.TablesFile); err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), map[string]any{"valid": true, "path": path}, func(w io.Writer) error {
				if !a.quiet {
					fmt.Fprintf(w, "%s is valid\n", path)
				}
				return nil
			})
		},
	}
}
