// Package cli implements the survey-cli command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"yashubustudio/sleepsurvey/survey"
)

// configKeys may be set in the config file or as SLEEPSURVEY_* variables,
// e.g. SLEEPSURVEY_SOURCE_LOCATION.
var configKeys = []string{
	"durationConvention",
	"tablesFile",
	"source.location",
	"source.refreshSeconds",
	"source.timeoutSeconds",
	"source.cacheDir",
	"server.host",
	"server.port",
	"server.disableMetrics",
	"server.disableCors",
}

// app carries global flags and per-invocation state shared by subcommands.
type app struct {
	// Global flags
	cfgFile      string
	logLevel     string
	outputFormat string
	quiet        bool
	verbose      bool

	v      *viper.Viper
	logger zerolog.Logger
}

// Execute runs the command tree. It is called by main.main().
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}

// NewRootCommand builds a fresh command tree with its own viper instance.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New(), logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "survey-cli",
		Short: "Normalize and score student sleep questionnaire exports",
		Long: `survey-cli turns a raw questionnaire export (CSV/TSV file or published
spreadsheet URL) into an analysis-ready table: headers are normalized, long
question text is mapped to canonical fields, and sleep duration estimates,
insomnia indices, lifestyle risk and academic scores are derived.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initConfig(cmd.ErrOrStderr()); err != nil {
				return err
			}
			a.initLogging(cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./sleepsurvey.yaml or $HOME/.sleepsurvey/sleepsurvey.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&a.outputFormat, "output", "text", "output format (text, json, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	_ = a.v.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(
		newEnrichCmd(a),
		newSummaryCmd(a),
		newServeCmd(a),
		newTablesCmd(a),
		newConfigCmd(a),
		newSchemaCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

// initConfig reads in config file and ENV variables if set.
func (a *app) initConfig(stderr io.Writer) error {
	_ = godotenv.Load()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".sleepsurvey"))
		}
		a.v.SetConfigName(strings.TrimSuffix(survey.DefaultConfigFile, filepath.Ext(survey.DefaultConfigFile)))
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("SLEEPSURVEY")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()
	for _, key := range configKeys {
		_ = a.v.BindEnv(key)
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
		return nil
	}
	if !a.quiet && a.verbose {
		fmt.Fprintf(stderr, "Using config file: %s\n", a.v.ConfigFileUsed())
	}
	return nil
}

// initLogging configures the command logger
func (a *app) initLogging(stderr io.Writer) {
	level, err := zerolog.ParseLevel(a.v.GetString("log-level"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	if a.verbose && level != zerolog.Disabled {
		level = zerolog.DebugLevel
	}

	var w io.Writer = stderr
	if !a.quiet && a.outputFormat == "text" {
		w = zerolog.ConsoleWriter{Out: stderr, TimeFormat: "15:04:05"}
	}
	a.logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// config merges the config file, environment and defaults.
func (a *app) config() (survey.Config, error) {
	var cfg survey.Config
	if err := a.v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// getVersion returns the version information
func getVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, go: %s)", Version, Commit, Date, GoVersion)
}
