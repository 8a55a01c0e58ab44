package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"yashubustudio/sleepsurvey/survey"
)

// enrichOutput is the structured form of the enrich command.
type enrichOutput struct {
	Mapping      survey.MappingReport          `json:"mapping" yaml:"mapping"`
	Outcomes     []survey.DerivedOutcome       `json:"outcomes" yaml:"outcomes"`
	Unrecognized map[survey.CanonicalField]int `json:"unrecognized,omitempty" yaml:"unrecognized,omitempty"`
	Convention   survey.DurationConvention     `json:"durationConvention" yaml:"durationConvention"`
	Columns      []string                      `json:"columns" yaml:"columns"`
	Rows         []survey.Record               `json:"rows" yaml:"rows"`
}

func newEnrichCmd(a *app) *cobra.Command {
	var (
		flags  pipelineFlags
		out    string
		report bool
	)
	cmd := &cobra.Command{
		Use:   "enrich [file|url|-]",
		Short: "Normalize an export and append derived columns",
		Long: `Read a questionnaire export, map long-form questions to canonical fields
and append every derived column whose inputs are present.

With --out the enriched table is written to a file (.tsv for tab separated)
and a report of derived columns is printed. Without --out the table is
written to stdout as CSV, or as a JSON/YAML document with --output.`,
		Example: `
  survey-cli enrich responses.csv --out enriched.csv
  survey-cli enrich https://docs.google.com/.../pub?output=csv --convention sleep-pattern
  cat responses.csv | survey-cli enrich - --report > enriched.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, res, err := a.enrichInput(cmd, &flags, args)
			if err != nil {
				return err
			}
			stdout := cmd.OutOrStdout()

			if out != "" {
				if err := survey.WriteFile(out, res.Table); err != nil {
					return err
				}
				if !a.quiet {
					fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d rows to %s\n", res.Table.Len(), out)
				}
				return a.render(stdout, res, func(w io.Writer) error {
					writeReport(w, res)
					return nil
				})
			}

			if strings.ToLower(a.outputFormat) == "text" || a.outputFormat == "" {
				if err := survey.WriteCSV(stdout, res.Table, ','); err != nil {
					return err
				}
				if report {
					writeReport(cmd.ErrOrStderr(), res)
				}
				return nil
			}
			rows := res.Table.Rows
			if rows == nil {
				rows = []survey.Record{}
			}
			return a.render(stdout, enrichOutput{
				Mapping:      res.Mapping,
				Outcomes:     res.Outcomes,
				Unrecognized: res.Unrecognized,
				Convention:   res.Convention,
				Columns:      res.Table.Columns,
				Rows:         rows,
			}, nil)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "write the enriched table to this file")
	cmd.Flags().BoolVar(&report, "report", false, "print the derived-column report to stderr")
	return cmd
}

// writeReport prints the mapping, derived columns and unrecognized answers.
func writeReport(w io.Writer, res *survey.Result) {
	computed := 0
	for _, o := range res.Outcomes {
		if o.Computed() {
			computed++
		}
	}
	fmt.Fprintf(w, "Rows: %d  Renamed: %d  Derived: %d  Absent: %d  Convention: %s\n\n",
		res.Table.Len(), len(res.Mapping.Renamed), computed, len(res.Outcomes)-computed, res.Convention)

	rows := make([][]string, 0, len(res.Outcomes))
	for _, o := range res.Outcomes {
		missing := make([]string, len(o.Missing))
		for i, f := range o.Missing {
			missing[i] = string(f)
		}
		rows = append(rows, []string{o.Column, string(o.Status), strconv.Itoa(o.Unknown), strings.Join(missing, ", ")})
	}
	printTable(w, []string{"COLUMN", "STATUS", "UNKNOWN", "MISSING"}, rows)

	if len(res.Unrecognized) == 0 {
		return
	}
	fields := make([]string, 0, len(res.Unrecognized))
	for f := range res.Unrecognized {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)
	fmt.Fprintln(w, "\nUnrecognized answers:")
	for _, f := range fields {
		field := survey.CanonicalField(f)
		fmt.Fprintf(w, "  %s: %d (e.g. %q)\n", f, res.Unrecognized[field], res.UnrecognizedSample(field))
	}
}
