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

func newSummaryCmd(a *app) *cobra.Command {
	var (
		flags   pipelineFlags
		faculty string
	)
	cmd := &cobra.Command{
		Use:   "summary [file|url|-]",
		Short: "Print headline figures of an enriched export",
		Example: `
  survey-cli summary responses.csv
  survey-cli summary responses.csv --faculty Engineering --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, res, err := a.enrichInput(cmd, &flags, args)
			if err != nil {
				return err
			}
			t := survey.FilterFaculty(res.Table, faculty)
			s := survey.Summarize(t, svc.Tables().Lifestyle)
			return a.render(cmd.OutOrStdout(), s, func(w io.Writer) error {
				writeSummary(w, s)
				return nil
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&faculty, "faculty", "", "only count respondents of this faculty")
	return cmd
}

func writeSummary(w io.Writer, s survey.Summary) {
	fmt.Fprintf(w, "Responses:      %d\n", s.TotalResponses)
	if s.LastUpdated != nil {
		fmt.Fprintf(w, "Last updated:   %s\n", s.LastUpdated.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(w, "Faculties:      %d\n", s.Faculties)
	if s.AverageISI != nil {
		fmt.Fprintf(w, "Average ISI:    %.2f\n", *s.AverageISI)
	}
	if s.AverageSleepHours != nil {
		fmt.Fprintf(w, "Average sleep:  %.2f h\n", *s.AverageSleepHours)
	}

	if len(s.Lifestyle) > 0 {
		rows := make([][]string, 0, len(s.Lifestyle))
		for field, p := range s.Lifestyle {
			rows = append(rows, prevalenceRow(string(field), p))
		}
		fmt.Fprintln(w)
		printTable(w, []string{"LIFESTYLE RISK", "COUNT", "PERCENT"}, sortRows(rows))
	}
	if len(s.Sleep) > 0 {
		rows := make([][]string, 0, len(s.Sleep))
		for name, p := range s.Sleep {
			rows = append(rows, prevalenceRow(name, p))
		}
		fmt.Fprintln(w)
		printTable(w, []string{"SLEEP INDICATOR", "COUNT", "PERCENT"}, sortRows(rows))
	}

	cols := make([]string, 0, len(s.Categories))
	for col := range s.Categories {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		rows := make([][]string, 0, len(s.Categories[col]))
		for label, n := range s.Categories[col] {
			rows = append(rows, []string{label, strconv.Itoa(n)})
		}
		fmt.Fprintln(w)
		printTable(w, []string{strings.ToUpper(col), "COUNT"}, sortRows(rows))
	}
}

func prevalenceRow(name string, p survey.Prevalence) []string {
	return []string{name, strconv.Itoa(p.Count), strconv.FormatFloat(p.Percent, 'f', 1, 64) + "%"}
}

func sortRows(rows [][]string) [][]string {
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
	return rows
}
