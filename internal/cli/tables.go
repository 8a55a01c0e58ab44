package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"yashubustudio/sleepsurvey/survey"
)

func newTablesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Inspect or export the lookup tables",
		Long: `Lookup tables hold the question catalog, answer scales, duration and GPA
midpoints and lifestyle keyword weights. A tables file (tablesFile in the
config) adds wordings to the built-in tables without recompiling.`,
	}
	cmd.AddCommand(newTablesInitCmd(a), newTablesShowCmd(a))
	return cmd
}

func newTablesInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write the built-in tables to a file for editing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "tables.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			created, err := survey.EnsureTablesFile(path)
			if err != nil {
				return err
			}
			if a.quiet {
				return nil
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote default tables to %s\n", path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists, left unchanged\n", path)
			}
			return nil
		},
	}
}

func newTablesShowCmd(a *app) *cobra.Command {
	var tablesFile string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective lookup tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("tables") {
				cfg.TablesFile = tablesFile
			}
			tables, err := survey.LoadTables(cfg.TablesFile)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), tables, func(w io.Writer) error {
				writeTables(w, tables, cfg.DurationConvention)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&tablesFile, "tables", "", "lookup tables override file")
	return cmd
}

func writeTables(w io.Writer, t survey.Tables, conv survey.DurationConvention) {
	for i, scale := range []survey.Scale{t.Frequency, t.MissedClasses, t.AcademicPerformance, t.BedTime} {
		if i > 0 {
			fmt.Fprintln(w)
		}
		rows := make([][]string, 0, len(scale.Variants))
		for _, text := range scale.Wordings() {
			score, _ := scale.Lookup(text)
			rows = append(rows, []string{text, strconv.Itoa(score)})
		}
		printTable(w, []string{"SCALE " + scale.Name, "SCORE"}, rows)
	}

	for _, table := range []survey.MidpointTable{t.Duration(conv), t.GPA} {
		texts := make([]string, 0, len(table.Midpoints))
		for text := range table.Midpoints {
			texts = append(texts, text)
		}
		sort.Slice(texts, func(i, j int) bool {
			if table.Midpoints[texts[i]] != table.Midpoints[texts[j]] {
				return table.Midpoints[texts[i]] < table.Midpoints[texts[j]]
			}
			return texts[i] < texts[j]
		})
		rows := make([][]string, len(texts))
		for i, text := range texts {
			rows[i] = []string{text, strconv.FormatFloat(table.Midpoints[text], 'f', -1, 64)}
		}
		fmt.Fprintln(w)
		printTable(w, []string{"MIDPOINTS " + table.Name, "VALUE"}, rows)
	}

	rows := [][]string{}
	for _, rule := range t.Lifestyle {
		for _, band := range rule.Bands {
			for _, kw := range band.Keywords {
				rows = append(rows, []string{string(rule.Field), kw, strconv.Itoa(band.Weight), strconv.Itoa(rule.MaxWeight())})
			}
		}
	}
	fmt.Fprintln(w)
	printTable(w, []string{"LIFESTYLE FIELD", "KEYWORD", "WEIGHT", "MAX"}, rows)
}
