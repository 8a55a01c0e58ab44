package cli

import (
	"github.com/spf13/cobra"

	"yashubustudio/sleepsurvey/survey"
)

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:    "schema",
		Short:  "Output the JSON schema of the lookup tables file",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := survey.TablesSchema()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := out.Write(data); err != nil {
				return err
			}
			_, err = out.Write([]byte("\n"))
			return err
		},
	}
}
