package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

// Build-time variables (set with -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

// VersionInfo represents version information
type VersionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Example: `
  survey-cli version               # Show basic version info
  survey-cli version --output json # Show version info as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{
				Version:   Version,
				Commit:    Commit,
				Date:      Date,
				GoVersion: GoVersion,
				Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
			}
			return a.render(cmd.OutOrStdout(), info, func(w io.Writer) error {
				if a.verbose {
					_, err := fmt.Fprintf(w, "%s\n", getVersion())
					return err
				}
				_, err := fmt.Fprintf(w, "%s\n", info.Version)
				return err
			})
		},
	}
}
