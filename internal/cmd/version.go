package cmd

import (
	"github.com/spf13/cobra"

	"github.com/helpscout/helpscout-cli/internal/update"
)

// checkForUpdate is replaced in tests.
var checkForUpdate = func(cmd *cobra.Command) *update.Info {
	return update.NewChecker().Check(cmd.Context(), version)
}

type versionInfo struct {
	Version string       `json:"version"`
	Update  *update.Info `json:"update,omitempty"`
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			info := versionInfo{Version: version}
			// The check is best effort and silent on failure.
			if result := checkForUpdate(cmd); result != nil && result.UpdateAvailable {
				info.Update = result
			}
			return printJSON(cmd, info)
		}),
	}
}
