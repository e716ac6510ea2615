package cli

import (
	"github.com/dmitrijs2005/gemini-go/internal/buildinfo"
	"github.com/spf13/cobra"
)

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			buildinfo.PrintBuildData(a.out)
			return nil
		},
	}
}
