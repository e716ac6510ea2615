package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func (a *App) listCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List uploads recorded in the local registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.list(cmd.Context(), all)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include deleted files")

	return cmd
}

func (a *App) list(ctx context.Context, all bool) error {
	reg, err := a.openRegistry(ctx, a.cfg.RegistryPath)
	if err != nil {
		return fmt.Errorf("open registry: %w", err)
	}
	defer reg.Close()

	uploads, err := reg.List(ctx, all)
	if err != nil {
		return err
	}

	if len(uploads) == 0 {
		fmt.Fprintln(a.out, "No uploads found")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTATUS\tSTATE\tSIZE\tLOCATION\tUPDATED")
	for _, u := range uploads {
		name := u.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			name, u.Status, u.State, u.SizeBytes, u.Location, u.UpdatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}
