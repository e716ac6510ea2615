package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gemini-go/internal/registry"
	"github.com/spf13/cobra"
)

func (a *App) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "get NAME",
		Short:       "Show a file's metadata",
		Args:        cobra.ExactArgs(1),
		Annotations: needsAPIKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.get(cmd.Context(), args[0])
		},
	}
}

func (a *App) get(ctx context.Context, name string) error {
	api, err := a.newAPI(ctx)
	if err != nil {
		return err
	}

	f, err := api.FileManager().GetFile(ctx, name)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "delete NAME...",
		Short:       "Delete files from the API",
		Args:        cobra.MinimumNArgs(1),
		Annotations: needsAPIKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.delete(cmd.Context(), args)
		},
	}
}

func (a *App) delete(ctx context.Context, names []string) error {
	api, err := a.newAPI(ctx)
	if err != nil {
		return err
	}

	reg, err := a.openRegistry(ctx, a.cfg.RegistryPath)
	if err != nil {
		return fmt.Errorf("open registry: %w", err)
	}
	defer reg.Close()

	var errs []error
	for _, name := range names {
		if err := api.FileManager().DeleteFile(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		if err := reg.MarkDeleted(ctx, name); err != nil && !errors.Is(err, registry.ErrNotFound) {
			a.logger.Error(ctx, "registry update failed", "name", name, "error", err)
		}
		fmt.Fprintf(a.out, "deleted %s\n", name)
	}

	return errors.Join(errs...)
}
