package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gemini-go/files"
	"github.com/dmitrijs2005/gemini-go/internal/registry"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type uploadOptions struct {
	displayName string
	mimeType    string
	verify      bool
}

func (a *App) uploadCmd() *cobra.Command {
	var opts uploadOptions

	cmd := &cobra.Command{
		Use:         "upload FILE...",
		Short:       "Upload local files or s3:// objects",
		Args:        cobra.MinimumNArgs(1),
		Annotations: needsAPIKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.upload(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.displayName, "display-name", "", "display name (single file only, default: base name)")
	cmd.Flags().StringVar(&opts.mimeType, "mime-type", "", "MIME type (default: detected from content)")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "compare the server sha256 with the local content")

	return cmd
}

func (a *App) upload(ctx context.Context, locations []string, opts uploadOptions) error {
	if opts.displayName != "" && len(locations) > 1 {
		return errors.New("--display-name needs exactly one file")
	}

	api, err := a.newAPI(ctx)
	if err != nil {
		return err
	}

	reg, err := a.openRegistry(ctx, a.cfg.RegistryPath)
	if err != nil {
		return fmt.Errorf("open registry: %w", err)
	}
	defer reg.Close()

	results := make([]*files.UploadedFile, len(locations))
	errs := make([]error, len(locations))

	if opts.verify {
		a.fileSource(ctx)
	}

	var g errgroup.Group
	g.SetLimit(a.cfg.Concurrency)

	fm := api.FileManager()
	for i, loc := range locations {
		g.Go(func() error {
			results[i], errs[i] = a.uploadOne(ctx, fm, reg, loc, opts)
			return nil
		})
	}
	_ = g.Wait()

	for i, loc := range locations {
		if errs[i] != nil {
			fmt.Fprintf(a.out, "%s\tFAILED\t%v\n", loc, errs[i])
			continue
		}
		f := results[i]
		fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\n", loc, f.Name, f.State, f.URI)
	}

	return errors.Join(errs...)
}

func (a *App) uploadOne(ctx context.Context, fm files.FileManager, reg Registry, location string, opts uploadOptions) (*files.UploadedFile, error) {
	u := &registry.Upload{
		ID:          uuid.NewString(),
		Location:    location,
		DisplayName: opts.displayName,
		MimeType:    opts.mimeType,
	}
	if err := reg.Create(ctx, u); err != nil {
		return nil, err
	}

	f, err := fm.UploadFile(ctx, location, opts.displayName, opts.mimeType)
	if err != nil {
		if merr := reg.MarkFailed(ctx, u.ID, err); merr != nil {
			a.logger.Error(ctx, "registry update failed", "id", u.ID, "error", merr)
		}
		return nil, err
	}

	if err := reg.MarkUploaded(ctx, u.ID, f); err != nil {
		a.logger.Error(ctx, "registry update failed", "id", u.ID, "error", err)
	}

	if opts.verify {
		if err := a.verify(ctx, location, f); err != nil {
			return f, err
		}
	}

	return f, nil
}

func (a *App) verify(ctx context.Context, location string, f *files.UploadedFile) error {
	rc, err := a.fileSource(ctx).Open(ctx, location)
	if err != nil {
		return fmt.Errorf("verify %s: %w", location, err)
	}
	defer rc.Close()

	err = f.VerifySHA256(rc)
	if errors.Is(err, files.ErrNoChecksum) {
		a.logger.Warn(ctx, "no checksum to verify", "name", f.Name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("verify %s: %w", location, err)
	}
	return nil
}
