package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pellicle-photo/pellicle/internal/pipeline"
	"github.com/pellicle-photo/pellicle/internal/store"
	"github.com/pellicle-photo/pellicle/internal/transform"
	"github.com/pellicle-photo/pellicle/internal/util"
)

func main() {

	// set logging to json format for the cli
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})
	slog.SetDefault(slog.New(jsonHandler).
		With(slog.String(util.ServiceKey, util.ServiceGallery)))

	root := &cobra.Command{
		Use:           "pellicle",
		Short:         "Publish photographs as content-addressed albums in object storage",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(uploadCmd(), deleteCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newAlbumService wires the album service against the configured bucket.
func newAlbumService(cmd *cobra.Command, bucket string, maxUploads int) (pipeline.AlbumService, error) {

	objStore, err := store.NewS3(cmd.Context(), bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %v", err)
	}

	return pipeline.NewAlbumService(
		objStore,
		transform.NewProcessor(transform.Config{}),
		pipeline.Config{MaxConcurrentUploads: maxUploads},
		os.Stdout,
	), nil
}

// resolveBucket applies the GALLERY_BUCKET env fallback to the --bucket flag.
func resolveBucket(bucket string) (string, error) {

	if bucket == "" {
		bucket = os.Getenv("GALLERY_BUCKET")
	}
	if bucket == "" {
		return "", fmt.Errorf("bucket must be set via --bucket or GALLERY_BUCKET")
	}

	return bucket, nil
}

func uploadCmd() *cobra.Command {

	var (
		name       string
		bucket     string
		maxUploads int
	)

	cmd := &cobra.Command{
		Use:   "upload <paths...>",
		Short: "Upload images to create or resume an album",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {

			bucket, err := resolveBucket(bucket)
			if err != nil {
				return err
			}

			svc, err := newAlbumService(cmd, bucket, maxUploads)
			if err != nil {
				return err
			}

			m, err := svc.Upload(cmd.Context(), args, name)
			if err != nil {
				return err
			}

			fmt.Printf("\nAccess your gallery at: /gallery/%s\n", m.Id)

			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "album name")
	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "object storage bucket (or GALLERY_BUCKET)")
	cmd.Flags().IntVar(&maxUploads, "max-uploads", 0, "max simultaneous in-flight uploads")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func deleteCmd() *cobra.Command {

	var bucket string

	cmd := &cobra.Command{
		Use:   "delete <album-id>",
		Short: "Delete an album and all of its objects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {

			bucket, err := resolveBucket(bucket)
			if err != nil {
				return err
			}

			svc, err := newAlbumService(cmd, bucket, 0)
			if err != nil {
				return err
			}

			return svc.Delete(cmd.Context(), args[0])
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "object storage bucket (or GALLERY_BUCKET)")

	return cmd
}
