package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"walrus-extend/service/blob_service"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func newClassifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "classify <file>",
		Short:   "Detect the content type of a local file",
		Example: `  extendctl classify ./logo.png`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			return printJSON(blob_service.Classify(filepath.Base(args[0]), data))
		},
	}
}

func newResolveCommand(opts *rootOptions) *cobra.Command {
	var size uint64
	cmd := &cobra.Command{
		Use:     "resolve <blobId> --size N",
		Short:   "Resolve epochs left, tip balance and cost per epoch of a blob",
		Example: `  extendctl resolve Xq3vU0SPkGiAgYdTzr0EW3Y1d7sbcJYwhTm2E1SS4e4 --size 1048576`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			info, err := a.Resolver.Resolve(cmd.Context(), args[0], size)
			if err != nil {
				return err
			}
			return printJSON(info)
		},
	}
	cmd.Flags().Uint64Var(&size, "size", 0, "Blob size in bytes")
	_ = cmd.MarkFlagRequired("size")
	return cmd
}

func newSearchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <blobId>",
		Short: "Read a blob, classify it and resolve its funding status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			info, err := a.Blobs.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(info)
		},
	}
}

func newDownloadCommand(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "download <blobId>",
		Short: "Download a blob, naming the file after its detected type",
		Example: `  extendctl download Xq3vU0SPkGiAgYdTzr0EW3Y1d7sbcJYwhTm2E1SS4e4
  extendctl download Xq3vU0SPkGiAgYdTzr0EW3Y1d7sbcJYwhTm2E1SS4e4 -o ./blob.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			blobID := args[0]
			bar := progressbar.NewOptions64(-1,
				progressbar.OptionSetDescription(fmt.Sprintf("[%s] Downloading", a.Provider.Current())),
				progressbar.OptionSetWidth(50),
				progressbar.OptionShowBytes(true),
				progressbar.OptionThrottle(100*time.Millisecond),
				progressbar.OptionShowElapsedTimeOnFinish(),
				progressbar.OptionSetRenderBlankState(true),
			)
			data, err := a.Provider.Clients().Walrus.ReadBlobWithProgress(cmd.Context(), blobID, func(current, total int64) {
				if total > 0 && bar.GetMax64() != total {
					bar.ChangeMax64(total)
				}
				_ = bar.Set64(current)
			})
			_ = bar.Finish()
			fmt.Println()
			if err != nil {
				return err
			}

			info := blob_service.Classify(blobID, data)
			if output == "" {
				output = blob_service.DownloadFilename(info)
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Printf("✅ Saved %d bytes (%s) to %s\n", len(data), info.ContentType, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: derived from the content type)")
	return cmd
}
