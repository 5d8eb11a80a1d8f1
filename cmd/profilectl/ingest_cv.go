package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"profile-hub/internal/app"
	"profile-hub/internal/domain"
	"profile-hub/internal/service"
)

var ingestCVFile string

var ingestCVCmd = &cobra.Command{
	Use:   "ingest-cv",
	Short: "Upload a CV file and run extraction and merge",
	RunE:  runIngestCV,
}

func init() {
	ingestCVCmd.Flags().StringVarP(&ingestCVFile, "file", "f", "", "Path to the CV file (required)")
	if err := ingestCVCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}
	rootCmd.AddCommand(ingestCVCmd)
}

func runIngestCV(cmd *cobra.Command, _ []string) error {
	f, err := os.Open(ingestCVFile)
	if err != nil {
		return fmt.Errorf("failed to open CV file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat CV file: %w", err)
	}

	return withApp(cmd, func(ctx context.Context, a *app.App, principal domain.Principal) error {
		res, err := a.CVPipeline.Run(ctx, principal, service.FileUpload{
			Name:    filepath.Base(ingestCVFile),
			Size:    info.Size(),
			Content: f,
		})
		if err != nil {
			return err
		}
		out := map[string]any{
			"documentId": res.Document.ID,
			"filePath":   res.Document.FilePath,
			"mimeType":   res.Document.MimeType,
			"hash":       res.Document.ContentHash,
			"extraction": res.Extraction,
			"stoppedAt":  res.StoppedAt,
		}
		if res.ExtractErr != nil {
			out["extractionError"] = res.ExtractErr.Error()
		}
		return printJSON(cmd.OutOrStdout(), out)
	})
}
