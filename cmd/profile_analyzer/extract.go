package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"alfredoptarigan/profile-analyzer/internal/models"
	"alfredoptarigan/profile-analyzer/internal/services"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.pdf>",
	Short: "Print the plain text of a PDF profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var (
	extractClean      bool
	extractOutputFile string
)

func init() {
	extractCmd.Flags().BoolVar(&extractClean, "clean", false, "Trim every line and drop blank lines")
	extractCmd.Flags().StringVarP(&extractOutputFile, "out", "o", "", "Write text to this file instead of stdout")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	parser := services.NewPDFParserService(nil, nil)

	text, err := extractFile(cmd.Context(), parser, args[0])
	if err != nil {
		return err
	}
	if extractClean {
		text = services.CleanText(text)
	}

	return writeOutput(cmd, extractOutputFile, []byte(text+"\n"))
}

// extractFile sniffs the media type from content, the way a browser upload
// would have declared it.
func extractFile(ctx context.Context, parser services.PDFParserService, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc := models.ProfileDocument{
		Filename:  filepath.Base(path),
		MediaType: http.DetectContentType(data),
		Size:      int64(len(data)),
		Data:      data,
	}

	text, err := parser.ExtractText(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to extract %s: %w", path, err)
	}
	return text, nil
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
