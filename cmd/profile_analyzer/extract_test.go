package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/profile-analyzer/internal/pdftest"
	"alfredoptarigan/profile-analyzer/internal/services"
)

func TestExtractCommandPrintsCleanText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.pdf")
	require.NoError(t, os.WriteFile(path, pdftest.Build("Jane Doe", "Staff Engineer"), 0644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"extract", "--clean", path})
	t.Cleanup(func() {
		extractClean = false
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Jane Doe")
	assert.Contains(t, out.String(), "Staff Engineer")
	assert.NotContains(t, out.String(), "\n\n")
}

func TestExtractFileRejectsNonPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text pretending to be a pdf"), 0644))

	_, err := extractFile(t.Context(), services.NewPDFParserService(nil, nil), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrUnsupportedMediaType)
}
