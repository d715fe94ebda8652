package sheetdb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/sheetdb/domain/model"
)

// validator checks input and output paths before any file is opened
type validator struct{}

// newValidator creates a new validator instance
func newValidator() *validator {
	return &validator{}
}

// validateSourcePath validates that path is an existing, non-empty file of a supported type
func (v *validator) validateSourcePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", path)
		}
		return fmt.Errorf("failed to stat path %s: %w", path, err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory: %s", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}
	if !model.IsSupportedFile(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	return nil
}

// validateOutputDirectory validates that the output directory can be created/accessed
func (v *validator) validateOutputDirectory(outputDir string) error {
	if strings.TrimSpace(outputDir) == "" {
		return errors.New("output path cannot be empty")
	}

	// Check if directory already exists
	if info, err := os.Stat(outputDir); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("output path exists but is not a directory: %s", outputDir)
		}
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check output directory: %w", err)
	}

	// Directory doesn't exist, that's fine - it will be created later
	return nil
}

// validateOutputFile validates that the parent of an output file is usable
func (v *validator) validateOutputFile(outputPath string) error {
	if strings.TrimSpace(outputPath) == "" {
		return errors.New("output path cannot be empty")
	}
	if info, err := os.Stat(outputPath); err == nil && info.IsDir() {
		return fmt.Errorf("output path is a directory: %s", outputPath)
	}
	return v.validateOutputDirectory(filepath.Dir(outputPath))
}
