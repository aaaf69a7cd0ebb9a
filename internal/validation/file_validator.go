package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "startupcli/internal/errors"
)

// FileValidator checks input and output files before they are read or
// written, so failures name the path instead of surfacing from a parser or
// an encoder halfway through.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateDataset checks the startup dataset before loading. A missing or
// unreadable file is a DataLoadError; an unexpected extension only warns
// since exports from spreadsheets are often renamed.
func (v *FileValidator) ValidateDataset(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return apperrors.NewDataLoadError("dataset is not readable", err).
			WithContext("path", path)
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".csv" {
		v.logger.Warn("Dataset does not have a .csv extension",
			slog.String("file", path),
			slog.String("extension", ext))
	}
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
// and is writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewExportError("failed to create output directory", err).
			WithContext("directory", dir)
	}

	probe, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewExportError("output directory is not writable", err).
			WithContext("directory", dir)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateOutputFile checks that path has one of the allowed extensions,
// is not an existing directory and can be created.
func (v *FileValidator) ValidateOutputFile(path string, extensions ...string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if len(extensions) > 0 && !contains(extensions, ext) {
		v.logger.Error("Unexpected output file extension",
			slog.String("file", path),
			slog.String("extension", ext),
			slog.Any("allowed", extensions))
		return apperrors.NewExportError(
			fmt.Sprintf("output file must end in %s", strings.Join(extensions, " or ")), nil).
			WithContext("path", path)
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return apperrors.NewExportError("output path is a directory", nil).
			WithContext("path", path)
	}

	return v.ValidateOutputDirectory(filepath.Dir(path))
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
