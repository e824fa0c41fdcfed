// Package exporter serializes a Dataset to its output formats:
// delimited text, a single-sheet spreadsheet, or a JSON array of row
// objects. Every save is atomic: content is written to a temp file in
// the destination directory and renamed into place, so a failed save
// never leaves a partial file behind.
package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tabproc/internal/dataset"
	apperrors "tabproc/internal/errors"
)

// Format identifies an output serialization.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// ResolveFormat maps an explicit format name, or the output path's
// extension when the name is empty, onto a Format. Unknown names and
// extensions fail with an UNSUPPORTED_FORMAT error.
func ResolveFormat(path, explicit string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(explicit))
	if name == "" {
		name = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	switch name {
	case "csv", "txt":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "json":
		return FormatJSON, nil
	}
	return "", apperrors.NewUnsupportedFormatError(name)
}

// SaveOptions configures serialization.
type SaveOptions struct {
	Format    Format
	Delimiter rune // delimited output field separator, ',' when zero
}

// Save writes the Dataset to path and returns the final file size in
// bytes. I/O failures surface as WRITE errors and leave no partial
// output.
func Save(d *dataset.Dataset, path string, opts SaveOptions) (int64, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}

	var write func(f *os.File) error
	switch opts.Format {
	case FormatCSV:
		write = func(f *os.File) error { return writeCSV(f, d, opts.Delimiter) }
	case FormatXLSX:
		write = func(f *os.File) error { return writeXLSX(f, d) }
	case FormatJSON:
		write = func(f *os.File) error { return writeJSON(f, d) }
	default:
		return 0, apperrors.NewUnsupportedFormatError(string(opts.Format))
	}

	size, err := atomicWrite(path, write)
	if err != nil {
		return 0, err
	}

	slog.Debug("dataset saved",
		slog.String("path", path),
		slog.String("format", string(opts.Format)),
		slog.Int64("size_bytes", size))

	return size, nil
}

// atomicWrite runs write against a temp file in path's directory and
// renames it into place on success. The temp file is removed on any
// failure.
func atomicWrite(path string, write func(f *os.File) error) (int64, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tabproc-*.tmp")
	if err != nil {
		return 0, apperrors.NewWriteError(fmt.Sprintf("cannot create temp file in %s", dir), err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if err := write(tmp); err != nil {
		cleanup()
		return 0, apperrors.NewWriteError(fmt.Sprintf("failed to write %s", path), err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return 0, apperrors.NewWriteError(fmt.Sprintf("failed to flush %s", path), err)
	}
	info, err := tmp.Stat()
	if err != nil {
		cleanup()
		return 0, apperrors.NewWriteError(fmt.Sprintf("failed to stat %s", path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, apperrors.NewWriteError(fmt.Sprintf("failed to close %s", path), err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return 0, apperrors.NewWriteError(fmt.Sprintf("failed to move output into place at %s", path), err)
	}
	return info.Size(), nil
}
