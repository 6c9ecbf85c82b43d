// Package converter translates routines between the legacy CSV command-line
// format and the flow document model, in both directions.
package converter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/salem909/auton-maple/pkg/models"
)

// ErrMalformedNumber indicates a numeric CSV field that failed to parse.
// Unlike unknown symbols or stray command rows, which are dropped, a bad
// numeric literal is fatal: silently defaulting it would move the bot to the
// wrong place.
var ErrMalformedNumber = errors.New("malformed numeric field")

// ParseError reports a fatal CSV parse failure with its location.
type ParseError struct {
	Path  string // Source file, empty for in-memory input
	Line  int    // 1-based row number
	Field string // Offending field name
	Err   error  // Underlying error
}

func (e *ParseError) Error() string {
	where := fmt.Sprintf("line %d", e.Line)
	if e.Path != "" {
		where = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}

	return fmt.Sprintf("%s: field %q: %v", where, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CSVToJSON converts a legacy CSV routine file into the flow document model,
// optionally persisting the result as JSON. Metadata is stamped from the
// source file name.
func CSVToJSON(csvPath, outputPath string) (*models.Routine, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open routine csv: %w", err)
	}
	defer f.Close()

	base := filepath.Base(csvPath)
	now := time.Now().UTC().Format(time.RFC3339)
	metadata := models.Metadata{
		Name:        strings.TrimSuffix(base, filepath.Ext(base)),
		Description: "Converted from " + base,
		Author:      "AutoMaple",
		Version:     "1.0",
		Created:     now,
		Modified:    now,
	}

	routine, err := ParseCSV(f, metadata)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Path = csvPath
		}

		return nil, err
	}

	if outputPath != "" {
		if err := routine.Save(outputPath); err != nil {
			return nil, err
		}
	}

	return routine, nil
}

// JSONToCSV converts a routine document back to the legacy CSV format,
// optionally persisting it, and returns the CSV text.
func JSONToCSV(jsonPath, outputPath string) (string, error) {
	routine, err := models.Load(jsonPath)
	if err != nil {
		return "", err
	}

	content := ToCSV(routine)

	if outputPath != "" {
		if err := writeFileAtomic(outputPath, []byte(content)); err != nil {
			return "", fmt.Errorf("write routine csv %s: %w", outputPath, err)
		}
	}

	return content, nil
}

// writeFileAtomic writes via a temporary sibling and rename, so a failure
// partway through never leaves a truncated file mistaken for a routine.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".convert-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return err
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())

		return err
	}

	return nil
}
