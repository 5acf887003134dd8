// Package dataset reads timeline records from YAML, JSON and CSV files.
package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"chronoline/internal/item"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for file extensions with no reader.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// Load reads the dataset at path, choosing the reader by file extension.
func Load(path string) (item.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return item.Dataset{}, fmt.Errorf("error opening dataset: %w", err)
	}
	defer f.Close()

	var ds item.Dataset
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		ds, err = ReadDocument(f)
	case ".csv":
		ds, err = ReadCSV(f)
	default:
		return item.Dataset{}, fmt.Errorf("%s: %w %q", path, ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return item.Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// ReadDocument decodes a YAML or JSON document with people, points and periods lists.
// Unknown fields are rejected so that typos in keys surface instead of being ignored.
func ReadDocument(r io.Reader) (item.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return item.Dataset{}, fmt.Errorf("error reading dataset: %w", err)
	}
	var ds item.Dataset
	if len(bytes.TrimSpace(data)) == 0 {
		return ds, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		return item.Dataset{}, fmt.Errorf("error parsing dataset: %w", err)
	}
	return ds, nil
}

// Save writes ds as a YAML document.
func Save(path string, ds item.Dataset) error {
	data, err := yaml.Marshal(ds)
	if err != nil {
		return fmt.Errorf("marshalling dataset: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing dataset to %s: %w", path, err)
	}
	return nil
}
