package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

const logPrefix = "catalog:loader"

// DefaultPaths are tried after explicit paths and CATALOG_FILE.
var DefaultPaths = []string{"config/catalog.yaml", "catalog.yaml", "config/catalog.json"}

// Load reads the first catalog file that exists. It tries paths in order:
// first any paths passed in, then the CATALOG_FILE env, then DefaultPaths.
// Files that fail to parse are skipped with a warning. When no file is found
// Load returns nil and no error.
func Load(paths ...string) (*File, string, error) {
	all := make([]string, 0, len(paths)+len(DefaultPaths)+1)
	for _, p := range paths {
		if p != "" {
			all = append(all, p)
		}
	}
	if envPath := os.Getenv("CATALOG_FILE"); envPath != "" {
		all = append(all, envPath)
	}
	all = append(all, DefaultPaths...)

	for _, p := range all {
		data, err := os.ReadFile(p)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				slog.Warn(fmt.Sprintf("%s - Failed to read catalog file %s: %v", logPrefix, p, err))
			}
			continue
		}

		file, err := Parse(data)
		if err != nil {
			slog.Warn(fmt.Sprintf("%s - Failed to parse catalog file %s: %v", logPrefix, p, err))
			continue
		}

		slog.Info(fmt.Sprintf("%s - Loaded catalog %q with %d operations from %s", logPrefix, file.Name, len(file.Operations), p))
		return file, p, nil
	}

	slog.Debug(fmt.Sprintf("%s - No catalog file found", logPrefix))
	return nil, "", nil
}

// Parse decodes a YAML or JSON catalog. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return parseJSON(trimmed)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("%s - invalid catalog: %w", logPrefix, err)
	}
	return &file, nil
}

// parseJSON decodes JSON catalogs. Field names match case-insensitively, so
// the yaml keys work unchanged.
func parseJSON(data []byte) (*File, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var file File
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%s - invalid catalog: %w", logPrefix, err)
	}
	return &file, nil
}
