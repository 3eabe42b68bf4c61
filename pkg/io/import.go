package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/lineage"
)

// ReadJSON decodes a JSON document from r into a new graph.
//
// Malformed JSON is reported as INVALID_FORMAT. Structural problems keep
// the code of the failing graph operation (DUPLICATE_NODE, NOT_FOUND,
// INVALID_INPUT, INVARIANT_VIOLATION, ...) so callers can use [lerrors.Is].
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*lineage.Graph, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidFormat, err, "decode json")
	}
	return d.Graph()
}

// ReadYAML decodes a YAML document from r into a new graph. It reports
// errors the same way as [ReadJSON]. An empty document yields an empty graph.
func ReadYAML(r io.Reader) (*lineage.Graph, error) {
	var d Document
	if err := yaml.NewDecoder(r).Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidFormat, err, "decode yaml")
	}
	return d.Graph()
}

// ImportJSON reads the JSON file at path. The path is recorded in the
// graph metadata under "source".
func ImportJSON(path string) (*lineage.Graph, error) {
	return importWith(path, ReadJSON)
}

// ImportFile reads the file at path, choosing YAML for ".yaml" and ".yml"
// extensions and JSON otherwise.
func ImportFile(path string) (*lineage.Graph, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return importWith(path, ReadYAML)
	default:
		return importWith(path, ReadJSON)
	}
}

func importWith(path string, read func(io.Reader) (*lineage.Graph, error)) (*lineage.Graph, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, lerrors.Wrap(lerrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	g.Meta()["source"] = path
	return g, nil
}
