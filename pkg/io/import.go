package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/erwire/pkg/diagram"
	"github.com/matzehuels/erwire/pkg/errors"
)

// Format is a diagram encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported encodings.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML}

var extFormats = map[string]Format{
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".toml": FormatTOML,
}

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extFormats[ext]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported diagram extension %q (want .json, .yaml, .yml or .toml)", ext)
}

// edgeNamespace scopes generated edge ids.
var edgeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/erwire/edge"))

// ReadDiagram decodes a diagram from r in the given format, assigns ids to
// edges that have none and validates the result.
//
// ReadDiagram returns an INVALID_FORMAT error if r cannot be decoded and an
// INVALID_DIAGRAM error (wrapping every problem) if validation fails.
// ReadDiagram does not close r.
func ReadDiagram(r io.Reader, format Format) (*diagram.Diagram, error) {
	var d diagram.Diagram
	if err := decode(r, format, &d); err != nil {
		return nil, err
	}
	AssignEdgeIDs(&d)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ImportDiagram reads the diagram file at path. The format is taken from
// the file extension.
func ImportDiagram(path string) (*diagram.Diagram, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "diagram file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadDiagram(f, format)
}

func decode(r io.Reader, format Format, d *diagram.Diagram) error {
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(d)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(d)
		if err == io.EOF {
			err = nil
		}
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(d)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported diagram format %q", format)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", format)
	}
	return nil
}

// AssignEdgeIDs gives every edge without an id a deterministic one derived
// from its endpoints, anchors and type. Identical edges are told apart by
// their occurrence count.
func AssignEdgeIDs(d *diagram.Diagram) {
	seen := make(map[string]int)
	for i := range d.Edges {
		e := &d.Edges[i]
		if e.ID != "" {
			continue
		}
		key := strings.Join([]string{e.Source, e.Target, e.SourceAnchor, e.TargetAnchor, e.Type}, "|")
		name := key
		if n := seen[key]; n > 0 {
			name += "#" + strconv.Itoa(n)
		}
		seen[key]++
		e.ID = uuid.NewSHA1(edgeNamespace, []byte(name)).String()
	}
}
