// Package fixture loads seed documents into the in-memory store. A fixture
// document is a memory.Snapshot written as JSON or YAML.
package fixture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"limsmock/internal/infra/persistence/memory"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Format is a fixture document encoding.
type Format string

const (
	// FormatJSON is the default encoding.
	FormatJSON Format = "json"
	// FormatYAML is accepted for hand-written fixtures.
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from a file name or blob key.
func FormatFor(key string) Format {
	switch strings.ToLower(path.Ext(key)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ContentType returns the MIME type used when storing f.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Decode reads one fixture document. YAML is converted to JSON first so
// both encodings share the entity JSON mapping.
func Decode(r io.Reader, f Format) (memory.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return memory.Snapshot{}, errors.Wrap(err, "read fixture")
	}
	if f == FormatYAML {
		if data, err = yamlToJSON(data); err != nil {
			return memory.Snapshot{}, err
		}
	}
	var snap memory.Snapshot
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return memory.Snapshot{}, errors.WithHint(
			errors.Wrapf(err, "decode %s fixture", f),
			"top-level keys are reagent_labels, projects, researchers, process_types, container_types, processes, artifacts, samples and containers")
	}
	return snap, nil
}

// Encode writes snap in format f.
func Encode(w io.Writer, snap memory.Snapshot, f Format) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode fixture")
	}
	if f == FormatYAML {
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return errors.Wrap(err, "encode fixture")
		}
		if data, err = yaml.Marshal(doc); err != nil {
			return errors.Wrap(err, "encode yaml fixture")
		}
	}
	_, err = w.Write(data)
	return err
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse yaml fixture")
	}
	if doc == nil {
		return []byte("{}"), nil
	}
	out, err := json.Marshal(normalize(doc))
	if err != nil {
		return nil, errors.Wrap(err, "convert yaml fixture")
	}
	return out, nil
}

// normalize turns yaml maps with non-string keys into JSON-compatible maps.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}
