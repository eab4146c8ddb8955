package io

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/codecity/pkg/city"
	"github.com/matzehuels/codecity/pkg/errors"
)

type document struct {
	Separator string   `json:"separator,omitempty" toml:"separator"`
	Entities  []entity `json:"entities" toml:"entity"`
}

type entity struct {
	Name   string `json:"name" toml:"name"`
	Width  uint16 `json:"width,omitempty" toml:"width"`
	Depth  uint16 `json:"depth,omitempty" toml:"depth"`
	Height uint16 `json:"height,omitempty" toml:"height"`

	Methods  *int `json:"methods,omitempty" toml:"methods"`
	Fields   *int `json:"fields,omitempty" toml:"fields"`
	CodeSize *int `json:"code_size,omitempty" toml:"code_size"`
}

func (e entity) metrics() city.Metrics {
	if e.Methods == nil && e.Fields == nil && e.CodeSize == nil {
		return city.Metrics{Width: e.Width, Depth: e.Depth, Height: e.Height}
	}
	deref := func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	}
	return city.MetricsFromCounts(deref(e.Methods), deref(e.Fields), deref(e.CodeSize))
}

func (d document) input(o readOptions) (*Input, error) {
	in := &Input{
		Separator: cmp.Or(d.Separator, o.separator),
		Entities:  make([]city.Entity, len(d.Entities)),
	}
	for i, e := range d.Entities {
		in.Entities[i] = city.Entity{Name: e.Name, Metrics: e.metrics()}
	}
	if err := in.Normalize(); err != nil {
		return nil, err
	}
	return in, nil
}

// ReadJSON decodes a JSON entity list from r.
//
// The input must be an object with an "entities" array. Unknown fields are
// rejected so that typos in size keys do not silently produce 1x1 buildings.
func ReadJSON(r io.Reader, opts ...Option) (*Input, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	return doc.input(newReadOptions(opts))
}

// ImportJSON reads a JSON entity list from a file at path.
func ImportJSON(path string, opts ...Option) (*Input, error) {
	return importFile(path, ReadJSON, opts)
}

// ReadTOML decodes a TOML entity list from r. Entities are [[entity]]
// tables.
func ReadTOML(r io.Reader, opts ...Option) (*Input, error) {
	var doc document
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown toml key %q", undecoded[0].String())
	}
	return doc.input(newReadOptions(opts))
}

// ImportTOML reads a TOML entity list from a file at path.
func ImportTOML(path string, opts ...Option) (*Input, error) {
	return importFile(path, ReadTOML, opts)
}

// ImportDSL reads a city-format entity list from a file at path.
func ImportDSL(path string, opts ...Option) (*Input, error) {
	return importFile(path, ReadDSL, opts)
}

// Import reads an entity list, choosing the format by file extension.
func Import(path string, opts ...Option) (*Input, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ImportJSON(path, opts...)
	case ".toml":
		return ImportTOML(path, opts...)
	case ".city":
		return ImportDSL(path, opts...)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported input %s (want .json, .toml or .city)", path)
	}
}

func importFile(path string, read func(io.Reader, ...Option) (*Input, error), opts []Option) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	in, err := read(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}
