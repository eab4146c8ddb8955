package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/codecity/pkg/errors"
)

// WriteJSON encodes in as JSON and writes it to w. The output can be
// re-imported with [ReadJSON].
func WriteJSON(in *Input, w io.Writer) error {
	out := document{
		Separator: in.Separator,
		Entities:  make([]entity, len(in.Entities)),
	}
	for i, e := range in.Entities {
		out.Entities[i] = entity{Name: e.Name, Width: e.Width, Depth: e.Depth, Height: e.Height}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes in to a JSON file at path.
func ExportJSON(in *Input, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(in, f)
}

// WriteDSL writes in using the city format. The output can be re-imported
// with [ReadDSL].
func WriteDSL(in *Input, w io.Writer) error {
	bw := bufio.NewWriter(w)
	if in.Separator != "" {
		fmt.Fprintf(bw, "separator %s\n", strconv.Quote(in.Separator))
	}
	for _, e := range in.Entities {
		fmt.Fprintf(bw, "building %s %d x %d x %d\n", strconv.Quote(e.Name), e.Width, e.Depth, e.Height)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

type tomlDocument struct {
	Separator string       `toml:"separator,omitempty"`
	Entities  []tomlEntity `toml:"entity"`
}

type tomlEntity struct {
	Name   string `toml:"name"`
	Width  uint16 `toml:"width"`
	Depth  uint16 `toml:"depth"`
	Height uint16 `toml:"height"`
}

// WriteTOML writes in as a TOML document of [[entity]] tables. The output
// can be re-imported with [ReadTOML].
func WriteTOML(in *Input, w io.Writer) error {
	out := tomlDocument{
		Separator: in.Separator,
		Entities:  make([]tomlEntity, len(in.Entities)),
	}
	for i, e := range in.Entities {
		out.Entities[i] = tomlEntity{Name: e.Name, Width: e.Width, Depth: e.Depth, Height: e.Height}
	}
	if err := toml.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Export writes in to path, choosing the format by file extension like
// [Import].
func Export(in *Input, path string) error {
	var write func(*Input, io.Writer) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		write = WriteJSON
	case ".toml":
		write = WriteTOML
	case ".city":
		write = WriteDSL
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported output %s (want .json, .toml or .city)", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(in, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
