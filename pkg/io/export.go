package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stepflow/pkg/errors"
	"github.com/matzehuels/stepflow/pkg/process"
)

// WriteRecord encodes a record in the given format and writes it to w.
// The output can be read back with [Read] in the same format.
func WriteRecord(rec process.Record, w io.Writer, f Format) error {
	var err error
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(rec)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(rec)
		if err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(rec)
	default:
		return errors.New(errors.ErrCodeUnsupportedFormat, "unsupported record format %q", f)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return nil
}

// ExportFile writes a record to path in the format named by its extension.
func ExportFile(rec process.Record, path string) error {
	f, err := DetectFormat(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	return WriteRecord(rec, out, f)
}
