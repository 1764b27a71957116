package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stepflow/pkg/errors"
	"github.com/matzehuels/stepflow/pkg/process"
)

// Format is a record serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported record formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML}

// DetectFormat maps a file extension to its record format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupportedFormat,
		"cannot detect record format of %q (want .json, .yaml, .yml or .toml)", path)
}

// ReadJSON decodes a JSON process record from r.
//
// ReadJSON returns an INVALID_INPUT error if the input is not valid JSON or
// does not decode into a record. It does not close r.
func ReadJSON(r io.Reader) (process.Record, error) {
	var rec process.Record
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return process.Record{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json record")
	}
	return rec, nil
}

// ReadYAML decodes a YAML process record from r. An empty document decodes
// to an empty record.
func ReadYAML(r io.Reader) (process.Record, error) {
	var rec process.Record
	if err := yaml.NewDecoder(r).Decode(&rec); err != nil && err != io.EOF {
		return process.Record{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml record")
	}
	return rec, nil
}

// ReadTOML decodes a TOML process record from r. Steps are given as an
// array of tables:
//
//	[[nodes]]
//	id = "received"
//	type = "trigger"
func ReadTOML(r io.Reader) (process.Record, error) {
	var rec process.Record
	if _, err := toml.NewDecoder(r).Decode(&rec); err != nil {
		return process.Record{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml record")
	}
	return rec, nil
}

// Read decodes a record in the given format.
func Read(r io.Reader, f Format) (process.Record, error) {
	switch f {
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	case FormatTOML:
		return ReadTOML(r)
	}
	return process.Record{}, errors.New(errors.ErrCodeUnsupportedFormat, "unsupported record format %q", f)
}

// ImportFile reads the record at path, choosing the decoder from the file
// extension. A missing file is reported as NOT_FOUND.
//
// For JSON files the raw bytes are also checked against the record schema
// and any violations are returned as diagnostics.
func ImportFile(path string) (process.Record, process.Diagnostics, error) {
	f, err := DetectFormat(path)
	if err != nil {
		return process.Record{}, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return process.Record{}, nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
		}
		return process.Record{}, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(data, f)
}

// Decode decodes raw bytes in the given format. JSON input is validated
// against the record schema first.
func Decode(data []byte, f Format) (process.Record, process.Diagnostics, error) {
	var diags process.Diagnostics
	if f == FormatJSON {
		d, err := Validate(data)
		if err != nil {
			return process.Record{}, nil, err
		}
		diags = d
	}
	rec, err := Read(bytes.NewReader(data), f)
	if err != nil {
		return process.Record{}, diags, err
	}
	return rec, diags, nil
}
