// Package io reads and writes process records in JSON, YAML and TOML.
//
// # Overview
//
// A process record is an ordered list of steps plus an optional list of
// transitions:
//
//	{
//	  "name": "Invoice approval",
//	  "nodes": [
//	    {"id": "received", "type": "trigger", "title": "Invoice received"},
//	    {"id": "check", "type": "decision", "title": "Amount over limit?"},
//	    {"id": "approve", "title": "Manager approval", "gap": "no deputy"},
//	    {"id": "pay", "type": "end"}
//	  ],
//	  "edges": [
//	    {"source": "received", "target": "check"},
//	    {"source": "check", "target": "approve", "condition": "yes"},
//	    {"source": "check", "target": "pay", "condition": "no"},
//	    {"source": "approve", "target": "pay"}
//	  ]
//	}
//
// When "edges" is omitted the steps are chained in input order. An empty
// "edges" array means the steps are deliberately unconnected.
//
// # Formats
//
// [ReadJSON], [ReadYAML] and [ReadTOML] decode a record from a reader.
// [ImportFile] picks the decoder from the file extension (.json, .yaml,
// .yml, .toml). [WriteRecord] and [ExportFile] do the reverse.
//
// Decoding fails only when the bytes are not a process record at all.
// Anything inside a well-formed record that the layout engine cannot use
// (unknown statuses, dangling edges, duplicate ids) is left for
// [github.com/matzehuels/stepflow/pkg/process.Adapt] to repair and report.
//
// # Schema Validation
//
// [Validate] checks raw JSON against the record schema and turns every
// violation into a SCHEMA_VIOLATION warning diagnostic. Violations never
// prevent a layout.
package io
