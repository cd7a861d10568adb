// Package io provides JSON import and export of the parsed diagram model.
//
// # Overview
//
// The DSL is the primary input format, but the parsed [diagram.Diagram] is
// also exchanged as JSON:
//
//   - `seqdraw parse` prints it for external tools
//   - the HTTP service returns it from POST /parse
//   - `seqdraw render` accepts it in place of DSL text
//
// # JSON Format
//
//	{
//	  "title": "Login",
//	  "participants": [
//	    {"id": "U", "label": "User", "color": "#4e79a7", "color_index": 0},
//	    {"id": "API"}
//	  ],
//	  "messages": [
//	    {"index": 1, "from": "U", "to": "API", "style": "solid", "arrow": "->>", "text": "login"},
//	    {"from": "API", "to": "U", "style": "dashed", "text": "token", "step": 2}
//	  ]
//	}
//
// Required: participants[].id, messages[].from, messages[].to and
// messages[].style ("solid" or "dashed"). Everything else is optional and
// filled in on import.
//
// # Import
//
// Use [ImportJSON] to read a diagram from a file path, or [ReadJSON] to read
// from any io.Reader:
//
//	d, err := io.ImportJSON("login.json")
//
// Documents are validated against [DiagramSchema] (JSON Schema draft
// 2020-12) and then checked for duplicate participant ids and dangling
// message endpoints.
//
// # Export
//
// Use [ExportJSON] to write a diagram to a file, or [WriteJSON] to write to
// any io.Writer. Export followed by import yields an identical diagram.
//
// # Layout Export
//
// This package exports the logical model only. For computed positions, use
// the JSON sink in [render/sequence/sink].
//
// [diagram.Diagram]: github.com/matzehuels/seqdraw/pkg/diagram.Diagram
// [render/sequence/sink]: github.com/matzehuels/seqdraw/pkg/render/sequence/sink
package io
