// Package pkg provides the core libraries for seqdraw sequence diagrams.
//
// # Overview
//
// seqdraw turns a small line-oriented text language into sequence diagrams:
// participants become vertical lifelines and messages become numbered
// horizontal arrows between them. The pkg directory is organized into:
//
//  1. [diagram] - The model (participants, messages, arrow styles)
//  2. [dsl] - Text language parsing and formatting
//  3. [io] - JSON import/export of the model
//  4. [render] - Layout and output (SVG, PNG, PDF, DOT)
//  5. [pipeline] - Orchestration (parse → layout → render) with caching
//  6. [cache], [store], [config], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	DSL text or JSON
//	         ↓
//	    [dsl] / [io] (parse into a diagram.Diagram)
//	         ↓
//	    [render/sequence/layout] (columns, rows, arrows, labels)
//	         ↓
//	    [render/sequence/sink] or [render/nodelink]
//	         ↓
//	    SVG/PNG/PDF/JSON/DSL/DOT output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/seqdraw/pkg/cache"
//	    "github.com/matzehuels/seqdraw/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	defer runner.Close()
//
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "Alice->Bob: hello\nBob-->Alice: hi",
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := res.Artifacts[pipeline.FormatSVG]
//
// The lower-level packages can be used directly when no caching is needed:
//
//	d := dsl.Parse(src)
//	l, svg := sequence.Render(d, styles.DefaultOptions(), layout.DefaultMetrics())
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/seqdraw/pkg/diagram
// [dsl]: https://pkg.go.dev/github.com/matzehuels/seqdraw/pkg/dsl
// [io]: https://pkg.go.dev/github.com/matzehuels/seqdraw/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/seqdraw/pkg/render
// [render/sequence/layout]: https://pkg.go.dev/github.com/matzehuels/seqdraw/pkg/render/sequence/layout
// [render/sequence/sink]: https://pkg.go.dev/github.com/matzehuels/seqdraw/pkg/render/sequence/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/seqdraw/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/seqdraw/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/seqdraw/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/seqdraw/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/seqdraw/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/seqdraw/pkg/observability
package pkg
