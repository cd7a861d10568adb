// Package pipeline provides the parse → layout → render pipeline for seqdraw.
//
// The CLI, the watch loop and the preview service all go through this
// package so that they validate options, apply defaults and cache artifacts
// in exactly the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: DSL text (or a JSON model) into a [diagram.Diagram]
//  2. Layout: positioned geometry for the sequence view, or a DOT graph
//     for the node-link overview
//  3. Render: output in the requested formats (SVG, JSON, PNG, PDF, DSL, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  src,
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	d, err := runner.Parse(ctx, opts)
//	geom, err := pipeline.Layout(d, opts)
//	artifacts, err := runner.Render(ctx, d, geom, opts)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seqdraw/pkg/cache"
	"github.com/matzehuels/seqdraw/pkg/diagram"
	"github.com/matzehuels/seqdraw/pkg/errors"
	"github.com/matzehuels/seqdraw/pkg/render/sequence/layout"
	"github.com/matzehuels/seqdraw/pkg/render/sequence/styles"
)

// Input kinds.
const (
	InputDSL  = "dsl"
	InputJSON = "json"
)

// Visualization types.
const (
	VizTypeSequence = "sequence"
	VizTypeNodelink = "nodelink"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDSL  = "dsl"
	FormatDOT  = "dot"
)

const (
	// DefaultVizType is the default visualization type.
	DefaultVizType = VizTypeSequence

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 2.0
)

// formatsByViz lists the formats each visualization can produce.
var formatsByViz = map[string][]string{
	VizTypeSequence: {FormatSVG, FormatJSON, FormatPNG, FormatPDF, FormatDSL},
	VizTypeNodelink: {FormatSVG, FormatPNG, FormatPDF, FormatDOT},
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Source  string `json:"source"`
	Input   string `json:"input,omitempty"` // "dsl" (default) or "json"
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options
	VizType string         `json:"viz_type,omitempty"`
	Style   styles.Options `json:"style"`
	Metrics layout.Metrics `json:"metrics"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Highlight   int      `json:"highlight,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	Transparent bool     `json:"transparent,omitempty"`
	Detailed    bool     `json:"detailed,omitempty"` // nodelink: message text on edges
	Collapse    bool     `json:"collapse,omitempty"` // nodelink: one edge per participant pair

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram is the parsed model.
	Diagram *diagram.Diagram

	// DiagramHash is the content hash of the model's JSON form.
	DiagramHash string

	// Geometry is the computed layout.
	Geometry Geometry

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Participants int
	Messages     int
	ParseTime    time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	ParseHit  bool
	RenderHit bool // every requested artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if _, ok := formatsByViz[vizType]; !ok {
		return errors.New(errors.ErrCodeInvalidVizType, "invalid viz_type: %q (must be one of: sequence, nodelink)", vizType)
	}
	return nil
}

// ValidateFormat checks that vizType can produce format.
func ValidateFormat(vizType, format string) error {
	allowed, ok := formatsByViz[vizType]
	if !ok {
		return ValidateVizType(vizType)
	}
	if !slices.Contains(allowed, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format for %s: %q (must be one of: %s)", vizType, format, strings.Join(allowed, ", "))
	}
	return nil
}

// ValidateFormats checks every format against vizType.
func ValidateFormats(vizType string, formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(vizType, f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks the input and sets parse defaults.
func (o *Options) ValidateForParse() error {
	if o.Input == "" {
		o.Input = InputDSL
	}
	if o.Input != InputDSL && o.Input != InputJSON {
		return errors.New(errors.ErrCodeInvalidInput, "invalid input kind: %q (must be dsl or json)", o.Input)
	}
	if err := errors.ValidateSourceSize(o.Source); err != nil {
		return err
	}
	o.setLogger()
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
// Style toggles are left alone: a zero Options means every toggle is off.
func (o *Options) SetLayoutDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	o.Style = o.Style.WithDefaults()
	o.Metrics = o.Metrics.WithDefaults()
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout computation.
// Metrics are validated before defaults replace invalid values.
func (o *Options) ValidateForLayout() error {
	if err := o.Metrics.Validate(); err != nil {
		return errors.New(errors.ErrCodeInvalidMetrics, "%s", err.Error())
	}
	if err := o.Style.Validate(); err != nil {
		return errors.New(errors.ErrCodeInvalidDashPattern, "%s", err.Error())
	}
	o.SetLayoutDefaults()
	return ValidateVizType(o.VizType)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if o.Highlight < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "highlight must be a positive step index, got %d", o.Highlight)
	}
	return ValidateFormats(o.VizType, o.Formats)
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == VizTypeNodelink
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:  format,
		VizType: o.VizType,
		Style:   o.Style,
		Metrics: o.Metrics,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	if format == FormatSVG || format == FormatPNG || format == FormatPDF {
		k.Highlight = o.Highlight
		k.Interactive = o.Interactive
		k.Transparent = o.Transparent
	}
	if o.IsNodelink() {
		k.Detailed = o.Detailed
		k.Collapse = o.Collapse
	}
	return k
}

var discard = log.NewWithOptions(io.Discard, log.Options{})

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = discard
	}
}
