package cache

import (
	"github.com/matzehuels/seqdraw/pkg/render/sequence/layout"
	"github.com/matzehuels/seqdraw/pkg/render/sequence/styles"
)

// Keyer derives cache keys. Implementations must be deterministic: equal
// inputs give equal keys, and any input that changes the output changes the key.
type Keyer interface {
	// DiagramKey addresses the parsed model of a source text.
	DiagramKey(sourceHash string) string

	// ArtifactKey addresses one rendered output of a parsed model.
	ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds every input besides the diagram that affects an artifact.
type ArtifactKeyOpts struct {
	Format      string         `json:"format"`
	VizType     string         `json:"viz_type"`
	Style       styles.Options `json:"style"`
	Metrics     layout.Metrics `json:"metrics"`
	Scale       float64        `json:"scale,omitempty"`
	Highlight   int            `json:"highlight,omitempty"`
	Interactive bool           `json:"interactive,omitempty"`
	Transparent bool           `json:"transparent,omitempty"`
	Detailed    bool           `json:"detailed,omitempty"`
	Collapse    bool           `json:"collapse,omitempty"`
}

// DefaultKeyer hashes its inputs into "diagram:<sha>" and "artifact:<sha>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DiagramKey implements Keyer.
func (DefaultKeyer) DiagramKey(sourceHash string) string {
	return hashKey("diagram", sourceHash)
}

// ArtifactKey implements Keyer. Style and metrics are normalized first so
// that an omitted value and its explicit default share one entry.
func (DefaultKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	opts.Style = opts.Style.WithDefaults()
	opts.Metrics = opts.Metrics.WithDefaults()
	return hashKey("artifact", diagramHash, opts)
}

var _ Keyer = DefaultKeyer{}
