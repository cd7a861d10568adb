package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seqdraw/pkg/cache"
	"github.com/matzehuels/seqdraw/pkg/diagram"
	seqio "github.com/matzehuels/seqdraw/pkg/io"
	"github.com/matzehuels/seqdraw/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeDiagram  = "diagram"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Parse
	parseStart := time.Now()
	d, parseHit, err := r.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Diagram = d
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.Participants = len(d.Participants)
	result.Stats.Messages = len(d.Messages)
	result.CacheInfo.ParseHit = parseHit

	opts.Logger.Debug("parsed diagram",
		"participants", result.Stats.Participants,
		"messages", result.Stats.Messages,
		"cached", parseHit,
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	geom, err := r.Layout(ctx, d, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Geometry = geom
	result.Stats.LayoutTime = time.Since(layoutStart)

	opts.Logger.Debug("computed layout",
		"viz", opts.VizType,
		"width", geom.Sequence.Width,
		"height", geom.Sequence.Height,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, hash, renderHit, err := r.render(ctx, d, geom, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.DiagramHash = hash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ParseWithCacheInfo parses opts.Source with caching and returns cache hit info.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) (d *diagram.Diagram, hit bool, err error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, opts.Input, len(opts.Source))
	start := time.Now()
	defer func() {
		var np, nm int
		if d != nil {
			np, nm = len(d.Participants), len(d.Messages)
		}
		hooks.OnParseComplete(ctx, opts.Input, np, nm, time.Since(start), err)
	}()

	cacheKey := r.Keyer.DiagramKey(cache.Hash([]byte(opts.Input + "\x00" + opts.Source)))

	if !opts.Refresh {
		if cached, ok := r.cachedDiagram(ctx, cacheKey); ok {
			return cached, true, nil
		}
	}

	d, err = Parse(opts)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := seqio.WriteJSON(d, &buf); err == nil {
		r.store(ctx, keyTypeDiagram, cacheKey, buf.Bytes(), cache.TTLDiagram, opts)
	}
	return d, false, nil
}

// Parse is a convenience wrapper that calls ParseWithCacheInfo and discards the cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) (*diagram.Diagram, error) {
	d, _, err := r.ParseWithCacheInfo(ctx, opts)
	return d, err
}

// cachedDiagram decodes a cached model. An entry that no longer validates
// is treated as a miss.
func (r *Runner) cachedDiagram(ctx context.Context, key string) (*diagram.Diagram, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeDiagram)
		if err != nil {
			r.Logger.Warn("cache read failed", "key", key, "err", err)
		}
		return nil, false
	}
	d, err := seqio.ReadJSON(bytes.NewReader(data))
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, keyTypeDiagram)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeDiagram)
	return d, true
}

// Layout computes geometry and reports it to the pipeline hooks.
func (r *Runner) Layout(ctx context.Context, d *diagram.Diagram, opts Options) (g Geometry, err error) {
	if err := opts.ValidateForLayout(); err != nil {
		return Geometry{}, err
	}
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.VizType, len(d.Messages))
	start := time.Now()
	defer func() { hooks.OnLayoutComplete(ctx, opts.VizType, time.Since(start), err) }()

	return Layout(d, opts)
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d *diagram.Diagram, g Geometry, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	artifacts, _, hit, err := r.render(ctx, d, g, opts)
	return artifacts, hit, err
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, d *diagram.Diagram, g Geometry, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, d, g, opts)
	return artifacts, err
}

func (r *Runner) render(ctx context.Context, d *diagram.Diagram, g Geometry, opts Options) (artifacts map[string][]byte, hash string, hit bool, err error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	hash, err = modelHash(d)
	if err != nil {
		return nil, "", false, fmt.Errorf("hash diagram: %w", err)
	}

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts = make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, ok, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format)))
			if err != nil || !ok {
				observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
				break
			}
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, hash, true, nil
		}
	}

	artifacts, err = Render(ctx, d, g, opts)
	if err != nil {
		return nil, hash, false, err
	}
	for format, data := range artifacts {
		r.store(ctx, keyTypeArtifact, r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact, opts)
	}
	return artifacts, hash, false, nil
}

// store writes to the cache. Cache failures are logged, never returned:
// a broken cache degrades to recomputation.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration, opts Options) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		opts.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set
// or if validation installed the discard logger.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil || opts.Logger == discard {
		opts.Logger = r.Logger
	}
}
