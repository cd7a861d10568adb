// Package config persists seqdraw preferences.
//
// A config file holds the style toggles, layout metrics and render defaults
// that every command starts from, plus the preview service settings. Files
// are TOML by default; a .yaml or .yml extension selects YAML.
//
// Precedence, lowest first: [Default], the config file, then explicit
// overrides applied with [Config.Set] (CLI flags, `seqdraw config set`,
// and query parameters of the preview service all end up there).
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/seqdraw/pkg/errors"
	"github.com/matzehuels/seqdraw/pkg/pipeline"
	"github.com/matzehuels/seqdraw/pkg/render/sequence/layout"
	"github.com/matzehuels/seqdraw/pkg/render/sequence/styles"
)

// Config is the persisted preference set.
type Config struct {
	Style   styles.Options `json:"style" toml:"style" yaml:"style" mapstructure:"style"`
	Metrics layout.Metrics `json:"metrics" toml:"metrics" yaml:"metrics" mapstructure:"metrics"`
	Render  Render         `json:"render" toml:"render" yaml:"render" mapstructure:"render"`
	Server  Server         `json:"server" toml:"server" yaml:"server" mapstructure:"server"`
}

// Render holds output defaults.
type Render struct {
	VizType     string   `json:"viz_type" toml:"viz_type" yaml:"viz_type" mapstructure:"viz_type"`
	Formats     []string `json:"formats" toml:"formats" yaml:"formats" mapstructure:"formats"`
	Scale       float64  `json:"scale" toml:"scale" yaml:"scale" mapstructure:"scale"`
	Interactive bool     `json:"interactive" toml:"interactive" yaml:"interactive" mapstructure:"interactive"`
}

// Server holds preview service settings. Empty URLs select in-memory backends.
type Server struct {
	Addr          string `json:"addr" toml:"addr" yaml:"addr" mapstructure:"addr"`
	RedisURL      string `json:"redis_url" toml:"redis_url" yaml:"redis_url" mapstructure:"redis_url"`
	MongoURI      string `json:"mongo_uri" toml:"mongo_uri" yaml:"mongo_uri" mapstructure:"mongo_uri"`
	MongoDatabase string `json:"mongo_database" toml:"mongo_database" yaml:"mongo_database" mapstructure:"mongo_database"`
}

// Default returns the built-in preferences.
func Default() Config {
	return Config{
		Style:   styles.DefaultOptions(),
		Metrics: layout.DefaultMetrics(),
		Render: Render{
			VizType: pipeline.DefaultVizType,
			Formats: []string{pipeline.FormatSVG},
			Scale:   pipeline.DefaultScale,
		},
		Server: Server{
			Addr:          ":8080",
			MongoDatabase: "seqdraw",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/seqdraw/config.toml (or the OS equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "seqdraw", "config.toml"), nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Load reads path on top of [Default]. A missing file is not an error.
// Unknown keys are rejected so that typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	if isYAML(path) {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	} else {
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q in %s", undecoded[0].String(), path)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if isYAML(path) {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return err
		}
	} else if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Validate checks metrics, the dash pattern and the render defaults.
func (c Config) Validate() error {
	if err := c.Style.Validate(); err != nil {
		return errors.New(errors.ErrCodeInvalidDashPattern, "%s", err.Error())
	}
	if err := c.Metrics.Validate(); err != nil {
		return errors.New(errors.ErrCodeInvalidMetrics, "%s", err.Error())
	}
	viz := c.Render.VizType
	if viz == "" {
		viz = pipeline.DefaultVizType
	}
	if err := pipeline.ValidateFormats(viz, c.Render.Formats); err != nil {
		return err
	}
	if c.Render.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.scale must not be negative")
	}
	return nil
}

// Set assigns one dotted key, e.g. "style.line_coloring" = "false".
// Values are converted to the field type; lists are comma separated.
func (c *Config) Set(key, value string) error {
	return c.SetAll(map[string]string{key: value})
}

// SetAll assigns several dotted keys at once and validates the result.
// On error c is left unchanged.
func (c *Config) SetAll(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	known := Keys()
	nested := map[string]any{}
	for key, value := range values {
		if !slices.Contains(known, key) {
			return errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", key)
		}
		section, field, _ := strings.Cut(key, ".")
		m, _ := nested[section].(map[string]any)
		if m == nil {
			m = map[string]any{}
			nested[section] = m
		}
		m[field] = value
	}

	next := *c
	next.Render.Formats = slices.Clone(c.Render.Formats)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &next,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(nested); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config value")
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Flatten returns every setting as dotted key → display value.
func (c Config) Flatten() map[string]string {
	data, _ := json.Marshal(c)
	var sections map[string]map[string]any
	_ = json.Unmarshal(data, &sections)

	out := make(map[string]string)
	for section, fields := range sections {
		for field, v := range fields {
			out[section+"."+field] = display(v)
		}
	}
	return out
}

// Get returns the display value of one dotted key.
func (c Config) Get(key string) (string, error) {
	v, ok := c.Flatten()[key]
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", key)
	}
	return v, nil
}

// Keys lists every settable dotted key in sorted order.
func Keys() []string {
	flat := Default().Flatten()
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func display(v any) string {
	switch v := v.(type) {
	case []any:
		parts := make([]string, len(v))
		for i, p := range v {
			parts[i] = fmt.Sprint(p)
		}
		return strings.Join(parts, ",")
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// PipelineOptions returns the render options this config describes.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		VizType:     c.Render.VizType,
		Style:       c.Style,
		Metrics:     c.Metrics,
		Formats:     slices.Clone(c.Render.Formats),
		Scale:       c.Render.Scale,
		Interactive: c.Render.Interactive,
	}
}
