package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/seqdraw/pkg/errors"
	"github.com/matzehuels/seqdraw/pkg/pipeline"
)

func readString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestRenderCommandBatch(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.seq", loginSource)
	b := writeFile(t, dir, "b.seq", "X->>Y: ping\nY-->>X: pong")
	out := filepath.Join(dir, "out")

	stdout, err := execute(t, "render", a, b, "-o", out, "-f", "svg,dsl", "--no-cache")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}

	for _, name := range []string{"a.svg", "b.svg"} {
		if svg := readString(t, filepath.Join(out, name)); !strings.HasPrefix(svg, "<svg") {
			t.Errorf("%s does not start with <svg: %.40q", name, svg)
		}
	}
	if got := readString(t, filepath.Join(out, "b.seq")); !strings.Contains(got, "Y -->> X: pong") {
		t.Errorf("b.seq = %q", got)
	}
	if !strings.Contains(stdout, "Rendered "+a) || !strings.Contains(stdout, "Rendered "+b) {
		t.Errorf("status output missing inputs:\n%s", stdout)
	}
}

func TestRenderCommandSingleOutputFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "login.seq", loginSource)
	target := filepath.Join(dir, "diagram.svg")

	if _, err := execute(t, "render", in, "-o", target, "--set", "style.dash_pattern=dotted"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	svg := readString(t, target)
	if !strings.Contains(svg, `stroke-dasharray="1 4"`) {
		t.Error("--set style.dash_pattern=dotted not applied to lifelines")
	}
	if !strings.Contains(svg, ">Login</text>") {
		t.Error("title missing from SVG")
	}
}

func TestRenderCommandNodelinkDOT(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "login.seq", loginSource)

	if _, err := execute(t, "render", in, "--viz", "nodelink", "-f", "dot", "--no-cache"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	dot := readString(t, filepath.Join(dir, "login_nodelink.dot"))
	if !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("DOT output = %.40q", dot)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "login.seq", loginSource)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown format", []string{"render", in, "-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"format not valid for viz", []string{"render", in, "--viz", "nodelink", "-f", "json"}, errors.ErrCodeInvalidFormat},
		{"unknown viz", []string{"render", in, "--viz", "gantt"}, errors.ErrCodeInvalidVizType},
		{"unknown config key", []string{"render", in, "--set", "style.glitter=1"}, errors.ErrCodeInvalidConfig},
		{"bad metrics", []string{"render", in, "--set", "metrics.row_height=-5"}, errors.ErrCodeInvalidMetrics},
		{"overwrite input", []string{"render", in, "-f", "dsl"}, errors.ErrCodeInvalidPath},
		{"missing input", []string{"render", filepath.Join(dir, "nope.seq"), "--no-cache"}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestPlanOutputs(t *testing.T) {
	out := t.TempDir()

	plan, err := planOutputs([]string{"flows/login.seq", "flows/logout.seq"}, pipeline.VizTypeSequence, []string{"svg", "png"}, out)
	if err != nil {
		t.Fatal(err)
	}
	if got := plan["flows/login.seq"]["png"]; got != filepath.Join(out, "login.png") {
		t.Errorf("login png -> %q", got)
	}

	plan, err = planOutputs([]string{"flows/login.seq"}, pipeline.VizTypeSequence, []string{"svg"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if got := plan["flows/login.seq"]["svg"]; got != filepath.Join("flows", "login.svg") {
		t.Errorf("next to input -> %q", got)
	}

	if _, err := planOutputs([]string{"a/x.seq", "b/x.seq"}, pipeline.VizTypeSequence, []string{"svg"}, out); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("colliding outputs error = %v", err)
	}
	if _, err := planOutputs([]string{"x.seq", "x.seq"}, pipeline.VizTypeSequence, []string{"svg"}, out); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("duplicate input error = %v", err)
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		input, viz, format, want string
	}{
		{"flows/login.seq", pipeline.VizTypeSequence, "svg", "login.svg"},
		{"login.mmd", pipeline.VizTypeSequence, "dsl", "login.seq"},
		{"login", pipeline.VizTypeNodelink, "dot", "login_nodelink.dot"},
		{"-", pipeline.VizTypeSequence, "json", "diagram.json"},
		{"archive.v2.seq", pipeline.VizTypeSequence, "pdf", "archive.v2.pdf"},
	}
	for _, tt := range tests {
		if got := outputName(tt.input, tt.viz, tt.format); got != tt.want {
			t.Errorf("outputName(%q, %q, %q) = %q, want %q", tt.input, tt.viz, tt.format, got, tt.want)
		}
	}
}
