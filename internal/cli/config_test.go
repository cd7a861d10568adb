package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigSetGetList(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	run := func(args ...string) string {
		t.Helper()
		out := captureOutput(t)
		root := New(io.Discard, LogInfo).RootCommand()
		root.SetArgs(append([]string{"--config", cfgPath}, args...))
		root.SetOut(io.Discard)
		root.SetErr(io.Discard)
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	run("config", "set", "style.line_coloring=false", "metrics.row_height=60")

	if got := run("config", "get", "style.line_coloring"); got != "false\n" {
		t.Errorf("config get style.line_coloring = %q, want false", got)
	}
	if got := run("config", "get", "metrics.row_height"); got != "60\n" {
		t.Errorf("config get metrics.row_height = %q, want 60", got)
	}
	list := run("config", "list")
	if !strings.Contains(list, "style.dash_pattern") || !strings.Contains(list, "dashed") {
		t.Errorf("config list missing dash pattern:\n%s", list)
	}
	if got := run("config", "path"); got != cfgPath+"\n" {
		t.Errorf("config path = %q", got)
	}
}

func TestConfigGetUnknownKey(t *testing.T) {
	if _, err := execute(t, "config", "get", "style.glitter"); err == nil {
		t.Error("config get of an unknown key should fail")
	}
}
