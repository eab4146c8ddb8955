package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/codecity/pkg/cache"
	cityio "github.com/matzehuels/codecity/pkg/io"
	"github.com/matzehuels/codecity/pkg/layout"
)

const exampleCity = `separator "/"
building "com/acme/Server" 4 x 3 x 12
building "com/acme/Client" 2 x 2 x 3
building "com/util/Strings" 1 x 1 x 1
`

// testEnv isolates config and cache directories and returns a work dir.
func testEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	return t.TempDir()
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCLI executes the root command with args and returns what it printed.
func runCLI(t *testing.T, args ...string) (string, *CLI, error) {
	t.Helper()
	out := captureStdout(t)
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	if shutdownErr := c.Shutdown(context.Background()); shutdownErr != nil {
		t.Errorf("Shutdown() error: %v", shutdownErr)
	}
	return out.String(), c, err
}

func TestLayoutCommand(t *testing.T) {
	dir := testEnv(t)
	input := writeFile(t, filepath.Join(dir, "acme.city"), exampleCity)

	out, _, err := runCLI(t, "layout", input)
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}
	if !strings.Contains(out, "Layout complete") {
		t.Errorf("output %q lacks success line", out)
	}

	l, err := layout.ReadFile(filepath.Join(dir, "acme.layout.json"))
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if l.Width != 14 || l.Depth != 12 || l.Height != 15 {
		t.Errorf("city = %dx%d h%d, want 14x12 h15", l.Width, l.Depth, l.Height)
	}
	if l.Groups != 4 || l.Leaves != 3 {
		t.Errorf("groups=%d leaves=%d, want 4 and 3", l.Groups, l.Leaves)
	}
}

func TestLayoutCommandOptions(t *testing.T) {
	dir := testEnv(t)
	input := writeFile(t, filepath.Join(dir, "acme.city"), exampleCity)
	output := filepath.Join(dir, "custom.json")

	if _, _, err := runCLI(t, "layout", input, "-o", output, "--root", "acme", "--parallel", "--limit", "2"); err != nil {
		t.Fatalf("layout error: %v", err)
	}
	l, err := layout.ReadFile(output)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if l.Name != "acme" {
		t.Errorf("root name = %q, want acme", l.Name)
	}
	if l.Width != 14 || l.Depth != 12 {
		t.Errorf("parallel city = %dx%d, want 14x12", l.Width, l.Depth)
	}
}

func TestLayoutCommandCaches(t *testing.T) {
	dir := testEnv(t)
	input := writeFile(t, filepath.Join(dir, "acme.city"), exampleCity)

	first, _, err := runCLI(t, "layout", input)
	if err != nil {
		t.Fatalf("first layout error: %v", err)
	}
	if !strings.Contains(first, iconFresh) {
		t.Errorf("first run output %q, want %q", first, iconFresh)
	}

	second, _, err := runCLI(t, "layout", input)
	if err != nil {
		t.Fatalf("second layout error: %v", err)
	}
	if !strings.Contains(second, iconCached) {
		t.Errorf("second run output %q, want %q", second, iconCached)
	}

	third, _, err := runCLI(t, "--no-cache", "layout", input)
	if err != nil {
		t.Fatalf("uncached layout error: %v", err)
	}
	if strings.Contains(third, iconCached) {
		t.Errorf("--no-cache output %q reports a cache hit", third)
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	dir := testEnv(t)
	bad := writeFile(t, filepath.Join(dir, "bad.city"), `building "//" 1 x 1`)

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"layout", filepath.Join(dir, "missing.city")}},
		{"unsupported extension", []string{"layout", writeFile(t, filepath.Join(dir, "x.yaml"), "")}},
		{"invalid name", []string{"layout", bad}},
		{"no args", []string{"layout"}},
		{"bad cache backend", []string{"--cache", "memcached", "layout", bad}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := runCLI(t, tt.args...); err == nil {
				t.Errorf("%v: expected error", tt.args)
			}
		})
	}
}

func TestSeparatorPrecedence(t *testing.T) {
	dir := testEnv(t)
	input := writeFile(t, filepath.Join(dir, "dotted.json"), `{"entities": [
		{"name": "com.acme.Server", "width": 4, "depth": 3, "height": 12},
		{"name": "com.acme.Client", "width": 2, "depth": 2, "height": 3}
	]}`)
	output := filepath.Join(dir, "out.layout.json")

	groups := func(args ...string) int {
		t.Helper()
		if _, _, err := runCLI(t, append(args, "layout", input, "-o", output)...); err != nil {
			t.Fatalf("layout %v error: %v", args, err)
		}
		l, err := layout.ReadFile(output)
		if err != nil {
			t.Fatal(err)
		}
		return l.Groups
	}

	if got := groups(); got != 1 {
		t.Errorf("default separator: groups = %d, want 1", got)
	}
	if got := groups("--separator", "."); got != 3 {
		t.Errorf("--separator .: groups = %d, want 3", got)
	}

	writeFile(t, filepath.Join(os.Getenv("XDG_CONFIG_HOME"), appName, "config.toml"), `separator = "."`)
	if got := groups(); got != 3 {
		t.Errorf("config separator: groups = %d, want 3", got)
	}
	if got := groups("--separator", "/"); got != 1 {
		t.Errorf("flag over config: groups = %d, want 1", got)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := testEnv(t)
	input := writeFile(t, filepath.Join(dir, "acme.city"), exampleCity)

	out, _, err := runCLI(t, "render", input, "-f", "svg,png,pdf,dot,voxel,json", "--labels", "--detailed")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(out, "Rendered 6 format(s)") {
		t.Errorf("output %q lacks summary", out)
	}

	prefixes := map[string]string{
		"acme.svg":         "<svg",
		"acme.png":         "\x89PNG",
		"acme.pdf":         "%PDF",
		"acme.dot":         "digraph",
		"acme.voxel.json":  "{",
		"acme.layout.json": "{",
	}
	for name, prefix := range prefixes {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if !bytes.HasPrefix(data, []byte(prefix)) {
			t.Errorf("%s starts with %q, want %q", name, data[:min(len(data), 8)], prefix)
		}
	}
}

func TestRenderFromLayout(t *testing.T) {
	dir := testEnv(t)
	input := writeFile(t, filepath.Join(dir, "acme.city"), exampleCity)
	if _, _, err := runCLI(t, "layout", input); err != nil {
		t.Fatalf("layout error: %v", err)
	}

	output := filepath.Join(dir, "plan.svg")
	if _, _, err := runCLI(t, "render", filepath.Join(dir, "acme.layout.json"), "-o", output, "--scale", "4"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `viewBox="0 0 56.0 48.0"`) {
		t.Errorf("svg at scale 4 = %.120q, want a 56x48 viewBox", data)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := testEnv(t)
	input := writeFile(t, filepath.Join(dir, "acme.city"), exampleCity)

	if _, _, err := runCLI(t, "render", input, "-f", "gif"); err == nil {
		t.Error("unknown format: expected error")
	}
	if _, _, err := runCLI(t, "render", input, "--scale", "1000"); err == nil {
		t.Error("scale above maximum: expected error")
	}
	broken := writeFile(t, filepath.Join(dir, "broken.layout.json"), `{"root": {"kind": "leaf"}}`)
	if _, _, err := runCLI(t, "render", broken); err == nil {
		t.Error("invalid layout: expected error")
	}
}

func TestStatsCommand(t *testing.T) {
	dir := testEnv(t)
	input := writeFile(t, filepath.Join(dir, "acme.city"), exampleCity)

	out, _, err := runCLI(t, "stats", input)
	if err != nil {
		t.Fatalf("stats error: %v", err)
	}
	for _, want := range []string{"14x12", "Buildings", "com", "No overlaps"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output lacks %q:\n%s", want, out)
		}
	}
}

func TestStatsCommandRejectsOverlap(t *testing.T) {
	dir := testEnv(t)
	overlapping := writeFile(t, filepath.Join(dir, "bad.layout.json"), `{
		"name": "_root_", "width": 10, "depth": 10, "height": 2,
		"root": {"name": "_root_", "kind": "group", "width": 10, "depth": 10, "height": 2, "children": [
			{"name": "A", "kind": "leaf", "width": 3, "depth": 3, "x": 1, "y": 1, "height": 1},
			{"name": "B", "kind": "leaf", "width": 3, "depth": 3, "x": 2, "y": 2, "height": 1}
		]}
	}`)

	out, _, err := runCLI(t, "stats", overlapping)
	if err == nil {
		t.Fatal("expected verification error")
	}
	if !strings.Contains(out, "Verification failed") {
		t.Errorf("output %q lacks failure line", out)
	}
}

func TestConvertCommand(t *testing.T) {
	dir := testEnv(t)
	input := writeFile(t, filepath.Join(dir, "acme.city"), exampleCity)
	output := filepath.Join(dir, "acme.toml")

	out, _, err := runCLI(t, "convert", input, output)
	if err != nil {
		t.Fatalf("convert error: %v", err)
	}
	if !strings.Contains(out, "Converted 3 entities") {
		t.Errorf("output %q lacks summary", out)
	}

	in, err := cityio.Import(output)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if len(in.Entities) != 3 || in.Entities[0].Name != "com/acme/Server" || in.Entities[0].Height != 12 {
		t.Errorf("converted entities = %+v", in.Entities)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := testEnv(t)
	input := writeFile(t, filepath.Join(dir, "acme.city"), exampleCity)

	out, _, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}

	out, _, err = runCLI(t, "--no-cache", "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if strings.TrimSpace(out) != cache.BackendNone {
		t.Errorf("--no-cache path = %q, want none", strings.TrimSpace(out))
	}

	if _, _, err := runCLI(t, "layout", input); err != nil {
		t.Fatalf("layout error: %v", err)
	}
	out, _, err = runCLI(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("cache clear output = %q", out)
	}

	out, _, err = runCLI(t, "--no-cache", "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if !strings.Contains(out, "disabled") {
		t.Errorf("disabled cache clear output = %q", out)
	}
}

func TestDescribeCache(t *testing.T) {
	tests := []struct {
		cfg  cache.Config
		want string
	}{
		{cache.Config{Backend: cache.BackendNone}, "none"},
		{cache.Config{Backend: cache.BackendFile, Dir: "/tmp/cc"}, "/tmp/cc"},
		{cache.Config{Backend: cache.BackendRedis, Redis: cache.RedisConfig{Addr: "r:6379", DB: 2, Prefix: "cc:"}}, "redis://r:6379/2 cc:*"},
	}
	for _, tt := range tests {
		if got := describeCache(tt.cfg); got != tt.want {
			t.Errorf("describeCache(%+v) = %q, want %q", tt.cfg, got, tt.want)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	testEnv(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, _, err := runCLI(t, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s error: %v", shell, err)
			}
			if !strings.Contains(out, appName) {
				t.Errorf("completion %s output does not mention %s", shell, appName)
			}
		})
	}
	if _, _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell: expected error")
	}
}

func TestTraceFlag(t *testing.T) {
	dir := testEnv(t)
	input := writeFile(t, filepath.Join(dir, "acme.city"), exampleCity)
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	_, c, err := runCLI(t, "--trace", "--no-cache", "layout", input)
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}
	if c.shutdown != nil {
		t.Error("Shutdown() should clear the tracer shutdown func")
	}
	if err := c.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown() error: %v", err)
	}
}

func TestConfigFallback(t *testing.T) {
	testEnv(t)
	c := New(io.Discard, LogInfo)
	cfg := c.config()
	if cfg.Cache.Backend != cache.BackendFile {
		t.Errorf("default backend = %q, want file", cfg.Cache.Backend)
	}
	if c.config() != cfg {
		t.Error("config() should return the same value on every call")
	}
}
