package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/ravel/cmd/ravel/internal/config"
	"github.com/go-drift/ravel/pkg/html"
)

func TestParseRenderArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    renderOptions
		wantErr string
	}{
		{"defaults", nil, renderOptions{steps: 2}, ""},
		{"app and flags", []string{"todo", "--steps", "3", "--metrics", "--trace"},
			renderOptions{app: "todo", steps: 3, metrics: true, trace: true}, ""},
		{"snapshot", []string{"--snapshot", "out.json", "counter"},
			renderOptions{app: "counter", steps: 2, snapshot: "out.json"}, ""},
		{"debug", []string{"--debug", "127.0.0.1:0"},
			renderOptions{steps: 2, debug: "127.0.0.1:0"}, ""},
		{"missing value", []string{"--steps"}, renderOptions{}, "requires a value"},
		{"negative steps", []string{"--steps", "-1"}, renderOptions{}, "non-negative"},
		{"unknown flag", []string{"--fast"}, renderOptions{}, "unknown flag"},
		{"two apps", []string{"counter", "todo"}, renderOptions{}, "unexpected argument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRenderArgs(tt.args)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRenderArgs: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(renderOptions{})); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunRender_Counter(t *testing.T) {
	var out bytes.Buffer
	snapshot := filepath.Join(t.TempDir(), "counter.json")
	args := []string{"counter", "--steps", "1", "--metrics", "--trace", "--snapshot", snapshot}

	if err := runRender(context.Background(), &out, config.Defaults(), args); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		`<span class="count">5</span>`,
		"model:  {Count:5 Step:5}",
		"cycles: 2",
		"slow cycles",
		"ravel_cycles_total",
		`ravel_events_delivered_total 2`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	data, err := os.ReadFile(snapshot)
	if err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	var snap struct {
		HTML string `json:"html"`
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("snapshot is not JSON: %v", err)
	}
	// Snapshots keep position markers.
	if !strings.Contains(snap.HTML, "<!--") {
		t.Errorf("snapshot HTML has no markers: %s", snap.HTML)
	}
}

func TestRunRender_DefaultAppFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Demo = "todo"
	var out bytes.Buffer
	if err := runRender(context.Background(), &out, cfg, []string{"--steps", "0"}); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	if !strings.Contains(out.String(), `<section class="todoapp">`) {
		t.Errorf("expected the todo app:\n%s", out.String())
	}
}

func TestRunRender_UnknownApp(t *testing.T) {
	err := runRender(context.Background(), &bytes.Buffer{}, config.Defaults(), []string{"chess"})
	if err == nil || !strings.Contains(err.Error(), `unknown app "chess"`) {
		t.Fatalf("err = %v", err)
	}
}

func TestRunElements(t *testing.T) {
	reg, err := html.ParseRegistry([]byte(`
elements: [div, span]
attributes:
  id: string
  hidden: bool
events: [click]
`))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		args []string
		want string
	}{
		{nil, "div\nspan\n"},
		{[]string{"--attributes"}, "hidden           bool\nid               string\n"},
		{[]string{"--events"}, "click\n"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		if err := runElements(&out, reg, tt.args); err != nil {
			t.Fatalf("runElements(%v): %v", tt.args, err)
		}
		if diff := cmp.Diff(tt.want, out.String()); diff != "" {
			t.Errorf("runElements(%v) mismatch (-want +got):\n%s", tt.args, diff)
		}
	}

	if err := runElements(&bytes.Buffer{}, reg, []string{"--bogus"}); err == nil {
		t.Error("expected an error for an unknown argument")
	}
}

func TestRunStatus(t *testing.T) {
	var out bytes.Buffer
	cfg := &config.Resolved{
		Root:             "/src/shop",
		ModulePath:       "example.com/shop",
		AppName:          "shop",
		Demo:             "todo",
		LogLevel:         "debug",
		MetricsEnabled:   true,
		MetricsNamespace: "shop",
	}
	if err := runStatus(&out, cfg); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Project: shop (example.com/shop)",
		"enabled (namespace shop)",
		"todo (bundled)",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("status missing %q:\n%s", want, out.String())
		}
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	err := Execute(context.Background(), []string{"deploy"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("err = %v", err)
	}
}

func TestExecute_BadLogLevel(t *testing.T) {
	err := Execute(context.Background(), []string{"--log-level", "loud", "status"})
	if err == nil || !strings.Contains(err.Error(), "log.level") {
		t.Fatalf("err = %v", err)
	}
}
