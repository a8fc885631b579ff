package templates

import (
	"go/parser"
	"go/token"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/ravel/cmd/ravel/internal/config"
)

var testData = InitData{
	ModulePath: "github.com/acme/todo-app",
	AppName:    "todo-app",
	Namespace:  "todo_app",
}

func render(t *testing.T, path string) string {
	t.Helper()
	out, err := Render(path, testData)
	if err != nil {
		t.Fatalf("Render(%s): %v", path, err)
	}
	return out
}

func TestInitFilesAreEmbedded(t *testing.T) {
	files, err := ListFiles("init")
	if err != nil {
		t.Fatal(err)
	}
	var want []string
	for _, f := range InitFiles {
		want = append(want, f.Template)
	}
	sort.Strings(want)
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("embedded files mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_GoMod(t *testing.T) {
	f, err := modfile.Parse("go.mod", []byte(render(t, "init/go.mod.tmpl")), nil)
	if err != nil {
		t.Fatalf("rendered go.mod does not parse: %v", err)
	}
	if f.Module.Mod.Path != testData.ModulePath {
		t.Errorf("module = %q", f.Module.Mod.Path)
	}
}

func TestRender_Config(t *testing.T) {
	var cfg config.Config
	if err := yaml.Unmarshal([]byte(render(t, "init/ravel.yaml.tmpl")), &cfg); err != nil {
		t.Fatalf("rendered ravel.yaml does not parse: %v", err)
	}
	want := config.Config{
		App:     config.AppConfig{Name: "todo-app", Demo: "counter"},
		Log:     config.LogConfig{Level: "info"},
		Metrics: config.MetricsConfig{Namespace: "todo_app"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_MainIsValidGo(t *testing.T) {
	src := render(t, "init/main.go.tmpl")
	if _, err := parser.ParseFile(token.NewFileSet(), "main.go", src, 0); err != nil {
		t.Fatalf("rendered main.go does not parse: %v", err)
	}
	if !strings.Contains(src, `h.Text("todo-app")`) {
		t.Error("main.go does not show the app name")
	}
}

func TestRender_Missing(t *testing.T) {
	if _, err := Render("init/nope.tmpl", testData); err == nil {
		t.Error("expected an error for a missing template")
	}
}
