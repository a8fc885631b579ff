package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/go-drift/ravel/cmd/ravel/internal/config"
)

func TestValidateDirectory(t *testing.T) {
	type tc struct {
		name    string
		dir     string
		wantErr bool
	}
	tests := []tc{
		{"simple name", "myapp", false},
		{"relative path", "projects/myapp", false},
		{"deep relative", "a/b/c/myapp", false},

		{"empty", "", true},
		{"root slash", "/", true},
		{"dot", ".", true},
		{"dotdot", "..", true},
	}
	if runtime.GOOS != "windows" {
		tests = append(tests,
			tc{"absolute nested", "/home/user/projects/myapp", false},
			tc{"root-level /etc", "/etc", true},
			tc{"root-level /tmp", "/tmp", true},
		)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateDirectory(tt.dir)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateDirectory(%q) error = %v, wantErr %v", tt.dir, err, tt.wantErr)
			}
		})
	}
}

func TestValidateProjectName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"myapp", false},
		{"my-app", false},
		{"my_app", false},
		{"App2", false},

		{"", true},
		{".hidden", true},
		{"-bad", true},
		{"1app", true},
		{"my app", true},
	}
	for _, tt := range tests {
		err := validateProjectName(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateProjectName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestScaffoldProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "projects", "todo-app")
	var out bytes.Buffer
	if err := scaffoldProject(&out, dir, "github.com/acme/todo-app"); err != nil {
		t.Fatalf("scaffoldProject: %v", err)
	}

	for _, name := range []string{"go.mod", "ravel.yaml", "main.go"} {
		if !strings.Contains(out.String(), "Created "+name) {
			t.Errorf("output does not mention %s:\n%s", name, out.String())
		}
	}

	// The scaffolded project resolves like any other.
	cfg, err := config.Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.ModulePath != "github.com/acme/todo-app" || cfg.AppName != "todo-app" || cfg.MetricsNamespace != "todo_app" {
		t.Errorf("resolved = %+v", cfg)
	}

	main, err := os.ReadFile(filepath.Join(dir, "main.go"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(main), "github.com/go-drift/ravel/pkg/run") {
		t.Errorf("main.go does not use the run loop:\n%s", main)
	}
}

func TestScaffoldProject_RejectsExistingDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := scaffoldProject(&bytes.Buffer{}, dir, "myapp"); err == nil {
		t.Fatal("expected an error for an existing directory")
	}
}

func TestRunInit_Rejects(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, "directory is required"},
		{[]string{"/"}, "not a valid project location"},
		{[]string{".."}, "not a valid project location"},
		{[]string{"~/myapp"}, "tilde"},
		{[]string{"1app"}, "invalid project name"},
		{[]string{"myapp", ""}, "invalid module path"},
		{[]string{"myapp", "bad path"}, "invalid module path"},
		{[]string{"myapp", "x", "y"}, "unexpected argument"},
	}
	for _, tt := range tests {
		err := runInit(context.Background(), &bytes.Buffer{}, tt.args)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("runInit(%q) = %v, want error containing %q", tt.args, err, tt.want)
		}
	}
}
