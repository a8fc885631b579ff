package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/mod/module"

	"github.com/go-drift/ravel/cmd/ravel/internal/config"
	"github.com/go-drift/ravel/cmd/ravel/internal/templates"
)

func init() {
	RegisterCommand(&Command{
		Name:  "init",
		Short: "Create a new Ravel project",
		Long: `Create a new Ravel project in a new directory.

This command creates:
  - A new directory at the specified path
  - go.mod with the specified module path
  - ravel.yaml with default settings
  - main.go with a starter counter app

The project name is derived from the directory basename.
The module path defaults to the project name if not specified.

Examples:
  ravel init myapp
  ravel init myapp github.com/username/myapp
  ravel init ./projects/myapp`,
		Usage: "ravel init <directory> [module-path]",
		Run: func(ctx context.Context, args []string) error {
			return runInit(ctx, os.Stdout, args)
		},
	})
}

// runInit creates a new project, then resolves its dependencies with the go
// tool. Failures of the go tool are reported but do not fail the command.
func runInit(ctx context.Context, w io.Writer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("directory is required\n\nUsage: ravel init <directory> [module-path]")
	}
	if len(args) > 2 {
		return fmt.Errorf("unexpected argument %q", args[2])
	}

	raw := args[0]
	if strings.HasPrefix(raw, "~") {
		return fmt.Errorf("tilde (~) is not expanded by ravel; use an absolute path or $HOME instead")
	}

	dir := filepath.Clean(raw)
	if err := validateDirectory(dir); err != nil {
		return err
	}

	projectName := filepath.Base(dir)
	if err := validateProjectName(projectName); err != nil {
		return fmt.Errorf("invalid project name %q (derived from directory basename): %w", projectName, err)
	}

	modulePath := projectName
	if len(args) > 1 {
		modulePath = args[1]
	}
	if err := module.CheckImportPath(modulePath); err != nil {
		return fmt.Errorf("invalid module path: %w", err)
	}

	if err := scaffoldProject(w, dir, modulePath); err != nil {
		return err
	}

	fmt.Fprintln(w, "  Adding ravel dependency...")
	if err := goTool(ctx, w, dir, "get", "github.com/go-drift/ravel@latest"); err != nil {
		fmt.Fprintln(w, "  Warning: go get failed")
	}
	fmt.Fprintln(w, "  Running go mod tidy...")
	if err := goTool(ctx, w, dir, "mod", "tidy"); err != nil {
		fmt.Fprintln(w, "  Warning: go mod tidy failed")
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Project created successfully!\n\n")
	fmt.Fprintf(w, "Next steps:\n")
	fmt.Fprintf(w, "  cd %s\n", dir)
	fmt.Fprintf(w, "  go run .         # Run the starter app\n")
	fmt.Fprintf(w, "  ravel status     # Show the resolved configuration\n")
	return nil
}

func goTool(ctx context.Context, w io.Writer, dir string, args ...string) error {
	c := exec.CommandContext(ctx, "go", args...)
	c.Dir = dir
	c.Stdout = w
	c.Stderr = w
	return c.Run()
}

// scaffoldProject creates the project directory and writes the template
// files. It touches nothing but the filesystem.
func scaffoldProject(w io.Writer, dir, modulePath string) error {
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("directory %q already exists", dir)
	}

	appName := filepath.Base(dir)
	fmt.Fprintf(w, "Creating new Ravel project: %s\n", appName)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data := templates.InitData{
		ModulePath: modulePath,
		AppName:    appName,
		Namespace:  config.SanitizeNamespace(appName),
	}
	for _, f := range templates.InitFiles {
		content, err := templates.Render(f.Template, data)
		if err != nil {
			safeRemoveAll(dir)
			return fmt.Errorf("failed to render %s: %w", f.Template, err)
		}
		if err := os.WriteFile(filepath.Join(dir, f.Dest), []byte(content), 0o644); err != nil {
			safeRemoveAll(dir)
			return fmt.Errorf("failed to write %s: %w", f.Dest, err)
		}
		fmt.Fprintf(w, "  Created %s\n", f.Dest)
	}
	return nil
}

// validateDirectory rejects filesystem roots, "." and "..", and root-level
// absolute paths such as /etc.
func validateDirectory(dir string) error {
	switch dir {
	case "", "/", ".", "..":
		return fmt.Errorf("directory %q is not a valid project location", dir)
	}
	if isVolumeRoot(dir) {
		return fmt.Errorf("directory %q is not a valid project location", dir)
	}
	if filepath.IsAbs(dir) && isVolumeRoot(filepath.Dir(dir)) {
		return fmt.Errorf("refusing to create project at root-level path %q", dir)
	}
	return nil
}

func isVolumeRoot(dir string) bool {
	return dir == filepath.VolumeName(dir)+string(filepath.Separator)
}

// safeRemoveAll removes dir only if it passes validateDirectory.
func safeRemoveAll(dir string) {
	if validateDirectory(dir) != nil {
		return
	}
	os.RemoveAll(dir)
}

var validProjectName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

func validateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("project name cannot start with a dot")
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("project name cannot start with a hyphen")
	}
	if !validProjectName.MatchString(name) {
		return fmt.Errorf("project name must start with a letter and contain only letters, numbers, underscores, and hyphens")
	}
	return nil
}
