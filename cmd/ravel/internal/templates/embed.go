// Package templates provides embedded template files for project creation.
package templates

import (
	"embed"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed init/*
var FS embed.FS

// InitData contains the values substituted into the init templates.
type InitData struct {
	ModulePath string // e.g., "github.com/acme/todo-app"
	AppName    string // e.g., "todo-app"
	Namespace  string // e.g., "todo_app"
}

// InitFile maps an init template to its destination in the new project.
type InitFile struct {
	Template string
	Dest     string
}

// InitFiles lists the files written by "ravel init", in creation order.
var InitFiles = []InitFile{
	{"init/go.mod.tmpl", "go.mod"},
	{"init/ravel.yaml.tmpl", "ravel.yaml"},
	{"init/main.go.tmpl", "main.go"},
}

// Render reads and executes the template at path.
func Render(path string, data InitData) (string, error) {
	content, err := FS.ReadFile(path)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(path).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ListFiles returns all files in the embedded filesystem under the given path.
func ListFiles(path string) ([]string, error) {
	var files []string

	err := fs.WalkDir(FS, path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})

	return files, err
}
