package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-drift/ravel/cmd/ravel/internal/config"
	"github.com/go-drift/ravel/cmd/ravel/internal/demo"
)

func init() {
	RegisterCommand(&Command{
		Name:  "status",
		Short: "Show resolved configuration",
		Long: `Show the configuration the CLI resolved for the current directory.

Values come from ravel.yaml in the enclosing Go module, with defaults
derived from the module path. Outside a module the built-in defaults are
shown.`,
		Usage: "ravel status",
		Run: func(_ context.Context, _ []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			return runStatus(os.Stdout, cfg)
		},
	})
}

func runStatus(w io.Writer, cfg *config.Resolved) error {
	if cfg.Root == "" {
		fmt.Fprintln(w, "Project: (none, using defaults)")
	} else {
		fmt.Fprintf(w, "Project: %s (%s)\n", cfg.AppName, cfg.ModulePath)
		fmt.Fprintf(w, "Root:    %s\n", cfg.Root)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-10s %s\n", "log:", cfg.LogLevel)
	metrics := "disabled"
	if cfg.MetricsEnabled {
		metrics = "enabled"
	}
	fmt.Fprintf(w, "  %-10s %s (namespace %s)\n", "metrics:", metrics, cfg.MetricsNamespace)

	mark := "unknown"
	if _, ok := demo.Lookup(cfg.Demo); ok {
		mark = "bundled"
	}
	fmt.Fprintf(w, "  %-10s %s (%s)\n", "demo:", cfg.Demo, mark)
	return nil
}
