package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-drift/ravel/pkg/html"
)

func init() {
	RegisterCommand(&Command{
		Name:  "elements",
		Short: "List known elements, attributes and events",
		Long: `List the element tags, attributes and events known to the html package.

Without flags, element tags are listed. Custom elements (tags containing
"-"), data-* and aria-* attributes, and custom events are accepted without
being listed.

Flags:
  --attributes   List attributes with their value kind
  --events       List events`,
		Usage: "ravel elements [--attributes] [--events]",
		Run: func(_ context.Context, args []string) error {
			return runElements(os.Stdout, html.DefaultRegistry(), args)
		},
	})
}

func runElements(w io.Writer, reg *html.Registry, args []string) error {
	what := "elements"
	for _, arg := range args {
		switch arg {
		case "--attributes":
			what = "attributes"
		case "--events":
			what = "events"
		default:
			return fmt.Errorf("unknown argument %q", arg)
		}
	}

	switch what {
	case "attributes":
		for _, name := range reg.AttributeNames() {
			kind, _ := reg.Attribute(name)
			fmt.Fprintf(w, "%-16s %s\n", name, kind)
		}
	case "events":
		for _, name := range reg.Events {
			fmt.Fprintln(w, name)
		}
	default:
		for _, tag := range reg.Elements {
			fmt.Fprintln(w, tag)
		}
	}
	return nil
}
