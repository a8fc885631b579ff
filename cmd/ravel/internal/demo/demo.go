// Package demo contains the applications bundled with the ravel CLI and a
// driver that runs them against an in-memory document with a scripted
// sequence of events.
package demo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-drift/ravel/pkg/dom/memdom"
	"github.com/go-drift/ravel/pkg/float"
	"github.com/go-drift/ravel/pkg/run"
	raveltest "github.com/go-drift/ravel/pkg/testing"
)

// Step is one scripted user interaction.
type Step struct {
	// Target selects the node the event is dispatched to; the first match
	// is used.
	Target raveltest.Finder
	// Event is the event name, e.g. "click".
	Event string
	// Value is carried by the event (for "input").
	Value string
}

func (s Step) String() string {
	if s.Value != "" {
		return fmt.Sprintf("%s %q on %s", s.Event, s.Value, s.Target.Description())
	}
	return fmt.Sprintf("%s on %s", s.Event, s.Target.Description())
}

// Result is the outcome of a scripted run.
type Result struct {
	// HTML is the document body without position markers.
	HTML string
	// Cycles is the number of cycles the loop completed.
	Cycles int
	// Model is a printable form of the final model.
	Model string
}

// App is a bundled application.
type App struct {
	Name  string
	Short string
	// Script returns the interactions performed by "ravel render"; n scales
	// the amount of work.
	Script func(n int) []Step
	// Run mounts the app into doc and performs steps.
	Run func(ctx context.Context, doc *memdom.Document, steps []Step, opts ...run.Option) (Result, error)
}

var apps = map[string]*App{}

func register(app *App) {
	apps[app.Name] = app
}

// Lookup returns the app named name.
func Lookup(name string) (*App, bool) {
	app, ok := apps[name]
	return app, ok
}

// Apps returns every bundled app, sorted by name.
func Apps() []*App {
	out := make([]*App, 0, len(apps))
	for _, app := range apps {
		out = append(out, app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// drive runs render over model and dispatches one step per cycle. The loop
// ends through sync once every step was delivered.
func drive[D any](
	ctx context.Context,
	doc *memdom.Document,
	model D,
	render run.RenderFunc[D],
	steps []Step,
	opts ...run.Option,
) (D, int, error) {
	parent := ctx
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	mounted := make(chan struct{})
	cycled := make(chan struct{}, 1)
	opts = append(opts, run.WithHooks(run.Hooks{
		Mounted: func() { close(mounted) },
		Cycle: func(run.CycleSample) {
			select {
			case cycled <- struct{}{}:
			default:
			}
		},
	}))

	scriptErr := make(chan error, 1)
	go func() {
		scriptErr <- dispatch(ctx, doc, steps, mounted, cycled, cancel)
	}()

	f := float.New(model)
	cycles := 0
	final, err := run.Run(ctx, doc, doc.Body(), &f, func(m *D) (D, bool) {
		cycles++
		return *m, cycles >= len(steps)
	}, render, opts...)
	cancel()
	if serr := <-scriptErr; serr != nil {
		return final, cycles, serr
	}
	if len(steps) == 0 && errors.Is(err, context.Canceled) && parent.Err() == nil {
		// Nothing to deliver: the script stopped the loop after mounting.
		final, err = f.Get()
	}
	return final, cycles, err
}

func dispatch(
	ctx context.Context,
	doc *memdom.Document,
	steps []Step,
	mounted, cycled <-chan struct{},
	cancel context.CancelFunc,
) error {
	select {
	case <-mounted:
	case <-ctx.Done():
		return nil
	}
	if len(steps) == 0 {
		cancel()
		return nil
	}
	for i, step := range steps {
		found := step.Target.Evaluate(doc.Body())
		if len(found) == 0 {
			cancel()
			return fmt.Errorf("step %d (%s): no matching node", i+1, step)
		}
		ev := memdom.NewEvent(step.Event)
		ev.Val = step.Value
		if doc.Dispatch(found[0], ev) == 0 {
			cancel()
			return fmt.Errorf("step %d (%s): no listener", i+1, step)
		}
		select {
		case <-cycled:
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}
