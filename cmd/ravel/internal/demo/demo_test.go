package demo

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/ravel/pkg/dom/memdom"
	"github.com/go-drift/ravel/pkg/run"
	raveltest "github.com/go-drift/ravel/pkg/testing"
)

func mustApp(t *testing.T, name string) *App {
	t.Helper()
	app, ok := Lookup(name)
	if !ok {
		t.Fatalf("app %q not registered", name)
	}
	return app
}

func TestApps_Registered(t *testing.T) {
	var names []string
	for _, app := range Apps() {
		names = append(names, app.Name)
	}
	if diff := cmp.Diff([]string{"counter", "todo"}, names); diff != "" {
		t.Errorf("Apps() mismatch (-want +got):\n%s", diff)
	}
}

func TestCounter_Script(t *testing.T) {
	app := mustApp(t, "counter")
	trace := run.NewTraceBuffer(0, 0)
	res, err := app.Run(context.Background(), memdom.New(), app.Script(2), run.WithTrace(trace))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := `<div class="counter"><h1>Counter</h1><p><span class="count">10</span></p>` +
		`<button class="inc">+</button><button class="dec">-</button><button class="reset">Reset</button>` +
		`<div class="steps"><button class="step">1</button><button class="step" disabled>5</button>` +
		`<button class="step">10</button></div></div>`
	if diff := cmp.Diff(want, res.HTML); diff != "" {
		t.Errorf("HTML mismatch (-want +got):\n%s", diff)
	}
	if res.Model != "{Count:10 Step:5}" {
		t.Errorf("Model = %s", res.Model)
	}
	if res.Cycles != 3 || len(trace.Snapshot().Samples) != 3 {
		t.Errorf("Cycles = %d, traced %d", res.Cycles, len(trace.Snapshot().Samples))
	}
}

func TestCounter_ResetHidesButton(t *testing.T) {
	app := mustApp(t, "counter")
	steps := append(app.Script(1), Step{Target: raveltest.ByClass("reset"), Event: "click"})
	res, err := app.Run(context.Background(), memdom.New(), steps)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Contains(res.HTML, "Reset") {
		t.Errorf("reset button still shown: %s", res.HTML)
	}
	if res.Model != "{Count:0 Step:5}" {
		t.Errorf("Model = %s", res.Model)
	}
}

func TestTodo_Script(t *testing.T) {
	app := mustApp(t, "todo")
	doc := memdom.New()
	res, err := app.Run(context.Background(), doc, app.Script(2))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Cycles != 10 {
		t.Errorf("Cycles = %d, want 10", res.Cycles)
	}
	if res.Model != "1 items, 0 remaining, filter active" {
		t.Errorf("Model = %s", res.Model)
	}
	for _, want := range []string{
		`<ul class="todo-list"></ul>`,
		`<strong>0</strong> items left`,
		`<li><a href="#/all">all</a></li><li><strong>active</strong></li>`,
	} {
		if !strings.Contains(res.HTML, want) {
			t.Errorf("HTML missing %s:\n%s", want, res.HTML)
		}
	}
}

func TestTodo_EditInPlace(t *testing.T) {
	app := mustApp(t, "todo")
	steps := app.Script(1)
	// Stop before the blur so the entry is still being edited.
	steps = steps[:len(steps)-1]
	res, err := app.Run(context.Background(), memdom.New(), steps)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, want := range []string{
		`<li class="completed editing">`,
		`<label>Renamed</label>`,
		`<input class="edit" value="Renamed"></input>`,
	} {
		if !strings.Contains(res.HTML, want) {
			t.Errorf("HTML missing %s:\n%s", want, res.HTML)
		}
	}
}

func TestTodo_NoSteps(t *testing.T) {
	app := mustApp(t, "todo")
	res, err := app.Run(context.Background(), memdom.New(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Cycles != 0 || res.Model != "0 items, 0 remaining, filter all" {
		t.Errorf("result = %+v", res)
	}
}

func TestRun_MissingTarget(t *testing.T) {
	app := mustApp(t, "counter")
	_, err := app.Run(context.Background(), memdom.New(), []Step{{Target: raveltest.ByClass("nope"), Event: "click"}})
	if err == nil || !strings.Contains(err.Error(), "no matching node") {
		t.Fatalf("err = %v, want missing node error", err)
	}
}
