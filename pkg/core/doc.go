// Package core provides the view protocol and the generic combinators of the
// Ravel reconciler.
//
// Ravel follows a retained-mode, declarative model: application code
// describes the UI as an immutable [View] value every render cycle, and the
// framework builds a live [State] from it once, then updates that state in
// place on every following cycle.
//
// # Core Types
//
// View is an immutable description of part of the UI. Views are cheap,
// short-lived values created fresh for each render.
//
// State is the persistent result of building a View. It owns backend node
// handles, listener registrations and child states. A state is exclusively
// owned by its parent state.
//
// The type parameter O on both is the shared application state ("output")
// that event handlers below the view mutate during the run pass.
//
// # Build and Rebuild
//
// Build is called exactly once per state. Rebuild is called on every later
// cycle with a new description of the same shape and performs only the
// mutations needed to reflect it. A description of a different shape is
// rejected with an *errors.ShapeError; use [Any] where the shape may vary.
//
// # Dynamic Selection
//
// [With] lets a callback pick the concrete view to build or rebuild at
// render time:
//
//	core.With(func(cx core.Cx[Model]) core.Token[Model] {
//	    if model.Count%2 == 0 {
//	        return cx.Build(core.Any(h.El("b", h.Text("Even!"))))
//	    }
//	    return cx.Build(core.Any(h.Text("Odd.")))
//	})
//
// [Option] mounts or unmounts a single child, [Group] composes a fixed
// sequence of views, and [WithLocal] attaches private local state.
package core
