// Package testing provides a view testing harness for Ravel.
//
// # Quick Start
//
// Create a tester with an initial model and a render function, mount it,
// and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    tester := raveltest.NewTesterWithT(t, Model{}, render)
//	    tester.Mount()
//
//	    // Find nodes
//	    button := tester.Find(raveltest.ByText("+")).First()
//
//	    // Fire events, then run handlers and rebuild
//	    tester.Tap(raveltest.ByText("+"))
//	    tester.Pump()
//
//	    // Assert state
//	    if !tester.Find(raveltest.ByText("1")).Exists() {
//	        t.Error("expected count 1")
//	    }
//	}
//
// The tester renders into an in-memory document ([memdom.Document]), so
// backend calls can be counted with [Tester.Stats].
//
// # Snapshot Testing
//
// Capture and compare document snapshots:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/counter.snapshot.json")
//
// Update snapshots with:
//
//	RAVEL_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import raveltest "github.com/go-drift/ravel/pkg/testing"
package testing
