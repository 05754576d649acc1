// Package integration runs recorded event streams through the full relay
// pipeline and compares the console trace against golden files.
package integration

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

var (
	fixturesDirOnce sync.Once
	fixturesDirPath string
)

// fixturesDir returns the path to the test fixtures directory.
func fixturesDir() string {
	fixturesDirOnce.Do(func() {
		_, filename, _, _ := runtime.Caller(0)
		fixturesDirPath = filepath.Join(filepath.Dir(filename), "..", "fixtures")
	})
	return fixturesDirPath
}

// scenario is one recorded run: the NDJSON stream a runner produced and
// the console trace it should render to.
type scenario struct {
	Name    string
	Events  string // path to events.ndjson
	Console string // expected trace, color disabled
}

func loadScenario(t *testing.T, name string) scenario {
	t.Helper()
	dir := filepath.Join(fixturesDir(), name)
	golden, err := os.ReadFile(filepath.Join(dir, "console.txt"))
	if err != nil {
		t.Fatalf("failed to load scenario %q: %v", name, err)
	}
	return scenario{
		Name:    name,
		Events:  filepath.Join(dir, "events.ndjson"),
		Console: string(golden),
	}
}

func loadAllScenarios(t *testing.T) []scenario {
	t.Helper()
	entries, err := os.ReadDir(fixturesDir())
	if err != nil {
		t.Fatalf("failed to list fixtures: %v", err)
	}
	var out []scenario
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, loadScenario(t, e.Name()))
		}
	}
	if len(out) == 0 {
		t.Fatal("no scenarios found")
	}
	return out
}

func openEvents(t *testing.T, sc scenario) *os.File {
	t.Helper()
	f, err := os.Open(sc.Events)
	if err != nil {
		t.Fatalf("failed to open %s: %v", sc.Events, err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}
