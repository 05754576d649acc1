package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/testrelay/internal/errors"
)

// runCLI runs the CLI in dir with stdin as input and returns the exit
// code and captured output.
func runCLI(t *testing.T, dir, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, env{
		stdin:  strings.NewReader(stdin),
		stdout: &stdout,
		stderr: &stderr,
		dir:    dir,
	})
	return code, stdout.String(), stderr.String()
}

func lines(events ...string) string {
	return strings.Join(events, "\n") + "\n"
}

var passingRun = lines(
	`{"event":"suite:start","data":{"uuid":"s1"}}`,
	`{"event":"context:start","data":{"name":"Parser"}}`,
	`{"event":"context:start","data":{"name":"with input"}}`,
	`{"event":"log","data":{"level":"info","message":"reading"}}`,
	`{"event":"test:success","data":{"name":"parses","assertions":2}}`,
	`{"event":"context:end","data":{"name":"with input"}}`,
	`{"event":"context:end","data":{"name":"Parser"}}`,
	`{"event":"suite:end","data":{"contexts":2,"tests":1,"assertions":2,"failures":0,"errors":0,"timeouts":0,"deferred":0,"ok":true}}`,
)

func TestRender_Stdin(t *testing.T) {
	code, stdout, stderr := runCLI(t, t.TempDir(), passingRun, "render")

	if code != errors.ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	want := "Parser\n" +
		"  ✓ Parser with input parses\n" +
		"    [INFO] reading\n" +
		"\n" +
		"2 contexts, 1 tests, 2 assertions, 0 failures, 0 errors, 0 timeouts\n" +
		"OK\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestRender_ColorAlways(t *testing.T) {
	code, stdout, _ := runCLI(t, t.TempDir(), passingRun, "--color", "always", "render")

	if code != errors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, "\033[32m  ✓ Parser with input parses\033[0m\n") {
		t.Errorf("stdout = %q, want green success line", stdout)
	}
}

func TestRender_ProtocolError(t *testing.T) {
	input := lines(
		`{"event":"context:start","data":{"name":"A"}}`,
		`{"event":"context:end","data":{"name":"B"}}`,
	)

	code, _, stderr := runCLI(t, t.TempDir(), input, "render")

	if code != errors.ExitProtocolError {
		t.Errorf("exit code = %d, want %d", code, errors.ExitProtocolError)
	}
	if !strings.Contains(stderr, "testrelay:") || !strings.Contains(stderr, "context:end") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRender_FileArgumentAndOutputFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "events.ndjson")
	out := filepath.Join(dir, "trace.txt")
	if err := os.WriteFile(in, []byte(passingRun), 0644); err != nil {
		t.Fatal(err)
	}

	code, stdout, stderr := runCLI(t, dir, "", "--output", out, "render", in)

	if code != errors.ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty when --output is set", stdout)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "  ✓ Parser with input parses\n") {
		t.Errorf("output file = %q", data)
	}
}

func TestRender_SkippedLinesWarning(t *testing.T) {
	code, stdout, stderr := runCLI(t, t.TempDir(), "ok 1 - tap line\n"+passingRun, "render")

	if code != errors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, "OK\n") {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "skipped 1 of 9 lines") {
		t.Errorf("stderr = %q, want skipped-lines warning", stderr)
	}
}

func TestRender_FollowNeedsFile(t *testing.T) {
	code, _, stderr := runCLI(t, t.TempDir(), passingRun, "render", "--follow")

	if code != errors.ExitConfigError {
		t.Errorf("exit code = %d, want %d (stderr %q)", code, errors.ExitConfigError, stderr)
	}
}

func TestRender_MissingInputFile(t *testing.T) {
	dir := t.TempDir()
	code, _, _ := runCLI(t, dir, "", "render", filepath.Join(dir, "missing.ndjson"))

	if code != errors.ExitRuntimeError {
		t.Errorf("exit code = %d, want %d", code, errors.ExitRuntimeError)
	}
}

var rawRun = lines(
	`{"event":"test:start","data":{"name":"t","uuid":"u1","timeout":250,"fn":"function () {}"}}`,
	`{"event":"test:failure","data":{"name":"t","uuid":"u1","error":{"name":"AssertionError","message":"boom","stack":"at x","actual":1}}}`,
)

func TestProject_JSON(t *testing.T) {
	code, stdout, stderr := runCLI(t, t.TempDir(), rawRun, "project")

	if code != errors.ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}

	out := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(out) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(out), stdout)
	}

	var first, second struct {
		Run   string         `json:"run"`
		Event string         `json:"event"`
		Data  map[string]any `json:"data"`
	}
	if err := json.Unmarshal([]byte(out[0]), &first); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(out[1]), &second); err != nil {
		t.Fatal(err)
	}

	if first.Run == "" || first.Run != second.Run {
		t.Errorf("run ids = %q, %q, want one shared non-empty id", first.Run, second.Run)
	}
	if first.Event != "test:start" || len(first.Data) != 2 {
		t.Errorf("first = %+v, want test:start with name and uuid only", first)
	}
	errInfo, _ := second.Data["error"].(map[string]any)
	if _, ok := errInfo["actual"]; ok || errInfo["message"] != "boom" {
		t.Errorf("error = %v, want whitelisted error fields", errInfo)
	}
}

func TestProject_ConsoleReporter(t *testing.T) {
	code, stdout, _ := runCLI(t, t.TempDir(), rawRun, "project", "--reporter", "console")

	if code != errors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	want := "  ✖ t\n    boom\n      at x\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestProject_Validate(t *testing.T) {
	input := lines(
		`{"event":"test:start","data":{"name":"t"}}`,
		`{"event":"test:success","data":{"uuid":"nameless"}}`,
		`{"event":"test:start","data":{"name":"u"}}`,
	)

	tests := []struct {
		name  string
		args  []string
		lines int
	}{
		{"report and continue", []string{"project", "--validate"}, 3},
		{"fail fast", []string{"project", "--validate", "--fail-fast"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := runCLI(t, t.TempDir(), input, tt.args...)

			if code != errors.ExitConfigError {
				t.Errorf("exit code = %d, want %d", code, errors.ExitConfigError)
			}
			if got := strings.Count(stdout, "\n"); got != tt.lines {
				t.Errorf("wrote %d lines, want %d: %q", got, tt.lines, stdout)
			}
		})
	}
}

func TestProject_FailFastWithoutValidateWarns(t *testing.T) {
	code, stdout, stderr := runCLI(t, t.TempDir(), passingRun, "project", "--fail-fast")

	if code != errors.ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	if !strings.Contains(stderr, "warning: schema.fail_fast has no effect unless schema.enabled is set") {
		t.Errorf("stderr = %q, want fail-fast warning", stderr)
	}
	if strings.Contains(stdout, "warning") {
		t.Errorf("warning leaked into the event stream: %q", stdout)
	}
}

func TestConfigFile_WarningsNotRepeated(t *testing.T) {
	dir := t.TempDir()
	cfg := "reporter: json\ncolor: always\n"
	if err := os.WriteFile(filepath.Join(dir, ".testrelay.yaml"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, stderr := runCLI(t, dir, passingRun, "project")

	if n := strings.Count(stderr, `color "always" has no effect`); n != 1 {
		t.Errorf("warning printed %d times, want 1: %q", n, stderr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		code   int
		stdout string
		stderr string
	}{
		{
			name:   "valid",
			input:  passingRun,
			code:   errors.ExitSuccess,
			stdout: "All 8 events valid.",
		},
		{
			name: "invalid",
			input: lines(
				`{"event":"suite:start","data":{}}`,
				`{"event":"test:success","data":{"name":"t","callback":"x"}}`,
			),
			code:   errors.ExitConfigError,
			stdout: "1 of 2 events invalid.",
			stderr: "line 2:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, t.TempDir(), tt.input, "validate")

			if code != tt.code {
				t.Errorf("exit code = %d, want %d", code, tt.code)
			}
			if !strings.Contains(stdout, tt.stdout) {
				t.Errorf("stdout = %q, want %q", stdout, tt.stdout)
			}
			if !strings.Contains(stderr, tt.stderr) {
				t.Errorf("stderr = %q, want %q", stderr, tt.stderr)
			}
		})
	}
}

func TestValidate_Quiet(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		checked bool
	}{
		{"default", []string{"validate"}, true},
		{"quiet", []string{"--quiet", "validate"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := runCLI(t, t.TempDir(), passingRun, tt.args...)

			if code != errors.ExitSuccess {
				t.Fatalf("exit code = %d", code)
			}
			if got := strings.Contains(stdout, "Checked 8 lines."); got != tt.checked {
				t.Errorf("stdout = %q, progress shown = %v, want %v", stdout, got, tt.checked)
			}
			if !strings.Contains(stdout, "All 8 events valid.") {
				t.Errorf("stdout = %q, want final result", stdout)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	code, stdout, _ := runCLI(t, t.TempDir(), passingRun, "summary")

	if code != errors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"=== Events ===", "context:start", "test:success", "Tests: 1", "Assertions: 2", "OK"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestSummary_FailingSuite(t *testing.T) {
	input := lines(
		`{"event":"test:failure","data":{"name":"t"}}`,
		`{"event":"suite:end","data":{"tests":1,"failures":1,"ok":false}}`,
	)

	code, stdout, _ := runCLI(t, t.TempDir(), input, "summary")

	if code != errors.ExitRuntimeError {
		t.Errorf("exit code = %d, want %d", code, errors.ExitRuntimeError)
	}
	if !strings.Contains(stdout, "FAILURE") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestSummary_Unfinished(t *testing.T) {
	code, stdout, _ := runCLI(t, t.TempDir(), `{"event":"suite:start","data":{}}`, "summary")

	if code != errors.ExitRuntimeError {
		t.Errorf("exit code = %d, want %d", code, errors.ExitRuntimeError)
	}
	if !strings.Contains(stdout, "No suite:end event") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestSummary_Empty(t *testing.T) {
	code, _, stderr := runCLI(t, t.TempDir(), "", "summary")

	if code != errors.ExitRuntimeError {
		t.Errorf("exit code = %d, want %d", code, errors.ExitRuntimeError)
	}
	if !strings.Contains(stderr, "no events found") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".testrelay.yaml"), []byte("color: always\nextra: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(dir, "sub")
	if err := os.Mkdir(nested, 0755); err != nil {
		t.Fatal(err)
	}

	code, stdout, stderr := runCLI(t, nested, passingRun, "render")

	if code != errors.ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	if !strings.Contains(stdout, "\033[32m") {
		t.Errorf("stdout = %q, want color from config file", stdout)
	}
	if !strings.Contains(stderr, `unknown field "extra"`) {
		t.Errorf("stderr = %q, want unknown-field warning", stderr)
	}
}

func TestConfigFile_FlagOverrides(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".testrelay.toml"), []byte("color = \"always\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, stdout, _ := runCLI(t, dir, passingRun, "--color", "never", "render")

	if strings.Contains(stdout, "\033[") {
		t.Errorf("stdout = %q, want --color never to win", stdout)
	}
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		config string
		args   []string
	}{
		{"schema violation", "reporter: tap\n", []string{"render"}},
		{"bad log level flag", "", []string{"--log-level", "loud", "render"}},
		{"unknown flag", "", []string{"--colour", "never", "render"}},
		{"unknown command flag", "", []string{"render", "--nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.config != "" {
				if err := os.WriteFile(filepath.Join(dir, ".testrelay.yaml"), []byte(tt.config), 0644); err != nil {
					t.Fatal(err)
				}
			}

			code, _, _ := runCLI(t, dir, passingRun, tt.args...)

			if code != errors.ExitConfigError {
				t.Errorf("exit code = %d, want %d", code, errors.ExitConfigError)
			}
		})
	}
}

func TestMetricsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "testrelay.prom")

	code, _, _ := runCLI(t, dir, passingRun, "--metrics-file", path, "render")

	if code != errors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`testrelay_events_total{component="console",event="test:success"} 1`,
		`testrelay_events_total{component="stream",event="suite:end"} 1`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics missing %q:\n%s", want, data)
		}
	}
}
