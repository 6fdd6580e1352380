package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/leofalp/airecover/core/diagram"
)

// execute runs the root command with args and stdin and returns what it
// wrote to stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	for _, key := range []string{"AIRECOVER_LOG_LEVEL", "LOG_LEVEL", "AIRECOVER_LOG_FORMAT", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// writeFile creates name under dir with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestJSONCommand(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name:  "fenced reply on stdin",
			stdin: "Sure!\n```json\n{\"score\": 7, \"tags\": [\"a\",],}\n```",
			args:  []string{"json"},
			want:  "{\"score\":7,\"tags\":[\"a\"]}\n",
		},
		{
			name:  "indented",
			stdin: `{"a": {"b": 1}}`,
			args:  []string{"json", "--indent"},
			want:  "{\n  \"a\": {\n    \"b\": 1\n  }\n}\n",
		},
		{
			name:  "yaml keeps numbers",
			stdin: `{"score": 7, "ratio": 0.5, "name": "x"}`,
			args:  []string{"json", "-o", "yaml"},
			want:  "name: x\nratio: 0.5\nscore: 7\n",
		},
		{
			name:  "html is not escaped",
			stdin: `{"code": "<b>&</b>"}`,
			args:  []string{"json"},
			want:  "{\"code\":\"<b>&</b>\"}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stdout != tt.want {
				t.Errorf("stdout = %q, want %q", stdout, tt.want)
			}
		})
	}
}

func TestJSONCommand_FilesInOrder(t *testing.T) {
	dir := t.TempDir()
	var args []string
	var want strings.Builder
	for i := range 8 {
		name := string(rune('a'+i)) + ".txt"
		args = append(args, writeFile(t, dir, name, "answer: {\"n\": "+string(rune('0'+i))+"}"))
		want.WriteString("{\"n\":" + string(rune('0'+i)) + "}\n")
	}

	stdout, _, err := execute(t, "", append([]string{"json", "--jobs", "3"}, args...)...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != want.String() {
		t.Errorf("stdout = %q, want %q", stdout, want.String())
	}
}

func TestJSONCommand_YAMLDocuments(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.txt", `{"a": 1}`)
	second := writeFile(t, dir, "second.txt", `[1, 2]`)

	stdout, _, err := execute(t, "", "json", "--output", "yaml", first, second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dec := yaml.NewDecoder(strings.NewReader(stdout))
	var docs []any
	for {
		var doc any
		if err := dec.Decode(&doc); err != nil {
			break
		}
		docs = append(docs, doc)
	}
	want := []any{map[string]any{"a": 1}, []any{1, 2}}
	if diff := cmp.Diff(want, docs); diff != "" {
		t.Errorf("YAML documents mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONCommand_Failure(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", `{"ok": true}`)
	bad := writeFile(t, dir, "bad.txt", "I could not produce JSON, sorry.")

	stdout, stderr, err := execute(t, "", "json", "--log-format", "json", good, bad)
	if !errors.Is(err, errInputsFailed) {
		t.Fatalf("error = %v, want errInputsFailed", err)
	}
	if stdout != "{\"ok\":true}\n" {
		t.Errorf("stdout = %q, want the good value only", stdout)
	}
	if !strings.Contains(stderr, bad+": "+userFailureMessage) {
		t.Errorf("stderr does not name the failed input:\n%s", stderr)
	}
	if !strings.Contains(stderr, `"recovery.stage":"boundary"`) {
		t.Errorf("stderr does not log the failing stage:\n%s", stderr)
	}
	if !strings.Contains(stderr, `"recovery.excerpt":"I could not produce JSON, sorry."`) {
		t.Errorf("stderr does not log the excerpt:\n%s", stderr)
	}
}

func TestJSONCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad output", []string{"json", "--output", "xml"}, "invalid --output"},
		{"missing file", []string{"json", filepath.Join(t.TempDir(), "missing.txt")}, "failed to read"},
		{"bad log level", []string{"json", "--log-level", "loud"}, "invalid --log-level"},
		{"bad log format", []string{"json", "--log-format", "xml"}, "invalid --log-format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, `{}`, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want one containing %q", err, tt.want)
			}
		})
	}
}

func TestDiagramCommand(t *testing.T) {
	tests := []struct {
		name   string
		stdin  string
		want   string
		warned bool
	}{
		{"headerless", "A-->B", "flowchart TD\n    A --> B\n", false},
		{"fenced", "```mermaid\ngraph LR\nA-->B\n```", "graph LR\n    A --> B\n", false},
		{"garbage", "!!!", diagram.Fallback + "\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := execute(t, tt.stdin, "diagram")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stdout != tt.want {
				t.Errorf("stdout = %q, want %q", stdout, tt.want)
			}
			if got := strings.Contains(stderr, "Diagram replaced by fallback"); got != tt.warned {
				t.Errorf("fallback warning logged = %v, want %v:\n%s", got, tt.warned, stderr)
			}
		})
	}
}

func TestDiagramCommand_SeveralInputs(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.mmd", "A-->B")
	second := writeFile(t, dir, "b.mmd", "sequenceDiagram\n    A->>B: hi")

	stdout, _, err := execute(t, "", "diagram", first, second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "flowchart TD\n    A --> B\n\nsequenceDiagram\n    A->>B: hi\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestMarkdownCommand(t *testing.T) {
	stdin := "# Design\n\nText stays.\n\n```mermaid\nA-->B\n```\n\n```go\nx := 1\n```\n"
	stdout, _, err := execute(t, stdin, "markdown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "# Design\n\nText stays.\n\n```mermaid\nflowchart TD\n    A --> B\n```\n\n```go\nx := 1\n```\n"
	if stdout != want {
		t.Errorf("stdout =\n%s\nwant\n%s", stdout, want)
	}
}

func TestMarkdownCommand_HTML(t *testing.T) {
	stdout, _, err := execute(t, "<h1>Design</h1><p>Some <em>text</em>.</p>", "markdown", "--html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"# Design", "*text*"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout does not contain %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "<h1>") {
		t.Errorf("stdout still holds HTML:\n%s", stdout)
	}
}

func TestYAMLTree(t *testing.T) {
	got := yamlTree(map[string]any{
		"int":   json.Number("7"),
		"float": json.Number("0.25"),
		"list":  []any{json.Number("1"), "x", nil, true},
	})
	want := map[string]any{
		"int":   int64(7),
		"float": 0.25,
		"list":  []any{int64(1), "x", nil, true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("yamlTree() mismatch (-want +got):\n%s", diff)
	}
}
