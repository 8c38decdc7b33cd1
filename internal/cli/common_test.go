package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestFormatJSON(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{name: "simple map", input: map[string]string{"key": "value"}},
		{name: "empty map", input: map[string]string{}},
		{name: "array", input: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatJSON(tt.input)
			if err != nil {
				t.Fatalf("formatJSON() error = %v", err)
			}

			// Verify it's valid JSON
			var v interface{}
			if err := json.Unmarshal([]byte(got), &v); err != nil {
				t.Errorf("formatJSON() produced invalid JSON: %v", err)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	got := formatError(os.ErrNotExist)
	if !strings.Contains(got, "Error:") {
		t.Errorf("formatError() = %q, expected to contain 'Error:'", got)
	}
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := outputJSON(&buf, map[string]string{"test": "value"}); err != nil {
		t.Fatalf("outputJSON() error = %v", err)
	}

	var v map[string]string
	if err := json.Unmarshal(buf.Bytes(), &v); err != nil {
		t.Errorf("outputJSON() produced invalid JSON: %v", err)
	}
	if v["test"] != "value" {
		t.Errorf("outputJSON() = %q", buf.String())
	}
}

func TestPrintFunctions(t *testing.T) {
	var buf bytes.Buffer

	PrintWarning(&buf, "Warning message")
	PrintError(&buf, "Error message")
	PrintInfo(&buf, "Info message")
	PrintLabelValue(&buf, "Root", "/pkg")
	PrintList(&buf, []string{"first", "second"}, 1)
	PrintEmptyState(&buf, "Nothing here")

	output := buf.String()
	for _, want := range []string{"Warning message", "Error message", "Info message", "Root: /pkg", "• second", "Nothing here"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, []string{"NAME", "CONFIG"}, [][]string{
		{"demo/comp", "/pkg/src/comp/config.vsh.yaml"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, separator and one row, got %q", buf.String())
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[1]), "---------") {
		t.Errorf("unexpected separator %q", lines[1])
	}

	buf.Reset()
	PrintTable(&buf, []string{"NAME"}, nil)
	if buf.Len() != 0 {
		t.Error("empty table should print nothing")
	}
}

func TestPrintCount(t *testing.T) {
	if got := PrintCount(1, "file", "files"); got != "1 file" {
		t.Errorf("PrintCount(1) = %q", got)
	}
	if got := PrintCount(3, "file", "files"); got != "3 files" {
		t.Errorf("PrintCount(3) = %q", got)
	}
}
