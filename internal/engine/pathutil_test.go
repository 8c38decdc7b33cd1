package engine

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAbsPath(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		userPath string
		cwd      string
		want     string
	}{
		{name: "absolute path", userPath: "/pkg/src/a.yaml", cwd: "/elsewhere", want: "/pkg/src/a.yaml"},
		{name: "absolute path cleaned", userPath: "/pkg/src/../a.yaml", cwd: "/elsewhere", want: "/pkg/a.yaml"},
		{name: "relative to cwd", userPath: "src/a.yaml", cwd: "/pkg", want: "/pkg/src/a.yaml"},
		{name: "parent traversal", userPath: "../b.yaml", cwd: "/pkg/src", want: "/pkg/b.yaml"},
		{name: "empty means cwd", userPath: "", cwd: "/pkg", want: "/pkg"},
		{name: "no cwd uses process directory", userPath: "a.yaml", cwd: "", want: filepath.Join(wd, "a.yaml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := absPath(tt.userPath, tt.cwd)
			if err != nil {
				t.Fatalf("absPath() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("absPath(%q, %q) = %q, want %q", tt.userPath, tt.cwd, got, tt.want)
			}
		})
	}
}
