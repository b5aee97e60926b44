package entities_test

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"zipcompressor/internal/domain/entities"
)

func TestValidateRelativePath(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		expected  entities.RelativePath
		wantErr   bool
	}{
		{"Plain file", "a.pdf", "a.pdf", false},
		{"Nested file", "docs/2024/report.pdf", "docs/2024/report.pdf", false},
		{"Dot segments", "./docs/./a.txt", "docs/a.txt", false},
		{"Duplicate separators", "docs//a.txt", "docs/a.txt", false},
		{"Backslash separators", `docs\a.txt`, "docs/a.txt", false},
		{"Directory entry", "docs/", "docs", false},
		{"Dots inside name", "a..b.pdf", "a..b.pdf", false},
		{"Parent traversal", "../outside.txt", "", true},
		{"Deep traversal", "../../etc/passwd", "", true},
		{"Traversal in the middle", "docs/../../evil.pdf", "", true},
		{"Backslash traversal", `..\evil.pdf`, "", true},
		{"Unix absolute", "/etc/passwd", "", true},
		{"Windows absolute", `\Windows\system32`, "", true},
		{"Drive absolute", `C:\evil.pdf`, "", true},
		{"Bare drive", "c:", "", true},
		{"Drive with forward slash", "c:/evil.pdf", "", true},
		{"UNC path", `\\server\share\a.pdf`, "", true},
		{"Empty", "", "", true},
		{"Only dots", "./.", "", true},
		{"NUL byte", "a\x00.pdf", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := entities.ValidateRelativePath(tt.candidate)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRelativePath(%q) error = %v, wantErr %v", tt.candidate, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, entities.ErrPathTraversal) {
				t.Errorf("Expected ErrPathTraversal, got %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestValidateRelativePath_ColonInName(t *testing.T) {
	for _, candidate := range []string{"a:notes.txt", "docs/report:v2.pdf"} {
		got, err := entities.ValidateRelativePath(candidate)
		if runtime.GOOS == "windows" {
			if err == nil {
				t.Errorf("Expected %q to be rejected on Windows", candidate)
			}
			continue
		}
		if err != nil {
			t.Errorf("Expected %q to be accepted, got %v", candidate, err)
			continue
		}
		if got.String() != candidate {
			t.Errorf("Expected %s, got %s", candidate, got)
		}
	}
}

func TestRelativePath_Join(t *testing.T) {
	root := filepath.Join("tmp", "scratch")
	path, err := entities.ValidateRelativePath("docs/a.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := filepath.Join(root, "docs", "a.pdf")
	if got := path.Join(root); got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}
}
