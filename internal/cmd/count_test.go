package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCountFiles(t *testing.T) {
	root := t.TempDir()
	layout := map[string]int{
		"a":   3,
		"b":   1,
		"b/c": 5,
	}
	for dir, n := range layout {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			t.Fatal(err)
		}
		for i := range n {
			if err := os.WriteFile(filepath.Join(root, dir, fmt.Sprintf("f%d", i)), nil, 0644); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := os.Mkdir(filepath.Join(root, "empty"), 0755); err != nil {
		t.Fatal(err)
	}

	c, err := countFiles(root, false)
	if err != nil {
		t.Fatalf("countFiles() error: %v", err)
	}
	if c.total != 9 {
		t.Errorf("total = %d, want 9", c.total)
	}
	if len(c.perDir) != 3 {
		t.Errorf("directories with files = %d, want 3", len(c.perDir))
	}
	if c.minFiles != 1 || c.maxFiles != 5 {
		t.Errorf("min/max = %d/%d, want 1/5", c.minFiles, c.maxFiles)
	}
	if c.maxDir != filepath.Join(root, "b", "c") {
		t.Errorf("maxDir = %q", c.maxDir)
	}

	var buf bytes.Buffer
	printCounts(&buf, c, 4)
	out := buf.String()
	if !strings.Contains(out, "Total files: 9") {
		t.Errorf("missing total in output:\n%s", out)
	}
	if !strings.Contains(out, "1 directories exceed 4 files") {
		t.Errorf("missing over-limit summary in output:\n%s", out)
	}
}

func TestCountFilesEmpty(t *testing.T) {
	c, err := countFiles(t.TempDir(), false)
	if err != nil {
		t.Fatalf("countFiles() error: %v", err)
	}
	var buf bytes.Buffer
	printCounts(&buf, c, DefaultDirLimit)
	if !strings.Contains(buf.String(), "Directories with files: 0") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestCountFilesMissingRoot(t *testing.T) {
	if _, err := countFiles(filepath.Join(t.TempDir(), "missing"), false); err == nil {
		t.Error("countFiles() on a missing root returned no error")
	}
}
