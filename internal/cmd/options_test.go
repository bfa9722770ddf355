package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		args    []string
		check   func(t *testing.T, scheme string, approx, segments int)
		wantErr bool
	}{
		{
			name: "defaults",
			check: func(t *testing.T, scheme string, approx, segments int) {
				if scheme != "shard" || approx != 0 || segments != 1 {
					t.Errorf("got %s/%d/%d, want shard/0/1", scheme, approx, segments)
				}
			},
		},
		{
			name: "env only",
			env:  map[string]string{"MEDIAKEY_SCHEME": "bins", "MEDIAKEY_APPROX": "7000"},
			check: func(t *testing.T, scheme string, approx, segments int) {
				if scheme != "bins" || approx != 7000 {
					t.Errorf("got %s/%d, want bins/7000", scheme, approx)
				}
			},
		},
		{
			name: "flags override env",
			env:  map[string]string{"MEDIAKEY_SHARD_SEGMENTS": "1", "MEDIAKEY_APPROX": "7000"},
			args: []string{"--segments", "2", "--approx", "10"},
			check: func(t *testing.T, scheme string, approx, segments int) {
				if segments != 2 || approx != 10 {
					t.Errorf("got approx %d segments %d, want 10 and 2", approx, segments)
				}
			},
		},
		{
			name: "flag replaces invalid env value",
			env:  map[string]string{"MEDIAKEY_SCHEME": "flat", "MEDIAKEY_SHARD_SEGMENT_LEN": "40"},
			args: []string{"--scheme", "bins", "--segment-len", "2"},
			check: func(t *testing.T, scheme string, approx, segments int) {
				if scheme != "bins" {
					t.Errorf("got scheme %s, want bins", scheme)
				}
			},
		},
		{
			name:    "invalid env value without override",
			env:     map[string]string{"MEDIAKEY_SCHEME": "flat"},
			wantErr: true,
		},
		{
			name:    "invalid flag value",
			args:    []string{"--segment-len", "40"},
			wantErr: true,
		},
		{
			name:    "invalid scheme",
			args:    []string{"--scheme", "flat"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cmd := &cobra.Command{Use: "test"}
			addConfigFlags(cmd)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags() error: %v", err)
			}

			cfg, err := loadConfig(cmd)
			if tt.wantErr {
				if err == nil {
					t.Error("loadConfig() returned no error")
				}
				return
			}
			if err != nil {
				t.Fatalf("loadConfig() error: %v", err)
			}
			tt.check(t, cfg.Scheme, cfg.Approx, cfg.ShardSegments)
		})
	}
}

func TestReadLines(t *testing.T) {
	got, err := readLines(strings.NewReader("https://a.example/\n\n   \n  https://b.example/x  \n"))
	if err != nil {
		t.Fatalf("readLines() error: %v", err)
	}
	want := []string{"https://a.example/", "https://b.example/x"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("readLines() = %q, want %q", got, want)
	}
}

func TestReadHead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	content := []byte("0123456789")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		n    int
		want []byte
	}{
		{0, content},
		{-1, content},
		{4, content[:4]},
		{100, content},
	}
	for _, tt := range tests {
		got, err := readHead(path, tt.n)
		if err != nil {
			t.Fatalf("readHead(%d) error: %v", tt.n, err)
		}
		if !bytes.Equal(got, tt.want) {
			t.Errorf("readHead(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}

	if _, err := readHead(filepath.Join(t.TempDir(), "missing"), 4); err == nil {
		t.Error("readHead() on a missing file returned no error")
	}
}

func TestProbeFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string][]byte{
		"a.png":        syntheticImage("png", 10, 20),
		"nested/b.gif": syntheticImage("gif", 30, 40),
		"c.txt":        []byte("hello"),
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, filepath.FromSlash(name)), data, 0644); err != nil {
			t.Fatal(err)
		}
	}

	paths, err := collectFiles([]string{dir})
	if err != nil {
		t.Fatalf("collectFiles() error: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("collectFiles() = %v, want 3 files", paths)
	}

	reports := probeFiles(context.Background(), paths, 64, 2)
	byName := make(map[string]probeReport)
	for i, r := range reports {
		if r.Path != paths[i] {
			t.Errorf("report %d is for %s, want %s", i, r.Path, paths[i])
		}
		rel, _ := filepath.Rel(dir, r.Path)
		byName[filepath.ToSlash(rel)] = r
	}
	if r := byName["a.png"]; !r.OK || r.Width != 10 || r.Height != 20 {
		t.Errorf("a.png = %+v", r.Result)
	}
	if r := byName["nested/b.gif"]; !r.OK || r.Width != 30 || r.Height != 40 {
		t.Errorf("nested/b.gif = %+v", r.Result)
	}
	if r := byName["c.txt"]; r.OK || r.Error != "" {
		t.Errorf("c.txt = %+v", r)
	}

	var buf bytes.Buffer
	if err := printProbeReports(&buf, reports, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "2 of 3 files recognized") {
		t.Errorf("unexpected summary:\n%s", buf.String())
	}
}
