package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProjectConfig(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "bracecheck.toml")
	data := `# test manifest
[scan]
pair = "()"
context = 2
max_negatives = 5
max_openers = 4
ext = [".rs", ".c"]
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write bracecheck.toml: %v", err)
	}
	cfg, err := loadProjectConfig(path)
	if err != nil {
		t.Fatalf("loadProjectConfig: %v", err)
	}
	if cfg.Scan.Pair != "()" {
		t.Fatalf("Scan.Pair = %q, want ()", cfg.Scan.Pair)
	}
	if cfg.Scan.Context != 2 {
		t.Fatalf("Scan.Context = %d, want 2", cfg.Scan.Context)
	}
	if cfg.Scan.MaxNegatives != 5 {
		t.Fatalf("Scan.MaxNegatives = %d, want 5", cfg.Scan.MaxNegatives)
	}
	if cfg.Scan.MaxOpeners != 4 {
		t.Fatalf("Scan.MaxOpeners = %d, want 4", cfg.Scan.MaxOpeners)
	}
	if len(cfg.Scan.Ext) != 2 || cfg.Scan.Ext[0] != ".rs" {
		t.Fatalf("Scan.Ext = %v, want [.rs .c]", cfg.Scan.Ext)
	}
}

func TestLoadProjectConfigRejectsBadPair(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "bracecheck.toml")
	data := `[scan]
pair = "{"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write bracecheck.toml: %v", err)
	}
	if _, err := loadProjectConfig(path); err == nil {
		t.Fatalf("expected error for one-rune pair")
	}
}

func TestFindBracecheckTomlWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	manifestPath := filepath.Join(root, "bracecheck.toml")
	if err := os.WriteFile(manifestPath, []byte("[scan]\n"), 0o600); err != nil {
		t.Fatalf("write bracecheck.toml: %v", err)
	}

	found, ok, err := findBracecheckToml(nested)
	if err != nil {
		t.Fatalf("findBracecheckToml: %v", err)
	}
	if !ok {
		t.Fatalf("expected to find manifest from nested dir")
	}
	if found != manifestPath {
		t.Fatalf("found = %q, want %q", found, manifestPath)
	}
}

func TestFindBracecheckTomlMissing(t *testing.T) {
	root := t.TempDir()
	_, ok, err := findBracecheckToml(root)
	if err != nil {
		t.Fatalf("findBracecheckToml: %v", err)
	}
	if ok {
		t.Fatalf("did not expect a manifest under %s", root)
	}
}

func TestUseProgressUI(t *testing.T) {
	cases := []struct {
		input string
		tty   bool
		want  bool
	}{
		{"on", false, true},
		{"ON", false, true},
		{" off ", true, false},
		{"auto", true, true},
		{"auto", false, false},
		{"", true, true},
	}
	for _, tc := range cases {
		got, err := useProgressUI(tc.input, tc.tty)
		if err != nil {
			t.Fatalf("useProgressUI(%q, %v) error: %v", tc.input, tc.tty, err)
		}
		if got != tc.want {
			t.Fatalf("useProgressUI(%q, %v) = %v, want %v", tc.input, tc.tty, got, tc.want)
		}
	}
	if _, err := useProgressUI("sometimes", true); err == nil {
		t.Fatalf("expected error for invalid mode")
	}
}
