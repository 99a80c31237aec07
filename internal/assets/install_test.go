package assets

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestInstall_CopiesFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "Grand.sf2")
	writeFile(t, src, "RIFF....sfbk")
	dataDir := filepath.Join(t.TempDir(), "data")

	dst, err := Install(src, dataDir)
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if dst != filepath.Join(dataDir, "Grand.sf2") {
		t.Errorf("unexpected destination %q", dst)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("failed to read installed file: %v", err)
	}
	if string(data) != "RIFF....sfbk" {
		t.Errorf("installed content mismatch: %q", data)
	}

	// 不应残留临时文件
	entries, _ := os.ReadDir(dataDir)
	if len(entries) != 1 {
		t.Errorf("expected only the installed file, got %d entries", len(entries))
	}
}

func TestInstall_SkipsSameSize(t *testing.T) {
	src := filepath.Join(t.TempDir(), "bank.sf2")
	writeFile(t, src, "abcd")
	dataDir := t.TempDir()
	dst := filepath.Join(dataDir, "bank.sf2")
	writeFile(t, dst, "wxyz")

	if _, err := Install(src, dataDir); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "wxyz" {
		t.Errorf("same-size file should be left alone, got %q", data)
	}
}

func TestInstall_ReplacesDifferentSize(t *testing.T) {
	src := filepath.Join(t.TempDir(), "bank.sf2")
	writeFile(t, src, "new contents")
	dataDir := t.TempDir()
	dst := filepath.Join(dataDir, "bank.sf2")
	writeFile(t, dst, "old")

	if _, err := Install(src, dataDir); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "new contents" {
		t.Errorf("expected replaced contents, got %q", data)
	}
}

func TestInstall_MissingSource(t *testing.T) {
	if _, err := Install("/nonexistent/bank.sf2", t.TempDir()); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestInstall_SourceIsDirectory(t *testing.T) {
	if _, err := Install(t.TempDir(), t.TempDir()); err == nil {
		t.Fatal("expected error for directory source")
	}
}
