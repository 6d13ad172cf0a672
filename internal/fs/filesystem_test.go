package fs

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func relPaths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = filepath.ToSlash(f.RelPath)
	}
	sort.Strings(out)
	return out
}

func TestFindFiles(t *testing.T) {
	t.Run("non-recursive skips subdirectories", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"a.txt":     "a",
			"b.txt":     "bb",
			"sub/c.txt": "ccc",
		})

		files, err := FindFiles(root, false)
		if err != nil {
			t.Fatalf("FindFiles() error = %v", err)
		}
		got := relPaths(files)
		if strings.Join(got, ",") != "a.txt,b.txt" {
			t.Errorf("files = %v, want [a.txt b.txt]", got)
		}
	})

	t.Run("recursive returns relative paths", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"a.txt":         "a",
			"sub/c.txt":     "ccc",
			"sub/deep/d.md": "d",
		})

		files, err := FindFiles(root, true)
		if err != nil {
			t.Fatalf("FindFiles() error = %v", err)
		}
		got := relPaths(files)
		want := "a.txt,sub/c.txt,sub/deep/d.md"
		if strings.Join(got, ",") != want {
			t.Errorf("files = %v, want %s", got, want)
		}
		for _, f := range files {
			if f.Path != filepath.Join(root, f.RelPath) {
				t.Errorf("Path = %q, want root joined with %q", f.Path, f.RelPath)
			}
		}
	})

	t.Run("missing root reports not exist", func(t *testing.T) {
		t.Parallel()
		_, err := FindFiles(filepath.Join(t.TempDir(), "nope"), false)
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("error = %v, want os.ErrNotExist", err)
		}
	})

	t.Run("file root is rejected", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeTree(t, root, map[string]string{"f.txt": "x"})
		if _, err := FindFiles(filepath.Join(root, "f.txt"), false); err == nil {
			t.Fatal("expected error for non-directory root")
		}
	})
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	dest := filepath.Join(dir, "nested", "out.txt")

	n, err := WriteFileAtomic(dest, strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	if n != 5 {
		t.Errorf("written = %d, want 5", n)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading result: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("content = %q, want %q", got, "hello")
	}

	// Overwrite replaces content and leaves no temp files behind.
	if _, err := WriteFileAtomic(dest, strings.NewReader("bye")); err != nil {
		t.Fatalf("second WriteFileAtomic() error = %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(dest))
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1", len(entries))
	}
}

func TestReadSample(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTree(t, root, map[string]string{"big.txt": strings.Repeat("x", 100)})

	got, err := ReadSample(filepath.Join(root, "big.txt"), 10)
	if err != nil {
		t.Fatalf("ReadSample() error = %v", err)
	}
	if len(got) != 10 {
		t.Errorf("len = %d, want 10", len(got))
	}
}

func TestCreationTime(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTree(t, root, map[string]string{"f.txt": "x"})
	info, err := os.Stat(filepath.Join(root, "f.txt"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	ct := CreationTime(info)
	if ct.IsZero() {
		t.Fatal("CreationTime() is zero")
	}
	if d := time.Since(ct); d < -time.Minute || d > time.Hour {
		t.Errorf("CreationTime() = %v, not close to now", ct)
	}
}

func TestEnsureDirs(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	a := filepath.Join(root, "data", "raw")
	b := filepath.Join(root, "logs")
	if err := EnsureDirs(a, b, a); err != nil {
		t.Fatalf("EnsureDirs() error = %v", err)
	}
	for _, d := range []string{a, b} {
		if info, err := os.Stat(d); err != nil || !info.IsDir() {
			t.Errorf("%s not created", d)
		}
	}
}
