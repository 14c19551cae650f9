package dirsize

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// fallbackSizer returns a Sizer whose tool never exists, forcing the
// in-process walk on every call.
func fallbackSizer() *Sizer {
	return &Sizer{Tool: "appsweep-no-such-tool", Timeout: time.Second}
}

func TestSizeSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.bin")
	if err := os.WriteFile(path, make([]byte, 1234), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := fallbackSizer().Size(path); got != 1234 {
		t.Errorf("Size = %d, want 1234", got)
	}
}

func TestSizeDirectoryTree(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "a", "b"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]int{
		"a/one.bin":   100,
		"a/b/two.bin": 250,
		"three.bin":   50,
	}
	for rel, size := range files {
		if err := os.WriteFile(filepath.Join(dir, rel), make([]byte, size), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if got := fallbackSizer().Size(dir); got != 400 {
		t.Errorf("Size = %d, want 400", got)
	}
}

func TestSizeMissingPath(t *testing.T) {
	if got := fallbackSizer().Size("/nonexistent/path"); got != 0 {
		t.Errorf("Size of missing path = %d, want 0", got)
	}
}

func TestSizeEmptyDirectory(t *testing.T) {
	if got := fallbackSizer().Size(t.TempDir()); got != 0 {
		t.Errorf("Size of empty dir = %d, want 0", got)
	}
}

func TestToolSizeParsesKibibytes(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "fakedu")
	script := "#!/bin/sh\necho \"7 $2\"\n"
	if err := os.WriteFile(tool, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	s := &Sizer{Tool: tool, Timeout: time.Second}
	if got := s.Size(dir); got != 7*1024 {
		t.Errorf("Size = %d, want %d", got, 7*1024)
	}
}

func TestToolFailureFallsBack(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "fakedu")
	if err := os.WriteFile(tool, []byte("#!/bin/sh\nexit 1\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "data"), make([]byte, 99), 0o644); err != nil {
		t.Fatal(err)
	}

	s := &Sizer{Tool: tool, Timeout: time.Second}
	// fakedu exits non-zero, the walk counts fakedu's own bytes plus data.
	want := int64(99 + len("#!/bin/sh\nexit 1\n"))
	if got := s.Size(dir); got != want {
		t.Errorf("Size = %d, want %d", got, want)
	}
}

func TestSizeConcurrentCallsAgree(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "data"), make([]byte, 512), 0o644); err != nil {
		t.Fatal(err)
	}

	s := fallbackSizer()
	var wg sync.WaitGroup
	results := make([]int64, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.Size(dir)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if got != 512 {
			t.Errorf("call %d: Size = %d, want 512", i, got)
		}
	}
}
