// Package dirsize computes the byte size of filesystem subtrees. The fast
// path shells out to du; the fallback walks the tree in-process and tolerates
// unreadable entries, so a size is always produced even if it is a partial
// sum.
package dirsize

import (
	"context"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds a single du invocation.
const DefaultTimeout = 30 * time.Second

// Sizer computes subtree sizes. The tool name and timeout are fields so tests
// can force the fallback path or substitute a stub.
type Sizer struct {
	Tool    string // normally "du"
	Timeout time.Duration

	group singleflight.Group
}

// New creates a Sizer using the system du tool.
func New() *Sizer {
	return &Sizer{Tool: "du", Timeout: DefaultTimeout}
}

// Size returns the size in bytes of the file or directory tree at path.
// It never returns an error: failures degrade to the walking fallback, and a
// walk that hits unreadable entries returns the partial sum. Concurrent
// requests for the same path share a single computation.
func (s *Sizer) Size(path string) int64 {
	v, _, _ := s.group.Do(path, func() (interface{}, error) {
		if size, ok := s.toolSize(path); ok {
			return size, nil
		}
		return walkSize(path), nil
	})
	return v.(int64)
}

// toolSize invokes the external size utility. Output is interpreted as
// kibibytes. Tool absence, non-zero exit, parse failure and timeout all
// report !ok so the caller falls back.
func (s *Sizer) toolSize(path string) (int64, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, s.Tool, "-sk", path).Output()
	if err != nil {
		return 0, false
	}

	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return 0, false
	}

	kb, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, false
	}

	return kb * 1024, true
}

// walkSize sums file sizes under path. A single regular file returns its own
// size without walking. Entries that cannot be read are skipped.
func walkSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	if !info.IsDir() {
		return info.Size()
	}

	var total int64
	filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if fi, err := d.Info(); err == nil {
			total += fi.Size()
		}
		return nil
	})
	return total
}
