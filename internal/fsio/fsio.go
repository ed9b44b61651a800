// Package fsio reads and writes card files on disk. Writes are atomic —
// content lands in a temp file in the same directory, then is renamed
// into place — the same technique the teacher uses in
// internal/writeback/splice.go for in-place source edits, applied here
// to whole-file replace instead of a byte-range splice.
//
// The filesystem itself is abstracted behind billy.Filesystem so tests
// (and, eventually, any caller that wants it) can point bulkSync/validate
// at an in-memory root instead of the real OS, without touching the
// directory-walk logic in internal/cardops.
package fsio

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/agentic-research/cardgraph/api"
	"github.com/agentic-research/cardgraph/internal/cardfile"
	"github.com/agentic-research/cardgraph/internal/cerr"
)

// FS is the file I/O component of §4.5.
type FS struct {
	root billy.Filesystem
}

// NewOS creates an FS rooted at "/" of the real filesystem; paths passed
// to its methods are absolute OS paths, matching how the rest of the
// engine addresses card files (§3's filePath is absolute).
func NewOS() *FS {
	return &FS{root: osfs.New("/")}
}

// New wraps an arbitrary billy.Filesystem, for tests that want an
// in-memory root (go-git/go-billy/v5/memfs).
func New(root billy.Filesystem) *FS {
	return &FS{root: root}
}

func (f *FS) rel(path string) string {
	return strings.TrimPrefix(path, "/")
}

// Read loads and parses the card file at path.
func (f *FS) Read(path string) (*api.CardFile, error) {
	file, err := f.root.Open(f.rel(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &cerr.CardNotFoundError{Key: path}
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	for {
		n, rerr := file.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if rerr != nil {
			break
		}
	}

	return cardfile.Parse(buf)
}

// Write serializes cf and atomically overwrites path, creating its
// parent directory if needed.
func (f *FS) Write(path string, cf *api.CardFile) error {
	content, err := cardfile.Serialize(cf)
	if err != nil {
		return err
	}
	return f.WriteRaw(path, content)
}

// WriteRaw atomically overwrites path with content, bypassing the card
// codec. Used by callers that already hold serialized bytes, and by
// tests that need to plant a malformed file.
func (f *FS) WriteRaw(path string, content []byte) error {
	dir := filepath.Dir(f.rel(path))
	if dir != "." && dir != "/" {
		if err := f.root.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	tmpName := f.rel(path) + ".tmp-" + randSuffix()
	tmp, err := f.root.Create(tmpName)
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = f.root.Remove(tmpName)
		return fmt.Errorf("write temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = f.root.Remove(tmpName)
		return fmt.Errorf("close temp file for %s: %w", path, err)
	}

	if err := f.root.Rename(tmpName, f.rel(path)); err != nil {
		_ = f.root.Remove(tmpName)
		return fmt.Errorf("rename temp file into place for %s: %w", path, err)
	}
	return nil
}

// Delete removes the file at path. An absent file is a no-op; the
// caller (internal/cardops) decides whether that is an error.
func (f *FS) Delete(path string) error {
	err := f.root.Remove(f.rel(path))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// Rename moves a file, failing if the destination already exists.
func (f *FS) Rename(oldPath, newPath string) error {
	if _, err := f.root.Stat(f.rel(newPath)); err == nil {
		return fmt.Errorf("rename target %s already exists", newPath)
	}
	dir := filepath.Dir(f.rel(newPath))
	if dir != "." && dir != "/" {
		if err := f.root.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return f.root.Rename(f.rel(oldPath), f.rel(newPath))
}

// Exists reports whether a file is present at path.
func (f *FS) Exists(path string) bool {
	_, err := f.root.Stat(f.rel(path))
	return err == nil
}

// WalkCardFiles invokes fn for every *.card.md file under dir (direct
// descendants or nested, matching the teacher's filepath.Walk use in
// cmd/build.go). A missing dir propagates as an error.
func (f *FS) WalkCardFiles(dir string, fn func(path string) error) error {
	entries, err := f.listRecursive(f.rel(dir))
	if err != nil {
		return fmt.Errorf("scan %s: %w", dir, err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e, ".card.md") {
			if err := fn("/" + strings.TrimPrefix(e, "/")); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *FS) listRecursive(dir string) ([]string, error) {
	if _, err := f.root.Stat(dir); err != nil {
		return nil, err
	}
	var out []string
	var walk func(d string) error
	walk = func(d string) error {
		infos, err := f.root.ReadDir(d)
		if err != nil {
			return err
		}
		for _, info := range infos {
			full := filepath.Join(d, info.Name())
			if info.IsDir() {
				if err := walk(full); err != nil {
					return err
				}
				continue
			}
			out = append(out, full)
		}
		return nil
	}
	if err := walk(dir); err != nil {
		return nil, err
	}
	return out, nil
}

var tmpCounter int64

// randSuffix produces a suffix unique within this process, the billy
// equivalent of os.CreateTemp's random-name generation (billy has no
// CreateTemp of its own).
func randSuffix() string {
	n := atomic.AddInt64(&tmpCounter, 1)
	return strconv.FormatInt(time.Now().UnixNano(), 36) + "-" + strconv.FormatInt(n, 36)
}
