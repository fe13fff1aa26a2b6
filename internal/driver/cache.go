package driver

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"semdoc/internal/diag"
)

// Current schema version; bump when CachedRender or the rendered output changes.
const cacheSchemaVersion uint16 = 2

// DiskCache keeps rendered comments on disk, keyed by renderKey. It is safe
// for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedRender is the on-disk form of one render.
type CachedRender struct {
	Schema uint16
	Text   string
	Diags  []CachedDiag
}

type CachedDiag struct {
	Severity uint8
	Code     uint16
	Line     int
	Col      int
	Message  string
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/<app>, falling back to
// ~/.cache/<app>.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache opens a cache rooted at dir.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "renders", key.String()+".mp")
}

// Put writes payload under key. The file appears atomically.
func (c *DiskCache) Put(key Digest, payload *CachedRender) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// Already gone after a successful rename.
		_ = os.Remove(f.Name())
	}()

	payload.Schema = cacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the payload stored under key. A missing entry or one written by
// another schema version is a miss, not an error.
func (c *DiskCache) Get(key Digest, out *CachedRender) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == cacheSchemaVersion, nil
}

// Stats counts entries and their total size.
func (c *DiskCache) Stats() (entries int, bytes int64, err error) {
	if c == nil {
		return 0, 0, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	list, err := os.ReadDir(filepath.Join(c.dir, "renders"))
	if errors.Is(err, os.ErrNotExist) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}
	for _, e := range list {
		if e.IsDir() || filepath.Ext(e.Name()) != ".mp" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return 0, 0, err
		}
		entries++
		bytes += info.Size()
	}
	return entries, bytes, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func toCached(items []diag.Diagnostic) []CachedDiag {
	out := make([]CachedDiag, len(items))
	for i, d := range items {
		out[i] = CachedDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Line:     d.Pos.Line,
			Col:      d.Pos.Col,
			Message:  d.Message,
		}
	}
	return out
}

func fromCached(items []CachedDiag, subject string, bag *diag.Bag) {
	for _, c := range items {
		d := diag.New(diag.Severity(c.Severity), diag.Code(c.Code), diag.Pos{Line: c.Line, Col: c.Col}, c.Message)
		bag.Add(d.WithSubject(subject))
	}
}
