// Package buildcache stores compiled documents on disk, keyed by a digest
// of the source text, the compiler settings and the extension list.
package buildcache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"kekpiler/internal/diag"
	"kekpiler/internal/observ"
)

// Current schema version - increment when Entry format changes
const schemaVersion uint16 = 1

// Digest is a SHA-256 sum.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports whether d was never set.
func (d Digest) IsZero() bool { return d == Digest{} }

// DiskCache хранит скомпилированные документы по ключу на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Entry is one cached compilation.
type Entry struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path        string
	HTML        string
	Diagnostics []diag.Diagnostic
	Timings     observ.Report
	Created     time.Time
}

// Open returns a cache rooted at dir, creating it when needed.
func Open(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDefault opens the cache of app under the user cache directory
// ($XDG_CACHE_HOME or ~/.cache on Linux).
func OpenDefault(app string) (*DiskCache, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("locate cache dir: %w", err)
	}
	return Open(filepath.Join(base, app))
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := key.String()
	// подкаталог по первому байту, чтобы не копить тысячи файлов в одном
	return filepath.Join(c.dir, "docs", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes an entry. A nil cache ignores the call.
func (c *DiskCache) Put(key Digest, entry *Entry) (err error) {
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
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	stored := *entry
	stored.Schema = schemaVersion
	if stored.Created.IsZero() {
		stored.Created = time.Now()
	}
	if err = msgpack.NewEncoder(f).Encode(&stored); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads an entry. Missing entries and entries of another schema report
// false without an error.
func (c *DiskCache) Get(key Digest, out *Entry) (bool, error) {
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

	var entry Entry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if entry.Schema != schemaVersion {
		return false, nil
	}
	*out = entry
	return true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// сначала переименование, потом удаление
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

// Key derives the cache key of one document.
func Key(content []byte, fingerprint Digest, version string) Digest {
	h := sha256.New()
	h.Write(fingerprint[:])
	h.Write([]byte(version))
	h.Write([]byte{0})
	h.Write(content)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Fingerprint hashes settings and the ordered extension list. Function
// values are hashed by type only, since their identity is not stable
// across runs.
func Fingerprint(settings map[string]any, extensions []string) Digest {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		v := settings[k]
		if v != nil && reflect.TypeOf(v).Kind() == reflect.Func {
			fmt.Fprintf(h, "%s=%T\n", k, v)
			continue
		}
		fmt.Fprintf(h, "%s=%#v\n", k, v)
	}
	for _, e := range extensions {
		fmt.Fprintf(h, "ext:%s\n", e)
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}
