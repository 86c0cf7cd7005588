package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"dusk/internal/lexer"
)

// Current schema version - increment when Snapshot format changes.
const snapshotSchemaVersion uint16 = 1

// TokenRecord is one token in a serialized snapshot.
type TokenRecord struct {
	Kind     uint8
	Line     int32
	Column   int32
	Spelling string
}

// Snapshot is the cached shape of a tokenized file, keyed by content
// hash. Tooling (formatters, editors) reads it instead of re-lexing
// unchanged files.
type Snapshot struct {
	Schema   uint16
	Path     string
	Hash     [32]byte
	HasError bool
	Tokens   []TokenRecord
}

// SnapshotOf serializes buf into a snapshot.
func SnapshotOf(buf *lexer.TokenizedBuffer) *Snapshot {
	snap := &Snapshot{
		Schema:   snapshotSchemaVersion,
		Path:     buf.Source().Filename(),
		Hash:     sha256.Sum256(buf.Source().Content()),
		HasError: buf.HasErrors(),
		Tokens:   make([]TokenRecord, 0, buf.Len()),
	}
	for i := 0; i < buf.Len(); i++ {
		t := lexer.TokenIndex(i)
		snap.Tokens = append(snap.Tokens, TokenRecord{
			Kind:     uint8(buf.Kind(t)),
			Line:     int32(buf.TokenLineNumber(t)),
			Column:   int32(buf.ColumnNumber(t)),
			Spelling: buf.GetTokenText(t),
		})
	}
	return snap
}

// SnapshotCache хранит токенизированные снапшоты по хэшу содержимого
// на диске. Thread-safe for concurrent access.
type SnapshotCache struct {
	mu  sync.RWMutex
	dir string
}

func NewSnapshotCache(dir string) *SnapshotCache {
	return &SnapshotCache{dir: dir}
}

func (c *SnapshotCache) pathFor(hash [32]byte) string {
	return filepath.Join(c.dir, "tokens", hex.EncodeToString(hash[:])+".mp")
}

// Put serializes and atomically writes a snapshot to the cache.
func (c *SnapshotCache) Put(snap *Snapshot) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(snap.Hash)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(snap); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a snapshot by content hash. Returns false when absent or
// written by a different schema version.
func (c *SnapshotCache) Get(hash [32]byte, out *Snapshot) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(hash))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode snapshot: %w", err)
	}
	if out.Schema != snapshotSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *SnapshotCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "tokens"))
}
