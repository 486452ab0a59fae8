package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/pebble"
)

// ErrNoRecord is returned by a Backend when a key has never been stored.
var ErrNoRecord = errors.New("settings: no record")

// Backend stores whole records. Store must be atomic per record.
type Backend interface {
	Load(key string) ([]byte, error)
	Store(key string, data []byte) error
	Close() error
}

// FileBackend keeps one file per record in a directory and replaces records
// by rename.
type FileBackend struct {
	dir string
}

// NewFileBackend creates dir if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, fmt.Errorf("settings: storage directory is empty")
	}
	if err := os.MkdirAll(trimmed, 0o755); err != nil {
		return nil, fmt.Errorf("settings: create %q: %w", trimmed, err)
	}
	return &FileBackend{dir: trimmed}, nil
}

func (f *FileBackend) path(key string) string {
	return filepath.Join(f.dir, key+".rec")
}

func (f *FileBackend) Load(key string) ([]byte, error) {
	b, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return b, nil
}

func (f *FileBackend) Store(key string, data []byte) error {
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	return os.Rename(name, f.path(key))
}

func (f *FileBackend) Close() error {
	return nil
}

// PebbleBackend keeps records in a Pebble database, one key per record,
// written with Sync.
type PebbleBackend struct {
	db *pebble.DB
}

// OpenPebbleBackend opens (or creates) a database in dir.
func OpenPebbleBackend(dir string) (*PebbleBackend, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, fmt.Errorf("settings: storage directory is empty")
	}
	db, err := pebble.Open(trimmed, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("settings: open pebble %q: %w", trimmed, err)
	}
	return &PebbleBackend{db: db}, nil
}

func (p *PebbleBackend) Load(key string) ([]byte, error) {
	val, closer, err := p.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), val...), nil
}

func (p *PebbleBackend) Store(key string, data []byte) error {
	return p.db.Set([]byte(key), data, pebble.Sync)
}

func (p *PebbleBackend) Close() error {
	return p.db.Close()
}

// OpenBackend opens the backend named by kind: "file", "pebble" or "memory".
func OpenBackend(kind, dir string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "file":
		return NewFileBackend(dir)
	case "pebble":
		return OpenPebbleBackend(dir)
	case "memory":
		return NewMemoryBackend(), nil
	}
	return nil, fmt.Errorf("settings: unknown storage backend %q", kind)
}

// MemoryBackend keeps records in memory. Used when no storage is configured.
type MemoryBackend struct {
	records map[string][]byte
	// Stores counts successful Store calls.
	Stores int
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[string][]byte)}
}

func (m *MemoryBackend) Load(key string) ([]byte, error) {
	b, ok := m.records[key]
	if !ok {
		return nil, ErrNoRecord
	}
	return append([]byte(nil), b...), nil
}

func (m *MemoryBackend) Store(key string, data []byte) error {
	m.records[key] = append([]byte(nil), data...)
	m.Stores++
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}
