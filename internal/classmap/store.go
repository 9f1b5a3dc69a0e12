package classmap

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-version"
	"sigs.k8s.io/yaml"

	"github.com/toyz/accessorgen/internal/errors"
)

const (
	// FileName is the name of the class map inside the generated files directory
	FileName = "_classMap.yaml"
	// FormatVersion is written to every saved class map
	FormatVersion = "1.0"
	// SupportedFormats is the range of class map versions this build can read
	SupportedFormats = ">= 1.0, < 2.0"
)

// Entry locates the generated artifact of one class
type Entry struct {
	Name        string    `json:"-"`           // logical class name, the map key
	Path        string    `json:"path"`        // generated file
	RunID       string    `json:"runId"`       // generation run that produced the file
	GeneratedAt time.Time `json:"generatedAt"` // when the file was rendered
}

// Store indexes generated artifacts by logical class name
type Store interface {
	Put(entry Entry) error
	Lookup(name string) (Entry, bool)
	Remove(name string) error
	Entries() []Entry
}

type document struct {
	Version string           `json:"version"`
	Entries map[string]Entry `json:"entries"`
}

// FileStore is a Store persisted as YAML. Every update reloads the file,
// applies the change and replaces the file, all under one lock, so
// concurrent generators sharing a FileStore never lose entries.
type FileStore struct {
	mu          sync.Mutex
	path        string
	constraints version.Constraints
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store for the class map inside dir
func NewFileStore(dir string) *FileStore {
	constraints, err := version.NewConstraint(SupportedFormats)
	if err != nil {
		panic(fmt.Sprintf("invalid class map constraint %q: %v", SupportedFormats, err))
	}
	return &FileStore{
		path:        filepath.Join(dir, FileName),
		constraints: constraints,
	}
}

// Path returns the class map file path
func (s *FileStore) Path() string {
	return s.path
}

// Put adds or replaces the entry for entry.Name
func (s *FileStore) Put(entry Entry) error {
	if entry.Name == "" {
		return errors.New(errors.ClassMapErrorCode, "class map entry has no class name")
	}
	return s.update(func(entries map[string]Entry) {
		entries[entry.Name] = entry
	})
}

// Remove deletes the entry for name. Removing an absent entry is a no-op.
func (s *FileStore) Remove(name string) error {
	return s.update(func(entries map[string]Entry) {
		delete(entries, name)
	})
}

// Lookup returns the entry for name. An unreadable class map has no entries.
func (s *FileStore) Lookup(name string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return Entry{}, false
	}
	entry, ok := entries[name]
	return entry, ok
}

// Entries returns all entries sorted by name. An unreadable class map has no entries.
func (s *FileStore) Entries() []Entry {
	entries, err := s.Snapshot()
	if err != nil {
		return nil
	}
	return entries
}

// Snapshot is Entries reporting load failures
func (s *FileStore) Snapshot() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *FileStore) update(change func(map[string]Entry)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	change(entries)
	return s.save(entries)
}

// load reads the class map; a missing file is an empty map
func (s *FileStore) load() (map[string]Entry, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return make(map[string]Entry), nil
	}
	if err != nil {
		return nil, errors.WrapClassMapError("read", s.path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapClassMapError("decode", s.path, err)
	}
	if err := s.checkVersion(doc.Version); err != nil {
		return nil, err
	}

	entries := make(map[string]Entry, len(doc.Entries))
	for name, entry := range doc.Entries {
		entry.Name = name
		entries[name] = entry
	}
	return entries, nil
}

func (s *FileStore) checkVersion(raw string) error {
	v, err := version.NewVersion(raw)
	if err != nil {
		return errors.WrapClassMapError("decode", s.path, fmt.Errorf("invalid format version %q: %w", raw, err))
	}
	if !s.constraints.Check(v) {
		return errors.Newf(errors.ClassMapErrorCode, "class map '%s' has format version %s, supported %s", s.path, v, SupportedFormats).
			WithSuggestion("remove the class map and run generate again")
	}
	return nil
}

// save replaces the class map through a temporary file in the same directory
func (s *FileStore) save(entries map[string]Entry) error {
	data, err := yaml.Marshal(document{Version: FormatVersion, Entries: entries})
	if err != nil {
		return errors.WrapClassMapError("encode", s.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".classmap-*.tmp")
	if err != nil {
		return errors.WrapClassMapError("write", s.path, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o664); err != nil {
		tmp.Close()
		return errors.WrapClassMapError("write", s.path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.WrapClassMapError("write", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapClassMapError("write", s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.WrapClassMapError("replace", s.path, err)
	}
	return nil
}
