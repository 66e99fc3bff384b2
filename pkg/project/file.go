package project

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/matzehuels/shapegrid/pkg/errors"
)

// FileStore is a file-based project store for CLI applications.
// Projects are stored as JSON files named by id.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// DefaultDir returns the default project directory,
// $XDG_CONFIG_HOME/shapegrid/projects.
func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, "shapegrid", "projects"), nil
}

// NewFileStore creates a file-based project store.
// If baseDir is empty, defaults to DefaultDir.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create project dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) projectPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (p *Project, err error) {
	defer func(start time.Time) { observe(ctx, "file", "get", start, err) }(time.Now())
	// Ids name files, so anything else is rejected before touching disk.
	if err := errors.ValidateProjectID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.projectPath(id), id)
}

func (s *FileStore) read(path, id string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("read project file: %w", err)
	}
	return decodeProject(id, data)
}

func (s *FileStore) Save(ctx context.Context, p *Project) (err error) {
	defer func(start time.Time) { observe(ctx, "file", "save", start, err) }(time.Now())
	if err := p.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Write to a temp file first so a crash never leaves a torn document.
	path := s.projectPath(p.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write project file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write project file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { observe(ctx, "file", "delete", start, err) }(time.Now())
	if err := errors.ValidateProjectID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.projectPath(id)); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return fmt.Errorf("remove project file: %w", err)
	}
	return nil
}

// List skips files that are not readable projects.
func (s *FileStore) List(ctx context.Context) (out []*Project, err error) {
	defer func(start time.Time) { observe(ctx, "file", "list", start, err) }(time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read project dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		id := entry.Name()[:len(entry.Name())-len(".json")]
		p, err := s.read(filepath.Join(s.baseDir, entry.Name()), id)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	sortProjects(out)
	return out, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for project files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
