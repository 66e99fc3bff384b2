// Package project stores named settings records.
//
// A [Project] pairs a settings record with a stable identifier and a
// human-readable name. Projects live in a [Store], with implementations for
// different backends:
//   - memory: in-process storage for tests and the standalone server
//   - file: one JSON document per project for CLI use
//   - redis: shared storage for multi-instance servers
//   - mongo: document storage for long-lived deployments
//
// Settings records can also travel without a store as share tokens; see
// [EncodeShare] and [ShareURL].
//
// # Usage
//
//	store, err := project.NewFileStore("") // ~/.config/shapegrid/projects
//	if err != nil {
//	    return err
//	}
//	p, err := project.New("waves", settings.Default())
//	if err != nil {
//	    return err
//	}
//	if err := store.Save(ctx, p); err != nil {
//	    return err
//	}
//
//	// Later, by id or by name
//	p, err = project.Resolve(ctx, store, "waves")
package project

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/shapegrid/pkg/errors"
	"github.com/matzehuels/shapegrid/pkg/observability"
	"github.com/matzehuels/shapegrid/pkg/settings"
)

// ErrNotFound is returned when a project does not exist.
var ErrNotFound = errors.New(errors.ErrCodeProjectNotFound, "project not found")

// Project is a named settings record.
type Project struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Settings  settings.Settings `json:"settings"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// New creates a project with a fresh id. The settings record is validated
// and gets a color seed if it has none, so the saved project reproduces the
// same colors on every load.
func New(name string, s settings.Settings) (*Project, error) {
	if err := errors.ValidateProjectName(name); err != nil {
		return nil, err
	}
	if err := settings.Validate(s); err != nil {
		return nil, err
	}
	s = s.Clone()
	s.EnsureSeed(nil)

	ts := now()
	return &Project{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Settings:  s,
		CreatedAt: ts,
		UpdatedAt: ts,
	}, nil
}

// Update replaces the settings record and bumps UpdatedAt. A record
// without a seed keeps the current one.
func (p *Project) Update(s settings.Settings) error {
	if err := settings.Validate(s); err != nil {
		return err
	}
	s = s.Clone()
	if _, ok := s.Seed(); !ok {
		if seed, ok := p.Settings.Seed(); ok {
			s = s.WithSeed(seed)
		}
	}
	p.Settings = s
	p.UpdatedAt = now()
	return nil
}

// Validate checks the id, name and settings of p.
func (p *Project) Validate() error {
	if err := errors.ValidateProjectID(p.ID); err != nil {
		return err
	}
	if err := errors.ValidateProjectName(p.Name); err != nil {
		return err
	}
	return settings.Validate(p.Settings)
}

// Clone returns a deep copy of p.
func (p *Project) Clone() *Project {
	c := *p
	c.Settings = p.Settings.Clone()
	return &c
}

// Store is the interface for project storage backends.
type Store interface {
	// Get retrieves a project by id. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*Project, error)

	// Save creates or replaces a project.
	Save(ctx context.Context, p *Project) error

	// Delete removes a project. Returns ErrNotFound if it doesn't exist.
	Delete(ctx context.Context, id string) error

	// List returns all projects, most recently updated first.
	List(ctx context.Context) ([]*Project, error)

	// Close releases backend connections.
	Close() error
}

// Resolve finds a project by id, or by exact name when ref is not an id.
// A name shared by several projects resolves to the most recently updated.
func Resolve(ctx context.Context, store Store, ref string) (*Project, error) {
	if errors.ValidateProjectID(ref) == nil {
		return store.Get(ctx, ref)
	}
	all, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if p.Name == ref {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", ref, ErrNotFound)
}

// sortProjects orders projects most recently updated first, then by name.
func sortProjects(ps []*Project) {
	slices.SortFunc(ps, func(a, b *Project) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}

// now returns the current time at the millisecond precision every backend
// can store.
func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

// observe reports one store operation to the registered hooks.
func observe(ctx context.Context, backend, op string, start time.Time, err error) {
	observability.Store().OnStoreOp(ctx, backend, op, time.Since(start), err)
}

// notFound wraps ErrNotFound with the missing id.
func notFound(id string) error {
	return fmt.Errorf("project %s: %w", id, ErrNotFound)
}
