// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package plugin

import (
	"slices"
	"sync"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// Registry is the catalog of plugin descriptors, keyed by type and name.
// Iteration follows registration order. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byType map[Type][]*Info
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[Type][]*Info),
	}
}

// Register validates info and adds it to the catalog.
func (r *Registry) Register(info *Info) error {
	if err := info.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.ContainsFunc(r.byType[info.Type], func(i *Info) bool { return i.Name == info.Name }) {
		return oops.Code("PLUGIN_DUPLICATE_NAME").
			With("type", info.Type.String()).
			With("plugin", info.Name).
			Wrap(ErrDuplicateName)
	}
	r.byType[info.Type] = append(r.byType[info.Type], info)
	return nil
}

// Find returns the descriptor registered under t and name. Names are
// case-sensitive.
func (r *Registry) Find(t Type, name string) (*Info, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if idx := r.indexLocked(t, name); idx >= 0 {
		return r.byType[t][idx], nil
	}
	return nil, notFound(t, name)
}

// List returns the descriptors of type t in registration order.
func (r *Registry) List(t Type) []*Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.byType[t])
}

// Names returns the names of type t in registration order.
func (r *Registry) Names(t Type) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := r.byType[t]
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}

// Len returns the number of descriptors of type t.
func (r *Registry) Len(t Type) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byType[t])
}

// NextByName returns the name registered after name, wrapping from the last
// entry to the first.
func (r *Registry) NextByName(t Type, name string) (string, error) {
	return r.neighbour(t, name, 1)
}

// PrevByName returns the name registered before name, wrapping from the first
// entry to the last.
func (r *Registry) PrevByName(t Type, name string) (string, error) {
	return r.neighbour(t, name, -1)
}

func (r *Registry) neighbour(t Type, name string, step int) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexLocked(t, name)
	if idx < 0 {
		return "", notFound(t, name)
	}
	infos := r.byType[t]
	n := len(infos)
	return infos[((idx+step)%n+n)%n].Name, nil
}

// Match returns the names of type t matching a glob pattern such as "fade*"
// or "{slide,dissolve}", in registration order.
func (r *Registry) Match(t Type, pattern string) ([]string, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, oops.Code("PLUGIN_INVALID_PATTERN").With("pattern", pattern).Wrap(err)
	}

	var names []string
	for _, name := range r.Names(t) {
		if g.Match(name) {
			names = append(names, name)
		}
	}
	return names, nil
}

func (r *Registry) indexLocked(t Type, name string) int {
	return slices.IndexFunc(r.byType[t], func(i *Info) bool { return i.Name == name })
}

func notFound(t Type, name string) error {
	return oops.Code("PLUGIN_NOT_FOUND").
		With("type", t.String()).
		With("plugin", name).
		Wrap(ErrNotFound)
}
