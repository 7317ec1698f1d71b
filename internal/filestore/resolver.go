package filestore

import (
	"context"
	"fmt"
	"sync"
)

// Resolver resolves destination folder names to handles, creating a folder
// on first use and reusing it thereafter. Resolutions are cached per
// Resolver, so a pipeline run resolves each name at most once against the
// store.
//
// The look-then-create sequence is idempotent only up to the store's own
// race window: two concurrent runs resolving the same fresh name can each
// create a folder. Callers must resolve once per run, before any parallel
// fan-out begins.
type Resolver struct {
	api API

	mu    sync.Mutex
	cache map[string]*Folder
}

// NewResolver creates a resolver over the given file-store API.
func NewResolver(api API) *Resolver {
	return &Resolver{
		api:   api,
		cache: make(map[string]*Folder),
	}
}

// ResolveOrCreate returns the handle for the named folder, creating it if
// the store has no non-trashed folder with that exact name. Repeated calls
// with the same name return the same handle and never create duplicates.
func (r *Resolver) ResolveOrCreate(ctx context.Context, name string) (*Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.cache[name]; ok {
		return f, nil
	}

	f, err := r.api.FindFolder(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resolve folder %q: %w", name, err)
	}

	if f == nil {
		f, err = r.api.CreateFolder(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("create folder %q: %w", name, err)
		}
	}

	r.cache[name] = f
	return f, nil
}
