// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
)

// Catalog is the transaction's remote/metadata collaborator. FileCatalog
// is the on-disk implementation used in production; tests substitute an
// in-memory fake satisfying the same interface.
type Catalog interface {
	FetchRefCache(ctx context.Context, remote, ref string) ([]byte, bool, error)
	FindLocalRelated(ctx context.Context, ref, remote string) ([]Related, error)
	FindRemoteRelated(ctx context.Context, ref, remote string) ([]Related, error)
	SearchForDependency(ctx context.Context, ref string) ([]string, error)
	IsRemoteDisabled(remote string) bool
	CreateOriginRemote(ctx context.Context, id, title, ref, uri, tag string) (string, error)
	RecreateRepo(ctx context.Context) error
}

var _ Catalog = (*FileCatalog)(nil)

// FileCatalog is the set of known remotes plus their cached per-ref
// metadata and related-ref index, persisted under a config directory.
type FileCatalog struct {
	configPath  string
	refCacheDir string
	system      bool

	config *Config
}

// New loads (or initializes) a catalog whose remote configuration lives at
// configPath and whose per-ref metadata cache lives under refCacheDir.
func New(configPath, refCacheDir string, system bool) (*FileCatalog, error) {
	file, cfg, err := readConfigFile(configPath, system)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return &FileCatalog{
		configPath:  configPath,
		refCacheDir: refCacheDir,
		system:      system,
		config:      cfg,
	}, nil
}

func (c *FileCatalog) reload() error {
	file, cfg, err := readConfigFile(c.configPath, c.system)
	if err != nil {
		return err
	}
	defer file.Close()
	c.config = cfg
	return nil
}

func (c *FileCatalog) save() error {
	file, err := os.OpenFile(c.configPath, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return fmt.Errorf("while opening catalog config %s: %s", c.configPath, err)
	}
	defer file.Close()
	return saveConfigFile(file, c.config)
}

// IsRemoteDisabled reports whether remote is known and marked disabled. An
// unknown remote is treated as not disabled — absence, not disablement, is
// the caller's problem to raise.
func (c *FileCatalog) IsRemoteDisabled(remote string) bool {
	r, ok := c.config.Remotes[remote]
	return ok && r.Disabled
}

// Remotes returns the names of every known remote. Used by the remote-list
// CLI command.
func (c *FileCatalog) Remotes() []string {
	names := make([]string, 0, len(c.config.Remotes))
	for name := range c.config.Remotes {
		names = append(names, name)
	}
	return names
}

// GetRemote returns the named remote's configuration.
func (c *FileCatalog) GetRemote(name string) (*RemoteConfig, error) {
	return c.config.GetRemote(name)
}

// AddRemote registers a new remote and persists the catalog.
func (c *FileCatalog) AddRemote(name string, e *RemoteConfig) error {
	if err := c.config.Add(name, e); err != nil {
		return err
	}
	return c.save()
}

// RemoveRemote deletes a remote and persists the catalog.
func (c *FileCatalog) RemoveRemote(name string) error {
	if err := c.config.Remove(name); err != nil {
		return err
	}
	return c.save()
}

// refCachePath locates the cached metadata keyfile for ref at remote.
func (c *FileCatalog) refCachePath(remote, ref string) string {
	return filepath.Join(c.refCacheDir, slug.Make(remote), slug.Make(ref)+".metadata")
}

// FetchRefCache returns the cached metadata keyfile for ref at remote, if
// present. ok is false (with a nil error) when nothing is cached yet; the
// Expander treats that the same as "no declared runtime dependency".
func (c *FileCatalog) FetchRefCache(ctx context.Context, remote, ref string) ([]byte, bool, error) {
	b, err := os.ReadFile(c.refCachePath(remote, ref))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("while reading ref cache for %s/%s: %s", remote, ref, err)
	}
	return b, true, nil
}

// PutRefCache stores metadata for ref at remote, creating the cache
// directory as needed. Exercised by tests and by any future pull path that
// populates the cache from a real fetch.
func (c *FileCatalog) PutRefCache(remote, ref string, metadata []byte) error {
	path := c.refCachePath(remote, ref)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("while creating ref cache directory: %s", err)
	}
	return os.WriteFile(path, metadata, 0o600)
}

// SearchForDependency returns the names of every enabled remote whose ref
// cache holds an entry for ref, in map iteration order. The Expander uses
// this to find candidate remotes for a runtime dependency that is not
// declared by any remote already in the Op Table.
func (c *FileCatalog) SearchForDependency(ctx context.Context, ref string) ([]string, error) {
	var candidates []string
	for name, r := range c.config.Remotes {
		if r.Disabled {
			continue
		}
		if _, ok, err := c.FetchRefCache(ctx, name, ref); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		} else if ok {
			candidates = append(candidates, name)
		}
	}
	return candidates, nil
}

// CreateOriginRemote creates (or reuses, if id is already a known remote
// pointing at the same uri/tag) a remote synthesized for an OCI-image
// install, returning the remote id actually used.
func (c *FileCatalog) CreateOriginRemote(ctx context.Context, id, title, ref, uri, tag string) (string, error) {
	if existing, err := c.config.GetRemote(id); err == nil {
		if existing.URI == uri && existing.Tag == tag {
			return id, nil
		}
		return "", fmt.Errorf("remote %s already exists with a different origin", id)
	}

	e := &RemoteConfig{URI: uri, Tag: tag}
	if err := c.config.Add(id, e); err != nil {
		return "", err
	}
	if err := c.save(); err != nil {
		return "", err
	}
	return id, nil
}

// RecreateRepo reinitializes the in-memory view of the catalog from disk
// so a remote created by CreateOriginRemote becomes visible to subsequent
// lookups in the same transaction run.
func (c *FileCatalog) RecreateRepo(ctx context.Context) error {
	return c.reload()
}
