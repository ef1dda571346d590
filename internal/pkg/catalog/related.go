// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package catalog

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"
)

// Related describes a ref related to one already being installed or
// updated, e.g. a locale extension or a debug-info extension.
type Related struct {
	Ref      string   `yaml:"ref"`
	Subpaths []string `yaml:"subpaths,omitempty"`
	// Download reports whether this related ref should actually be
	// fetched. Entries with Download false describe a relation used only
	// for other purposes (e.g. cleanup on uninstall) and are skipped by
	// expansion.
	Download bool `yaml:"download"`
}

type relatedIndex struct {
	Related []Related `yaml:"related"`
}

// relatedIndexPath locates the per-(remote,ref) related index under dir,
// named by a slug of the remote and the full ref string.
func relatedIndexPath(dir, remote, ref string) string {
	return filepath.Join(dir, slug.Make(remote), slug.Make(ref)+".related.yaml")
}

func readRelatedIndex(path string) ([]Related, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("while reading related index %s: %s", path, err)
	}

	var idx relatedIndex
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&idx); err != nil {
		return nil, fmt.Errorf("while decoding related index %s: %s", path, err)
	}
	return idx.Related, nil
}

// FindLocalRelated returns the related refs recorded for ref/remote in the
// local cache, without contacting the remote.
func (c *FileCatalog) FindLocalRelated(ctx context.Context, ref, remote string) ([]Related, error) {
	return readRelatedIndex(relatedIndexPath(c.refCacheDir, remote, ref))
}

// FindRemoteRelated returns the related refs the remote currently
// advertises for ref. This implementation has no network transport of its
// own: it reads the same local related index as FindLocalRelated and does
// not contact the remote.
func (c *FileCatalog) FindRemoteRelated(ctx context.Context, ref, remote string) ([]Related, error) {
	return readRelatedIndex(relatedIndexPath(c.refCacheDir, remote, ref))
}
