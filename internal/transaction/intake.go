// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pkestene/flatpak/internal/pkg/deploy"
	"github.com/pkestene/flatpak/internal/pkg/ociregistry"
	"github.com/pkestene/flatpak/internal/pkg/ref"
)

// AddInstall requests that refStr be installed from remote. subpaths'
// Inherit variant is normalized to All, since an install has no existing
// deployment to inherit restrictions from.
func (t *Transaction) AddInstall(ctx context.Context, remote, refStr string, subpaths Subpaths) (*Op, error) {
	if strings.TrimSpace(remote) == "" {
		return nil, fmt.Errorf("remote is required")
	}
	r, err := ref.Parse(refStr)
	if err != nil {
		return nil, err
	}
	if subpaths.IsInherit() {
		subpaths = All()
	}
	return t.addRef(ctx, remote, r, subpaths, "", false)
}

// AddUpdate requests that refStr be updated, optionally pinned to commit.
// The remote is determined from the ref's existing deploy record. If that
// remote is disabled, the update is silently skipped: (nil, nil).
func (t *Transaction) AddUpdate(ctx context.Context, refStr string, subpaths Subpaths, commit string) (*Op, error) {
	r, err := ref.Parse(refStr)
	if err != nil {
		return nil, err
	}

	origin, err := t.store.Origin(ctx, r)
	if err != nil {
		if errors.Is(err, deploy.ErrNotInstalled) {
			return nil, fmt.Errorf("%s: %w", r, deploy.ErrNotInstalled)
		}
		return nil, err
	}

	if t.catalog.IsRemoteDisabled(origin) {
		return nil, nil
	}

	return t.addRef(ctx, origin, r, subpaths, commit, true)
}

// AddInstallOCI requests an install sourced directly from an OCI image at
// uri/tag, as recorded in the image's flatpak annotations.
func (t *Transaction) AddInstallOCI(ctx context.Context, uri, tag string) (*Op, error) {
	session, err := t.registry.Open(ctx, uri)
	if err != nil {
		return nil, err
	}

	manifest, err := session.ChooseImage(ctx, tag)
	if err != nil {
		return nil, err
	}

	refStr, checksum, err := ociregistry.ParseCommitAnnotations(manifest.Annotations())
	if err != nil {
		if errors.Is(err, ociregistry.ErrInvalidOciImage) {
			return nil, fmt.Errorf("%s: %w", uri, ErrInvalidOciImage)
		}
		return nil, err
	}

	r, err := ref.Parse(refStr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", err, ErrInvalidOciImage)
	}

	name := strings.SplitN(r.Pref(), "/", 2)[0]
	remoteID := "oci-" + name
	title := fmt.Sprintf("OCI remote for %s", name)

	remote, err := t.catalog.CreateOriginRemote(ctx, remoteID, title, r.String(), uri, tag)
	if err != nil {
		return nil, fmt.Errorf("creating origin remote for %s: %w", uri, err)
	}
	if err := t.catalog.RecreateRepo(ctx); err != nil {
		return nil, fmt.Errorf("reinitializing catalog after %s: %w", remote, err)
	}

	return t.addRef(ctx, remote, r, All(), checksum, false)
}

// addRef is the common path shared by AddInstall, AddUpdate and
// AddInstallOCI once (remote, ref, subpaths, commit, isUpdate) are known.
func (t *Transaction) addRef(ctx context.Context, remote string, r ref.Ref, subpaths Subpaths, commit string, isUpdate bool) (*Op, error) {
	if !isUpdate {
		already, err := t.isAlreadyInstalled(ctx, r)
		if err != nil {
			return nil, err
		}
		if already {
			return nil, fmt.Errorf("%s: %w", r, deploy.ErrAlreadyInstalled)
		}
	}

	if t.cfg.AddDeps {
		// Unlike the original implementation, a dependency-expansion
		// failure here always propagates and aborts the whole
		// transaction; it is never silently discarded.
		if err := t.expandDependencies(ctx, remote, r); err != nil {
			return nil, err
		}
	}

	kind := OpInstall
	if isUpdate {
		kind = OpUpdate
	}
	op := t.table.AddOp(remote, r, subpaths, commit, kind)

	if t.cfg.AddRelated {
		_ = t.expandRelated(ctx, remote, r)
	}

	return op, nil
}
