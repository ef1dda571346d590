// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package deploy is the low-level deploy engine the transaction planner
// dispatches install/update calls to. It owns the on-disk record of what is
// currently deployed, but performs no network I/O itself in this
// implementation — "pulling" content is simulated by recording the
// requested ref/commit, consistent with this package's role as an external
// collaborator behind a narrow interface (see Store).
package deploy

import (
	"context"

	"github.com/pkestene/flatpak/internal/pkg/ref"
)

// Store is the contract the transaction core consumes from the deploy
// engine. All methods that may block take a context so callers can cancel
// a long-running install/update.
type Store interface {
	// IsDeployed reports whether ref is currently deployed in this store's
	// scope.
	IsDeployed(ctx context.Context, r ref.Ref) (bool, error)

	// Origin returns the remote a deployed ref was installed from.
	// Returns ErrNotInstalled if r is not deployed.
	Origin(ctx context.Context, r ref.Ref) (string, error)

	// Commit returns the commit currently deployed for r.
	// Returns ErrNotInstalled if r is not deployed.
	Commit(ctx context.Context, r ref.Ref) (string, error)

	// Install deploys ref from remote. subpaths is the concrete restriction
	// to apply (empty slice means "all"). Returns an error satisfying
	// errors.Is(err, ErrAlreadyInstalled) if r is already deployed here.
	Install(ctx context.Context, r ref.Ref, remote string, subpaths []string, noPull, noDeploy bool) error

	// Update re-deploys ref at the remote's latest commit, or at commit if
	// non-empty. subpaths nil means "keep whatever subpaths are already
	// deployed"; an empty slice means "switch to all". Returns an error
	// satisfying errors.Is(err, ErrAlreadyInstalled) if the resolved target
	// commit is already the one deployed (a no-op update).
	Update(ctx context.Context, r ref.Ref, remote, commit string, subpaths []string, noPull, noDeploy bool) error

	// IsUserScope reports whether this store is the per-user installation
	// (true) or the system-wide one (false).
	IsUserScope() bool

	// SystemStore returns the system-scope store consulted by a user-scope
	// store's "already installed" checks, or nil if this store already is
	// the system store.
	SystemStore() Store
}
