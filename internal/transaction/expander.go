// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package transaction

import (
	"context"
	"fmt"

	"github.com/pkestene/flatpak/internal/pkg/catalog"
	"github.com/pkestene/flatpak/internal/pkg/ref"
	"github.com/pkestene/flatpak/pkg/sylog"
)

// scopedStatus reports whether r is deployed in the transaction's own
// scope, or (only relevant for a user-scope transaction) in system scope
// instead. At most one of local/elsewhere is true.
func (t *Transaction) scopedStatus(ctx context.Context, r ref.Ref) (local, elsewhere bool, origin string, err error) {
	local, err = t.store.IsDeployed(ctx, r)
	if err != nil {
		return false, false, "", fmt.Errorf("checking deploy state of %s: %w", r, err)
	}
	if local {
		origin, err = t.store.Origin(ctx, r)
		if err != nil {
			return false, false, "", fmt.Errorf("reading origin of %s: %w", r, err)
		}
		return true, false, origin, nil
	}

	if !t.store.IsUserScope() {
		return false, false, "", nil
	}
	sys := t.store.SystemStore()
	if sys == nil {
		return false, false, "", nil
	}
	sysDeployed, err := sys.IsDeployed(ctx, r)
	if err != nil {
		return false, false, "", fmt.Errorf("checking system deploy state of %s: %w", r, err)
	}
	return false, sysDeployed, "", nil
}

// isAlreadyInstalled implements §4.2.4 step 1's install precondition: a ref
// counts as installed if deployed in the current scope, or, when the
// current scope is user scope, also in system scope.
func (t *Transaction) isAlreadyInstalled(ctx context.Context, r ref.Ref) (bool, error) {
	local, elsewhere, _, err := t.scopedStatus(ctx, r)
	return local || elsewhere, err
}

// expandDependencies implements the dependency-expansion pass of §4.3. It
// only has anything to do for app refs; runtimes have no further
// dependency of their own in this model.
func (t *Transaction) expandDependencies(ctx context.Context, remote string, r ref.Ref) error {
	if r.Kind() != ref.KindApp {
		return nil
	}

	metadata, ok, err := t.catalog.FetchRefCache(ctx, remote, r.String())
	if err != nil {
		return fmt.Errorf("fetching metadata for %s: %w", r, err)
	}
	if !ok {
		return nil
	}

	pref, ok, err := catalog.ParseRuntimeDependency(metadata)
	if err != nil {
		return fmt.Errorf("parsing metadata for %s: %w", r, err)
	}
	if !ok {
		return nil
	}

	runtime := ref.Runtime(pref)
	if t.table.Contains(runtime) {
		return nil
	}

	local, elsewhere, origin, err := t.scopedStatus(ctx, runtime)
	if err != nil {
		return err
	}

	switch {
	case local:
		t.table.AddOp(origin, runtime, Inherit(), "", OpUpdate)
		return t.expandRelated(ctx, origin, runtime)

	case elsewhere:
		// Installed in system scope but this is a user-scope
		// transaction: we neither install nor update what we don't
		// own (I4).
		return nil

	default:
		chosen, err := t.chooseRuntimeRemote(ctx, r, runtime)
		if err != nil {
			return err
		}
		t.table.AddOp(chosen, runtime, Inherit(), "", OpInstallOrUpdate)
		return t.expandRelated(ctx, chosen, runtime)
	}
}

// chooseRuntimeRemote searches the catalog for remotes offering runtime
// and asks the user to confirm a single candidate or to pick one of
// several, per §4.3 step 5.
func (t *Transaction) chooseRuntimeRemote(ctx context.Context, app, runtime ref.Ref) (string, error) {
	candidates, err := t.catalog.SearchForDependency(ctx, runtime.String())
	if err != nil {
		return "", fmt.Errorf("searching for runtime %s: %w", runtime, err)
	}

	missing := fmt.Errorf("application %s requires runtime %s which is not installed: %w", app.Pref(), runtime.Pref(), ErrMissingRuntime)

	switch len(candidates) {
	case 0:
		sylog.Warningf("no remote provides runtime %s", runtime.Pref())
		return "", missing

	case 1:
		question := fmt.Sprintf("Found %s in remote %s, do you want to install it?", runtime.Pref(), candidates[0])
		if !t.prompter.YesNo(ctx, question) {
			return "", missing
		}
		return candidates[0], nil

	default:
		question := fmt.Sprintf("Found %s in %d remotes, which one do you want to use?", runtime.Pref(), len(candidates))
		choice := t.prompter.ChooseNumber(ctx, 0, len(candidates), question)
		if choice == 0 {
			return "", missing
		}
		return candidates[choice-1], nil
	}
}

// expandRelated implements the related-ref expansion pass of §4.3.
// It does nothing unless AddRelated is set. Catalog errors are recovered:
// logged as a warning, transaction unaffected.
func (t *Transaction) expandRelated(ctx context.Context, remote string, r ref.Ref) error {
	if !t.cfg.AddRelated {
		return nil
	}

	var related []catalog.Related
	var err error
	if t.cfg.NoPull {
		related, err = t.catalog.FindLocalRelated(ctx, r.String(), remote)
	} else {
		related, err = t.catalog.FindRemoteRelated(ctx, r.String(), remote)
	}
	if err != nil {
		sylog.Warningf("%s", fmt.Errorf("%w: related lookup for %s: %s", ErrCatalogError, r, err))
		return nil
	}

	for _, rel := range related {
		if !rel.Download {
			continue
		}
		relRef, err := ref.Parse(rel.Ref)
		if err != nil {
			sylog.Warningf("%s", fmt.Errorf("%w: related ref %q: %s", ErrCatalogError, rel.Ref, err))
			continue
		}

		subpaths := All()
		if len(rel.Subpaths) > 0 {
			subpaths = Only(rel.Subpaths)
		}
		op := t.table.AddOp(remote, relRef, subpaths, "", OpInstallOrUpdate)
		op.NonFatal = true
	}
	return nil
}
