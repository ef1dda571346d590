// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/pkestene/flatpak/internal/pkg/deploy"
	"github.com/pkestene/flatpak/pkg/sylog"
)

// Run executes the Op Table in insertion order. It may be called exactly
// once per Transaction; a second call returns ErrAlreadyRun.
func (t *Transaction) Run(ctx context.Context) error {
	if t.ran {
		return ErrAlreadyRun
	}
	t.ran = true

	failed := false
	for _, op := range t.table.Ops() {
		err := t.dispatch(ctx, op)
		if err == nil {
			continue
		}

		if op.NonFatal {
			sylog.Warningf("%s", err)
			continue
		}
		if t.cfg.StopOnFirstError {
			return err
		}
		sylog.Errorf("%s", err)
		failed = true
	}

	if failed {
		return ErrOperationsFailed
	}
	return nil
}

// dispatch resolves op's kind against current deploy state (if it's
// OpInstallOrUpdate) and performs the install/update call.
func (t *Transaction) dispatch(ctx context.Context, op *Op) error {
	kind := op.Kind
	if kind == OpInstallOrUpdate {
		deployed, err := t.store.IsDeployed(ctx, op.Ref)
		if err != nil {
			return fmt.Errorf("resolving install/update for %s: %w", op.Ref, errors.Join(ErrDeployError, err))
		}
		if deployed {
			kind = OpUpdate
		} else {
			kind = OpInstall
		}
	}

	switch kind {
	case OpInstall:
		subpaths := op.Subpaths
		if subpaths.IsInherit() {
			subpaths = All()
		}
		sylog.Infof("Installing: %s from %s", op.Ref.Pref(), op.Remote)
		if err := t.store.Install(ctx, op.Ref, op.Remote, subpaths.resolveForDeploy(), t.cfg.NoPull, t.cfg.NoDeploy); err != nil {
			return fmt.Errorf("installing %s: %w", op.Ref, errors.Join(ErrDeployError, err))
		}
		return nil

	case OpUpdate:
		sylog.Infof("Updating: %s from %s", op.Ref.Pref(), op.Remote)
		err := t.store.Update(ctx, op.Ref, op.Remote, op.Commit, op.Subpaths.resolveForDeploy(), t.cfg.NoPull, t.cfg.NoDeploy)
		if err != nil {
			if errors.Is(err, deploy.ErrAlreadyInstalled) {
				sylog.Infof("No updates.")
				return nil
			}
			return fmt.Errorf("updating %s: %w", op.Ref, errors.Join(ErrDeployError, err))
		}

		if commit, cerr := t.store.Commit(ctx, op.Ref); cerr == nil {
			sylog.Infof("Now at %s", shortCommit(commit))
		}
		return nil
	}

	return nil
}

func shortCommit(commit string) string {
	if len(commit) <= 12 {
		return commit
	}
	return commit[:12]
}
