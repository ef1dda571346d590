// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package deploy

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pkestene/flatpak/internal/pkg/ref"
	"gotest.tools/v3/assert"
)

func TestInstallAndIsDeployed(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(filepath.Join(t.TempDir(), "installations.yaml"), nil)
	r := ref.New(ref.KindApp, "org.example.App/x86_64/stable")

	deployed, err := store.IsDeployed(ctx, r)
	assert.NilError(t, err)
	assert.Assert(t, !deployed)

	err = store.Install(ctx, r, "flathub", nil, false, false)
	assert.NilError(t, err)

	deployed, err = store.IsDeployed(ctx, r)
	assert.NilError(t, err)
	assert.Assert(t, deployed)

	origin, err := store.Origin(ctx, r)
	assert.NilError(t, err)
	assert.Equal(t, origin, "flathub")
}

func TestInstallTwiceFails(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(filepath.Join(t.TempDir(), "installations.yaml"), nil)
	r := ref.New(ref.KindApp, "org.example.App/x86_64/stable")

	assert.NilError(t, store.Install(ctx, r, "flathub", nil, false, false))

	err := store.Install(ctx, r, "flathub", nil, false, false)
	assert.Assert(t, errors.Is(err, ErrAlreadyInstalled))
}

func TestUpdateNotInstalled(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(filepath.Join(t.TempDir(), "installations.yaml"), nil)
	r := ref.New(ref.KindApp, "org.example.App/x86_64/stable")

	err := store.Update(ctx, r, "flathub", "", nil, false, false)
	assert.Assert(t, errors.Is(err, ErrNotInstalled))
}

func TestUpdateNoop(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(filepath.Join(t.TempDir(), "installations.yaml"), nil)
	r := ref.New(ref.KindApp, "org.example.App/x86_64/stable")

	assert.NilError(t, store.Install(ctx, r, "flathub", nil, false, false))

	commit, err := store.Commit(ctx, r)
	assert.NilError(t, err)

	err = store.Update(ctx, r, "flathub", commit, nil, false, false)
	assert.Assert(t, errors.Is(err, ErrAlreadyInstalled))
}

func TestUpdateChangesCommit(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(filepath.Join(t.TempDir(), "installations.yaml"), nil)
	r := ref.New(ref.KindApp, "org.example.App/x86_64/stable")

	assert.NilError(t, store.Install(ctx, r, "flathub", nil, false, false))

	before, err := store.Commit(ctx, r)
	assert.NilError(t, err)

	err = store.Update(ctx, r, "flathub", "deadbeefcafe0", nil, false, false)
	assert.NilError(t, err)

	after, err := store.Commit(ctx, r)
	assert.NilError(t, err)
	assert.Assert(t, before != after)
	assert.Equal(t, after, "deadbeefcafe0")
}

func TestPersistsAcrossStoreInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "installations.yaml")
	r := ref.New(ref.KindRuntime, "org.example.Runtime/x86_64/stable")

	first := NewUserStore(path, nil)
	assert.NilError(t, first.Install(ctx, r, "flathub", []string{}, false, false))

	second := NewUserStore(path, nil)
	deployed, err := second.IsDeployed(ctx, r)
	assert.NilError(t, err)
	assert.Assert(t, deployed)
}

func TestSystemStoreLinkage(t *testing.T) {
	sys := NewSystemStore(filepath.Join(t.TempDir(), "sys-installations.yaml"))
	usr := NewUserStore(filepath.Join(t.TempDir(), "installations.yaml"), sys)

	assert.Assert(t, !sys.IsUserScope())
	assert.Assert(t, usr.IsUserScope())
	assert.Equal(t, usr.SystemStore(), sys)
	assert.Assert(t, sys.SystemStore() == nil)
}

func TestNoDeployLeavesUndeployed(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(filepath.Join(t.TempDir(), "installations.yaml"), nil)
	r := ref.New(ref.KindApp, "org.example.App/x86_64/stable")

	err := store.Install(ctx, r, "flathub", nil, false, true)
	assert.NilError(t, err)

	deployed, err := store.IsDeployed(ctx, r)
	assert.NilError(t, err)
	assert.Assert(t, !deployed)
}
