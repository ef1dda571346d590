// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package transaction

import (
	"context"
	"errors"
	"testing"

	"github.com/pkestene/flatpak/internal/pkg/catalog"
	"github.com/pkestene/flatpak/internal/pkg/deploy"
	"github.com/pkestene/flatpak/internal/pkg/ociregistry"
	"github.com/pkestene/flatpak/internal/pkg/ref"
	"gotest.tools/v3/assert"
)

const appMetadata = "[Application]\nname=com.X\nruntime=org.Y/x86_64/stable\n"

func TestScenarioSimpleInstallWithRuntime(t *testing.T) {
	store := newFakeStore(true, nil)
	cat := newFakeCatalog()
	cat.refCache[cacheKey("origin", "app/com.X/x86_64/stable")] = []byte(appMetadata)
	cat.dependency["runtime/org.Y/x86_64/stable"] = []string{"origin"}

	tr := New(store, cat, newFakeRegistry(), fakePrompter{yesNo: true}, Config{AddDeps: true, AddRelated: true})

	_, err := tr.AddInstall(context.Background(), "origin", "app/com.X/x86_64/stable", Inherit())
	assert.NilError(t, err)

	ops := tr.Ops()
	assert.Equal(t, len(ops), 2)
	assert.Equal(t, ops[0].Ref.String(), "runtime/org.Y/x86_64/stable")
	assert.Equal(t, ops[1].Ref.String(), "app/com.X/x86_64/stable")

	assert.NilError(t, tr.Run(context.Background()))

	deployed, err := store.IsDeployed(context.Background(), ref.New(ref.KindRuntime, "org.Y/x86_64/stable"))
	assert.NilError(t, err)
	assert.Assert(t, deployed)

	deployed, err = store.IsDeployed(context.Background(), ref.New(ref.KindApp, "com.X/x86_64/stable"))
	assert.NilError(t, err)
	assert.Assert(t, deployed)
}

func TestScenarioUpdateWithDisabledRemote(t *testing.T) {
	store := newFakeStore(true, nil)
	store.deployed["app/com.X/x86_64/stable"] = &deployRecord{remote: "origin", commit: "cafe0001"}
	cat := newFakeCatalog()
	cat.disabled["origin"] = true

	tr := New(store, cat, newFakeRegistry(), fakePrompter{}, Config{})

	op, err := tr.AddUpdate(context.Background(), "app/com.X/x86_64/stable", Inherit(), "")
	assert.NilError(t, err)
	assert.Assert(t, op == nil)
	assert.Equal(t, len(tr.Ops()), 0)

	assert.NilError(t, tr.Run(context.Background()))
}

func TestScenarioAmbiguousRuntimeAborts(t *testing.T) {
	store := newFakeStore(true, nil)
	cat := newFakeCatalog()
	cat.refCache[cacheKey("origin", "app/com.X/x86_64/stable")] = []byte(appMetadata)
	cat.dependency["runtime/org.Y/x86_64/stable"] = []string{"a", "b", "c"}

	tr := New(store, cat, newFakeRegistry(), fakePrompter{chooseNo: 0}, Config{AddDeps: true})

	_, err := tr.AddInstall(context.Background(), "origin", "app/com.X/x86_64/stable", Inherit())
	assert.Assert(t, errors.Is(err, ErrMissingRuntime))
	assert.Equal(t, len(tr.Ops()), 0)
}

func TestScenarioOciInstall(t *testing.T) {
	store := newFakeStore(true, nil)
	cat := newFakeCatalog()
	reg := newFakeRegistry()
	reg.manifests["https://reg/example|v1"] = ociregistry.NewManifest("sha256:deadbeef", map[string]string{
		ociregistry.AnnotationRef:    "app/com.Z/x86_64/stable",
		ociregistry.AnnotationCommit: "deadbeefcafe0",
	})

	tr := New(store, cat, reg, fakePrompter{}, Config{})

	op, err := tr.AddInstallOCI(context.Background(), "https://reg/example", "v1")
	assert.NilError(t, err)
	assert.Equal(t, op.Ref.String(), "app/com.Z/x86_64/stable")
	assert.Equal(t, op.Commit, "deadbeefcafe0")
	assert.Assert(t, op.Subpaths.IsAll())
	assert.Equal(t, len(tr.Ops()), 1)
	assert.Equal(t, cat.created["oci-com.Z"], "https://reg/example")
}

func TestScenarioNonFatalRelatedFailure(t *testing.T) {
	store := newFakeStore(true, nil)
	store.installErr["app/com.Related/x86_64/stable"] = errors.New("boom")
	cat := newFakeCatalog()
	cat.related[cacheKey("origin", "app/com.X/x86_64/stable")] = []catalog.Related{
		{Ref: "app/com.Related/x86_64/stable", Download: true},
	}

	tr := New(store, cat, newFakeRegistry(), fakePrompter{}, Config{AddRelated: true, StopOnFirstError: false})

	_, err := tr.AddInstall(context.Background(), "origin", "app/com.X/x86_64/stable", Inherit())
	assert.NilError(t, err)

	err = tr.Run(context.Background())
	assert.NilError(t, err)

	deployed, err := store.IsDeployed(context.Background(), ref.New(ref.KindApp, "com.X/x86_64/stable"))
	assert.NilError(t, err)
	assert.Assert(t, deployed)
}

func TestScenarioBatchPartialFailure(t *testing.T) {
	store := newFakeStore(true, nil)
	store.installErr["app/com.A/x86_64/stable"] = errors.New("boom")
	cat := newFakeCatalog()

	tr := New(store, cat, newFakeRegistry(), fakePrompter{}, Config{StopOnFirstError: false})

	_, err := tr.AddInstall(context.Background(), "origin", "app/com.A/x86_64/stable", Inherit())
	assert.NilError(t, err)
	_, err = tr.AddInstall(context.Background(), "origin", "app/com.B/x86_64/stable", Inherit())
	assert.NilError(t, err)

	err = tr.Run(context.Background())
	assert.ErrorIs(t, err, ErrOperationsFailed)

	deployed, err := store.IsDeployed(context.Background(), ref.New(ref.KindApp, "com.B/x86_64/stable"))
	assert.NilError(t, err)
	assert.Assert(t, deployed)

	deployed, err = store.IsDeployed(context.Background(), ref.New(ref.KindApp, "com.A/x86_64/stable"))
	assert.NilError(t, err)
	assert.Assert(t, !deployed)
}

func TestRoundTripIdempotentInstall(t *testing.T) {
	store := newFakeStore(true, nil)
	cat := newFakeCatalog()

	tr := New(store, cat, newFakeRegistry(), fakePrompter{}, Config{})

	op1, err := tr.AddInstall(context.Background(), "origin", "app/com.X/x86_64/stable", Inherit())
	assert.NilError(t, err)
	op2, err := tr.AddInstall(context.Background(), "origin", "app/com.X/x86_64/stable", Inherit())
	assert.NilError(t, err)

	assert.Assert(t, op1 == op2)
	assert.Equal(t, len(tr.Ops()), 1)
}

func TestRunTwiceFails(t *testing.T) {
	store := newFakeStore(true, nil)
	cat := newFakeCatalog()
	tr := New(store, cat, newFakeRegistry(), fakePrompter{}, Config{})

	assert.NilError(t, tr.Run(context.Background()))
	err := tr.Run(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRun)
}

// I1: uniqueness.
func TestInvariantUniqueness(t *testing.T) {
	store := newFakeStore(true, nil)
	cat := newFakeCatalog()
	tr := New(store, cat, newFakeRegistry(), fakePrompter{}, Config{})

	_, err := tr.AddInstall(context.Background(), "origin", "app/com.X/x86_64/stable", Inherit())
	assert.NilError(t, err)
	_, err = tr.AddInstall(context.Background(), "origin", "app/com.X/x86_64/stable", Only([]string{"en"}))
	assert.NilError(t, err)

	count := 0
	for _, op := range tr.Ops() {
		if op.Ref.String() == "app/com.X/x86_64/stable" {
			count++
		}
	}
	assert.Equal(t, count, 1)
}

// I2: subpath monotonicity — All beats a later Only.
func TestInvariantSubpathMonotonicity(t *testing.T) {
	store := newFakeStore(true, nil)
	cat := newFakeCatalog()
	tr := New(store, cat, newFakeRegistry(), fakePrompter{}, Config{})

	op, err := tr.AddInstall(context.Background(), "origin", "app/com.X/x86_64/stable", All())
	assert.NilError(t, err)
	assert.Assert(t, op.Subpaths.IsAll())

	op2, err := tr.AddInstall(context.Background(), "origin", "app/com.X/x86_64/stable", Only([]string{"en"}))
	assert.NilError(t, err)
	assert.Assert(t, op2.Subpaths.IsAll())
}

// I4: scope isolation — a user-scope install doesn't add an op for a
// runtime present only in system scope.
func TestInvariantScopeIsolation(t *testing.T) {
	sys := newFakeStore(false, nil)
	sys.deployed["runtime/org.Y/x86_64/stable"] = &deployRecord{remote: "sys-origin", commit: "c0"}
	usr := newFakeStore(true, sys)

	cat := newFakeCatalog()
	cat.refCache[cacheKey("origin", "app/com.X/x86_64/stable")] = []byte(appMetadata)

	tr := New(usr, cat, newFakeRegistry(), fakePrompter{}, Config{AddDeps: true})

	_, err := tr.AddInstall(context.Background(), "origin", "app/com.X/x86_64/stable", Inherit())
	assert.NilError(t, err)

	for _, op := range tr.Ops() {
		assert.Assert(t, op.Ref.String() != "runtime/org.Y/x86_64/stable")
	}
}

// I6: non-fatal isolation — a run where every failed op is NonFatal
// returns nil.
func TestInvariantNonFatalIsolation(t *testing.T) {
	store := newFakeStore(true, nil)
	store.installErr["app/com.Related/x86_64/stable"] = errors.New("boom")
	cat := newFakeCatalog()
	cat.related[cacheKey("origin", "app/com.X/x86_64/stable")] = []catalog.Related{
		{Ref: "app/com.Related/x86_64/stable", Download: true},
	}

	tr := New(store, cat, newFakeRegistry(), fakePrompter{}, Config{AddRelated: true})

	_, err := tr.AddInstall(context.Background(), "origin", "app/com.X/x86_64/stable", Inherit())
	assert.NilError(t, err)

	assert.NilError(t, tr.Run(context.Background()))
}

func TestAddInstallAlreadyDeployedFails(t *testing.T) {
	store := newFakeStore(true, nil)
	store.deployed["app/com.X/x86_64/stable"] = &deployRecord{remote: "origin", commit: "c0"}
	cat := newFakeCatalog()
	tr := New(store, cat, newFakeRegistry(), fakePrompter{}, Config{})

	_, err := tr.AddInstall(context.Background(), "origin", "app/com.X/x86_64/stable", Inherit())
	assert.Assert(t, errors.Is(err, deploy.ErrAlreadyInstalled))
}

func TestAddUpdateNotInstalledFails(t *testing.T) {
	store := newFakeStore(true, nil)
	cat := newFakeCatalog()
	tr := New(store, cat, newFakeRegistry(), fakePrompter{}, Config{})

	_, err := tr.AddUpdate(context.Background(), "app/com.X/x86_64/stable", Inherit(), "")
	assert.Assert(t, errors.Is(err, deploy.ErrNotInstalled))
}
