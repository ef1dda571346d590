// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
)

func newTestCatalog(t *testing.T) *FileCatalog {
	t.Helper()
	dir := t.TempDir()
	c, err := New(filepath.Join(dir, "remotes.yaml"), filepath.Join(dir, "ref-cache"), false)
	assert.NilError(t, err)
	return c
}

func TestAddAndGetRemote(t *testing.T) {
	c := newTestCatalog(t)

	err := c.AddRemote("flathub", &RemoteConfig{URI: "https://dl.flathub.org/repo"})
	assert.NilError(t, err)

	r, err := c.GetRemote("flathub")
	assert.NilError(t, err)
	assert.Equal(t, r.URI, "https://dl.flathub.org/repo")
	assert.Assert(t, !r.Disabled)
}

func TestIsRemoteDisabled(t *testing.T) {
	c := newTestCatalog(t)
	assert.Assert(t, !c.IsRemoteDisabled("unknown"))

	assert.NilError(t, c.AddRemote("origin", &RemoteConfig{URI: "https://example.com", Disabled: true}))
	assert.Assert(t, c.IsRemoteDisabled("origin"))
}

func TestFetchRefCacheMissing(t *testing.T) {
	c := newTestCatalog(t)

	_, ok, err := c.FetchRefCache(context.Background(), "origin", "app/org.example.App/x86_64/stable")
	assert.NilError(t, err)
	assert.Assert(t, !ok)
}

func TestPutAndFetchRefCache(t *testing.T) {
	c := newTestCatalog(t)

	ref := "app/org.example.App/x86_64/stable"
	assert.NilError(t, c.PutRefCache("origin", ref, []byte("[Application]\nruntime=org.example.Runtime/x86_64/stable\n")))

	data, ok, err := c.FetchRefCache(context.Background(), "origin", ref)
	assert.NilError(t, err)
	assert.Assert(t, ok)

	pref, found, err := ParseRuntimeDependency(data)
	assert.NilError(t, err)
	assert.Assert(t, found)
	assert.Equal(t, pref, "org.example.Runtime/x86_64/stable")
}

func TestSearchForDependency(t *testing.T) {
	c := newTestCatalog(t)
	ref := "runtime/org.example.Runtime/x86_64/stable"

	assert.NilError(t, c.AddRemote("origin", &RemoteConfig{URI: "https://example.com"}))
	assert.NilError(t, c.AddRemote("disabled", &RemoteConfig{URI: "https://disabled.example.com", Disabled: true}))
	assert.NilError(t, c.PutRefCache("origin", ref, []byte("")))
	assert.NilError(t, c.PutRefCache("disabled", ref, []byte("")))

	candidates, err := c.SearchForDependency(context.Background(), ref)
	assert.NilError(t, err)
	assert.DeepEqual(t, candidates, []string{"origin"})
}

func TestCreateOriginRemoteIsIdempotent(t *testing.T) {
	c := newTestCatalog(t)

	id, err := c.CreateOriginRemote(context.Background(), "oci-myapp", "OCI remote for myapp", "app/org.example.App/x86_64/stable", "docker://example.com/myapp", "latest")
	assert.NilError(t, err)
	assert.Equal(t, id, "oci-myapp")

	id2, err := c.CreateOriginRemote(context.Background(), "oci-myapp", "OCI remote for myapp", "app/org.example.App/x86_64/stable", "docker://example.com/myapp", "latest")
	assert.NilError(t, err)
	assert.Equal(t, id2, "oci-myapp")

	assert.NilError(t, c.RecreateRepo(context.Background()))

	r, err := c.GetRemote("oci-myapp")
	assert.NilError(t, err)
	assert.Equal(t, r.Tag, "latest")
}

func TestParseRuntimeDependencyAbsent(t *testing.T) {
	pref, ok, err := ParseRuntimeDependency([]byte("[Application]\nname=org.example.App\n"))
	assert.NilError(t, err)
	assert.Assert(t, !ok)
	assert.Equal(t, pref, "")
}
