// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package transaction

import (
	"context"
	"fmt"

	"github.com/pkestene/flatpak/internal/pkg/catalog"
	"github.com/pkestene/flatpak/internal/pkg/deploy"
	"github.com/pkestene/flatpak/internal/pkg/ociregistry"
	"github.com/pkestene/flatpak/internal/pkg/ref"
)

// fakeStore is an in-memory deploy.Store double.
type fakeStore struct {
	userScope bool
	system    *fakeStore

	deployed map[string]*deployRecord

	// installErr/updateErr let a test force a specific ref's dispatch to
	// fail, simulating a deploy-engine failure.
	installErr map[string]error
	updateErr  map[string]error
}

type deployRecord struct {
	remote string
	commit string
}

func newFakeStore(userScope bool, system *fakeStore) *fakeStore {
	return &fakeStore{
		userScope:  userScope,
		system:     system,
		deployed:   make(map[string]*deployRecord),
		installErr: make(map[string]error),
		updateErr:  make(map[string]error),
	}
}

func (s *fakeStore) IsDeployed(ctx context.Context, r ref.Ref) (bool, error) {
	_, ok := s.deployed[r.String()]
	return ok, nil
}

func (s *fakeStore) Origin(ctx context.Context, r ref.Ref) (string, error) {
	rec, ok := s.deployed[r.String()]
	if !ok {
		return "", fmt.Errorf("%s: %w", r, deploy.ErrNotInstalled)
	}
	return rec.remote, nil
}

func (s *fakeStore) Commit(ctx context.Context, r ref.Ref) (string, error) {
	rec, ok := s.deployed[r.String()]
	if !ok {
		return "", fmt.Errorf("%s: %w", r, deploy.ErrNotInstalled)
	}
	return rec.commit, nil
}

func (s *fakeStore) Install(ctx context.Context, r ref.Ref, remote string, subpaths []string, noPull, noDeploy bool) error {
	if err := s.installErr[r.String()]; err != nil {
		return err
	}
	if _, ok := s.deployed[r.String()]; ok {
		return fmt.Errorf("%s: %w", r, deploy.ErrAlreadyInstalled)
	}
	s.deployed[r.String()] = &deployRecord{remote: remote, commit: "initial-commit-000000"}
	return nil
}

func (s *fakeStore) Update(ctx context.Context, r ref.Ref, remote, commit string, subpaths []string, noPull, noDeploy bool) error {
	if err := s.updateErr[r.String()]; err != nil {
		return err
	}
	rec, ok := s.deployed[r.String()]
	if !ok {
		return fmt.Errorf("%s: %w", r, deploy.ErrNotInstalled)
	}
	target := commit
	if target == "" {
		target = "latest-commit-000000"
	}
	if target == rec.commit {
		return fmt.Errorf("%s: %w", r, deploy.ErrAlreadyInstalled)
	}
	rec.remote = remote
	rec.commit = target
	return nil
}

func (s *fakeStore) IsUserScope() bool { return s.userScope }

func (s *fakeStore) SystemStore() deploy.Store {
	if s.system == nil {
		return nil
	}
	return s.system
}

// fakeCatalog is an in-memory catalog.Catalog double.
type fakeCatalog struct {
	disabled    map[string]bool
	refCache    map[string][]byte // key: remote+"|"+ref
	related     map[string][]catalog.Related
	created     map[string]string // id -> uri
	dependency  map[string][]string
	searchErr   error
	relatedErr  error
	recreateErr error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		disabled:   make(map[string]bool),
		refCache:   make(map[string][]byte),
		related:    make(map[string][]catalog.Related),
		created:    make(map[string]string),
		dependency: make(map[string][]string),
	}
}

func cacheKey(remote, ref string) string { return remote + "|" + ref }

func (c *fakeCatalog) FetchRefCache(ctx context.Context, remote, ref string) ([]byte, bool, error) {
	b, ok := c.refCache[cacheKey(remote, ref)]
	return b, ok, nil
}

func (c *fakeCatalog) FindLocalRelated(ctx context.Context, ref, remote string) ([]catalog.Related, error) {
	return c.FindRemoteRelated(ctx, ref, remote)
}

func (c *fakeCatalog) FindRemoteRelated(ctx context.Context, ref, remote string) ([]catalog.Related, error) {
	if c.relatedErr != nil {
		return nil, c.relatedErr
	}
	return c.related[cacheKey(remote, ref)], nil
}

func (c *fakeCatalog) SearchForDependency(ctx context.Context, ref string) ([]string, error) {
	if c.searchErr != nil {
		return nil, c.searchErr
	}
	return c.dependency[ref], nil
}

func (c *fakeCatalog) IsRemoteDisabled(remote string) bool {
	return c.disabled[remote]
}

func (c *fakeCatalog) CreateOriginRemote(ctx context.Context, id, title, ref, uri, tag string) (string, error) {
	c.created[id] = uri
	return id, nil
}

func (c *fakeCatalog) RecreateRepo(ctx context.Context) error {
	return c.recreateErr
}

// fakePrompter is a scripted prompt.Prompter double.
type fakePrompter struct {
	yesNo    bool
	chooseNo int
}

func (p fakePrompter) YesNo(ctx context.Context, question string) bool { return p.yesNo }

func (p fakePrompter) ChooseNumber(ctx context.Context, lo, hi int, question string) int {
	return p.chooseNo
}

// fakeRegistry is an in-memory ociregistry.Registry double.
type fakeRegistry struct {
	manifests map[string]ociregistry.Manifest // key: uri+"|"+tag
	openErr   error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{manifests: make(map[string]ociregistry.Manifest)}
}

func (r *fakeRegistry) Open(ctx context.Context, uri string) (ociregistry.Session, error) {
	if r.openErr != nil {
		return nil, r.openErr
	}
	return &fakeSession{registry: r, uri: uri}, nil
}

type fakeSession struct {
	registry *fakeRegistry
	uri      string
}

func (s *fakeSession) ChooseImage(ctx context.Context, tag string) (ociregistry.Manifest, error) {
	m, ok := s.registry.manifests[s.uri+"|"+tag]
	if !ok {
		return ociregistry.Manifest{}, fmt.Errorf("no manifest for %s:%s", s.uri, tag)
	}
	return m, nil
}
