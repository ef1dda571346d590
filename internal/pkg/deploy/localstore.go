// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package deploy

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/pkestene/flatpak/internal/pkg/ref"
	"gopkg.in/yaml.v3"
)

// record is the on-disk state of a single deployed ref.
type record struct {
	Remote   string   `yaml:"remote"`
	Commit   string   `yaml:"commit"`
	Subpaths []string `yaml:"subpaths,omitempty"`
}

// ledger is the full YAML document persisted at a store's config path.
type ledger struct {
	Installed map[string]*record `yaml:"installed"`
}

// readLedgerFrom mirrors remote.ReadFrom: decode what's there, tolerate an
// empty file, reject anything with unexpected fields.
func readLedgerFrom(r io.Reader) (*ledger, error) {
	l := &ledger{Installed: make(map[string]*record)}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read deploy ledger: %s", err)
	}
	if len(b) == 0 {
		return l, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(l); err != nil {
		return nil, fmt.Errorf("failed to decode deploy ledger YAML: %s", err)
	}
	if l.Installed == nil {
		l.Installed = make(map[string]*record)
	}
	return l, nil
}

func (l *ledger) writeTo(w io.Writer) (int64, error) {
	b, err := yaml.Marshal(l)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal deploy ledger to yaml: %s", err)
	}
	n, err := w.Write(b)
	if err != nil {
		return 0, fmt.Errorf("failed to write deploy ledger: %s", err)
	}
	return int64(n), nil
}

// localStore is a YAML-file-backed Store, one file per scope.
type localStore struct {
	path        string
	perm        os.FileMode
	userScope   bool
	systemStore Store
}

// NewUserStore returns the per-user deploy store. system is consulted by
// IsDeployed-adjacent scope checks in the transaction's intake path and is
// returned unmodified by SystemStore.
func NewUserStore(path string, system Store) Store {
	return &localStore{path: path, perm: 0o600, userScope: true, systemStore: system}
}

// NewSystemStore returns the system-wide deploy store.
func NewSystemStore(path string) Store {
	return &localStore{path: path, perm: 0o644, userScope: false}
}

func (s *localStore) IsUserScope() bool { return s.userScope }

func (s *localStore) SystemStore() Store { return s.systemStore }

// open opens the ledger file read-write, creating it if absent, and decodes
// it. The caller must Close the returned file.
func (s *localStore) open() (*os.File, *ledger, error) {
	file, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE, s.perm)
	if err != nil {
		return nil, nil, fmt.Errorf("while opening deploy ledger %s: %s", s.path, err)
	}
	l, err := readLedgerFrom(file)
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	return file, l, nil
}

// save truncates file, rewinds it and writes l, syncing to commit it. The
// file is rewritten in place, not replaced atomically.
func save(file *os.File, l *ledger) error {
	if err := file.Truncate(0); err != nil {
		return fmt.Errorf("while truncating deploy ledger %s: %s", file.Name(), err)
	}
	if n, err := file.Seek(0, io.SeekStart); err != nil || n != 0 {
		return fmt.Errorf("failed to reset %s cursor: %s", file.Name(), err)
	}
	if _, err := l.writeTo(file); err != nil {
		return err
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to flush deploy ledger %s: %s", file.Name(), err)
	}
	return nil
}

func (s *localStore) IsDeployed(ctx context.Context, r ref.Ref) (bool, error) {
	file, l, err := s.open()
	if err != nil {
		return false, err
	}
	defer file.Close()

	_, ok := l.Installed[r.String()]
	return ok, nil
}

func (s *localStore) Origin(ctx context.Context, r ref.Ref) (string, error) {
	file, l, err := s.open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	rec, ok := l.Installed[r.String()]
	if !ok {
		return "", fmt.Errorf("%s: %w", r, ErrNotInstalled)
	}
	return rec.Remote, nil
}

func (s *localStore) Commit(ctx context.Context, r ref.Ref) (string, error) {
	file, l, err := s.open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	rec, ok := l.Installed[r.String()]
	if !ok {
		return "", fmt.Errorf("%s: %w", r, ErrNotInstalled)
	}
	return rec.Commit, nil
}

func (s *localStore) Install(ctx context.Context, r ref.Ref, remote string, subpaths []string, noPull, noDeploy bool) error {
	file, l, err := s.open()
	if err != nil {
		return err
	}
	defer file.Close()

	if _, ok := l.Installed[r.String()]; ok {
		return fmt.Errorf("%s: %w", r, ErrAlreadyInstalled)
	}

	if noDeploy {
		// Pulled but not deployed: nothing to record yet.
		return nil
	}

	commit := simulatedCommit(remote, r.String())
	l.Installed[r.String()] = &record{Remote: remote, Commit: commit, Subpaths: subpaths}
	return save(file, l)
}

func (s *localStore) Update(ctx context.Context, r ref.Ref, remote, commit string, subpaths []string, noPull, noDeploy bool) error {
	file, l, err := s.open()
	if err != nil {
		return err
	}
	defer file.Close()

	rec, ok := l.Installed[r.String()]
	if !ok {
		return fmt.Errorf("%s: %w", r, ErrNotInstalled)
	}

	target := commit
	if target == "" {
		target = simulatedCommit(remote, r.String())
	}
	if target == rec.Commit {
		return fmt.Errorf("%s: %w", r, ErrAlreadyInstalled)
	}

	if noDeploy {
		return nil
	}

	rec.Remote = remote
	rec.Commit = target
	if subpaths != nil {
		rec.Subpaths = subpaths
	}
	return save(file, l)
}

// simulatedCommit stands in for the commit a real pull would resolve from
// the remote; this deploy engine performs no network I/O, so it derives a
// stable placeholder from the inputs instead.
func simulatedCommit(remote, pref string) string {
	sum := sha256.Sum256([]byte(remote + "/" + pref))
	return hex.EncodeToString(sum[:])[:12]
}
