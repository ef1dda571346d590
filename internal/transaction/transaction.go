// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package transaction is the planning and execution engine for a flatpak
// install/update batch: request intake, dependency and related-ref
// expansion, deduplication/merging into an Op Table, and sequential
// execution against a deploy engine under a partial-failure policy.
package transaction

import (
	"github.com/pkestene/flatpak/internal/pkg/catalog"
	"github.com/pkestene/flatpak/internal/pkg/deploy"
	"github.com/pkestene/flatpak/internal/pkg/ociregistry"
	"github.com/pkestene/flatpak/internal/pkg/prompt"
)

// Config is the set of options fixed for the lifetime of a Transaction.
type Config struct {
	// NoPull skips network fetch; the deploy engine must already have the
	// content locally.
	NoPull bool
	// NoDeploy fetches content but does not activate it on disk.
	NoDeploy bool
	// AddDeps enables runtime dependency expansion.
	AddDeps bool
	// AddRelated enables related-ref expansion.
	AddRelated bool
	// StopOnFirstError aborts the whole run on the first fatal op
	// failure, instead of continuing and reporting ErrOperationsFailed.
	StopOnFirstError bool
}

// Transaction plans and executes one install/update batch. It is built
// once via New and run exactly once via Run.
type Transaction struct {
	store    deploy.Store
	catalog  catalog.Catalog
	registry ociregistry.Registry
	prompter prompt.Prompter
	cfg      Config

	table *opTable
	ran   bool
}

// New constructs a Transaction. The collaborators are kept for the
// Transaction's lifetime but never closed by it; callers own their
// lifecycle. A nil prompter is replaced by prompt.NonInteractive.
func New(store deploy.Store, cat catalog.Catalog, registry ociregistry.Registry, prompter prompt.Prompter, cfg Config) *Transaction {
	if prompter == nil {
		prompter = prompt.NonInteractive{}
	}
	return &Transaction{
		store:    store,
		catalog:  cat,
		registry: registry,
		prompter: prompter,
		cfg:      cfg,
		table:    newOpTable(),
	}
}

// Ops returns the current ordered Op Table, for tests and diagnostics.
func (t *Transaction) Ops() []*Op {
	return t.table.Ops()
}
