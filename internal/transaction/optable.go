// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package transaction

import "github.com/pkestene/flatpak/internal/pkg/ref"

// opTable is the canonical store of planned operations: a map keyed by ref
// for O(1) lookup/merge, paired with an append-only ordered slice used for
// executor traversal. Both views always point at the same *Op instances.
type opTable struct {
	byRef   map[ref.Ref]*Op
	ordered []*Op
}

func newOpTable() *opTable {
	return &opTable{byRef: make(map[ref.Ref]*Op)}
}

// AddOp inserts a new Op for r, or merges fields into the existing one.
// kind, remote and commit are never overwritten by a merge: the first
// insertion represents the user's direct intent, later insertions arise
// from expansion.
func (t *opTable) AddOp(remote string, r ref.Ref, subpaths Subpaths, commit string, kind OpKind) *Op {
	if existing, ok := t.byRef[r]; ok {
		existing.Subpaths = existing.Subpaths.merge(subpaths)
		return existing
	}

	op := &Op{
		Remote:   remote,
		Ref:      r,
		Subpaths: subpaths,
		Commit:   commit,
		Kind:     kind,
	}
	t.byRef[r] = op
	t.ordered = append(t.ordered, op)
	return op
}

// Contains reports whether the table already has an Op for r.
func (t *opTable) Contains(r ref.Ref) bool {
	_, ok := t.byRef[r]
	return ok
}

// Get returns the Op for r, if any.
func (t *opTable) Get(r ref.Ref) (*Op, bool) {
	op, ok := t.byRef[r]
	return op, ok
}

// Ops returns the ordered sequence of Ops, in insertion order.
func (t *opTable) Ops() []*Op {
	return t.ordered
}
