// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package transaction

import "github.com/pkestene/flatpak/internal/pkg/ref"

// OpKind is the action an Op performs. It is an explicit three-variant sum
// rather than a pair of install/update booleans, so "neither" is not a
// representable state.
type OpKind int

const (
	// OpInstall deploys a ref that is not currently deployed.
	OpInstall OpKind = iota
	// OpUpdate re-deploys a ref that is already deployed.
	OpUpdate
	// OpInstallOrUpdate defers the install-vs-update choice to executor
	// flag resolution, based on the deploy state at execution time. Used
	// by dependency and related-ref expansion, which don't know in
	// advance whether their target is already deployed.
	OpInstallOrUpdate
)

func (k OpKind) String() string {
	switch k {
	case OpInstall:
		return "install"
	case OpUpdate:
		return "update"
	case OpInstallOrUpdate:
		return "install-or-update"
	default:
		return "unknown"
	}
}

// Op is a single planned operation against one ref.
type Op struct {
	Remote   string
	Ref      ref.Ref
	Subpaths Subpaths
	Commit   string
	Kind     OpKind

	// NonFatal marks an op whose failure is logged but does not fail the
	// transaction. Set by related-ref expansion.
	NonFatal bool
}
