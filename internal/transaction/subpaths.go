// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package transaction

// subpathsKind distinguishes the three shapes a subpaths request can take;
// see Subpaths.
type subpathsKind int

const (
	subpathsInherit subpathsKind = iota
	subpathsAll
	subpathsOnly
)

// Subpaths is a tagged variant of a ref's subpath restriction: "inherit
// whatever is already deployed" (only meaningful for an update), "all
// subpaths" (unrestricted), or "only these subpaths". A nullable
// []string cannot distinguish the first two cases, which is why this is a
// struct rather than a slice.
type Subpaths struct {
	kind subpathsKind
	list []string
}

// Inherit is the "keep whatever subpaths are already deployed" variant.
func Inherit() Subpaths { return Subpaths{kind: subpathsInherit} }

// All is the "no restriction" variant.
func All() Subpaths { return Subpaths{kind: subpathsAll} }

// Only is the "restrict to exactly these subpaths" variant.
func Only(paths []string) Subpaths { return Subpaths{kind: subpathsOnly, list: paths} }

func (s Subpaths) IsInherit() bool { return s.kind == subpathsInherit }
func (s Subpaths) IsAll() bool     { return s.kind == subpathsAll }
func (s Subpaths) IsOnly() bool    { return s.kind == subpathsOnly }

// List returns the explicit subpath list for the Only variant, or nil
// otherwise.
func (s Subpaths) List() []string { return s.list }

// merge implements the Op Table's "unrestricted wins" rule: All beats
// anything; a new Only replaces an existing Only or Inherit (an existing
// All is never narrowed back); Inherit never changes the existing value.
func (s Subpaths) merge(incoming Subpaths) Subpaths {
	if incoming.IsInherit() {
		return s
	}
	if s.IsAll() {
		return s
	}
	return incoming
}

// resolveForDeploy turns the tagged variant into the []string contract
// deploy.Store.Install/Update expects: nil for Inherit, an empty
// (non-nil) slice for All, and the explicit list for Only.
func (s Subpaths) resolveForDeploy() []string {
	switch s.kind {
	case subpathsInherit:
		return nil
	case subpathsAll:
		return []string{}
	default:
		return s.list
	}
}
