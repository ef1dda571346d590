// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package ref parses and formats flatpak-style refs: slash-delimited
// identifiers whose first segment is a kind ("app" or "runtime") and whose
// remaining segments are the pretty ref (name/arch/branch).
package ref

import (
	"fmt"
	"strings"
)

// Kind is the first segment of a ref, identifying what it names.
type Kind string

const (
	KindApp     Kind = "app"
	KindRuntime Kind = "runtime"
)

// Ref is a parsed kind-prefixed ref, e.g. "app/org.example.App/x86_64/stable".
type Ref struct {
	kind Kind
	pref string
}

// Parse splits s into its kind and pretty ref. It fails if s has no kind
// prefix or the kind is neither "app" nor "runtime".
func Parse(s string) (Ref, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return Ref{}, fmt.Errorf("ref %q: expected <kind>/<name>/<arch>/<branch>", s)
	}

	switch Kind(parts[0]) {
	case KindApp, KindRuntime:
		return Ref{kind: Kind(parts[0]), pref: parts[1]}, nil
	default:
		return Ref{}, fmt.Errorf("ref %q: unknown kind %q", s, parts[0])
	}
}

// New builds a Ref directly from a kind and a pretty ref, without a
// round trip through String/Parse.
func New(kind Kind, pref string) Ref {
	return Ref{kind: kind, pref: pref}
}

// Runtime builds the runtime/<pref> ref declared by an app's metadata.
func Runtime(pref string) Ref {
	return New(KindRuntime, pref)
}

// Kind returns the ref's kind.
func (r Ref) Kind() Kind { return r.kind }

// Pref returns the pretty ref: the ref with its kind prefix removed, as
// shown in user-facing messages.
func (r Ref) Pref() string { return r.pref }

// String returns the full kind-prefixed ref.
func (r Ref) String() string {
	if r.kind == "" && r.pref == "" {
		return ""
	}
	return string(r.kind) + "/" + r.pref
}

// IsZero reports whether r is the zero value, which can serve as a
// "no ref" sentinel.
func (r Ref) IsZero() bool {
	return r.kind == "" && r.pref == ""
}
