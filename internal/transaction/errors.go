// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package transaction

import "errors"

// ErrInvalidOciImage is returned by AddInstallOCI when the fetched
// manifest's annotations don't describe a usable flatpak ref.
var ErrInvalidOciImage = errors.New("oci image does not carry valid flatpak ref annotations")

// ErrMissingRuntime is returned when dependency expansion finds no remote
// offering a required runtime, or the user aborts the remote selection.
var ErrMissingRuntime = errors.New("required runtime is not available")

// ErrCatalogError wraps an error returned by the catalog collaborator
// during related-ref expansion. It is always recovered (logged as a
// warning); it is exported so tests can assert on it with errors.Is.
var ErrCatalogError = errors.New("catalog error")

// ErrDeployError wraps an error returned by the deploy engine during
// executor dispatch.
var ErrDeployError = errors.New("deploy error")

// ErrOperationsFailed is returned by Run in batch mode (StopOnFirstError
// false) when at least one fatal (non-NonFatal) op failed, after every op
// in the table has been attempted.
var ErrOperationsFailed = errors.New("one or more operations failed")

// ErrAlreadyRun is returned by Run if called more than once on the same
// Transaction.
var ErrAlreadyRun = errors.New("transaction has already been run")
