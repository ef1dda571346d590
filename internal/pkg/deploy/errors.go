// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package deploy

import "errors"

// ErrAlreadyInstalled is returned by Install for a ref already deployed in
// the target scope, and by Update when the requested commit is already
// the one deployed (the executor's update-noop case).
var ErrAlreadyInstalled = errors.New("already installed")

// ErrNotInstalled is returned by Update, Origin and Commit for a ref that
// is not currently deployed.
var ErrNotInstalled = errors.New("not installed")
