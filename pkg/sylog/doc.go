// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package sylog implements a basic leveled logger used throughout this
// module, with an on/off color prefix per level that, at debug level, also
// carries the uid, pid and calling function.
package sylog
