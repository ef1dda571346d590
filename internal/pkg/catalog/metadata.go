// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package catalog

import (
	"gopkg.in/ini.v1"
)

// ParseRuntimeDependency extracts the "runtime=" key of the "[Application]"
// section of a ref's metadata keyfile, flatpak's own ref-info format. ok is
// false if the key is absent, which the Expander treats as "no declared
// runtime dependency" rather than an error.
func ParseRuntimeDependency(metadata []byte) (pref string, ok bool, err error) {
	f, err := ini.Load(metadata)
	if err != nil {
		return "", false, err
	}

	if !f.HasSection("Application") {
		return "", false, nil
	}
	key, err := f.Section("Application").GetKey("runtime")
	if err != nil {
		return "", false, nil
	}

	v := key.String()
	if v == "" {
		return "", false, nil
	}
	return v, true, nil
}
