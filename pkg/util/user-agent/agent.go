// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package useragent

import (
	"fmt"
	"runtime"
	"strings"
)

var value string

// Value contains the client user agent sent with OCI registry requests.
//
// For example, "Flatpak/1.0.0 (Linux amd64) Go/1.10.3".
func Value() string {
	if value == "" {
		panic("useragent.InitValue() must be called before calling useragent.Value()")
	}

	return value
}

// InitValue sets the value that will be returned by Value.
func InitValue(name, version string) {
	value = fmt.Sprintf("%v (%v %v) %v",
		productVersion(name, version),
		strings.Title(runtime.GOOS),
		runtime.GOARCH,
		goVersion())
}

func productVersion(name, version string) string {
	product := strings.Title(name)
	ver := strings.Split(version, "-")[0]
	return fmt.Sprintf("%v/%v", product, ver)
}

func goVersion() string {
	version := strings.TrimPrefix(runtime.Version(), "go")
	return fmt.Sprintf("Go/%v", version)
}
