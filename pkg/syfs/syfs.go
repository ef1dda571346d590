// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package syfs provides functions to access this tool's file system layout.
package syfs

import (
	"os"
	"os/user"
	"path/filepath"
	"sync"

	"github.com/pkestene/flatpak/pkg/sylog"
)

// Configuration files/directories.
const (
	RemoteConfFile = "remotes.yaml"
	RemoteCacheDir = "remote-cache"
	RefCacheDir    = "ref-cache"
	DeployFile     = "installations.yaml"
	configDirName  = ".flatpak"
)

// cache contains the information for the current user
var cache struct {
	sync.Once
	configDir string
}

// ConfigDir returns the directory where the user configuration and
// deployment state is located.
func ConfigDir() string {
	cache.Do(func() {
		cache.configDir = configDir(configDirName)
		sylog.Debugf("Using config directory %q", cache.configDir)
	})

	return cache.configDir
}

func configDir(dir string) string {
	if v := os.Getenv("FLATPAK_CONFIGDIR"); v != "" {
		return v
	}

	homedir := os.Getenv("HOME")
	if homedir == "" {
		u, err := user.Current()
		if err != nil {
			sylog.Warningf("Could not lookup the current user's information: %s", err)

			cwd, err := os.Getwd()
			if err != nil {
				sylog.Warningf("Could not get current working directory: %s", err)
				return dir
			}
			homedir = cwd
		} else {
			homedir = u.HomeDir
		}
	}

	return filepath.Join(homedir, dir)
}

// RemoteConf returns the path to the user remote configuration file.
func RemoteConf() string {
	return filepath.Join(ConfigDir(), RemoteConfFile)
}

// RemoteCache returns the directory used to cache per-remote service
// discovery data, keyed by a slug of the remote's URI.
func RemoteCache() string {
	return filepath.Join(ConfigDir(), RemoteCacheDir)
}

// RefCache returns the directory used to cache per-ref metadata fetched
// from remotes, consulted by the catalog's dependency expansion.
func RefCache() string {
	return filepath.Join(ConfigDir(), RefCacheDir)
}

// DeployConf returns the path to the local deploy store's ledger file.
func DeployConf() string {
	return filepath.Join(ConfigDir(), DeployFile)
}

// SystemConfigDir returns the directory holding the system-scope
// configuration and deployment state, shared by all users.
func SystemConfigDir() string {
	if v := os.Getenv("FLATPAK_SYSCONFDIR"); v != "" {
		return v
	}
	return "/etc/flatpak"
}

// SystemRemoteConf returns the path to the system remote configuration file.
func SystemRemoteConf() string {
	return filepath.Join(SystemConfigDir(), RemoteConfFile)
}

// SystemDeployConf returns the path to the system-scope deploy store's
// ledger file.
func SystemDeployConf() string {
	return filepath.Join(SystemConfigDir(), DeployFile)
}
