// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package ociregistry

import (
	"sync"

	dockerconfig "github.com/containers/image/v5/pkg/docker/config"
	"github.com/containers/image/v5/types"
	"github.com/docker/cli/cli/config"
	dockertypes "github.com/docker/cli/cli/config/types"
	"github.com/google/go-containerregistry/pkg/authn"
)

const (
	dockerHubRegistry      = "index.docker.io"
	dockerHubRegistryAlias = "docker.io"
	dockerHubAuthKey       = "https://index.docker.io/v1/"
)

// flatpakKeychain resolves registry credentials the same way docker/cli and
// containers/image both would: docker/cli's default config.json first (it
// already knows every place a user might have `docker login`-ed), falling
// back to containers/image's own auth.json lookup so a login performed via
// `skopeo`/`podman`-style tooling is honored too.
type flatpakKeychain struct {
	mu sync.Mutex
}

func (k *flatpakKeychain) Resolve(target authn.Resource) (authn.Authenticator, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if a := k.fromDockerConfig(target); a != nil {
		return a, nil
	}
	if a := k.fromContainersAuth(target); a != nil {
		return a, nil
	}
	return authn.Anonymous, nil
}

func (k *flatpakKeychain) fromDockerConfig(target authn.Resource) authn.Authenticator {
	cf, err := config.Load("")
	if err != nil {
		return nil
	}

	var cfg, empty dockertypes.AuthConfig
	for _, key := range []string{target.String(), target.RegistryStr()} {
		if key == dockerHubRegistry || key == dockerHubRegistryAlias {
			key = dockerHubAuthKey
		}
		cfg, err = cf.GetAuthConfig(key)
		if err != nil {
			return nil
		}
		cfg.ServerAddress = ""
		if cfg != empty {
			break
		}
	}
	if cfg == empty {
		return nil
	}
	return authn.FromConfig(authn.AuthConfig{
		Username:      cfg.Username,
		Password:      cfg.Password,
		Auth:          cfg.Auth,
		IdentityToken: cfg.IdentityToken,
		RegistryToken: cfg.RegistryToken,
	})
}

func (k *flatpakKeychain) fromContainersAuth(target authn.Resource) authn.Authenticator {
	sys := &types.SystemContext{}
	username, password, err := dockerconfig.GetCredentials(sys, target.RegistryStr())
	if err != nil || username == "" {
		return nil
	}
	return authn.FromConfig(authn.AuthConfig{Username: username, Password: password})
}
