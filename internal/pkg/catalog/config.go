// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package catalog is the remote/metadata collaborator consulted by the
// transaction's Expander: which remotes exist, whether they're disabled,
// what a ref's declared runtime dependency is, and what refs are "related"
// to an app. Remote persistence follows the same YAML
// ReadFrom/WriteTo/truncate-and-rewrite shape as the teacher's remote.Config.
package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoDefault indicates no default remote is set.
var ErrNoDefault = fmt.Errorf("no default remote")

// RemoteConfig describes a single catalog remote.
type RemoteConfig struct {
	URI       string `yaml:"URI,omitempty"`
	System    bool   `yaml:"System"`
	Exclusive bool   `yaml:"Exclusive"`
	Insecure  bool   `yaml:"Insecure,omitempty"`
	// Disabled marks a remote temporarily unusable without removing it.
	// An update whose resolved origin is disabled is silently skipped.
	Disabled bool `yaml:"Disabled,omitempty"`
	// Tag pins an OCI-image-backed remote to a specific tag (set by
	// CreateOriginRemote for an "install from OCI image" request).
	Tag string `yaml:"Tag,omitempty"`
}

// Config stores the set of known remotes.
type Config struct {
	DefaultRemote string                   `yaml:"Active"`
	Remotes       map[string]*RemoteConfig `yaml:"Remotes"`

	system bool
}

// ReadFrom decodes a remote configuration from r, tolerating an empty
// file and rejecting unknown fields.
func ReadFrom(r io.Reader) (*Config, error) {
	c := &Config{Remotes: make(map[string]*RemoteConfig)}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read from io.Reader: %s", err)
	}
	if len(b) == 0 {
		return c, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("failed to decode YAML data from io.Reader: %s", err)
	}
	if c.Remotes == nil {
		c.Remotes = make(map[string]*RemoteConfig)
	}
	return c, nil
}

// WriteTo encodes c as YAML to w.
func (c *Config) WriteTo(w io.Writer) (int64, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal catalog config to yaml: %s", err)
	}
	n, err := w.Write(b)
	if err != nil {
		return 0, fmt.Errorf("failed to write catalog config: %s", err)
	}
	return int64(n), nil
}

// Add registers a new remote. Fails if name already exists.
func (c *Config) Add(name string, e *RemoteConfig) error {
	if _, ok := c.Remotes[name]; ok {
		return fmt.Errorf("%s is already a remote", name)
	}
	c.Remotes[name] = e
	return nil
}

// Remove deletes a remote. Fails if it does not exist, or if it is a
// system remote being removed from a user-scope config.
func (c *Config) Remove(name string) error {
	r, ok := c.Remotes[name]
	if !ok {
		return fmt.Errorf("%s is not a remote", name)
	}
	if r.System && !c.system {
		return fmt.Errorf("%s is global and can't be removed", name)
	}
	if c.DefaultRemote == name {
		c.DefaultRemote = ""
	}
	delete(c.Remotes, name)
	return nil
}

// GetRemote returns the named remote, or an error if it does not exist.
func (c *Config) GetRemote(name string) (*RemoteConfig, error) {
	r, ok := c.Remotes[name]
	if !ok {
		return nil, fmt.Errorf("%s is not a remote", name)
	}
	return r, nil
}

// SetDefault sets the default remote.
func (c *Config) SetDefault(name string) error {
	if _, ok := c.Remotes[name]; !ok {
		return fmt.Errorf("%s is not a remote", name)
	}
	c.DefaultRemote = name
	return nil
}

// GetDefault returns the default remote, or ErrNoDefault if unset.
func (c *Config) GetDefault() (*RemoteConfig, error) {
	if c.DefaultRemote == "" {
		return nil, ErrNoDefault
	}
	return c.GetRemote(c.DefaultRemote)
}

// Rename renames an existing remote.
func (c *Config) Rename(name, newName string) error {
	if _, ok := c.Remotes[name]; !ok {
		return fmt.Errorf("%s is not a remote", name)
	}
	if _, ok := c.Remotes[newName]; ok {
		return fmt.Errorf("%s is already a remote", newName)
	}
	if c.DefaultRemote == name {
		c.DefaultRemote = newName
	}
	c.Remotes[newName] = c.Remotes[name]
	delete(c.Remotes, name)
	return nil
}

// readConfigFile opens path read-write (creating it if absent) and decodes
// it, marking it as the system config when system is true.
func readConfigFile(path string, system bool) (*os.File, *Config, error) {
	perm := os.FileMode(0o600)
	if system {
		perm = os.FileMode(0o644)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, perm)
	if err != nil {
		return nil, nil, fmt.Errorf("while opening catalog config %s: %s", path, err)
	}
	c, err := ReadFrom(file)
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	c.system = system
	return file, c, nil
}

// saveConfigFile truncates file, rewinds it and writes c, syncing to commit.
func saveConfigFile(file *os.File, c *Config) error {
	if err := file.Truncate(0); err != nil {
		return fmt.Errorf("while truncating catalog config %s: %s", file.Name(), err)
	}
	if n, err := file.Seek(0, io.SeekStart); err != nil || n != 0 {
		return fmt.Errorf("failed to reset %s cursor: %s", file.Name(), err)
	}
	if _, err := c.WriteTo(file); err != nil {
		return err
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to flush catalog config %s: %s", file.Name(), err)
	}
	return nil
}
