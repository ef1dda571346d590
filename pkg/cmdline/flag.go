// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package cmdline provides infrastructure to register cobra/pflag command
// line flags declaratively, with support for setting their value from an
// environment variable at persistent-pre-run time.
package cmdline

// Flag holds information about a command line flag, declared once and
// registered against one or more cobra commands via a CommandManager.
type Flag struct {
	// ID uniquely identifies the flag across the whole command tree.
	ID string
	// Value is a pointer to the variable the flag's value is stored into.
	// Supported pointer types: *string, *bool, *[]string, *int, *uint32,
	// *map[string]string.
	Value interface{}
	// DefaultValue must be assignable to the type pointed to by Value.
	DefaultValue interface{}

	Name      string
	ShortHand string
	Usage     string

	// EnvKeys lists environment variable names consulted, in order, to set
	// the flag's value when it hasn't been set on the command line.
	EnvKeys []string

	Deprecated string
	Hidden     bool
	Required   bool
}

// FlagError is returned by a command's RunE when invalid flag values were
// supplied; ExecuteFlatpak renders it together with the command's flag
// usage instead of the generic error message.
type FlagError string

func (e FlagError) Error() string { return string(e) }

// CommandError is returned by a command's RunE when the command itself is
// invalid (e.g. the user ran a group command with no subcommand);
// ExecuteFlatpak renders it together with the command's usage string.
type CommandError string

func (e CommandError) Error() string { return string(e) }
