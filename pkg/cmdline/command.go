// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cmdline

import (
	"fmt"
	"os"

	"github.com/pkestene/flatpak/pkg/sylog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// CommandManager collects the flags registered against commands in a cobra
// command tree, and offers a second pass (UpdateCmdFlagFromEnv) to apply
// environment-variable overrides once cobra has parsed the command line.
type CommandManager struct {
	rootCmd  *cobra.Command
	cmdFlags map[*cobra.Command][]*Flag
	errPool  []error
}

// newCommandManager is the error-returning constructor used internally and
// by tests that want to assert on construction failure directly.
func newCommandManager(rootCmd *cobra.Command) (*CommandManager, error) {
	if rootCmd == nil {
		return nil, fmt.Errorf("a root command is required")
	}
	return &CommandManager{
		rootCmd:  rootCmd,
		cmdFlags: make(map[*cobra.Command][]*Flag),
		errPool:  make([]error, 0),
	}, nil
}

// NewCommandManager returns a CommandManager for rootCmd. A nil rootCmd is a
// programming error and is fatal.
func NewCommandManager(rootCmd *cobra.Command) *CommandManager {
	cm, err := newCommandManager(rootCmd)
	if err != nil {
		sylog.Fatalf("%s", err)
	}
	return cm
}

// RegisterCmd adds cmd as a child of the managed root command.
func (m *CommandManager) RegisterCmd(cmd *cobra.Command) {
	m.rootCmd.AddCommand(cmd)
}

// RegisterSubCmd adds sub as a child of parent, already itself registered
// somewhere in the managed command tree.
func (m *CommandManager) RegisterSubCmd(parent, sub *cobra.Command) {
	parent.AddCommand(sub)
}

// RegisterFlagForCmd registers flag against cmd's flag set. Registration
// failures (nil flag, nil command, or a Value/DefaultValue type mismatch)
// are recorded rather than panicking, so that Init can report every
// misconfigured flag in one pass via GetError.
func (m *CommandManager) RegisterFlagForCmd(flag *Flag, cmd *cobra.Command) {
	if flag == nil {
		m.errPool = append(m.errPool, fmt.Errorf("cannot register a nil flag"))
		return
	}
	if cmd == nil {
		m.errPool = append(m.errPool, fmt.Errorf("cannot register flag %q against a nil command", flag.Name))
		return
	}

	if err := bindFlag(cmd.Flags(), flag); err != nil {
		m.errPool = append(m.errPool, fmt.Errorf("flag %q: %w", flag.Name, err))
		return
	}

	if flag.Hidden {
		_ = cmd.Flags().MarkHidden(flag.Name)
	}
	if flag.Deprecated != "" {
		_ = cmd.Flags().MarkDeprecated(flag.Name, flag.Deprecated)
	}
	if flag.Required {
		_ = cmd.MarkFlagRequired(flag.Name)
	}

	m.cmdFlags[cmd] = append(m.cmdFlags[cmd], flag)
}

// GetError returns every error accumulated by RegisterFlagForCmd so far.
func (m *CommandManager) GetError() []error {
	return m.errPool
}

// UpdateCmdFlagFromEnv sets, for every flag registered against cmd that
// wasn't already set on the command line, the value of the first of its
// EnvKeys that is present in the environment. precedence distinguishes
// successive calls made for different environment variable sources (e.g.
// a config-file-derived environment versus the user's own shell
// environment); this implementation treats the process environment as its
// only source, so precedence is accepted for interface symmetry with a
// layered caller but otherwise unused. foundKeys records, across repeated
// calls for the same command, which environment variable ultimately won
// so that a lower-precedence pass does not clobber an earlier one.
func (m *CommandManager) UpdateCmdFlagFromEnv(cmd *cobra.Command, precedence int, foundKeys map[string]string) error {
	_ = precedence
	for _, flag := range m.cmdFlags[cmd] {
		if cmd.Flags().Changed(flag.Name) {
			continue
		}
		for _, key := range flag.EnvKeys {
			if _, already := foundKeys[key]; already {
				continue
			}
			val, ok := os.LookupEnv(key)
			if !ok {
				continue
			}
			if err := cmd.Flags().Set(flag.Name, val); err != nil {
				return fmt.Errorf("while setting flag %q from environment variable %q: %w", flag.Name, key, err)
			}
			foundKeys[key] = val
			break
		}
	}
	return nil
}

func bindFlag(fs *pflag.FlagSet, flag *Flag) error {
	switch v := flag.Value.(type) {
	case *string:
		dv, ok := flag.DefaultValue.(string)
		if !ok {
			return fmt.Errorf("default value is not a string")
		}
		fs.StringVarP(v, flag.Name, flag.ShortHand, dv, flag.Usage)
	case *bool:
		dv, ok := flag.DefaultValue.(bool)
		if !ok {
			return fmt.Errorf("default value is not a bool")
		}
		fs.BoolVarP(v, flag.Name, flag.ShortHand, dv, flag.Usage)
	case *[]string:
		dv, ok := flag.DefaultValue.([]string)
		if !ok {
			return fmt.Errorf("default value is not a []string")
		}
		fs.StringSliceVarP(v, flag.Name, flag.ShortHand, dv, flag.Usage)
	case *int:
		dv, ok := flag.DefaultValue.(int)
		if !ok {
			return fmt.Errorf("default value is not an int")
		}
		fs.IntVarP(v, flag.Name, flag.ShortHand, dv, flag.Usage)
	case *uint32:
		dv, ok := flag.DefaultValue.(uint32)
		if !ok {
			return fmt.Errorf("default value is not a uint32")
		}
		fs.Uint32VarP(v, flag.Name, flag.ShortHand, dv, flag.Usage)
	case *map[string]string:
		dv, ok := flag.DefaultValue.(map[string]string)
		if !ok {
			return fmt.Errorf("default value is not a map[string]string")
		}
		fs.StringToStringVarP(v, flag.Name, flag.ShortHand, dv, flag.Usage)
	default:
		return fmt.Errorf("unsupported flag value type %T", flag.Value)
	}
	return nil
}
