// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"context"
	"os"
	"os/signal"
	"text/template"

	"github.com/pkestene/flatpak/docs"
	"github.com/pkestene/flatpak/pkg/cmdline"
	"github.com/pkestene/flatpak/pkg/sylog"
	useragent "github.com/pkestene/flatpak/pkg/util/user-agent"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// PackageVersion is set at build time via -ldflags.
var PackageVersion = "0.0.0-dev"

// cmdInits holds all the init functions to be called for commands/flags
// registration, populated by each subcommand's own init().
var cmdInits = make([]func(*cmdline.CommandManager), 0)

func addCmdInit(cmdInit func(*cmdline.CommandManager)) {
	cmdInits = append(cmdInits, cmdInit)
}

// root command flags
var (
	debug          bool
	nocolor        bool
	silent         bool
	verbose        bool
	quiet          bool
	noninteractive bool
	systemScope    bool
)

var debugFlag = cmdline.Flag{
	ID:           "debugFlag",
	Value:        &debug,
	DefaultValue: false,
	Name:         "debug",
	ShortHand:    "d",
	Usage:        "print debugging information (highest verbosity)",
	EnvKeys:      []string{"DEBUG"},
}

var nocolorFlag = cmdline.Flag{
	ID:           "nocolorFlag",
	Value:        &nocolor,
	DefaultValue: false,
	Name:         "nocolor",
	Usage:        "print without color output",
}

var silentFlag = cmdline.Flag{
	ID:           "silentFlag",
	Value:        &silent,
	DefaultValue: false,
	Name:         "silent",
	ShortHand:    "s",
	Usage:        "only print errors",
}

var quietFlag = cmdline.Flag{
	ID:           "quietFlag",
	Value:        &quiet,
	DefaultValue: false,
	Name:         "quiet",
	ShortHand:    "q",
	Usage:        "suppress normal output",
}

var verboseFlag = cmdline.Flag{
	ID:           "verboseFlag",
	Value:        &verbose,
	DefaultValue: false,
	Name:         "verbose",
	ShortHand:    "v",
	Usage:        "print additional information",
}

var noninteractiveFlag = cmdline.Flag{
	ID:           "noninteractiveFlag",
	Value:        &noninteractive,
	DefaultValue: false,
	Name:         "noninteractive",
	Usage:        "never prompt; abort any operation that would otherwise ask a question",
	EnvKeys:      []string{"NONINTERACTIVE"},
}

var systemFlag = cmdline.Flag{
	ID:           "systemFlag",
	Value:        &systemScope,
	DefaultValue: false,
	Name:         "system",
	Usage:        "operate on the system-wide installation instead of the per-user one",
}

func setSylogMessageLevel() {
	var level int

	switch {
	case debug:
		level = int(sylog.DebugLevel)
	case verbose:
		level = int(sylog.VerboseLevel)
	case quiet:
		level = int(sylog.LogLevel)
	case silent:
		level = int(sylog.ErrorLevel)
	default:
		level = int(sylog.InfoLevel)
	}

	color := !nocolor && term.IsTerminal(2)
	sylog.SetLevel(level, color)
}

func persistentPreRun(cmd *cobra.Command, args []string) error {
	setSylogMessageLevel()
	sylog.Debugf("flatpak version: %s", PackageVersion)
	return nil
}

// flatpakCmd is the base command when called without any subcommands.
var flatpakCmd = &cobra.Command{
	TraverseChildren:      true,
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdline.CommandError("invalid command")
	},

	Use:           docs.FlatpakUse,
	Version:       PackageVersion,
	Short:         docs.FlatpakShort,
	Long:          docs.FlatpakLong,
	Example:       docs.FlatpakExample,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// RootCmd returns the root flatpak cobra command.
func RootCmd() *cobra.Command {
	return flatpakCmd
}

// TraverseParentsUses walks up cmd's parent chain to build the full "Use"
// line shown in help output.
func TraverseParentsUses(cmd *cobra.Command) string {
	if cmd.HasParent() {
		return TraverseParentsUses(cmd.Parent()) + " " + cmd.Use
	}
	return cmd.Use
}

// Init initializes and registers all flatpak commands.
func Init() *cmdline.CommandManager {
	cmdManager := cmdline.NewCommandManager(flatpakCmd)

	flatpakCmd.Flags().SetInterspersed(false)
	flatpakCmd.PersistentFlags().SetInterspersed(false)

	cobra.AddTemplateFuncs(template.FuncMap{
		"TraverseParentsUses": TraverseParentsUses,
	})

	flatpakCmd.SetHelpTemplate(docs.HelpTemplate)
	flatpakCmd.SetUsageTemplate(docs.UseTemplate)

	flatpakCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		foundKeys := make(map[string]string)
		if err := cmdManager.UpdateCmdFlagFromEnv(flatpakCmd, 0, foundKeys); err != nil {
			sylog.Fatalf("While parsing global environment variables: %s", err)
		}
		if err := cmdManager.UpdateCmdFlagFromEnv(cmd, 0, foundKeys); err != nil {
			sylog.Fatalf("While parsing environment variables: %s", err)
		}
		if err := persistentPreRun(cmd, args); err != nil {
			sylog.Fatalf("While initializing: %s", err)
		}
		return nil
	}

	cmdManager.RegisterFlagForCmd(&debugFlag, flatpakCmd)
	cmdManager.RegisterFlagForCmd(&nocolorFlag, flatpakCmd)
	cmdManager.RegisterFlagForCmd(&silentFlag, flatpakCmd)
	cmdManager.RegisterFlagForCmd(&quietFlag, flatpakCmd)
	cmdManager.RegisterFlagForCmd(&verboseFlag, flatpakCmd)
	cmdManager.RegisterFlagForCmd(&noninteractiveFlag, flatpakCmd)
	cmdManager.RegisterFlagForCmd(&systemFlag, flatpakCmd)

	useragent.InitValue("flatpak", PackageVersion)

	for _, cmdInit := range cmdInits {
		cmdInit(cmdManager)
	}

	if errs := cmdManager.GetError(); len(errs) > 0 {
		for _, e := range errs {
			sylog.Errorf("%s", e)
		}
		sylog.Fatalf("CLI command manager reported %d error(s)", len(errs))
	}

	return cmdManager
}

// ExecuteFlatpak adds all child commands to the root command and executes
// it. This is called by main.main(); it only needs to happen once.
func ExecuteFlatpak() {
	Init()

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	defer func() {
		signal.Stop(c)
		cancel()
	}()
	go func() {
		select {
		case <-c:
			sylog.Debugf("User requested cancellation with interrupt")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := flatpakCmd.ExecuteContext(ctx); err != nil {
		args := os.Args
		subCmd, _, subCmdErr := flatpakCmd.Find(args[1:])
		if subCmdErr != nil {
			flatpakCmd.Printf("Error: %v\n\n", subCmdErr)
			os.Exit(1)
		}

		name := subCmd.Name()
		switch err.(type) {
		case cmdline.FlagError:
			usage := subCmd.Flags().FlagUsages()
			flatpakCmd.Printf("Error for command %q: %s\n\n", name, err)
			flatpakCmd.Printf("Options for %s command:\n\n%s\n", name, usage)
		case cmdline.CommandError:
			flatpakCmd.Println(subCmd.UsageString())
		default:
			flatpakCmd.Printf("Error for command %q: %s\n\n", name, err)
		}
		os.Exit(1)
	}
}
