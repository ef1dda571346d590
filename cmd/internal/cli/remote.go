// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"fmt"
	"strings"

	"github.com/pkestene/flatpak/docs"
	"github.com/pkestene/flatpak/internal/pkg/catalog"
	"github.com/pkestene/flatpak/pkg/cmdline"
	"github.com/pkestene/flatpak/pkg/sylog"
	"github.com/spf13/cobra"
)

var remoteAddInsecure bool

// -i|--insecure
var remoteAddInsecureFlag = cmdline.Flag{
	ID:           "remoteAddInsecureFlag",
	Value:        &remoteAddInsecure,
	DefaultValue: false,
	Name:         "insecure",
	ShortHand:    "i",
	Usage:        "allow connection to an insecure http remote",
	EnvKeys:      []string{"ADD_INSECURE"},
}

func init() {
	addCmdInit(func(cmdManager *cmdline.CommandManager) {
		cmdManager.RegisterCmd(RemoteCmd)
		cmdManager.RegisterSubCmd(RemoteCmd, RemoteAddCmd)
		cmdManager.RegisterSubCmd(RemoteCmd, RemoteRemoveCmd)
		cmdManager.RegisterSubCmd(RemoteCmd, RemoteListCmd)

		cmdManager.RegisterFlagForCmd(&remoteAddInsecureFlag, RemoteAddCmd)
	})
}

// RemoteCmd flatpak remote [...]
var RemoteCmd = &cobra.Command{
	Run: nil,

	Use:     docs.RemoteUse,
	Short:   docs.RemoteShort,
	Long:    docs.RemoteLong,
	Example: docs.RemoteExample,

	DisableFlagsInUseLine: true,
}

// RemoteAddCmd flatpak remote add <name> <uri>
var RemoteAddCmd = &cobra.Command{
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		uri := args[1]

		insecure := remoteAddInsecure
		if strings.HasPrefix(uri, "https://") {
			sylog.Infof("--insecure ignored for https remote")
			insecure = false
		}
		if strings.HasPrefix(uri, "http://") && !insecure {
			return cmdline.FlagError("http URI requires --insecure or ADD_INSECURE=true")
		}

		cat := newCatalog(systemScope)
		fc, ok := cat.(*catalog.FileCatalog)
		if !ok {
			return fmt.Errorf("remote management requires the file-backed catalog")
		}
		if err := fc.AddRemote(name, &catalog.RemoteConfig{URI: uri, System: systemScope, Insecure: insecure}); err != nil {
			return cmdline.FlagError(err.Error())
		}
		sylog.Infof("Remote %q added.", name)
		return nil
	},

	Use:     docs.RemoteAddUse,
	Short:   docs.RemoteAddShort,
	Long:    docs.RemoteAddLong,
	Example: docs.RemoteAddExample,

	DisableFlagsInUseLine: true,
}

// RemoteRemoveCmd flatpak remote remove <name>
var RemoteRemoveCmd = &cobra.Command{
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cat := newCatalog(systemScope)
		fc, ok := cat.(*catalog.FileCatalog)
		if !ok {
			return fmt.Errorf("remote management requires the file-backed catalog")
		}
		if err := fc.RemoveRemote(name); err != nil {
			return cmdline.FlagError(err.Error())
		}
		sylog.Infof("Remote %q removed.", name)
		return nil
	},

	Use:     docs.RemoteRemoveUse,
	Short:   docs.RemoteRemoveShort,
	Long:    docs.RemoteRemoveLong,
	Example: docs.RemoteRemoveExample,

	DisableFlagsInUseLine: true,
}

// RemoteListCmd flatpak remote list
var RemoteListCmd = &cobra.Command{
	Args: cobra.ExactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		cat := newCatalog(systemScope)
		fc, ok := cat.(*catalog.FileCatalog)
		if !ok {
			sylog.Fatalf("remote management requires the file-backed catalog")
		}

		for _, name := range fc.Remotes() {
			r, err := fc.GetRemote(name)
			if err != nil {
				sylog.Fatalf("%s", err)
			}
			status := ""
			if r.Disabled {
				status = " (disabled)"
			}
			fmt.Printf("%s\t%s%s\n", name, r.URI, status)
		}
	},

	Use:     docs.RemoteListUse,
	Short:   docs.RemoteListShort,
	Long:    docs.RemoteListLong,
	Example: docs.RemoteListExample,

	DisableFlagsInUseLine: true,
}
