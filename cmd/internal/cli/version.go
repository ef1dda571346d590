// Copyright (c) Contributors to the Flatpak project.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"fmt"

	"github.com/pkestene/flatpak/docs"
	"github.com/pkestene/flatpak/pkg/cmdline"
	"github.com/spf13/cobra"
)

func init() {
	addCmdInit(func(cmdManager *cmdline.CommandManager) {
		cmdManager.RegisterCmd(VersionCmd)
	})
}

// VersionCmd flatpak version
var VersionCmd = &cobra.Command{
	Args:                  cobra.ExactArgs(0),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(PackageVersion)
	},

	Use:     docs.VersionUse,
	Short:   docs.VersionShort,
	Long:    docs.VersionLong,
	Example: docs.VersionExample,
}
